package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dcastano/leadboard/internal/campaign"
	"github.com/dcastano/leadboard/internal/config"
	"github.com/dcastano/leadboard/internal/dates"
	"github.com/dcastano/leadboard/internal/httpx"
	"github.com/dcastano/leadboard/internal/ingest"
	"github.com/dcastano/leadboard/internal/metrics"
	"github.com/dcastano/leadboard/internal/normalize"
	"github.com/dcastano/leadboard/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	resolver := dates.NewResolver(cfg.YearDefault, cfg.YearDecember)
	regions := normalize.NewRegionMapper(cfg.RegionTargetKeywords, cfg.RegionNearbyKeywords)

	st := store.NewMemoryStore()
	ing := ingest.NewService(st, logger,
		ingest.LeadMapper{Dates: resolver, Regions: regions},
		ingest.MarketingMapper{Dates: resolver})
	mSvc := metrics.NewService(st, cfg.GeoMinCount)
	cSvc := campaign.NewService(st, regions)

	r := httpx.NewRouter(logger, ing, mSvc, cSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
