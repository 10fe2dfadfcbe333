package httpx

import (
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcastano/leadboard/internal/campaign"
	"github.com/dcastano/leadboard/internal/ingest"
	"github.com/dcastano/leadboard/internal/metrics"
	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/normalize"
	"github.com/dcastano/leadboard/internal/utils"
)

func NewRouter(log *slog.Logger, ing *ingest.Service, mSvc *metrics.Service, cSvc *campaign.Service) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/ingest/leads", func(w http.ResponseWriter, r *http.Request) {
		name, body, err := uploadBody(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer body.Close()
		n, err := ing.IngestLeads(name, body)
		if err != nil {
			// la colección anterior sigue activa
			http.Error(w, "ingestion failed: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		render.JSON(w, r, map[string]any{"rows": n})
	})

	mux.Post("/ingest/marketing", func(w http.ResponseWriter, r *http.Request) {
		name, body, err := uploadBody(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer body.Close()
		schema, n, err := ing.IngestMarketing(name, body)
		if err != nil {
			http.Error(w, "ingestion failed: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		render.JSON(w, r, map[string]any{"schema": schema, "events": n})
	})

	mux.Route("/api", func(api chi.Router) {
		api.Get("/funnel", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.Funnel(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/agents", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.Agents(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/provinces", func(w http.ResponseWriter, r *http.Request) {
			stage := models.StageQuote
			if q := r.URL.Query().Get("stage"); q != "" {
				stage = normalize.Stage(q)
			}
			render.JSON(w, r, mSvc.ProvincesByStage(metrics.ParseFilter(r.URL.Query()), stage))
		})
		api.Get("/breakdown/geo", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.Geo(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/regions", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.Regions(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/visits", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, map[string]any{
				"by_type":  mSvc.Visits(metrics.ParseFilter(r.URL.Query())),
				"by_agent": mSvc.VisitsByAgent(metrics.ParseFilter(r.URL.Query())),
			})
		})
		api.Get("/breakdown/monthly", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.MonthlyTrend(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/social", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.SocialByMonth(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/weekday", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.WeeklyRhythm(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/breakdown/quality", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.Quality(metrics.ParseFilter(r.URL.Query())))
		})
		api.Get("/options", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, mSvc.Options())
		})
		api.Get("/campaign", func(w http.ResponseWriter, r *http.Request) {
			name := r.URL.Query().Get("campaign")
			render.JSON(w, r, cSvc.Report(metrics.ParseFilter(r.URL.Query()), name))
		})
		api.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
			limit := atoiDef(r.URL.Query().Get("limit"), 100)
			offset := atoiDef(r.URL.Query().Get("offset"), 0)
			if limit > 1000 {
				limit = 1000 // tope sano
			}
			rows := mSvc.Records(metrics.ParseFilter(r.URL.Query()))
			render.JSON(w, r, map[string]any{
				"total": len(rows),
				"rows":  metrics.Paginate(rows, limit, offset),
			})
		})
	})

	mux.Get("/export/funnel.csv", func(w http.ResponseWriter, r *http.Request) {
		rep := mSvc.Funnel(metrics.ParseFilter(r.URL.Query()))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="funnel.csv"`)
		cw := csv.NewWriter(w)
		cw.Write([]string{"metric", "value"})
		cw.Write([]string{"leads", strconv.Itoa(rep.Leads)})
		cw.Write([]string{"quotes", strconv.Itoa(rep.Quotes)})
		cw.Write([]string{"offers", strconv.Itoa(rep.Offers)})
		cw.Write([]string{"sales", strconv.Itoa(rep.Sales)})
		cw.Write([]string{"visits", strconv.Itoa(rep.Visits)})
		cw.Write([]string{"conv_lead_to_quote", fmtFloat(rep.ConvLeadToQuote)})
		cw.Write([]string{"conv_quote_to_offer", fmtFloat(rep.ConvQuoteToOffer)})
		cw.Write([]string{"conv_offer_to_sale", fmtFloat(rep.ConvOfferToSale)})
		cw.Write([]string{"top_province", rep.TopProvince})
		cw.Flush()
	})

	return mux
}

// uploadBody accepts either a multipart "file" part or a raw body with a
// ?filename= hint; the filename decides workbook vs delimited decoding.
func uploadBody(r *http.Request) (string, io.ReadCloser, error) {
	if err := r.ParseMultipartForm(32 << 20); err == nil {
		if f, hdr, ferr := r.FormFile("file"); ferr == nil {
			return hdr.Filename, f, nil
		}
	}
	return r.URL.Query().Get("filename"), r.Body, nil
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) }
