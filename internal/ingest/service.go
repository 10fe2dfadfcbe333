package ingest

import (
	"io"
	"log/slog"

	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/store"
	"github.com/dcastano/leadboard/internal/utils"
)

// Service runs the two ingestion pipelines. Ingestion is all-or-nothing: the
// store is only touched after the whole file parsed, so a bad upload leaves
// the previous snapshot active.
type Service struct {
	st        *store.MemoryStore
	log       *slog.Logger
	leads     LeadMapper
	marketing MarketingMapper
}

func NewService(st *store.MemoryStore, log *slog.Logger, leads LeadMapper, marketing MarketingMapper) *Service {
	return &Service{st: st, log: log, leads: leads, marketing: marketing}
}

// IngestLeads replaces the lead snapshot from an uploaded file and returns
// the number of records loaded.
func (s *Service) IngestLeads(filename string, r io.Reader) (int, error) {
	t, err := ReadTable(filename, r)
	if err != nil {
		utils.IngestFailures.WithLabelValues("leads").Inc()
		return 0, err
	}
	rows := s.leads.Map(t)
	s.st.ReplaceLeads(rows)
	utils.IngestRows.WithLabelValues("leads").Add(float64(len(rows)))
	s.log.Info("leads ingested", slog.String("file", filename), slog.Int("rows", len(rows)))
	return len(rows), nil
}

// IngestMarketing replaces the marketing snapshot and reports which schema
// strategy was detected.
func (s *Service) IngestMarketing(filename string, r io.Reader) (models.SchemaKind, int, error) {
	t, err := ReadTable(filename, r)
	if err != nil {
		utils.IngestFailures.WithLabelValues("marketing").Inc()
		return "", 0, err
	}
	data := s.marketing.Map(t)
	s.st.ReplaceMarketing(data)
	utils.IngestRows.WithLabelValues("marketing").Add(float64(len(data.Events)))
	s.log.Info("marketing ingested",
		slog.String("file", filename),
		slog.String("schema", string(data.Schema)),
		slog.Int("events", len(data.Events)))
	return data.Schema, len(data.Events), nil
}
