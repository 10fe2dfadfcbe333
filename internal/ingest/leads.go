package ingest

import (
	"strings"

	"github.com/dcastano/leadboard/internal/dates"
	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/normalize"
)

// Lead-log column names as the sheet exports them.
const (
	colAgent     = "AGENTE"
	colPlatform  = "platform"
	colProvince  = "Provincia Detectada"
	colEventType = "Tipo de Evento"
	colDate      = "fecha"
	colVisits    = "VISITAS"
)

// LeadMapper turns decoded lead-log rows into normalized records. Mapping is
// total: every row yields a record, and unparseable fields resolve to their
// defaults instead of dropping the row.
type LeadMapper struct {
	Dates   dates.Resolver
	Regions normalize.RegionMapper
}

func (m LeadMapper) Map(t *Table) []models.LeadRecord {
	out := make([]models.LeadRecord, 0, len(t.Rows))
	for i := range t.Rows {
		province := normalize.Province(t.Cell(i, colProvince))
		eventType := strings.TrimSpace(t.Cell(i, colEventType))
		rawDate := strings.TrimSpace(t.Cell(i, colDate))
		out = append(out, models.LeadRecord{
			Agent:     normalize.Agent(t.Cell(i, colAgent)),
			Platform:  normalize.Platform(t.Cell(i, colPlatform)),
			Province:  province,
			Region:    m.Regions.Map(province),
			EventType: eventType,
			Stage:     normalize.Stage(eventType),
			Visit:     normalize.Visit(t.Cell(i, colVisits)),
			RawDate:   rawDate,
			ISODate:   m.Dates.Resolve(rawDate),
		})
	}
	return out
}
