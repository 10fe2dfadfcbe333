package ingest

import (
	"sort"
	"strings"

	"github.com/dcastano/leadboard/internal/dates"
	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/money"
	"github.com/dcastano/leadboard/internal/normalize"
)

// Marker and data columns of the three marketing schemas.
const (
	colReportStart = "Inicio del informe"
	colAdName      = "Nombre del anuncio"
	colSpendPrefix = "Importe gastado" // suffix varies: (EUR), (USD), ...
	colReach       = "Alcance"
	colAdRegion    = "Región"

	colCirculation = "FECHA CIRCULACION"
	colComments    = "COMENTARIOS"
	colCampType    = "TIPO"
	colInvestment  = "INVERSION"

	colGenDate     = "fecha"
	colGenName     = "nombre"
	colGenType     = "tipo"
	colGenPlatform = "plataforma"
	colGenSpend    = "inversion"
)

// DetectSchema inspects the header set and picks exactly one interpretation
// strategy for the whole file. First match wins; row content never matters.
func DetectSchema(t *Table) models.SchemaKind {
	if t.Has(colReportStart) && t.Has(colAdName) {
		return models.SchemaAdReport
	}
	if t.Has(colCirculation) {
		return models.SchemaActiveCampaigns
	}
	return models.SchemaGeneric
}

// MarketingMapper applies the detected schema strategy uniformly to a file.
type MarketingMapper struct {
	Dates dates.Resolver
}

func (m MarketingMapper) Map(t *Table) models.MarketingData {
	switch DetectSchema(t) {
	case models.SchemaAdReport:
		return m.mapAdReport(t)
	case models.SchemaActiveCampaigns:
		return m.mapActiveCampaigns(t)
	}
	return m.mapGeneric(t)
}

// mapAdReport handles per-day ad exports: one row per ad per day per region.
// Ads roll up to a single event (earliest date, summed spend); the per-day
// tables are kept for the reconciler. Rows without a resolvable date or an ad
// name are dropped.
func (m MarketingMapper) mapAdReport(t *Table) models.MarketingData {
	spendCol := t.HeaderWithPrefix(colSpendPrefix)

	type rollup struct {
		first string
		spend float64
	}
	rollups := map[string]*rollup{}
	spendDaily := map[[2]string]float64{}
	reachDaily := map[[2]string]int{}
	regionDaily := map[[3]string]int{}

	for i := range t.Rows {
		date := m.Dates.Resolve(t.Cell(i, colReportStart))
		name := strings.TrimSpace(t.Cell(i, colAdName))
		if date == "" || name == "" {
			continue
		}
		spend := money.ParseAmount(t.Cell(i, spendCol))
		reach := int(money.ParseAmount(t.Cell(i, colReach)))
		region := strings.TrimSpace(t.Cell(i, colAdRegion))

		ru, ok := rollups[name]
		if !ok {
			ru = &rollup{first: date}
			rollups[name] = ru
		}
		if date < ru.first {
			ru.first = date
		}
		ru.spend += spend

		spendDaily[[2]string{date, name}] += spend
		reachDaily[[2]string{date, name}] += reach
		regionDaily[[3]string{date, name, region}] += reach
	}

	data := models.MarketingData{Schema: models.SchemaAdReport}
	for name, ru := range rollups {
		data.Events = append(data.Events, models.MarketingEvent{
			DateISO:    ru.first,
			Name:       name,
			Type:       adTypeFromName(name),
			Platform:   "Meta",
			Investment: ru.spend,
		})
	}
	for k, v := range spendDaily {
		data.DailySpend = append(data.DailySpend, models.DailySpendRow{DateISO: k[0], Name: k[1], Spend: v})
	}
	for k, v := range reachDaily {
		data.DailyReach = append(data.DailyReach, models.DailyReachRow{DateISO: k[0], Name: k[1], Reach: v})
	}
	for k, v := range regionDaily {
		data.DailyRegionReach = append(data.DailyRegionReach, models.DailyRegionReachRow{DateISO: k[0], Name: k[1], Region: k[2], Reach: v})
	}
	sortMarketing(&data)
	return data
}

// mapActiveCampaigns handles the hand-maintained campaign sheet: one record
// per row, free type label, fixed platform.
func (m MarketingMapper) mapActiveCampaigns(t *Table) models.MarketingData {
	data := models.MarketingData{Schema: models.SchemaActiveCampaigns}
	for i := range t.Rows {
		date := m.Dates.Resolve(t.Cell(i, colCirculation))
		name := strings.TrimSpace(t.Cell(i, colComments))
		if date == "" || name == "" {
			continue
		}
		typ := models.CampaignType(strings.TrimSpace(t.Cell(i, colCampType)))
		if typ == "" {
			typ = models.CampaignDefault
		}
		data.Events = append(data.Events, models.MarketingEvent{
			DateISO:    date,
			Name:       name,
			Type:       typ,
			Platform:   "Meta",
			Investment: money.ParseAmount(t.Cell(i, colInvestment)),
		})
	}
	sortMarketing(&data)
	return data
}

// mapGeneric is the fallback strategy: generic columns, type normalized into
// the fixed enumeration.
func (m MarketingMapper) mapGeneric(t *Table) models.MarketingData {
	data := models.MarketingData{Schema: models.SchemaGeneric}
	for i := range t.Rows {
		date := m.Dates.Resolve(t.Cell(i, colGenDate))
		name := strings.TrimSpace(t.Cell(i, colGenName))
		if date == "" || name == "" {
			continue
		}
		data.Events = append(data.Events, models.MarketingEvent{
			DateISO:    date,
			Name:       name,
			Type:       campaignTypeFromLabel(t.Cell(i, colGenType)),
			Platform:   strings.TrimSpace(t.Cell(i, colGenPlatform)),
			Investment: money.ParseAmount(t.Cell(i, colGenSpend)),
		})
	}
	sortMarketing(&data)
	return data
}

// adTypeFromName infers an ad's intent from keywords in its name.
func adTypeFromName(name string) models.CampaignType {
	n := normalize.Fold(name)
	switch {
	case strings.Contains(n, "visita") || strings.Contains(n, "visit"):
		return models.CampaignVisits
	case strings.Contains(n, "segui") || strings.Contains(n, "follow"):
		return models.CampaignFollowers
	case strings.Contains(n, "marca") || strings.Contains(n, "brand"):
		return models.CampaignBranding
	case strings.Contains(n, "lead"):
		return models.CampaignLeads
	}
	return models.CampaignDefault
}

// campaignTypeFromLabel normalizes a free type label into the enumeration.
func campaignTypeFromLabel(label string) models.CampaignType {
	l := normalize.Fold(label)
	switch {
	case strings.Contains(l, "lead"):
		return models.CampaignLeads
	case strings.Contains(l, "marca") || strings.Contains(l, "brand"):
		return models.CampaignBranding
	case strings.Contains(l, "visita") || strings.Contains(l, "visit"):
		return models.CampaignVisits
	case strings.Contains(l, "segui") || strings.Contains(l, "follow"):
		return models.CampaignFollowers
	case strings.Contains(l, "organic"):
		return models.CampaignOrganic
	case strings.Contains(l, "pauta") || strings.Contains(l, "paid"):
		return models.CampaignPaidMedia
	case strings.Contains(l, "evento") || strings.Contains(l, "event"):
		return models.CampaignEvent
	case strings.Contains(l, "email") || strings.Contains(l, "mail"):
		return models.CampaignEmail
	case strings.Contains(l, "offline"):
		return models.CampaignOffline
	}
	return models.CampaignDefault
}

// sortMarketing gives every collection a deterministic order: date, then
// name, then region.
func sortMarketing(d *models.MarketingData) {
	sort.Slice(d.Events, func(i, j int) bool {
		if d.Events[i].DateISO != d.Events[j].DateISO {
			return d.Events[i].DateISO < d.Events[j].DateISO
		}
		return d.Events[i].Name < d.Events[j].Name
	})
	sort.Slice(d.DailySpend, func(i, j int) bool {
		if d.DailySpend[i].DateISO != d.DailySpend[j].DateISO {
			return d.DailySpend[i].DateISO < d.DailySpend[j].DateISO
		}
		return d.DailySpend[i].Name < d.DailySpend[j].Name
	})
	sort.Slice(d.DailyReach, func(i, j int) bool {
		if d.DailyReach[i].DateISO != d.DailyReach[j].DateISO {
			return d.DailyReach[i].DateISO < d.DailyReach[j].DateISO
		}
		return d.DailyReach[i].Name < d.DailyReach[j].Name
	})
	sort.Slice(d.DailyRegionReach, func(i, j int) bool {
		a, b := d.DailyRegionReach[i], d.DailyRegionReach[j]
		if a.DateISO != b.DateISO {
			return a.DateISO < b.DateISO
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Region < b.Region
	})
}
