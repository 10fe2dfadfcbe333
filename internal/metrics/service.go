// Package metrics computes every aggregate view over the lead snapshot. All
// computations are pure functions of (records, filter): nothing here carries
// state between calls, and each breakdown re-derives its own counts so the
// views stay independent of each other.
package metrics

import (
	"sort"

	"github.com/dcastano/leadboard/internal/dates"
	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/normalize"
	"github.com/dcastano/leadboard/internal/store"
)

// Service reads the lead snapshot and serves aggregate views.
type Service struct {
	st *store.MemoryStore
	// geoMinCount is the low-cardinality suppression threshold for the
	// geography chart.
	geoMinCount int
}

func NewService(st *store.MemoryStore, geoMinCount int) *Service {
	return &Service{st: st, geoMinCount: geoMinCount}
}

func (s *Service) Funnel(f Filter) models.FunnelReport {
	return Funnel(s.st.Leads(), f)
}
func (s *Service) Agents(f Filter) []models.AgentRow {
	return Agents(s.st.Leads(), f)
}
func (s *Service) ProvincesByStage(f Filter, stage models.Stage) []models.CountRow {
	return ProvincesByStage(s.st.Leads(), f, stage)
}
func (s *Service) Geo(f Filter) []models.CountRow {
	return Geo(s.st.Leads(), f, s.geoMinCount)
}
func (s *Service) Regions(f Filter) []models.CountRow {
	return Regions(s.st.Leads(), f)
}
func (s *Service) Visits(f Filter) []models.CountRow {
	return Visits(s.st.Leads(), f)
}
func (s *Service) VisitsByAgent(f Filter) []models.CountRow {
	return VisitsByAgent(s.st.Leads(), f)
}
func (s *Service) MonthlyTrend(f Filter) []models.CountRow {
	return MonthlyTrend(s.st.Leads(), f)
}
func (s *Service) SocialByMonth(f Filter) []models.MonthPlatformRow {
	return SocialByMonth(s.st.Leads(), f)
}
func (s *Service) WeeklyRhythm(f Filter) []models.CountRow {
	return WeeklyRhythm(s.st.Leads(), f)
}
func (s *Service) Quality(f Filter) []models.QualityRow {
	return Quality(s.st.Leads(), f)
}
func (s *Service) Options() models.FilterOptions {
	return Options(s.st.Leads())
}
func (s *Service) Records(f Filter) []models.LeadRecord {
	return f.Apply(s.st.Leads())
}

// Funnel computes the cumulative stage totals. A sale passed through quote
// and offer on its way, so it counts in every upstream stage; every filtered
// record counts as a lead. That keeps leads >= quotes >= offers >= sales by
// construction.
func Funnel(rows []models.LeadRecord, f Filter) models.FunnelReport {
	filtered := f.Apply(rows)

	var nQuote, nOffer, nSale, visits int
	provinces := map[string]int{}
	for _, r := range filtered {
		switch r.Stage {
		case models.StageQuote:
			nQuote++
		case models.StageOffer:
			nOffer++
		case models.StageSale:
			nSale++
		}
		if r.Visit != models.VisitNone {
			visits++
		}
		provinces[r.Province]++
	}

	rep := models.FunnelReport{
		Leads:  len(filtered),
		Sales:  nSale,
		Visits: visits,
	}
	rep.Offers = rep.Sales + nOffer
	rep.Quotes = rep.Offers + nQuote
	rep.ConvLeadToQuote = pct(rep.Quotes, rep.Leads)
	rep.ConvQuoteToOffer = pct(rep.Offers, rep.Quotes)
	rep.ConvOfferToSale = pct(rep.Sales, rep.Offers)
	rep.TopProvince = topKey(provinces)
	return rep
}

// Agents breaks the funnel down per agent with the same cumulative rule.
func Agents(rows []models.LeadRecord, f Filter) []models.AgentRow {
	byAgent := map[string]*models.AgentRow{}
	for _, r := range f.Apply(rows) {
		name := r.Agent
		if name == "" {
			name = models.AgentNone
		}
		row, ok := byAgent[name]
		if !ok {
			row = &models.AgentRow{Name: name}
			byAgent[name] = row
		}
		row.Leads++
		if r.Stage >= models.StageQuote {
			row.Quotes++
		}
		if r.Stage >= models.StageOffer {
			row.Offers++
		}
		if r.Stage >= models.StageSale {
			row.Sales++
		}
		if r.Visit != models.VisitNone {
			row.Visits++
		}
	}
	out := make([]models.AgentRow, 0, len(byAgent))
	for _, row := range byAgent {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Leads != out[j].Leads {
			return out[i].Leads > out[j].Leads
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ProvincesByStage counts, per province, the records that reached at least
// the given stage.
func ProvincesByStage(rows []models.LeadRecord, f Filter, stage models.Stage) []models.CountRow {
	counts := map[string]int{}
	for _, r := range f.Apply(rows) {
		if r.Stage >= stage {
			counts[r.Province]++
		}
	}
	return sortedCounts(counts)
}

// Geo is the geography-chart distribution: per-province record counts with
// low-cardinality suppression. Provinces below minCount, and the literal
// "otro" label, fold into a single "Otro" bucket.
func Geo(rows []models.LeadRecord, f Filter, minCount int) []models.CountRow {
	counts := map[string]int{}
	for _, r := range f.Apply(rows) {
		counts[r.Province]++
	}

	other := 0
	kept := map[string]int{}
	for prov, n := range counts {
		if normalize.Fold(prov) == "otro" || n < minCount {
			other += n
			continue
		}
		kept[prov] = n
	}
	if other > 0 {
		kept["Otro"] += other
	}
	return sortedCounts(kept)
}

// Regions buckets records into the coarse geography groups, fixed order.
func Regions(rows []models.LeadRecord, f Filter) []models.CountRow {
	counts := map[models.Region]int{}
	for _, r := range f.Apply(rows) {
		counts[r.Region]++
	}
	out := []models.CountRow{}
	for _, reg := range []models.Region{models.RegionTarget, models.RegionNearby, models.RegionRest} {
		out = append(out, models.CountRow{Name: string(reg), Count: counts[reg]})
	}
	return out
}

// Visits counts closed visits per type; types with no visits are omitted.
func Visits(rows []models.LeadRecord, f Filter) []models.CountRow {
	counts := map[models.VisitType]int{}
	for _, r := range f.Apply(rows) {
		if r.Visit != models.VisitNone {
			counts[r.Visit]++
		}
	}
	out := []models.CountRow{}
	for _, vt := range []models.VisitType{models.VisitShowroom, models.VisitFactory, models.VisitBoth} {
		if counts[vt] > 0 {
			out = append(out, models.CountRow{Name: string(vt), Count: counts[vt]})
		}
	}
	return out
}

// VisitsByAgent counts closed visits per agent, busiest first.
func VisitsByAgent(rows []models.LeadRecord, f Filter) []models.CountRow {
	counts := map[string]int{}
	for _, r := range f.Apply(rows) {
		if r.Visit == models.VisitNone {
			continue
		}
		name := r.Agent
		if name == "" {
			name = models.AgentNone
		}
		counts[name]++
	}
	return sortedCounts(counts)
}

// MonthlyTrend buckets contacts into MM/YYYY series points, chronological.
// Records without a resolved date are skipped.
func MonthlyTrend(rows []models.LeadRecord, f Filter) []models.CountRow {
	counts := map[string]int{}
	for _, r := range f.Apply(rows) {
		if key := dates.MonthKey(r.ISODate); key != "" {
			counts[key]++
		}
	}
	out := make([]models.CountRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.CountRow{Name: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return monthSortKey(out[i].Name) < monthSortKey(out[j].Name)
	})
	return out
}

// SocialByMonth is the channel comparison: per-month counts per platform,
// chronological, with a trailing TOTAL row.
func SocialByMonth(rows []models.LeadRecord, f Filter) []models.MonthPlatformRow {
	byMonth := map[string]*models.MonthPlatformRow{}
	total := models.MonthPlatformRow{Month: "TOTAL"}
	for _, r := range f.Apply(rows) {
		key := dates.MonthKey(r.ISODate)
		if key == "" {
			continue
		}
		row, ok := byMonth[key]
		if !ok {
			row = &models.MonthPlatformRow{Month: key}
			byMonth[key] = row
		}
		bump(row, r.Platform)
		bump(&total, r.Platform)
	}
	out := make([]models.MonthPlatformRow, 0, len(byMonth)+1)
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return monthSortKey(out[i].Month) < monthSortKey(out[j].Month)
	})
	return append(out, total)
}

func bump(row *models.MonthPlatformRow, p models.Platform) {
	switch p {
	case models.PlatformWhatsApp:
		row.WhatsApp++
	case models.PlatformInstagram:
		row.Instagram++
	case models.PlatformFacebook:
		row.Facebook++
	default:
		row.Other++
	}
}

// WeeklyRhythm counts contacts per weekday, Monday first. Days without
// contacts stay in the output with a zero count.
func WeeklyRhythm(rows []models.LeadRecord, f Filter) []models.CountRow {
	counts := map[string]int{}
	for _, r := range f.Apply(rows) {
		if day := dates.Weekday(r.ISODate); day != "" {
			counts[day]++
		}
	}
	out := make([]models.CountRow, 0, len(dates.WeekdayNames))
	for _, day := range dates.WeekdayNames {
		out = append(out, models.CountRow{Name: day, Count: counts[day]})
	}
	return out
}

// Quality ranks channels by lead→quote conversion. Leads is the cumulative
// floor (every record), so the ratio can never exceed 100.
func Quality(rows []models.LeadRecord, f Filter) []models.QualityRow {
	type stat struct{ leads, quotes int }
	byPlatform := map[models.Platform]*stat{}
	for _, r := range f.Apply(rows) {
		st, ok := byPlatform[r.Platform]
		if !ok {
			st = &stat{}
			byPlatform[r.Platform] = st
		}
		st.leads++
		if r.Stage >= models.StageQuote {
			st.quotes++
		}
	}
	out := make([]models.QualityRow, 0, len(byPlatform))
	for p, st := range byPlatform {
		out = append(out, models.QualityRow{
			Platform:   p,
			Leads:      st.leads,
			Quotes:     st.quotes,
			Conversion: pct(st.quotes, st.leads),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Conversion != out[j].Conversion {
			return out[i].Conversion > out[j].Conversion
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

// Options lists the distinct agents and provinces of the full (unfiltered)
// snapshot for the filter selectors.
func Options(rows []models.LeadRecord) models.FilterOptions {
	agents := map[string]struct{}{}
	provinces := map[string]struct{}{}
	for _, r := range rows {
		if r.Agent != "" {
			agents[r.Agent] = struct{}{}
		}
		provinces[r.Province] = struct{}{}
	}
	opts := models.FilterOptions{
		Agents:    make([]string, 0, len(agents)),
		Provinces: make([]string, 0, len(provinces)),
	}
	for a := range agents {
		opts.Agents = append(opts.Agents, a)
	}
	for p := range provinces {
		opts.Provinces = append(opts.Provinces, p)
	}
	sort.Strings(opts.Agents)
	sort.Strings(opts.Provinces)
	return opts
}

// Paginate slices rows by limit/offset with the usual clamping.
func Paginate[T any](rows []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	if limit <= 0 || offset+limit > len(rows) {
		return rows[offset:]
	}
	return rows[offset : offset+limit]
}

// pct is the stage-to-stage percentage, one decimal, 0 on zero division.
func pct(down, up int) float64 {
	if up == 0 {
		return 0
	}
	return round1(float64(down) / float64(up) * 100)
}

func round1(f float64) float64 { return float64(int64(f*10+0.5)) / 10 }

func sortedCounts(counts map[string]int) []models.CountRow {
	out := make([]models.CountRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.CountRow{Name: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func topKey(counts map[string]int) string {
	top, best := "N/A", 0
	for k, n := range counts {
		if n > best || (n == best && best > 0 && k < top) {
			top, best = k, n
		}
	}
	return top
}

// monthSortKey turns MM/YYYY into YYYYMM so lexicographic order is
// chronological.
func monthSortKey(m string) string {
	if len(m) != 7 {
		return m
	}
	return m[3:] + m[:2]
}
