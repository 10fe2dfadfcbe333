// Package campaign reconciles marketing spend and reach with the lead
// snapshot: totals, cost per lead, and the per-day tables the campaign charts
// consume.
package campaign

import (
	"sort"

	"github.com/dcastano/leadboard/internal/metrics"
	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/normalize"
	"github.com/dcastano/leadboard/internal/store"
)

// Service reads both snapshots; the lead side is needed for the cost-per-lead
// denominator under the same filter window.
type Service struct {
	st      *store.MemoryStore
	regions normalize.RegionMapper
}

func NewService(st *store.MemoryStore, regions normalize.RegionMapper) *Service {
	return &Service{st: st, regions: regions}
}

func (s *Service) Report(f metrics.Filter, campaign string) models.CampaignReport {
	return Reconcile(s.st.Marketing(), s.st.Leads(), f, campaign, s.regions)
}

// Reconcile is the pure aggregation behind Report. The campaign argument
// narrows the daily tables to one ad; the "all" sentinel keeps every ad and
// makes the region table sum across campaigns per day.
func Reconcile(data models.MarketingData, leads []models.LeadRecord, f metrics.Filter, campaign string, regions normalize.RegionMapper) models.CampaignReport {
	rep := models.CampaignReport{
		DailySpend:    []models.DailySpendRow{},
		DailyReach:    []models.DailyReachRow{},
		ReachByRegion: []models.RegionReachRow{},
	}

	for _, e := range data.Events {
		if f.MatchDate(e.DateISO) {
			rep.TotalInvestment += e.Investment
		}
	}
	rep.TotalInvestment = round2(rep.TotalInvestment)

	leadsCount := len(f.Apply(leads))
	if leadsCount > 0 {
		rep.CostPerLead = round2(rep.TotalInvestment / float64(leadsCount))
	}

	allAds := campaign == "" || campaign == models.AllCampaigns
	for _, row := range data.DailySpend {
		if f.MatchDate(row.DateISO) && (allAds || row.Name == campaign) {
			rep.DailySpend = append(rep.DailySpend, row)
		}
	}
	for _, row := range data.DailyReach {
		if f.MatchDate(row.DateISO) && (allAds || row.Name == campaign) {
			rep.DailyReach = append(rep.DailyReach, row)
		}
	}

	byDayRegion := map[[2]string]int{}
	for _, row := range data.DailyRegionReach {
		if !f.MatchDate(row.DateISO) || (!allAds && row.Name != campaign) {
			continue
		}
		bucket := regions.Map(row.Region)
		byDayRegion[[2]string{row.DateISO, string(bucket)}] += row.Reach
	}
	for k, reach := range byDayRegion {
		rep.ReachByRegion = append(rep.ReachByRegion, models.RegionReachRow{
			DateISO: k[0],
			Region:  models.Region(k[1]),
			Reach:   reach,
		})
	}

	// orden determinista: fecha ascendente en las tres tablas
	sort.Slice(rep.DailySpend, func(i, j int) bool {
		if rep.DailySpend[i].DateISO != rep.DailySpend[j].DateISO {
			return rep.DailySpend[i].DateISO < rep.DailySpend[j].DateISO
		}
		return rep.DailySpend[i].Name < rep.DailySpend[j].Name
	})
	sort.Slice(rep.DailyReach, func(i, j int) bool {
		if rep.DailyReach[i].DateISO != rep.DailyReach[j].DateISO {
			return rep.DailyReach[i].DateISO < rep.DailyReach[j].DateISO
		}
		return rep.DailyReach[i].Name < rep.DailyReach[j].Name
	})
	sort.Slice(rep.ReachByRegion, func(i, j int) bool {
		if rep.ReachByRegion[i].DateISO != rep.ReachByRegion[j].DateISO {
			return rep.ReachByRegion[i].DateISO < rep.ReachByRegion[j].DateISO
		}
		return rep.ReachByRegion[i].Region < rep.ReachByRegion[j].Region
	})
	return rep
}

func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
