package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/leadboard/internal/metrics"
	"github.com/dcastano/leadboard/internal/models"
	"github.com/dcastano/leadboard/internal/normalize"
)

func testRegions() normalize.RegionMapper {
	return normalize.NewRegionMapper([]string{"buenos aires", "caba"}, []string{"cordoba"})
}

func sampleMarketing() models.MarketingData {
	return models.MarketingData{
		Schema: models.SchemaAdReport,
		Events: []models.MarketingEvent{
			{DateISO: "2024-03-01", Name: "Leads Marzo", Type: models.CampaignLeads, Platform: "Meta", Investment: 200},
			{DateISO: "2024-03-02", Name: "Visitas Showroom", Type: models.CampaignVisits, Platform: "Meta", Investment: 100},
			{DateISO: "2024-05-01", Name: "Fuera de rango", Type: models.CampaignDefault, Platform: "Meta", Investment: 999},
		},
		DailySpend: []models.DailySpendRow{
			{DateISO: "2024-03-01", Name: "Leads Marzo", Spend: 120},
			{DateISO: "2024-03-02", Name: "Leads Marzo", Spend: 80},
			{DateISO: "2024-03-02", Name: "Visitas Showroom", Spend: 100},
		},
		DailyReach: []models.DailyReachRow{
			{DateISO: "2024-03-01", Name: "Leads Marzo", Reach: 1000},
			{DateISO: "2024-03-02", Name: "Visitas Showroom", Reach: 500},
		},
		DailyRegionReach: []models.DailyRegionReachRow{
			{DateISO: "2024-03-01", Name: "Leads Marzo", Region: "Buenos Aires", Reach: 600},
			{DateISO: "2024-03-01", Name: "Leads Marzo", Region: "Córdoba", Reach: 400},
			{DateISO: "2024-03-02", Name: "Leads Marzo", Region: "CABA", Reach: 300},
			{DateISO: "2024-03-02", Name: "Visitas Showroom", Region: "Buenos Aires", Reach: 200},
		},
	}
}

func sampleLeads(n int) []models.LeadRecord {
	out := make([]models.LeadRecord, n)
	for i := range out {
		out[i] = models.LeadRecord{Agent: "Paola", Platform: models.PlatformWhatsApp, ISODate: "2024-03-02"}
	}
	return out
}

func TestReconcileTotalsAndCostPerLead(t *testing.T) {
	f := metrics.Filter{From: "2024-03-01", To: "2024-03-31"}
	rep := Reconcile(sampleMarketing(), sampleLeads(4), f, models.AllCampaigns, testRegions())

	// the May event is outside the window
	assert.Equal(t, 300.0, rep.TotalInvestment)
	assert.Equal(t, 75.0, rep.CostPerLead)
}

func TestReconcileZeroLeads(t *testing.T) {
	rep := Reconcile(sampleMarketing(), nil, metrics.Filter{}, models.AllCampaigns, testRegions())
	assert.Equal(t, 0.0, rep.CostPerLead)
	assert.Equal(t, 1299.0, rep.TotalInvestment)
}

func TestReconcileRegionBucketsAllCampaigns(t *testing.T) {
	rep := Reconcile(sampleMarketing(), nil, metrics.Filter{}, models.AllCampaigns, testRegions())

	require.Len(t, rep.ReachByRegion, 3)
	// 2024-03-01: target 600, nearby 400 ("Buenos Aires" sorts before "Provincias Cercanas")
	assert.Equal(t, models.RegionReachRow{DateISO: "2024-03-01", Region: models.RegionTarget, Reach: 600}, rep.ReachByRegion[0])
	assert.Equal(t, models.RegionReachRow{DateISO: "2024-03-01", Region: models.RegionNearby, Reach: 400}, rep.ReachByRegion[1])
	// 2024-03-02: CABA and Buenos Aires fold into one target bucket across campaigns
	assert.Equal(t, models.RegionReachRow{DateISO: "2024-03-02", Region: models.RegionTarget, Reach: 500}, rep.ReachByRegion[2])
}

func TestReconcileSelectedCampaign(t *testing.T) {
	rep := Reconcile(sampleMarketing(), nil, metrics.Filter{}, "Leads Marzo", testRegions())

	require.Len(t, rep.DailySpend, 2)
	for _, row := range rep.DailySpend {
		assert.Equal(t, "Leads Marzo", row.Name)
	}
	require.Len(t, rep.ReachByRegion, 3)
	// only the selected campaign contributes on 03-02
	assert.Equal(t, models.RegionReachRow{DateISO: "2024-03-02", Region: models.RegionTarget, Reach: 300}, rep.ReachByRegion[2])
}

func TestReconcileDateSorted(t *testing.T) {
	f := metrics.Filter{From: "2024-03-01", To: "2024-03-31"}
	rep := Reconcile(sampleMarketing(), nil, f, models.AllCampaigns, testRegions())

	for i := 1; i < len(rep.DailySpend); i++ {
		assert.LessOrEqual(t, rep.DailySpend[i-1].DateISO, rep.DailySpend[i].DateISO)
	}
	for i := 1; i < len(rep.DailyReach); i++ {
		assert.LessOrEqual(t, rep.DailyReach[i-1].DateISO, rep.DailyReach[i].DateISO)
	}
	for i := 1; i < len(rep.ReachByRegion); i++ {
		assert.LessOrEqual(t, rep.ReachByRegion[i-1].DateISO, rep.ReachByRegion[i].DateISO)
	}
}
