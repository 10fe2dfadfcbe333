package models

// Platform is the contact channel a lead arrived through.
type Platform string

const (
	PlatformWhatsApp  Platform = "WhatsApp"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
	PlatformOther     Platform = "Otro"
)

// Platforms lists every canonical channel in display order.
var Platforms = []Platform{PlatformWhatsApp, PlatformInstagram, PlatformFacebook, PlatformOther}

// Stage is the highest funnel stage a lead record reached.
// Comparisons rely on the order: sale > offer > quote > lead.
type Stage int

const (
	StageLead Stage = iota
	StageQuote
	StageOffer
	StageSale
)

func (s Stage) String() string {
	switch s {
	case StageQuote:
		return "cotizacion"
	case StageOffer:
		return "oferta"
	case StageSale:
		return "venta"
	default:
		return "lead"
	}
}

// VisitType says which physical visit, if any, the lead closed.
type VisitType string

const (
	VisitNone     VisitType = ""
	VisitShowroom VisitType = "Showroom"
	VisitFactory  VisitType = "Fábrica"
	VisitBoth     VisitType = "Ambas"
)

// Region is a coarse geographic bucket derived from free-text provinces.
type Region string

const (
	RegionTarget Region = "Buenos Aires"
	RegionNearby Region = "Provincias Cercanas"
	RegionRest   Region = "Resto del País"
)

const (
	// ProvinceNoData is the sentinel for leads without a detected province.
	ProvinceNoData = "Sin Datos"
	// AgentNone labels rows with an empty agent in breakdowns.
	AgentNone = "Sin Agente"
	// AllCampaigns is the reconciler sentinel for "no campaign selected".
	AllCampaigns = "all"
)

// LeadRecord is one normalized contact/interaction event.
type LeadRecord struct {
	Agent     string    `json:"agent"`
	Platform  Platform  `json:"platform"`
	Province  string    `json:"province"`
	Region    Region    `json:"region"`
	EventType string    `json:"event_type"`
	Stage     Stage     `json:"-"`
	Visit     VisitType `json:"visit"`
	RawDate   string    `json:"raw_date"`
	ISODate   string    `json:"iso_date"` // YYYY-MM-DD, empty when unresolved
}

// CampaignType classifies a marketing event by intent.
type CampaignType string

const (
	CampaignPaidMedia CampaignType = "paid-media"
	CampaignOrganic   CampaignType = "organic"
	CampaignEvent     CampaignType = "event"
	CampaignOffline   CampaignType = "offline"
	CampaignEmail     CampaignType = "email"
	CampaignLeads     CampaignType = "leads-focused"
	CampaignBranding  CampaignType = "branding"
	CampaignVisits    CampaignType = "visits-focused"
	CampaignFollowers CampaignType = "followers-focused"
	CampaignDefault   CampaignType = "default"
)

// MarketingEvent is one campaign/ad/activity with spend and/or reach.
type MarketingEvent struct {
	DateISO    string       `json:"date"`
	Name       string       `json:"name"`
	Type       CampaignType `json:"type"`
	Platform   string       `json:"platform"`
	Investment float64      `json:"investment"`
}

// SchemaKind identifies which interpretation strategy mapped a marketing file.
type SchemaKind string

const (
	SchemaAdReport        SchemaKind = "ad-report"
	SchemaActiveCampaigns SchemaKind = "active-campaigns"
	SchemaGeneric         SchemaKind = "generic"
)

// DailySpendRow is one ad's spend on one day (ad-report schema only).
type DailySpendRow struct {
	DateISO string  `json:"date"`
	Name    string  `json:"name"`
	Spend   float64 `json:"spend"`
}

// DailyReachRow is one ad's reach on one day, summed across regions.
type DailyReachRow struct {
	DateISO string `json:"date"`
	Name    string `json:"name"`
	Reach   int    `json:"reach"`
}

// DailyRegionReachRow keeps the per-region breakdown ungrouped so the
// reconciler can bucket it later.
type DailyRegionReachRow struct {
	DateISO string `json:"date"`
	Name    string `json:"name"`
	Region  string `json:"region"`
	Reach   int    `json:"reach"`
}

// MarketingData is the snapshot produced by one marketing-file ingestion.
// The daily tables are populated only for the ad-report schema.
type MarketingData struct {
	Schema           SchemaKind
	Events           []MarketingEvent
	DailySpend       []DailySpendRow
	DailyReach       []DailyReachRow
	DailyRegionReach []DailyRegionReachRow
}

// FunnelReport carries cumulative stage totals and stage-to-stage rates.
type FunnelReport struct {
	Leads            int     `json:"leads"`
	Quotes           int     `json:"quotes"`
	Offers           int     `json:"offers"`
	Sales            int     `json:"sales"`
	Visits           int     `json:"visits"`
	TopProvince      string  `json:"top_province"`
	ConvLeadToQuote  float64 `json:"conv_lead_to_quote"`
	ConvQuoteToOffer float64 `json:"conv_quote_to_offer"`
	ConvOfferToSale  float64 `json:"conv_offer_to_sale"`
}

// AgentRow is one agent's cumulative funnel slice.
type AgentRow struct {
	Name   string `json:"name"`
	Leads  int    `json:"leads"`
	Quotes int    `json:"quotes"`
	Offers int    `json:"offers"`
	Sales  int    `json:"sales"`
	Visits int    `json:"visits"`
}

// CountRow is a generic (label, count) pair for breakdown charts.
type CountRow struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthPlatformRow is one month of per-channel contact counts.
type MonthPlatformRow struct {
	Month     string `json:"month"` // MM/YYYY, or TOTAL for the trailing row
	WhatsApp  int    `json:"whatsapp"`
	Instagram int    `json:"instagram"`
	Facebook  int    `json:"facebook"`
	Other     int    `json:"other"`
}

// QualityRow ranks a channel by its lead→quote conversion.
type QualityRow struct {
	Platform   Platform `json:"platform"`
	Leads      int      `json:"leads"`
	Quotes     int      `json:"quotes"`
	Conversion float64  `json:"conversion"` // percentage, one decimal
}

// FilterOptions are the distinct values offered by the filter UI.
type FilterOptions struct {
	Agents    []string `json:"agents"`
	Provinces []string `json:"provinces"`
}

// RegionReachRow is daily reach grouped into a coarse region bucket.
type RegionReachRow struct {
	DateISO string `json:"date"`
	Region  Region `json:"region"`
	Reach   int    `json:"reach"`
}

// CampaignReport is the reconciler output for one filter window.
type CampaignReport struct {
	TotalInvestment float64          `json:"total_investment"`
	CostPerLead     float64          `json:"cost_per_lead"`
	DailySpend      []DailySpendRow  `json:"daily_spend"`
	DailyReach      []DailyReachRow  `json:"daily_reach"`
	ReachByRegion   []RegionReachRow `json:"reach_by_region"`
}
