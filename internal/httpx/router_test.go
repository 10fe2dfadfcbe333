package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dcastano/leadboard/internal/campaign"
	"github.com/dcastano/leadboard/internal/config"
	"github.com/dcastano/leadboard/internal/dates"
	"github.com/dcastano/leadboard/internal/ingest"
	"github.com/dcastano/leadboard/internal/metrics"
	"github.com/dcastano/leadboard/internal/normalize"
	"github.com/dcastano/leadboard/internal/store"
)

const leadsTSV = "AGENTE\tplatform\tProvincia Detectada\tTipo de Evento\tfecha\tVISITAS\n" +
	"PM\twp\tBuenos Aires\tVenta\t05/03/2024\tshowroom\n" +
	"IC\tig\tCórdoba\tCotización\t06/03/2024\t\n" +
	"IC\tfb\tMendoza\tLead\t07/03/2024\t\n"

func testHandler() http.Handler {
	cfg := config.Config{YearDefault: 2025, YearDecember: 2024, GeoMinCount: 10,
		RegionTargetKeywords: []string{"buenos aires", "caba"},
		RegionNearbyKeywords: []string{"cordoba"}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := dates.NewResolver(cfg.YearDefault, cfg.YearDecember)
	regions := normalize.NewRegionMapper(cfg.RegionTargetKeywords, cfg.RegionNearbyKeywords)

	st := store.NewMemoryStore()
	ing := ingest.NewService(st, logger,
		ingest.LeadMapper{Dates: resolver, Regions: regions},
		ingest.MarketingMapper{Dates: resolver})
	return NewRouter(logger, ing, metrics.NewService(st, cfg.GeoMinCount), campaign.NewService(st, regions))
}

func doReq(t *testing.T, h http.Handler, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doReq(t, testHandler(), http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestIngestLeadsAndFunnel(t *testing.T) {
	h := testHandler()

	w := doReq(t, h, http.MethodPost, "/ingest/leads?filename=leads.tsv", "text/tab-separated-values", strings.NewReader(leadsTSV))
	if w.Code != http.StatusOK {
		t.Fatalf("ingest failed: %d %s", w.Code, w.Body.String())
	}

	w = doReq(t, h, http.MethodGet, "/api/funnel", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("funnel failed: %d", w.Code)
	}
	var rep struct {
		Leads  int `json:"leads"`
		Quotes int `json:"quotes"`
		Sales  int `json:"sales"`
	}
	if err := json.NewDecoder(w.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.Leads != 3 || rep.Quotes != 2 || rep.Sales != 1 {
		t.Fatalf("unexpected funnel: %+v", rep)
	}
}

func TestIngestFailureKeepsPreviousSnapshot(t *testing.T) {
	h := testHandler()

	if w := doReq(t, h, http.MethodPost, "/ingest/leads?filename=leads.tsv", "text/plain", strings.NewReader(leadsTSV)); w.Code != http.StatusOK {
		t.Fatalf("seed ingest failed: %d", w.Code)
	}

	// an empty upload is a dataset-level failure
	if w := doReq(t, h, http.MethodPost, "/ingest/leads?filename=leads.tsv", "text/plain", strings.NewReader("")); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	w := doReq(t, h, http.MethodGet, "/api/funnel", "", nil)
	var rep struct {
		Leads int `json:"leads"`
	}
	json.NewDecoder(w.Body).Decode(&rep)
	if rep.Leads != 3 {
		t.Fatalf("previous snapshot lost: leads=%d", rep.Leads)
	}
}

func TestIngestMultipart(t *testing.T) {
	h := testHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "leads.tsv")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(part, leadsTSV)
	mw.Close()

	w := doReq(t, h, http.MethodPost, "/ingest/leads", mw.FormDataContentType(), &buf)
	if w.Code != http.StatusOK {
		t.Fatalf("multipart ingest failed: %d %s", w.Code, w.Body.String())
	}
}

func TestIngestMarketingAndCampaignReport(t *testing.T) {
	h := testHandler()

	if w := doReq(t, h, http.MethodPost, "/ingest/leads?filename=leads.tsv", "text/plain", strings.NewReader(leadsTSV)); w.Code != http.StatusOK {
		t.Fatalf("leads ingest failed: %d", w.Code)
	}

	marketing := "Inicio del informe,Nombre del anuncio,Importe gastado (EUR),Alcance,Región\n" +
		"2024-03-05,Leads Marzo,300,1000,Buenos Aires\n" +
		"2024-03-06,Leads Marzo,150,500,Córdoba\n"
	w := doReq(t, h, http.MethodPost, "/ingest/marketing?filename=ads.csv", "text/csv", strings.NewReader(marketing))
	if w.Code != http.StatusOK {
		t.Fatalf("marketing ingest failed: %d %s", w.Code, w.Body.String())
	}
	var ack struct {
		Schema string `json:"schema"`
		Events int    `json:"events"`
	}
	json.NewDecoder(w.Body).Decode(&ack)
	if ack.Schema != "ad-report" || ack.Events != 1 {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	w = doReq(t, h, http.MethodGet, "/api/campaign?campaign=all", "", nil)
	var rep struct {
		TotalInvestment float64 `json:"total_investment"`
		CostPerLead     float64 `json:"cost_per_lead"`
	}
	if err := json.NewDecoder(w.Body).Decode(&rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.TotalInvestment != 450 {
		t.Fatalf("expected investment 450, got %v", rep.TotalInvestment)
	}
	if rep.CostPerLead != 150 {
		t.Fatalf("expected cost per lead 150, got %v", rep.CostPerLead)
	}
}

func TestExportFunnelCSV(t *testing.T) {
	h := testHandler()
	doReq(t, h, http.MethodPost, "/ingest/leads?filename=leads.tsv", "text/plain", strings.NewReader(leadsTSV))

	w := doReq(t, h, http.MethodGet, "/export/funnel.csv", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export failed: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "leads,3") {
		t.Fatalf("missing funnel row in:\n%s", w.Body.String())
	}
}
