package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecosaarthi/pkg/providers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// helper to perform requests with an optional bearer credential
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// newTestEngine wires the globals the handlers read and returns a router.
// No database is touched; tests that need one live in the integration file.
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger = zap.NewNop().Sugar()
	jwtSecret = []byte("test-secret")
	schemes = EmptySchemeCatalog()
	adviceClient, _ = providers.NewAdviceClient(context.Background(), "")
	r := gin.New()
	setupRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return performRequest(r, http.MethodPost, path, bytes.NewBuffer(body), "", "application/json")
}

func TestRetirementCalculatorEndpoint(t *testing.T) {
	r := newTestEngine(t)
	resp := postJSON(t, r, "/api/calculators/retirement", map[string]any{
		"targetCorpus":        10000000,
		"currentSavings":      500000,
		"monthlyContribution": 10000,
		"annualReturnPct":     8,
		"years":               20,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	var p struct {
		ProjectedCorpus float64 `json:"projectedCorpus"`
		TotalInvested   float64 `json:"totalInvested"`
		OnTrack         bool    `json:"onTrack"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ProjectedCorpus <= p.TotalInvested {
		t.Fatalf("projection %v did not beat deposits %v", p.ProjectedCorpus, p.TotalInvested)
	}

	bad := postJSON(t, r, "/api/calculators/retirement", map[string]any{
		"targetCorpus": 1, "years": 0,
	})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("zero years: status=%d", bad.Code)
	}
}

func TestEMICalculatorEndpoint(t *testing.T) {
	r := newTestEngine(t)
	resp := postJSON(t, r, "/api/calculators/emi", map[string]any{
		"principal": 800000, "annualRatePct": 9, "years": 5,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out struct {
		EMI   float64 `json:"emi"`
		EMIUp float64 `json:"emiIfRateUpOnePct"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.EMI < 16500 || out.EMI > 16700 {
		t.Fatalf("emi = %v, want ~16607", out.EMI)
	}
	if out.EMIUp <= out.EMI {
		t.Fatalf("rate rise lowered the EMI: %v vs %v", out.EMIUp, out.EMI)
	}

	bad := postJSON(t, r, "/api/calculators/emi", map[string]any{
		"principal": -1, "annualRatePct": 9, "years": 5,
	})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("negative principal: status=%d", bad.Code)
	}
}

func TestTaxCalculatorEndpoint(t *testing.T) {
	r := newTestEngine(t)
	resp := postJSON(t, r, "/api/calculators/tax", map[string]any{
		"income": 1200000, "deductions": 0,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out struct {
		TaxableIncome float64 `json:"taxableIncome"`
		EstimatedTax  float64 `json:"estimatedTax"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TaxableIncome != 1200000 || out.EstimatedTax != 172500 {
		t.Fatalf("got taxable=%v tax=%v", out.TaxableIncome, out.EstimatedTax)
	}
}

func TestInflationCalculatorEndpoint(t *testing.T) {
	r := newTestEngine(t)
	resp := postJSON(t, r, "/api/calculators/inflation-impact", map[string]any{
		"monthlySpending": 30000, "inflationPct": 6,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out struct {
		ExtraCost float64 `json:"extraCost"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ExtraCost < 1799 || out.ExtraCost > 1801 {
		t.Fatalf("extraCost = %v, want 1800", out.ExtraCost)
	}
}

func TestSchemesEndpoint(t *testing.T) {
	r := newTestEngine(t)
	var err error
	schemes, err = LoadSchemeCatalog(writeSchemeFixture(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	resp := performRequest(r, http.MethodGet, "/api/schemes?query=mudra", nil, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out struct {
		Data []Scheme `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 1 || out.Data[0].SchemeName != "PM Mudra Yojana" {
		t.Fatalf("data = %+v", out.Data)
	}
}

func TestAdviceEndpointsFallBackWithoutProvider(t *testing.T) {
	r := newTestEngine(t)
	resp := postJSON(t, r, "/api/tax-advice", map[string]any{"profession": "freelance designer"})
	if resp.Code != http.StatusOK {
		t.Fatalf("tax advice status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out struct {
		Advice string `json:"advice"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Advice != providers.FallbackAdvice {
		t.Fatalf("advice = %q", out.Advice)
	}

	resp = postJSON(t, r, "/api/financial-advice", map[string]any{
		"spendingData": map[string]any{
			"income": 60000,
			"transactions": []map[string]any{
				{"description": "rent", "amount": 18000, "category": "Housing"},
				{"description": "groceries", "amount": 6000, "category": "Food"},
			},
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("financial advice status=%d body=%s", resp.Code, resp.Body.String())
	}

	missing := postJSON(t, r, "/api/financial-advice", map[string]any{})
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("missing spendingData: status=%d", missing.Code)
	}
}

func TestMarketEndpoints(t *testing.T) {
	r := newTestEngine(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/api/v1/quote":
			fmt.Fprint(w, `{"c":182.5,"d":1.2,"dp":0.66}`)
		case "/api/v3/simple/price":
			fmt.Fprint(w, `{"bitcoin":{"inr":5800000,"inr_24h_change":-2.1}}`)
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()
	marketClient = providers.NewMarketQuoteClient("test-key")
	marketClient.SetBaseURLs(srv.URL, srv.URL)

	resp := postJSON(t, r, "/api/stock-data", map[string]any{"symbol": "aapl"})
	if resp.Code != http.StatusOK {
		t.Fatalf("stock status=%d body=%s", resp.Code, resp.Body.String())
	}
	var eq providers.EquityQuote
	if err := json.Unmarshal(resp.Body.Bytes(), &eq); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if eq.Price != 182.5 {
		t.Fatalf("price = %v", eq.Price)
	}

	resp = postJSON(t, r, "/api/crypto-data", map[string]any{"id": "BITCOIN"})
	if resp.Code != http.StatusOK {
		t.Fatalf("crypto status=%d body=%s", resp.Code, resp.Body.String())
	}
	var aq providers.AssetQuote
	if err := json.Unmarshal(resp.Body.Bytes(), &aq); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if aq.PriceLocal != 5800000 {
		t.Fatalf("priceLocal = %v", aq.PriceLocal)
	}

	missing := postJSON(t, r, "/api/stock-data", map[string]any{})
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("missing symbol: status=%d", missing.Code)
	}
}

func TestProtectedRoutesRejectMissingCredential(t *testing.T) {
	r := newTestEngine(t)
	for _, path := range []string{"/api/user/profile", "/api/jobs"} {
		resp := performRequest(r, http.MethodGet, path, nil, "", "")
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status=%d, want 401", path, resp.Code)
		}
	}
	resp := performRequest(r, http.MethodGet, "/api/user/profile", nil, "garbage-token", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status=%d, want 401", resp.Code)
	}
}
