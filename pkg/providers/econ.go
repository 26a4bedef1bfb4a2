package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
)

// ExchangeRates are INR per unit of each currency, derived by chaining the
// INR/USD base rate against the dollar cross rates. The derivation must stay
// exact: the inflation and loan calculators consume these numbers directly.
type ExchangeRates struct {
	USD float64 `json:"usd"`
	EUR float64 `json:"eur"`
	GBP float64 `json:"gbp"`
	JPY float64 `json:"jpy"`
	AUD float64 `json:"aud"`
}

// EconomicSnapshot is the normalized indicator set for one year. Inflation and
// the policy rate come back as the provider publishes them (strings, "N/A"
// when a series has no observation); GDP growth is filled from the static
// table because the indicator API does not supply it.
type EconomicSnapshot struct {
	Inflation     string        `json:"inflation"`
	GDP           string        `json:"gdp"`
	InterestRate  string        `json:"interestRate"`
	ExchangeRates ExchangeRates `json:"exchangeRates"`
}

// Historical India GDP growth, %/yr. The indicator provider has no usable
// series for this, so the numbers are pinned.
var gdpGrowthByYear = map[string]string{
	"2024": "6.5", "2023": "8.15", "2022": "6.99", "2021": "9.69",
	"2020": "-5.78", "2019": "3.87", "2018": "6.45", "2017": "6.8",
	"2016": "8.26", "2015": "8.0",
}

// GDPGrowth looks up the pinned GDP growth figure for a year.
func GDPGrowth(year string) (string, bool) {
	v, ok := gdpGrowthByYear[year]
	return v, ok
}

// FRED series ids for the indicators we consume.
const (
	seriesInflation    = "CPALTT01INM659N" // monthly CPI inflation, YoY
	seriesINRUSD       = "DEXINUS"
	seriesUSDEUR       = "DEXUSEU"
	seriesUSDJPY       = "DEXJPUS"
	seriesUSDGBP       = "DEXUSUK"
	seriesUSDAUD       = "DEXUSAL"
	seriesInterestRate = "INREPO" // RBI policy repo rate
)

// EconomicDataClient fetches indicator series from a FRED-compatible endpoint.
type EconomicDataClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

const defaultEconDataURL = "https://api.stlouisfed.org"

func NewEconomicDataClient(apiKey string) *EconomicDataClient {
	return &EconomicDataClient{apiKey: apiKey, baseURL: defaultEconDataURL, http: newHTTPClient()}
}

// SetBaseURL points the client at a different endpoint. Used by tests.
func (c *EconomicDataClient) SetBaseURL(u string) { c.baseURL = u }

type fredObservation struct {
	Value string `json:"value"`
}

type fredResponse struct {
	Observations []fredObservation `json:"observations"`
}

// latestObservation fetches the most recent observation of one series within
// the given year. Returns "" when the series has no data for that window.
func (c *EconomicDataClient) latestObservation(ctx context.Context, seriesID, year string) (string, error) {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", c.apiKey)
	q.Set("file_type", "json")
	q.Set("observation_start", year+"-01-01")
	q.Set("observation_end", year+"-12-31")
	q.Set("sort_order", "desc")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/fred/series/observations?"+q.Encode(), nil)
	if err != nil {
		return "", newError("econdata", "build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", newError("econdata", "request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", newError("econdata", "upstream status %d for series %s", resp.StatusCode, seriesID)
	}
	var body fredResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", newError("econdata", "decode series %s: %v", seriesID, err)
	}
	if len(body.Observations) == 0 {
		return "", nil
	}
	return body.Observations[0].Value, nil
}

// Fetch pulls every indicator series for the year in parallel and assembles
// the normalized snapshot. Any series failure fails the whole fetch; a series
// that is merely empty degrades to "N/A" / zero.
func (c *EconomicDataClient) Fetch(ctx context.Context, year string) (*EconomicSnapshot, error) {
	ids := []string{
		seriesInflation, seriesINRUSD, seriesUSDEUR,
		seriesUSDJPY, seriesUSDGBP, seriesUSDAUD, seriesInterestRate,
	}
	values := make([]string, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			values[i], errs[i] = c.latestObservation(ctx, id, year)
		}(i, id)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	snap := &EconomicSnapshot{Inflation: orNA(values[0]), InterestRate: orNA(values[6])}
	if gdp, ok := GDPGrowth(year); ok {
		snap.GDP = gdp
	} else {
		snap.GDP = "Not Available"
	}

	inrUSD := parseRate(values[1])
	snap.ExchangeRates = DeriveExchangeRates(inrUSD,
		parseRate(values[2]), parseRate(values[4]), parseRate(values[3]), parseRate(values[5]))
	return snap, nil
}

// DeriveExchangeRates chains the INR/USD base rate against the dollar cross
// rates. EUR, GBP and AUD are quoted as USD per unit so they multiply; JPY is
// quoted as units per USD so it divides.
func DeriveExchangeRates(inrUSD, usdEUR, usdGBP, usdJPY, usdAUD float64) ExchangeRates {
	r := ExchangeRates{USD: inrUSD}
	r.EUR = inrUSD * usdEUR
	r.GBP = inrUSD * usdGBP
	if usdJPY != 0 {
		r.JPY = inrUSD / usdJPY
	}
	r.AUD = inrUSD * usdAUD
	return r
}

func orNA(v string) string {
	if v == "" || v == "." {
		return "N/A"
	}
	return v
}

func parseRate(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// YearOrDefault validates a year query parameter, defaulting to the previous
// calendar year the way the indicator UI does.
func YearOrDefault(raw string, currentYear int) (string, error) {
	if raw == "" {
		return strconv.Itoa(currentYear - 1), nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1900 || y > currentYear {
		return "", fmt.Errorf("invalid year %q", raw)
	}
	return raw, nil
}
