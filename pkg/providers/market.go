package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// EquityQuote is a normalized stock quote.
type EquityQuote struct {
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changePct"`
}

// AssetQuote is a normalized crypto quote in the local currency.
type AssetQuote struct {
	PriceLocal   float64 `json:"priceLocal"`
	Change24hPct float64 `json:"change24hPct"`
}

// MarketQuoteClient fetches equity quotes from a Finnhub-compatible endpoint
// and crypto quotes from a CoinGecko-compatible one. One attempt per call; a
// failure is the caller's "data unavailable" marker.
type MarketQuoteClient struct {
	equityAPIKey  string
	equityBaseURL string
	assetBaseURL  string
	http          *http.Client
}

const (
	defaultEquityURL = "https://finnhub.io"
	defaultAssetURL  = "https://api.coingecko.com"
)

func NewMarketQuoteClient(equityAPIKey string) *MarketQuoteClient {
	return &MarketQuoteClient{
		equityAPIKey:  equityAPIKey,
		equityBaseURL: defaultEquityURL,
		assetBaseURL:  defaultAssetURL,
		http:          newHTTPClient(),
	}
}

// SetBaseURLs points both endpoints elsewhere. Used by tests.
func (c *MarketQuoteClient) SetBaseURLs(equity, asset string) {
	c.equityBaseURL = equity
	c.assetBaseURL = asset
}

type finnhubQuote struct {
	Current   float64 `json:"c"`
	Change    float64 `json:"d"`
	ChangePct float64 `json:"dp"`
}

// QuoteEquity fetches the current quote for a stock symbol. An all-zero quote
// means the provider does not know the symbol and is treated as a failure.
func (c *MarketQuoteClient) QuoteEquity(ctx context.Context, symbol string) (*EquityQuote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("token", c.equityAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.equityBaseURL+"/api/v1/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, newError("stockquote", "build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError("stockquote", "request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError("stockquote", "upstream status %d", resp.StatusCode)
	}
	var body finnhubQuote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, newError("stockquote", "decode response: %v", err)
	}
	if body.Current == 0 && body.Change == 0 && body.ChangePct == 0 {
		return nil, newError("stockquote", "no data for symbol %s", symbol)
	}
	return &EquityQuote{Price: body.Current, Change: body.Change, ChangePct: body.ChangePct}, nil
}

type geckoQuote struct {
	INR          float64 `json:"inr"`
	INR24hChange float64 `json:"inr_24h_change"`
}

// QuoteAsset fetches the INR quote for a crypto asset id ("bitcoin",
// "ethereum", ...).
func (c *MarketQuoteClient) QuoteAsset(ctx context.Context, id string) (*AssetQuote, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", "inr")
	q.Set("include_24hr_change", "true")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.assetBaseURL+"/api/v3/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, newError("cryptoquote", "build request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError("cryptoquote", "request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, newError("cryptoquote", "upstream status %d", resp.StatusCode)
	}
	var body map[string]geckoQuote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, newError("cryptoquote", "decode response: %v", err)
	}
	quote, ok := body[id]
	if !ok {
		return nil, newError("cryptoquote", "no data for asset %s", id)
	}
	return &AssetQuote{PriceLocal: quote.INR, Change24hPct: quote.INR24hChange}, nil
}
