package expenses_bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/currency"
)

// RateLookup returns a multiplier converting one unit of "from" into
// "to". Any failure is reported as *RateUnavailableError.
type RateLookup interface {
	GetRate(ctx context.Context, from, to string) (float64, error)
}

// symbolCodes translates chat button symbols into ISO currency codes
// understood by the rate API.
var symbolCodes = map[string]string{
	"₽":    "RUB",
	"€":    "EUR",
	"$":    "USD",
	"дин.": "RSD",
}

// CurrencyCode resolves a chat symbol into an ISO code. Inputs that
// already look like ISO codes are accepted as-is.
func CurrencyCode(symbol string) (string, bool) {
	if code, ok := symbolCodes[symbol]; ok {
		return code, true
	}
	if _, err := currency.ParseISO(symbol); err == nil {
		return symbol, true
	}
	return "", false
}

const rateTimeout = 5 * time.Second

// HTTPRates queries a public exchange-rate API. Source equal to target
// short-circuits to an identity rate without a network call.
type HTTPRates struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRates(baseURL string) *HTTPRates {
	return &HTTPRates{
		baseURL: baseURL,
		client:  &http.Client{Timeout: rateTimeout},
	}
}

func (r *HTTPRates) GetRate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}
	fromCode, ok := CurrencyCode(from)
	if !ok {
		return 0, &RateUnavailableError{From: from, To: to}
	}
	toCode, ok := CurrencyCode(to)
	if !ok {
		return 0, &RateUnavailableError{From: from, To: to}
	}
	if fromCode == toCode {
		return 1, nil
	}

	u := fmt.Sprintf("%s/latest?from=%s&to=%s", r.baseURL, url.QueryEscape(fromCode), url.QueryEscape(toCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, &RateUnavailableError{From: from, To: to}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, &RateUnavailableError{From: from, To: to}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, &RateUnavailableError{From: from, To: to}
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, &RateUnavailableError{From: from, To: to}
	}
	rate, ok := body.Rates[toCode]
	if !ok || rate <= 0 {
		return 0, &RateUnavailableError{From: from, To: to}
	}
	return rate, nil
}
