// Package rates adapts an exchange rate source into the conversion snapshot
// the pipeline consumes.
//
// Approximation: the upstream source exposes only current quotes, so one
// snapshot is fetched per run and its factors are applied uniformly to every
// record regardless of the record's own date. Converted amounts for historical
// rows therefore reflect today's rates, not the rates in effect at the time.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldops/finpipe/pkg/exchangerate"
)

// Provider supplies one conversion snapshot per pipeline run.
type Provider interface {
	// Latest returns factors into the given reporting currency, as of now.
	Latest(ctx context.Context, baseCurrency string) (*Snapshot, error)
}

// Snapshot maps currency codes to the factor that converts one unit of that
// currency into the reporting currency. Immutable for the duration of a run.
type Snapshot struct {
	Base    string
	AsOf    time.Time
	Factors map[string]decimal.Decimal
}

// Factor returns the conversion factor for a currency. The reporting currency
// itself always converts at 1. A currency missing from the snapshot is an
// *UnsupportedCurrencyError naming the currency and the record's project;
// there is no fallback factor.
func (s *Snapshot) Factor(currency, projectID string) (decimal.Decimal, error) {
	if currency == s.Base {
		return decimal.NewFromInt(1), nil
	}
	f, ok := s.Factors[currency]
	if !ok {
		return decimal.Decimal{}, &UnsupportedCurrencyError{Currency: currency, ProjectID: projectID}
	}
	return f, nil
}

// Currencies returns the currency codes present in the snapshot, base included.
func (s *Snapshot) Currencies() []string {
	out := make([]string, 0, len(s.Factors)+1)
	out = append(out, s.Base)
	for c := range s.Factors {
		if c != s.Base {
			out = append(out, c)
		}
	}
	return out
}

// APIProvider backs Provider with the ExchangeRate-API client.
type APIProvider struct {
	client exchangerate.Client
}

// NewAPIProvider wraps an exchangerate client as a snapshot provider.
func NewAPIProvider(client exchangerate.Client) *APIProvider {
	return &APIProvider{client: client}
}

// Latest fetches current quotes for the reporting currency and inverts them:
// the API quotes base→target (1 EUR = 140 KES), the snapshot needs
// target→base (1 KES = 1/140 EUR). Any fetch failure surfaces as a single
// *ProviderError class.
func (p *APIProvider) Latest(ctx context.Context, baseCurrency string) (*Snapshot, error) {
	resp, err := p.client.Latest(ctx, baseCurrency)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	one := decimal.NewFromInt(1)
	factors := make(map[string]decimal.Decimal, len(resp.ConversionRates))
	for code, quote := range resp.ConversionRates {
		if quote.IsZero() {
			continue
		}
		factors[code] = one.Div(quote)
	}

	asOf := time.Now().UTC()
	if resp.TimeLastUpdateUnix > 0 {
		asOf = time.Unix(resp.TimeLastUpdateUnix, 0).UTC()
	}

	return &Snapshot{Base: baseCurrency, AsOf: asOf, Factors: factors}, nil
}

// ProviderError is the single error class for a failed rate fetch, whatever
// the underlying cause (network, invalid key, unsupported base).
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("rate fetch failed: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UnsupportedCurrencyError indicates a currency present in the data but absent
// from the run's snapshot. Conversion fails rather than assuming a factor.
type UnsupportedCurrencyError struct {
	Currency  string
	ProjectID string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %q on project %s: not in rate snapshot", e.Currency, e.ProjectID)
}
