package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/finpipe/pkg/exchangerate"
)

func TestSnapshot_Factor(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Base: "EUR",
		Factors: map[string]decimal.Decimal{
			"KES": decimal.RequireFromString("0.0075"),
		},
	}

	f, err := snap.Factor("KES", "KE02")
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.RequireFromString("0.0075")))

	f, err = snap.Factor("EUR", "BE01")
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.NewFromInt(1)), "reporting currency converts at 1")
}

func TestSnapshot_Factor_Unsupported(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Base: "EUR",
		Factors: map[string]decimal.Decimal{
			"KES": decimal.RequireFromString("0.0075"),
			"XOF": decimal.RequireFromString("0.0015"),
		},
	}

	_, err := snap.Factor("XYZ", "KE02")
	require.Error(t, err)

	var unsupported *UnsupportedCurrencyError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "XYZ", unsupported.Currency)
	assert.Equal(t, "KE02", unsupported.ProjectID)
	assert.Contains(t, err.Error(), "XYZ")
}

// fakeClient implements exchangerate.Client without the network.
type fakeClient struct {
	resp  *exchangerate.LatestResponse
	err   error
	calls int
}

func (f *fakeClient) Latest(_ context.Context, _ string) (*exchangerate.LatestResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestAPIProvider_InvertsQuotes(t *testing.T) {
	t.Parallel()

	client := &fakeClient{resp: &exchangerate.LatestResponse{
		Result:             "success",
		BaseCode:           "EUR",
		TimeLastUpdateUnix: 1717200000,
		ConversionRates: map[string]decimal.Decimal{
			"KES": decimal.NewFromInt(200), // 1 EUR = 200 KES → 1 KES = 0.005 EUR
			"EUR": decimal.NewFromInt(1),
		},
	}}

	snap, err := NewAPIProvider(client).Latest(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", snap.Base)
	assert.Equal(t, int64(1717200000), snap.AsOf.Unix())

	f, err := snap.Factor("KES", "KE01")
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.RequireFromString("0.005")), "got %s", f)
}

func TestAPIProvider_FetchFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{err: eris.New("connection refused")}

	_, err := NewAPIProvider(client).Latest(context.Background(), "EUR")
	require.Error(t, err)

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr), "all fetch failures share one error class")
	assert.Contains(t, err.Error(), "rate fetch failed")
}

func TestSnapshot_Currencies(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Base: "EUR",
		Factors: map[string]decimal.Decimal{
			"KES": decimal.RequireFromString("0.0075"),
			"XOF": decimal.RequireFromString("0.0015"),
		},
	}

	assert.ElementsMatch(t, []string{"EUR", "KES", "XOF"}, snap.Currencies())
}
