package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartJSON(symbol string) string {
	return `{
	  "chart": {
	    "result": [{
	      "meta": {"symbol": "` + symbol + `", "shortName": "Test Corp", "regularMarketPrice": 103.5},
	      "timestamp": [1704153600, 1704240000, 1704326400],
	      "indicators": {"quote": [{
	        "open":   [100.0, 101.0, null],
	        "high":   [102.0, 103.0, null],
	        "low":    [99.0, 100.5, null],
	        "close":  [101.0, 102.5, null],
	        "volume": [1000, 1100, null]
	      }]}
	    }],
	    "error": null
	  }
	}`
}

func TestYahooClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		w.Write([]byte(chartJSON("AAPL")))
	}))
	defer srv.Close()

	client := NewYahooClientWithBaseURL(srv.URL)
	series, err := client.Fetch(context.Background(), "AAPL", "1y", "1d")
	require.NoError(t, err)

	// The third row is null and must be dropped.
	require.Len(t, series, 2)
	assert.Equal(t, 101.0, series[0].Close)
	assert.Equal(t, 102.5, series[1].Close)
	assert.Equal(t, int64(1100), series[1].Volume)
	assert.Equal(t, time.Unix(1704153600, 0).UTC(), series[0].TS)
	assert.True(t, series[0].TS.Before(series[1].TS))
}

func TestYahooClient_Latest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartJSON("AAPL")))
	}))
	defer srv.Close()

	client := NewYahooClientWithBaseURL(srv.URL)
	quote, err := client.Latest(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Test Corp", quote.Name)
	assert.Equal(t, 103.5, quote.Price)
}

func TestYahooClient_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewYahooClientWithBaseURL(srv.URL)
	_, err := client.Fetch(context.Background(), "NOPE", "1y", "1d")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestYahooClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	client := NewYahooClientWithBaseURL(srv.URL)
	_, err := client.Fetch(context.Background(), "BAD", "1y", "1d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestYahooClient_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	client := NewYahooClientWithBaseURL(srv.URL)
	_, err := client.Fetch(context.Background(), "EMPTY", "1y", "1d")
	assert.True(t, errors.Is(err, ErrNoData))
}
