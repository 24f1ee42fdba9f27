package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/model"
)

func testBar(day int, close float64) model.PriceBar {
	return model.PriceBar{
		TS:     time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:   close - 1,
		High:   close + 1,
		Low:    close - 2,
		Close:  close,
		Volume: int64(1000 * day),
	}
}

func TestArchive_RoundTrip(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	defer a.Close()
	ctx := context.Background()

	in := model.PriceSeries{testBar(2, 100), testBar(3, 101), testBar(4, 99)}
	require.NoError(t, a.SaveSeries(ctx, "AAPL", in))

	out, err := a.LoadSeries(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestArchive_UpsertOverwrites(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	defer a.Close()
	ctx := context.Background()

	require.NoError(t, a.SaveSeries(ctx, "AAPL", model.PriceSeries{testBar(2, 100)}))
	revised := testBar(2, 105)
	require.NoError(t, a.SaveSeries(ctx, "AAPL", model.PriceSeries{revised}))

	out, err := a.LoadSeries(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 105.0, out[0].Close)
}

func TestArchive_UnknownSymbolIsEmpty(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	defer a.Close()

	out, err := a.LoadSeries(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestArchive_Symbols(t *testing.T) {
	a, err := Open(filepath.Join(t.TempDir(), "bars.db"))
	require.NoError(t, err)
	defer a.Close()
	ctx := context.Background()

	require.NoError(t, a.SaveSeries(ctx, "MSFT", model.PriceSeries{testBar(2, 50)}))
	require.NoError(t, a.SaveSeries(ctx, "AAPL", model.PriceSeries{testBar(2, 100)}))

	symbols, err := a.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}
