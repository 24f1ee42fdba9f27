package signal

import (
	"reflect"
	"testing"
	"time"

	"stockwatch/internal/indicator"
	"stockwatch/internal/model"
)

func seriesFromCloses(closes []float64) model.PriceSeries {
	series := make(model.PriceSeries, len(closes))
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		series[i] = model.PriceBar{
			TS: day, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func countKind(signals []Signal, kind Kind) int {
	n := 0
	for _, s := range signals {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestDetectMACrossovers_GoldenThenDead(t *testing.T) {
	// 40 flat bars (SMA_5 == SMA_25, not above), then a jump to 110: the
	// 5-bar mean outruns the 25-bar mean on the first jump bar, so exactly
	// one golden cross fires there. A later drop to 90 crosses back down.
	closes := append(repeat(100, 40), repeat(110, 10)...)
	closes = append(closes, repeat(90, 15)...)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectMACrossovers(f, indicator.ColSMA5, indicator.ColSMA25)

	if got := countKind(signals, GoldenCross); got != 1 {
		t.Fatalf("golden crosses = %d, want 1", got)
	}
	if got := countKind(signals, DeadCross); got != 1 {
		t.Fatalf("dead crosses = %d, want 1", got)
	}

	var golden, dead Signal
	for _, s := range signals {
		switch s.Kind {
		case GoldenCross:
			golden = s
		case DeadCross:
			dead = s
		}
	}
	if !golden.Bullish {
		t.Error("golden cross must be bullish")
	}
	if dead.Bullish {
		t.Error("dead cross must be bearish")
	}
	// The golden cross fires on the first jump bar (row 40).
	if !golden.Date.Equal(f.TS(40)) {
		t.Errorf("golden cross at %s, want %s", golden.Date, f.TS(40))
	}
	if golden.Price != 110 {
		t.Errorf("golden cross price = %.2f, want 110", golden.Price)
	}
	if !dead.Date.After(golden.Date) {
		t.Error("dead cross must come after the golden cross")
	}
}

func TestDetectMACrossovers_NeverFiresNextToUndefined(t *testing.T) {
	// The jump lands exactly where SMA_25 first becomes defined (row 24).
	// The previous row's state is undefined, so no transition may fire
	// even though short > long holds from the first defined row onward.
	closes := append(repeat(100, 24), repeat(110, 16)...)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectMACrossovers(f, indicator.ColSMA5, indicator.ColSMA25)
	if len(signals) != 0 {
		t.Fatalf("got %d signals next to undefined rows, want 0: %+v", len(signals), signals)
	}
}

func TestDetectMACrossovers_MissingColumn(t *testing.T) {
	f := indicator.NewFrame(seriesFromCloses(repeat(100, 30)))
	if got := DetectMACrossovers(f, "SMA_13", indicator.ColSMA25); got != nil {
		t.Fatalf("expected nil for unknown column, got %+v", got)
	}
}

func TestDetectRSISignals_RecoveryTransitionsOnly(t *testing.T) {
	// Fifteen falling bars drive RSI to 0. A +6 bar lifts it to
	// 100*6/(6+13) ≈ 31.6, crossing back up through 30: exactly one
	// oversold recovery. The bars merely *below* 30 must not fire.
	closes := []float64{115, 114, 113, 112, 111, 110, 109, 108, 107, 106, 105, 104, 103, 102, 101, 100}
	closes = append(closes, 106, 106, 106)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectRSISignals(f, DefaultOversold, DefaultOverbought)
	if got := countKind(signals, RSIOversold); got != 1 {
		t.Fatalf("oversold recoveries = %d, want 1", got)
	}
	if got := countKind(signals, RSIOverbought); got != 0 {
		t.Fatalf("overbought signals = %d, want 0", got)
	}
	if !signals[0].Bullish {
		t.Error("oversold recovery must be bullish")
	}
	if !signals[0].Date.Equal(f.TS(16)) {
		t.Errorf("recovery at %s, want %s", signals[0].Date, f.TS(16))
	}
}

func TestDetectRSISignals_OverboughtCrossdown(t *testing.T) {
	// Fifteen rising bars pin RSI at 100; a -6 bar drops it to ≈68.4,
	// crossing back down through 70.
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, 111, 112, 113, 114, 115}
	closes = append(closes, 109, 109)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectRSISignals(f, DefaultOversold, DefaultOverbought)
	if got := countKind(signals, RSIOverbought); got != 1 {
		t.Fatalf("overbought crossdowns = %d, want 1", got)
	}
	if signals[0].Bullish {
		t.Error("overbought crossdown must be bearish")
	}
}

func TestDetectMACDSignals_Crossover(t *testing.T) {
	// Flat prices keep MACD and its signal at exactly zero (not above).
	// A jump pushes the fast EMA ahead: MACD > signal fires bullish on the
	// first jump bar. The later slide crosses it back down.
	closes := append(repeat(100, 40), repeat(120, 20)...)
	closes = append(closes, repeat(80, 20)...)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectMACDSignals(f)
	if got := countKind(signals, MACDBullish); got < 1 {
		t.Fatal("expected at least one MACD bullish crossover")
	}
	if got := countKind(signals, MACDBearish); got < 1 {
		t.Fatal("expected at least one MACD bearish crossover")
	}

	first := signals[0]
	if first.Kind != MACDBullish || !first.Date.Equal(f.TS(40)) {
		t.Errorf("first MACD signal = %s at %s, want macd_bullish at %s", first.Kind, first.Date, f.TS(40))
	}
}

func TestDetectBollingerSignals_LevelBased(t *testing.T) {
	// A plunge well below the band floor: every row at or below BB_Lower
	// fires independently. This detector has no transition memory.
	closes := append(repeat(100, 25), 70)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectBollingerSignals(f)
	if got := countKind(signals, BBLowerTouch); got < 1 {
		t.Fatal("expected a lower band touch")
	}
	last := signals[len(signals)-1]
	if last.Kind != BBLowerTouch || last.Price != 70 {
		t.Errorf("last signal = %s price %.1f, want bb_lower_touch at 70", last.Kind, last.Price)
	}
}

func TestDetectAll_SortedDescendingAndIdempotent(t *testing.T) {
	closes := append(repeat(100, 40), repeat(110, 10)...)
	closes = append(closes, repeat(90, 15)...)
	f := indicator.NewFrame(seriesFromCloses(closes))

	first := DetectAll(f, DefaultLookback)
	second := DetectAll(f, DefaultLookback)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated detection over the same frame must be identical")
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].Date.Before(first[i].Date) {
			t.Fatalf("signals not sorted by date descending at %d", i)
		}
	}
}

func TestDetectAll_LookbackExcludesOlderEvents(t *testing.T) {
	// Golden cross at row 40; with only the trailing 10 rows in scope the
	// crossover detectors must not see it.
	closes := append(repeat(100, 40), repeat(110, 30)...)
	f := indicator.NewFrame(seriesFromCloses(closes))

	signals := DetectAll(f, 10)
	if got := countKind(signals, GoldenCross); got != 0 {
		t.Fatalf("golden crosses inside 10-row lookback = %d, want 0", got)
	}
}
