package alert

import (
	"testing"
	"time"

	"stockwatch/internal/indicator"
	"stockwatch/internal/model"
)

var evalTime = time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

func seriesFromCloses(closes []float64) model.PriceSeries {
	series := make(model.PriceSeries, len(closes))
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		series[i] = model.PriceBar{TS: day, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100}
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

// goldenCrossFrame builds a frame whose final bar is the first where
// SMA_25 sits above SMA_75: 100 flat bars, then one jump to 120.
func goldenCrossFrame() *indicator.Frame {
	closes := append(repeat(100, 100), 120)
	return indicator.NewFrame(seriesFromCloses(closes))
}

func TestCheckGoldenCross_FiresOnLatestRowOnly(t *testing.T) {
	f := goldenCrossFrame()

	a := CheckGoldenCross("AAPL", f, evalTime)
	if a == nil {
		t.Fatal("expected golden cross alert")
	}
	if a.Kind != KindGoldenCross || a.Ticker != "AAPL" {
		t.Errorf("unexpected alert: %+v", a)
	}
	if !a.Time.Equal(evalTime) {
		t.Errorf("alert time = %s, want evaluation time %s", a.Time, evalTime)
	}
	if CheckDeadCross("AAPL", f, evalTime) != nil {
		t.Error("dead cross must not fire on a golden cross frame")
	}
}

func TestCheckGoldenCross_NoAlertWhenCrossIsOld(t *testing.T) {
	// The cross happened two bars ago; latest vs second-latest shows no
	// transition, so a poll today stays silent.
	closes := append(repeat(100, 100), 120, 120, 120)
	f := indicator.NewFrame(seriesFromCloses(closes))

	if a := CheckGoldenCross("AAPL", f, evalTime); a != nil {
		t.Fatalf("expected no alert for a stale cross, got %+v", a)
	}
}

func TestCheckCrosses_RequireDefinedSMAs(t *testing.T) {
	// 75 bars: SMA_75 defined only on the final row, previous row is NaN.
	closes := append(repeat(100, 74), 120)
	f := indicator.NewFrame(seriesFromCloses(closes))

	if CheckGoldenCross("AAPL", f, evalTime) != nil {
		t.Error("golden cross must not fire with an undefined previous SMA_75")
	}
	if CheckDeadCross("AAPL", f, evalTime) != nil {
		t.Error("dead cross must not fire with an undefined previous SMA_75")
	}
}

func TestCheckRSI_LevelBased(t *testing.T) {
	// A long decline parks RSI at 0, far below the threshold. Unlike the
	// signal detector, the alert keeps firing while the level holds.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 200 - float64(i)
	}
	f := indicator.NewFrame(seriesFromCloses(closes))

	a := CheckRSIOversold("MSFT", f, DefaultRSIOversold, evalTime)
	if a == nil {
		t.Fatal("expected oversold alert")
	}
	if a.Kind != KindRSIOversold {
		t.Errorf("kind = %s, want rsi_oversold", a.Kind)
	}
	if CheckRSIOverbought("MSFT", f, DefaultRSIOverbought, evalTime) != nil {
		t.Error("overbought must not fire on a declining series")
	}
}

func TestCheckRSI_CustomThresholds(t *testing.T) {
	// Rising series pins RSI at 100: overbought under any threshold < 100,
	// but a custom oversold of 45 still must not catch it.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	f := indicator.NewFrame(seriesFromCloses(closes))

	if CheckRSIOverbought("NVDA", f, 85, evalTime) == nil {
		t.Error("expected overbought with custom threshold 85")
	}
	if CheckRSIOversold("NVDA", f, 45, evalTime) != nil {
		t.Error("oversold must not fire on a rising series")
	}
}

func TestCheckRSI_UndefinedRSIIsSilent(t *testing.T) {
	f := indicator.NewFrame(seriesFromCloses(repeat(100, 10)))
	if CheckRSIOversold("TSLA", f, DefaultRSIOversold, evalTime) != nil {
		t.Error("NaN RSI must not alert")
	}
	if CheckRSIOverbought("TSLA", f, DefaultRSIOverbought, evalTime) != nil {
		t.Error("NaN RSI must not alert")
	}
}

func TestEvaluate_CrossDisabled(t *testing.T) {
	f := goldenCrossFrame()

	cfg := DefaultConfig()
	cfg.CrossEnabled = false
	alerts := Evaluate("AAPL", f, cfg, evalTime)

	for _, a := range alerts {
		if a.Kind == KindGoldenCross || a.Kind == KindDeadCross {
			t.Fatalf("cross alert fired with crosses disabled: %+v", a)
		}
	}
}

func TestEvaluate_CollectsAllFiring(t *testing.T) {
	f := goldenCrossFrame()

	alerts := Evaluate("AAPL", f, DefaultConfig(), evalTime)
	if len(alerts) == 0 {
		t.Fatal("expected at least the golden cross alert")
	}
	if alerts[0].Kind != KindGoldenCross {
		t.Errorf("first alert = %s, want golden_cross", alerts[0].Kind)
	}
}
