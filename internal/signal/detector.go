package signal

import (
	"fmt"
	"math"
	"sort"

	"stockwatch/internal/indicator"
)

// Default detection thresholds and window.
const (
	DefaultOversold   = 30.0
	DefaultOverbought = 70.0
	DefaultLookback   = 30
)

// DetectMACrossovers emits golden/dead cross events for a configurable
// short/long column pair. A transition is only evaluated when both columns
// are defined at the current AND previous row; rows adjacent to undefined
// values never fire.
func DetectMACrossovers(f *indicator.Frame, shortCol, longCol string) []Signal {
	short, ok := f.Column(shortCol)
	if !ok {
		return nil
	}
	long, ok := f.Column(longCol)
	if !ok {
		return nil
	}

	var signals []Signal
	for i := 1; i < f.Len(); i++ {
		if anyNaN(short[i], long[i], short[i-1], long[i-1]) {
			continue
		}
		above := short[i] > long[i]
		prevAbove := short[i-1] > long[i-1]

		if above && !prevAbove {
			signals = append(signals, Signal{
				Kind:        GoldenCross,
				Date:        f.TS(i),
				Price:       f.Close(i),
				Description: fmt.Sprintf("Golden cross: %s crossed above %s", shortCol, longCol),
				Bullish:     true,
			})
		} else if !above && prevAbove {
			signals = append(signals, Signal{
				Kind:        DeadCross,
				Date:        f.TS(i),
				Price:       f.Close(i),
				Description: fmt.Sprintf("Dead cross: %s crossed below %s", shortCol, longCol),
				Bullish:     false,
			})
		}
	}
	return signals
}

// DetectRSISignals emits recovery transitions through the thresholds:
// oversold fires when RSI crosses back up through `oversold`, overbought
// when it crosses back down through `overbought`. This is deliberately a
// transition detector; the level-based variant lives in internal/alert.
func DetectRSISignals(f *indicator.Frame, oversold, overbought float64) []Signal {
	rsi, ok := f.Column(indicator.ColRSI)
	if !ok {
		return nil
	}

	var signals []Signal
	for i := 1; i < f.Len(); i++ {
		cur, prev := rsi[i], rsi[i-1]
		if anyNaN(cur, prev) {
			continue
		}

		if prev < oversold && cur >= oversold {
			signals = append(signals, Signal{
				Kind:        RSIOversold,
				Date:        f.TS(i),
				Price:       f.Close(i),
				Description: fmt.Sprintf("RSI recovered from oversold: %.1f", cur),
				Bullish:     true,
			})
		}
		if prev > overbought && cur <= overbought {
			signals = append(signals, Signal{
				Kind:        RSIOverbought,
				Date:        f.TS(i),
				Price:       f.Close(i),
				Description: fmt.Sprintf("RSI fell back from overbought: %.1f", cur),
				Bullish:     false,
			})
		}
	}
	return signals
}

// DetectMACDSignals emits transitions of the MACD line through its signal line.
func DetectMACDSignals(f *indicator.Frame) []Signal {
	macd, ok := f.Column(indicator.ColMACD)
	if !ok {
		return nil
	}
	sig, ok := f.Column(indicator.ColMACDSignal)
	if !ok {
		return nil
	}

	var signals []Signal
	for i := 1; i < f.Len(); i++ {
		if anyNaN(macd[i], sig[i], macd[i-1], sig[i-1]) {
			continue
		}
		above := macd[i] > sig[i]
		prevAbove := macd[i-1] > sig[i-1]

		if above && !prevAbove {
			signals = append(signals, Signal{
				Kind:        MACDBullish,
				Date:        f.TS(i),
				Price:       f.Close(i),
				Description: "MACD crossed above signal line",
				Bullish:     true,
			})
		} else if !above && prevAbove {
			signals = append(signals, Signal{
				Kind:        MACDBearish,
				Date:        f.TS(i),
				Price:       f.Close(i),
				Description: "MACD crossed below signal line",
				Bullish:     false,
			})
		}
	}
	return signals
}

// DetectBollingerSignals emits level-based band touches, evaluated
// independently per row: close at or below the lower band is bullish,
// close at or above the upper band is bearish.
func DetectBollingerSignals(f *indicator.Frame) []Signal {
	lower, ok := f.Column(indicator.ColBBLower)
	if !ok {
		return nil
	}
	upper, ok := f.Column(indicator.ColBBUpper)
	if !ok {
		return nil
	}

	var signals []Signal
	for i := 0; i < f.Len(); i++ {
		if anyNaN(lower[i], upper[i]) {
			continue
		}
		px := f.Close(i)

		if px <= lower[i] {
			signals = append(signals, Signal{
				Kind:        BBLowerTouch,
				Date:        f.TS(i),
				Price:       px,
				Description: "Close touched lower Bollinger band",
				Bullish:     true,
			})
		} else if px >= upper[i] {
			signals = append(signals, Signal{
				Kind:        BBUpperTouch,
				Date:        f.TS(i),
				Price:       px,
				Description: "Close touched upper Bollinger band",
				Bullish:     false,
			})
		}
	}
	return signals
}

// DetectAll runs every detector over the trailing `lookback` rows, merges
// the results, and sorts them by event date descending. Distinct kinds on
// the same bar are all kept; nothing is deduplicated.
func DetectAll(f *indicator.Frame, lookback int) []Signal {
	recent := f.Tail(lookback)

	var all []Signal
	all = append(all, DetectMACrossovers(recent, indicator.ColSMA25, indicator.ColSMA75)...)
	all = append(all, DetectMACrossovers(recent, indicator.ColSMA5, indicator.ColSMA25)...)
	all = append(all, DetectRSISignals(recent, DefaultOversold, DefaultOverbought)...)
	all = append(all, DetectMACDSignals(recent)...)
	all = append(all, DetectBollingerSignals(recent)...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	return all
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
