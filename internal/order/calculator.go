// Package order computes fixed-fractional position sizing for
// alert-triggered entries: stop below the recent swing low, size from the
// account risk budget, take-profit from the target risk:reward ratio.
package order

import (
	"errors"
	"fmt"
	"math"

	"stockwatch/internal/model"
)

// Default sizing parameters.
const (
	DefaultRiskPercent    = 2.0
	DefaultStopLossBuffer = 5.0
	DefaultRiskReward     = 2.0
	DefaultLookback       = 20
)

// ErrInvalidStop marks a degenerate configuration: the computed stop sits
// at or above the current price, so no position can be sized.
var ErrInvalidStop = errors.New("order: stop loss at or above current price")

// Params configures the sizing calculation.
type Params struct {
	TotalAssets    float64 // account size in currency units
	RiskPercent    float64 // share of assets risked per trade, percent
	StopLossBuffer float64 // stop distance below the swing low, percent
	RiskReward     float64 // target reward as a multiple of risk
	Lookback       int     // bars scanned for the swing low
}

// DefaultParams returns the standard sizing parameters for the given
// account size.
func DefaultParams(totalAssets float64) Params {
	return Params{
		TotalAssets:    totalAssets,
		RiskPercent:    DefaultRiskPercent,
		StopLossBuffer: DefaultStopLossBuffer,
		RiskReward:     DefaultRiskReward,
		Lookback:       DefaultLookback,
	}
}

// OrderInfo is the computed order ticket. Purely a function of its inputs;
// it has no lifecycle of its own.
type OrderInfo struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`

	CurrentPrice float64 `json:"current_price"`
	EntryPrice   float64 `json:"entry_price"`

	PositionSizeShares int64   `json:"position_size_shares"`
	PositionSizeValue  float64 `json:"position_size_value"`

	StopLossPrice     float64 `json:"stop_loss_price"`
	StopLossPercent   float64 `json:"stop_loss_percent"`
	TakeProfitPrice   float64 `json:"take_profit_price"`
	TakeProfitPercent float64 `json:"take_profit_percent"`

	RiskAmount      float64 `json:"risk_amount"`
	RewardAmount    float64 `json:"reward_amount"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// SwingLow returns the minimum low over the trailing lookback bars.
func SwingLow(series model.PriceSeries, lookback int) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	start := len(series) - lookback
	if start < 0 {
		start = 0
	}
	low := series[start].Low
	for _, b := range series[start+1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}

// Calculate sizes a market-order entry at currentPrice against the swing
// low of the trailing window.
//
// Note the sizing is risk-fractional, not budget-capped: when the stop is
// close to the entry the position value can exceed TotalAssets.
func Calculate(ticker, name string, currentPrice float64, series model.PriceSeries, p Params) (*OrderInfo, error) {
	if currentPrice <= 0 {
		return nil, fmt.Errorf("order: non-positive current price %.4f for %s", currentPrice, ticker)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("order: empty price series for %s", ticker)
	}

	swingLow := SwingLow(series, p.Lookback)
	stopLossPrice := swingLow * (1 - p.StopLossBuffer/100)
	riskPerShare := currentPrice - stopLossPrice
	if riskPerShare <= 0 {
		return nil, fmt.Errorf("%w: price %.2f, stop %.2f (swing low %.2f)",
			ErrInvalidStop, currentPrice, stopLossPrice, swingLow)
	}

	riskAmount := p.TotalAssets * p.RiskPercent / 100
	shares := int64(math.Floor(riskAmount / riskPerShare))

	profitPerShare := riskPerShare * p.RiskReward
	takeProfitPrice := currentPrice + profitPerShare

	return &OrderInfo{
		Ticker:             ticker,
		Name:               name,
		CurrentPrice:       currentPrice,
		EntryPrice:         currentPrice, // market order
		PositionSizeShares: shares,
		PositionSizeValue:  float64(shares) * currentPrice,
		StopLossPrice:      stopLossPrice,
		StopLossPercent:    (currentPrice - stopLossPrice) / currentPrice * 100,
		TakeProfitPrice:    takeProfitPrice,
		TakeProfitPercent:  profitPerShare / currentPrice * 100,
		RiskAmount:         riskAmount,
		RewardAmount:       riskAmount * p.RiskReward,
		RiskRewardRatio:    p.RiskReward,
	}, nil
}
