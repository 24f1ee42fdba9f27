package order

import "fmt"

// Format renders the full order ticket for terminal output.
func Format(o *OrderInfo) string {
	return fmt.Sprintf(`━━━━━━━━━━━━━━━━━━━━━━━━━━━━
📊 Order ticket: %s (%s)
━━━━━━━━━━━━━━━━━━━━━━━━━━━━
Price:        $%.2f (entry $%.2f)
Position:     %d shares ($%.2f)
Stop loss:    $%.2f (-%.1f%%)
Take profit:  $%.2f (+%.1f%%)
Risk:         $%.2f
Reward:       $%.2f
R:R:          1:%.1f
━━━━━━━━━━━━━━━━━━━━━━━━━━━━`,
		o.Name, o.Ticker,
		o.CurrentPrice, o.EntryPrice,
		o.PositionSizeShares, o.PositionSizeValue,
		o.StopLossPrice, o.StopLossPercent,
		o.TakeProfitPrice, o.TakeProfitPercent,
		o.RiskAmount, o.RewardAmount, o.RiskRewardRatio)
}

// FormatCompact renders the one-block form appended to alert messages
// before dispatch.
func FormatCompact(o *OrderInfo) string {
	return fmt.Sprintf(`📊 Order: %s (%s)
💰 $%.2f → entry $%.2f
📦 %d shares ($%.2f)
🛑 SL $%.2f (-%.1f%%)
🎯 TP $%.2f (+%.1f%%)
⚖️ R:R = 1:%.1f`,
		o.Name, o.Ticker,
		o.CurrentPrice, o.EntryPrice,
		o.PositionSizeShares, o.PositionSizeValue,
		o.StopLossPrice, o.StopLossPercent,
		o.TakeProfitPrice, o.TakeProfitPercent,
		o.RiskRewardRatio)
}
