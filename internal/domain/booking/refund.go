package booking

import "time"

// Notice-based refund tiers: the elapsed time between the cancellation
// request and the lesson start decides how much of the service fee comes back.
const (
	fullRefundNotice = 24 * time.Hour
	halfRefundNotice = 12 * time.Hour
)

// RefundPercent maps a cancellation notice window to a refund percentage:
// >= 24h -> 100%, >= 12h -> 50%, otherwise 0%.
func RefundPercent(notice time.Duration) int {
	switch {
	case notice >= fullRefundNotice:
		return 100
	case notice >= halfRefundNotice:
		return 50
	default:
		return 0
	}
}
