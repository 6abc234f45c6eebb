package availability

// Low-water mark: a departure is "low" once bookings reach 80% of capacity
// (floor), with a minimum of one seat.
const (
	lowThresholdNumerator   = 8
	lowThresholdDenominator = 10
)

// LowThreshold returns max(1, floor(maxCapacity * 0.8)).
func LowThreshold(maxCapacity int) int {
	t := 0
	if maxCapacity > 0 {
		t = maxCapacity * lowThresholdNumerator / lowThresholdDenominator
	}
	if t < 1 {
		return 1
	}
	return t
}

// EvaluateCapacity classifies a departure or day by seats booked.
func EvaluateCapacity(c CapacityInfo) Status {
	switch {
	case c.BookedCount >= c.MaxCapacity:
		return StatusSoldOut
	case c.BookedCount >= LowThreshold(c.MaxCapacity):
		return StatusLow
	default:
		return StatusAvailable
	}
}
