// backend-go/internal/forecast/reorder.go
package forecast

// ReorderLevel converts a weekly demand forecast into the stock threshold
// below which restocking should trigger:
//
//	reorder_level = floor(predicted_demand * (lead_time_days / 7) + safety_stock)
//
// The final value truncates rather than rounds; that is the fixed policy the
// rest of the system (and its tests) depend on. Inputs are expected to be
// non-negative; callers validate.
func ReorderLevel(predictedDemand, safetyStock, leadTimeDays int) int {
	leadTimeWeeks := float64(leadTimeDays) / 7
	return int(float64(predictedDemand)*leadTimeWeeks + float64(safetyStock))
}
