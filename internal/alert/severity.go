// backend-go/internal/alert/severity.go
package alert

// Severity is a read-side urgency band. It is derived when alerts are served,
// never stored.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// LowStockSeverity bands a low-stock alert by how far stock has fallen.
func LowStockSeverity(currentStock, safetyStock, reorderLevel int) Severity {
	switch {
	case currentStock <= safetyStock:
		return SeverityCritical
	case float64(currentStock) <= 0.5*float64(reorderLevel):
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// ExpirySeverity bands an expiry alert by days remaining.
func ExpirySeverity(daysUntilExpiry int) Severity {
	switch {
	case daysUntilExpiry <= 7:
		return SeverityCritical
	case daysUntilExpiry <= 14:
		return SeverityHigh
	case daysUntilExpiry <= 30:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
