package domain

import "strings"

// StockStatus buckets stock on hand relative to the minimum threshold.
type StockStatus string

const (
	StockOut    StockStatus = "Out of Stock"
	StockLow    StockStatus = "Low"
	StockMedium StockStatus = "Medium"
	StockHigh   StockStatus = "High"
)

func StockStatusOf(current, minimum int) StockStatus {
	switch {
	case current <= 0:
		return StockOut
	case current <= minimum:
		return StockLow
	case current <= minimum*2:
		return StockMedium
	default:
		return StockHigh
	}
}

// Tier is an ABC value class.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

var Tiers = []Tier{TierA, TierB, TierC}

// ParseTier accepts a, b or c in any case.
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToUpper(strings.TrimSpace(s))) {
	case TierA:
		return TierA, true
	case TierB:
		return TierB, true
	case TierC:
		return TierC, true
	}
	return "", false
}

// AlertSeverity grades low-stock alerts.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "Warning"
	SeverityCritical AlertSeverity = "Critical"
)

func SeverityFor(stock int) AlertSeverity {
	if stock == 0 {
		return SeverityCritical
	}
	return SeverityWarning
}

// DefaultCategories is returned when the catalogue is empty.
var DefaultCategories = []string{
	"Electronics",
	"Clothing",
	"Books",
	"Home & Garden",
	"Sports",
	"Toys",
}
