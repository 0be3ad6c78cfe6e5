package demand

import (
	"strings"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
)

// QuickTier is the price/category heuristic printed on forecast rows. It is
// deliberately cheaper than the full classifier in package abc and does not
// look at sales. Electronics get a 1.5x weight; 100 and up is A, 50 and up is B.
func QuickTier(category string, unitPrice float64) domain.Tier {
	score := unitPrice
	if strings.EqualFold(strings.TrimSpace(category), "electronics") {
		score *= 1.5
	}

	switch {
	case score >= 100:
		return domain.TierA
	case score >= 50:
		return domain.TierB
	default:
		return domain.TierC
	}
}
