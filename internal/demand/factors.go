// Package demand projects daily product demand from category, price and
// calendar effects.
package demand

import (
	"strings"
	"time"
)

const defaultCategoryMultiplier = 5.0

var categoryMultipliers = map[string]float64{
	"electronics":   8.0,
	"clothing":      12.0,
	"books":         5.0,
	"home & garden": 6.0,
	"sports":        7.0,
}

// CategoryMultiplier matches category case-insensitively.
func CategoryMultiplier(category string) float64 {
	if m, ok := categoryMultipliers[strings.ToLower(strings.TrimSpace(category))]; ok {
		return m
	}
	return defaultCategoryMultiplier
}

// PriceMultiplier favours cheaper products.
func PriceMultiplier(unitPrice float64) float64 {
	switch {
	case unitPrice < 20:
		return 1.5
	case unitPrice < 50:
		return 1.2
	case unitPrice < 100:
		return 1.0
	case unitPrice < 200:
		return 0.8
	default:
		return 0.6
	}
}

// BaseDemand is the expected daily units before calendar effects.
func BaseDemand(category string, unitPrice float64) float64 {
	return CategoryMultiplier(category) * PriceMultiplier(unitPrice)
}

// SeasonalFactor peaks over the December/January holidays.
func SeasonalFactor(date time.Time) float64 {
	switch date.Month() {
	case time.December, time.January:
		return 1.3
	case time.June, time.July, time.August:
		return 1.1
	case time.March, time.April, time.May:
		return 0.9
	default:
		return 1.0
	}
}

// DayOfWeekFactor lifts Friday and Saturday and damps Sunday and Monday.
func DayOfWeekFactor(date time.Time) float64 {
	switch date.Weekday() {
	case time.Friday, time.Saturday:
		return 1.2
	case time.Sunday:
		return 0.7
	case time.Monday:
		return 0.8
	default:
		return 1.0
	}
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
