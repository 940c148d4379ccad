// Package summary aggregates expense amounts for totals and charts.
package summary

import (
	"sort"
	"time"

	"bytebank/internal/models"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category   models.Category `json:"category"`
	Total      float64         `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// DateTotal is the amount spent on one calendar day.
type DateTotal struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// DateString returns the day in models.DateLayout.
func (d DateTotal) DateString() string {
	return d.Date.Format(models.DateLayout)
}

// Total returns the sum of all amounts, 0 when expenses is empty.
func Total(expenses []models.Expense) float64 {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(decimal.NewFromFloat(e.Amount))
	}
	return sum.InexactFloat64()
}

// ByCategory sums amounts per category. Categories without expenses are absent.
func ByCategory(expenses []models.Expense) map[models.Category]float64 {
	sums := make(map[models.Category]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}

	out := make(map[models.Category]float64, len(sums))
	for c, s := range sums {
		out[c] = s.InexactFloat64()
	}
	return out
}

// ByDate sums amounts per day, ordered by ascending date.
func ByDate(expenses []models.Expense) []DateTotal {
	// keyed by day text so equal dates in different locations collapse
	sums := make(map[string]decimal.Decimal)
	days := make(map[string]time.Time)
	for _, e := range expenses {
		key := e.DateString()
		sums[key] = sums[key].Add(decimal.NewFromFloat(e.Amount))
		if _, ok := days[key]; !ok {
			days[key] = e.Date
		}
	}

	out := make([]DateTotal, 0, len(sums))
	for key, s := range sums {
		out = append(out, DateTotal{Date: days[key], Total: s.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Breakdown returns per-category totals in models.Categories order, with each
// category's share of the overall total. Empty categories are skipped.
func Breakdown(expenses []models.Expense) []CategoryTotal {
	counts := make(map[models.Category]int)
	for _, e := range expenses {
		counts[e.Category]++
	}
	sums := ByCategory(expenses)
	total := Total(expenses)

	out := make([]CategoryTotal, 0, len(sums))
	for _, c := range models.Categories {
		sum, ok := sums[c]
		if !ok {
			continue
		}
		pct := 0.0
		if total > 0 {
			pct = sum / total * 100
		}
		out = append(out, CategoryTotal{Category: c, Total: sum, Count: counts[c], Percentage: pct})
	}
	return out
}
