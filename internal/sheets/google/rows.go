package google

import (
	"strconv"

	"subledger/internal/aggregate"
	"subledger/internal/core"
)

var header = []any{"ID", "Name", "Category", "Price", "Renewal date", "Days until renewal"}

// BuildRows lays out the sheet: a header, one row per subscription in ledger
// order, a blank separator and the totals block. Prices are plain decimals
// so the sheet treats them as numbers.
func BuildRows(subs []core.Subscription, summary aggregate.Summary) [][]any {
	days := make(map[string]int, len(summary.Upcoming))
	for _, r := range summary.Upcoming {
		days[r.Subscription.ID] = r.DaysUntil
	}

	rows := make([][]any, 0, len(subs)+5)
	rows = append(rows, header)
	for _, s := range subs {
		due := ""
		if d, ok := days[s.ID]; ok {
			due = strconv.Itoa(d)
		}
		rows = append(rows, []any{
			s.ID,
			s.Name,
			s.Category,
			s.Price.Decimal().StringFixed(2),
			s.RenewalDate.String(),
			due,
		})
	}

	rows = append(rows,
		[]any{},
		[]any{"", "Monthly total", "", summary.TotalMonthly.Decimal().StringFixed(2)},
		[]any{"", "Yearly total", "", summary.TotalYearly.Decimal().StringFixed(2)},
		[]any{"", "Active subscriptions", "", strconv.Itoa(summary.ActiveCount)},
	)
	return rows
}
