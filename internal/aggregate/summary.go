package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"subledger/internal/core"
)

// SharingRatio is the fixed fraction of monthly spend suggested as savings
// from shared family plans.
var SharingRatio = decimal.RequireFromString("0.4")

// SharingTipMinCount: the sharing tip is shown when more than this many
// subscriptions are active.
const SharingTipMinCount = 2

type (
	// Renewal is a subscription inside the renewal horizon.
	Renewal struct {
		Subscription core.Subscription `json:"subscription"`
		DaysUntil    int               `json:"daysUntil"`
	}

	CategoryTotal struct {
		Category string     `json:"category"`
		Monthly  core.Money `json:"monthly"`
	}

	// Summary bundles every derived view for one snapshot.
	Summary struct {
		TotalMonthly   core.Money      `json:"totalMonthly"`
		TotalYearly    core.Money      `json:"totalYearly"`
		ActiveCount    int             `json:"activeCount"`
		Upcoming       []Renewal       `json:"upcoming"`
		SharingSavings core.Money      `json:"sharingSavings"`
		ShowSharingTip bool            `json:"showSharingTip"`
		ByCategory     []CategoryTotal `json:"byCategory"`
		AsOf           time.Time       `json:"asOf"`
	}
)

// TotalMonthly sums the prices. Every price is at most core.MaxPriceCents,
// which keeps the sum and the yearly product inside int64.
func TotalMonthly(subs []core.Subscription) core.Money {
	var total core.Money
	for _, s := range subs {
		total = total.Add(s.Price)
	}
	return total
}

func TotalYearly(subs []core.Subscription) core.Money {
	return TotalMonthly(subs).Mul(12)
}

func ActiveCount(subs []core.Subscription) int {
	return len(subs)
}

// SharingSavings is TotalMonthly * SharingRatio, rounded to cents.
func SharingSavings(subs []core.Subscription) core.Money {
	return TotalMonthly(subs).MulRatio(SharingRatio)
}

// UpcomingRenewals returns the subscriptions renewing within the horizon,
// in insertion order.
func UpcomingRenewals(subs []core.Subscription, now time.Time, w RenewalWindow) []core.Subscription {
	var out []core.Subscription
	for _, s := range subs {
		if InHorizon(w.DaysUntil(s.RenewalDate, now)) {
			out = append(out, s)
		}
	}
	return out
}

// ByCategory sums monthly spend per category in order of first appearance.
func ByCategory(subs []core.Subscription) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, s := range subs {
		i, ok := index[s.Category]
		if !ok {
			i = len(out)
			index[s.Category] = i
			out = append(out, CategoryTotal{Category: s.Category})
		}
		out[i].Monthly = out[i].Monthly.Add(s.Price)
	}
	return out
}

// Summarize computes every view for subs as of now. Upcoming renewals are
// ordered soonest first; ties keep insertion order.
func Summarize(subs []core.Subscription, now time.Time, w RenewalWindow) Summary {
	var upcoming []Renewal
	for _, s := range subs {
		if days := w.DaysUntil(s.RenewalDate, now); InHorizon(days) {
			upcoming = append(upcoming, Renewal{Subscription: s, DaysUntil: days})
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysUntil < upcoming[j].DaysUntil
	})

	count := ActiveCount(subs)
	return Summary{
		TotalMonthly:   TotalMonthly(subs),
		TotalYearly:    TotalYearly(subs),
		ActiveCount:    count,
		Upcoming:       upcoming,
		SharingSavings: SharingSavings(subs),
		ShowSharingTip: count > SharingTipMinCount,
		ByCategory:     ByCategory(subs),
		AsOf:           now,
	}
}
