package http

import (
	"subledger/internal/aggregate"
	"subledger/internal/core"
)

type (
	itemView struct {
		ID          string
		Name        string
		Category    string
		RenewalDate string
		Price       string
		Color       string
		Glyph       string
	}

	renewalView struct {
		Name        string
		RenewalDate string
		DaysLabel   string
	}

	serviceView struct {
		Name  string
		Price string
	}

	pageData struct {
		Upcoming       []renewalView
		MonthlyTotal   string
		YearlyTotal    string
		ActiveCount    int
		Items          []itemView
		Services       []serviceView
		Tips           []core.Tip
		ShowSharingTip bool
		SharingSavings string
		Form           formValues
		Error          string
	}
)

func newPageData(subs []core.Subscription, summary aggregate.Summary, catalog core.Catalog) pageData {
	data := pageData{
		MonthlyTotal:   summary.TotalMonthly.String(),
		YearlyTotal:    summary.TotalYearly.String(),
		ActiveCount:    summary.ActiveCount,
		ShowSharingTip: summary.ShowSharingTip,
		SharingSavings: summary.SharingSavings.String(),
		Tips:           catalog.Tips,
	}

	for _, r := range summary.Upcoming {
		data.Upcoming = append(data.Upcoming, renewalView{
			Name:        r.Subscription.Name,
			RenewalDate: r.Subscription.RenewalDate.Display(),
			DaysLabel:   daysLabel(r.DaysUntil),
		})
	}

	for _, s := range subs {
		data.Items = append(data.Items, itemView{
			ID:          s.ID,
			Name:        s.Name,
			Category:    s.Category,
			RenewalDate: s.RenewalDate.Display(),
			Price:       s.Price.String(),
			Color:       s.Color,
			Glyph:       iconGlyph(s.Icon),
		})
	}

	for _, svc := range catalog.Services {
		data.Services = append(data.Services, serviceView{Name: svc.Name, Price: svc.Price.String()})
	}
	return data
}
