package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subledger/internal/aggregate"
	"subledger/internal/core"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func renderSubscriptions(subs []core.Subscription) string {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Category", "Price", "Renews"})
	for _, s := range subs {
		t.AppendRow(table.Row{s.ID, s.Name, s.Category, s.Price.String(), s.RenewalDate.Display()})
	}
	t.AppendFooter(table.Row{"", "", text.Bold.Sprint("Total"), text.Bold.Sprint(aggregate.TotalMonthly(subs).String()), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return t.Render() + "\n"
}

func renderSummary(s aggregate.Summary) string {
	var b strings.Builder

	totals := newTable()
	totals.AppendRows([]table.Row{
		{"Gasto Mensal", s.TotalMonthly.String()},
		{"Gasto Anual", s.TotalYearly.String()},
		{"Serviços Ativos", s.ActiveCount},
	})
	totals.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	b.WriteString(totals.Render())
	b.WriteString("\n")

	if len(s.Upcoming) > 0 {
		b.WriteString("\nRenovações Próximas\n")
		upcoming := newTable()
		upcoming.AppendHeader(table.Row{"Name", "Renews", "Days"})
		for _, r := range s.Upcoming {
			days := fmt.Sprint(r.DaysUntil)
			if r.DaysUntil <= 1 {
				days = text.FgYellow.Sprint(days)
			}
			upcoming.AppendRow(table.Row{r.Subscription.Name, r.Subscription.RenewalDate.Display(), days})
		}
		b.WriteString(upcoming.Render())
		b.WriteString("\n")
	}

	if len(s.ByCategory) > 0 {
		b.WriteString("\nPor categoria\n")
		cats := newTable()
		cats.AppendHeader(table.Row{"Category", "Monthly"})
		for _, c := range s.ByCategory {
			cats.AppendRow(table.Row{c.Category, c.Monthly.String()})
		}
		b.WriteString(cats.Render())
		b.WriteString("\n")
	}

	if s.ShowSharingTip {
		fmt.Fprintf(&b, "\nCom %d serviços ativos, você poderia economizar até %s/mês compartilhando contas familiares!\n",
			s.ActiveCount, s.SharingSavings)
	}
	return b.String()
}

func renderCatalog(c core.Catalog) string {
	var b strings.Builder

	services := newTable()
	services.AppendHeader(table.Row{"Service", "Price", "Category", "Icon"})
	for _, svc := range c.Services {
		services.AppendRow(table.Row{svc.Name, svc.Price.String(), svc.Category, svc.Icon})
	}
	b.WriteString(services.Render())
	b.WriteString("\n")

	if len(c.Tips) > 0 {
		b.WriteString("\nDicas de Economia\n")
		tips := newTable()
		tips.AppendHeader(table.Row{"Tip", "Savings"})
		for _, tip := range c.Tips {
			tips.AppendRow(table.Row{tip.Title, tip.Savings})
		}
		b.WriteString(tips.Render())
		b.WriteString("\n")
	}
	return b.String()
}
