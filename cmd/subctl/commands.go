package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"subledger/internal/aggregate"
	"subledger/internal/cli"
	"subledger/internal/core"
	"subledger/internal/ledger"
)

var (
	addName     string
	addPrice    string
	addRenewal  string
	addCategory string
	addService  string

	summaryJSON bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions in insertion order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, store, cleanup, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		subs := store.List()
		if len(subs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma subscrição cadastrada")
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSubscriptions(subs))
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a subscription",
	Example: `  subctl add --service Netflix --renewal 2026-11-05
  subctl add --name Gym --price 30.00 --renewal 2026-11-01 --category Saúde`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if flagServer != "" {
			return runRemoteAdd(cmd)
		}

		_, store, cleanup, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		draft := ledger.Draft{Name: addName, Price: addPrice, RenewalDate: addRenewal, Category: addCategory}
		if addService != "" {
			svc, ok := store.Catalog().Lookup(addService)
			if !ok {
				return fmt.Errorf("unknown service %q", addService)
			}
			if draft.Name == "" {
				draft.Name = svc.Name
			}
			if draft.Price == "" {
				draft.Price = svc.Price.Decimal().StringFixed(2)
			}
		}

		sub, err := store.Add(cmd.Context(), draft)
		if errors.Is(err, ledger.ErrIncompleteDraft) {
			return errors.New("name, price and renewal date are required")
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) %s, renews %s\n", sub.Name, sub.ID, sub.Price, sub.RenewalDate.Display())
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a subscription by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var removed bool
		if flagServer != "" {
			ok, err := newRemoteLedger(flagServer).remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			removed = ok
		} else {
			_, store, cleanup, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if removed, err = store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
		}
		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "No subscription with id %s\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals, upcoming renewals and the sharing suggestion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, store, cleanup, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		window, err := cli.RenewalWindow(cfg)
		if err != nil {
			return err
		}
		summary := aggregate.Summarize(store.List(), time.Now(), window)

		if summaryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List predefined services and savings tips",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, store, cleanup, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Fprint(cmd.OutOrStdout(), renderCatalog(store.Catalog()))
		return nil
	},
}

// runRemoteAdd adds through a running server. Catalog services are resolved
// with the local catalog so --service behaves the same in both modes.
func runRemoteAdd(cmd *cobra.Command) error {
	name, price := addName, addPrice
	if addService != "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := core.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return err
		}
		svc, ok := catalog.Lookup(addService)
		if !ok {
			return fmt.Errorf("unknown service %q", addService)
		}
		if name == "" {
			name = svc.Name
		}
		if price == "" {
			price = svc.Price.Decimal().StringFixed(2)
		}
	}

	sub, err := newRemoteLedger(flagServer).add(cmd.Context(), name, price, addRenewal, addCategory)
	if err != nil {
		return err
	}
	renewal := sub.RenewalDate
	if d, err := core.ParseDate(renewal); err == nil {
		renewal = d.Display()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) %s %s, renews %s\n", sub.Name, sub.ID, core.CurrencySymbol, sub.Price, renewal)
	return nil
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "Service name")
	addCmd.Flags().StringVar(&addPrice, "price", "", "Monthly price, e.g. 45.90")
	addCmd.Flags().StringVar(&addRenewal, "renewal", "", "Next renewal date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category; defaults from the catalog")
	addCmd.Flags().StringVar(&addService, "service", "", "Predefined service used to fill name and price")

	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Print the summary as JSON")

	rootCmd.AddCommand(listCmd, addCmd, removeCmd, summaryCmd, catalogCmd)
}
