package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSavingsCommand(opts *rootOptions) *cobra.Command {
	var (
		offersPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "savings --offers <offers.html> <ingredient>... [--json]",
		Short: "Prices recipe ingredients against the offers of a saved page.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			defer p.Close()

			f, err := os.Open(offersPath)
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := p.deals.IngestHTML(cmd.Context(), offersPath, f); err != nil {
				return fmt.Errorf("ingest %s: %w", offersPath, err)
			}

			summary, err := p.deals.RecipeSavings(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, summary)
			}

			matches, err := p.deals.MatchIngredients(cmd.Context(), args)
			if err != nil {
				return err
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"Ingredient", "Offer", "Price", "Original"})
			for _, match := range matches {
				if match.Offer == nil {
					t.AppendRow(table.Row{match.Query, "-", "-", "-"})
					continue
				}
				t.AppendRow(table.Row{
					match.Query,
					match.Offer.Name,
					formatMoney(match.Offer.Price),
					formatMoney(match.Offer.OriginalPrice),
				})
			}
			t.AppendFooter(table.Row{"", "Total", formatMoney(summary.DiscountedTotal), formatMoney(summary.OriginalTotal)})
			t.Render()

			fmt.Fprintf(out, "Savings: %s\n", formatMoney(&summary.Savings))
			return nil
		},
	}
	cmd.Flags().StringVar(&offersPath, "offers", "", "Saved offer page to price against.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table.")
	_ = cmd.MarkFlagRequired("offers")
	return cmd
}
