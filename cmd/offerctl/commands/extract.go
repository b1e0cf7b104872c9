package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/matfynd/backend/internal/domain"
	"github.com/spf13/cobra"
)

type extractOutput struct {
	Offers []domain.OfferRecord `json:"offers"`
	Report domain.IngestReport  `json:"report"`
}

func newExtractCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "extract <offers.html> [--json]",
		Short: "Extracts offer records from a saved offer page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			defer p.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			offers, report, err := p.deals.ExtractHTML(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, extractOutput{Offers: offers, Report: report})
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"#", "Name", "Price", "Original", "Comparison", "Details"})
			for i, offer := range offers {
				t.AppendRow(table.Row{
					i + 1,
					offer.Name,
					formatMoney(offer.Price),
					formatMoney(offer.OriginalPrice),
					formatText(offer.ComparisonPrice),
					formatText(offer.OfferDetails),
				})
			}
			t.Render()

			fmt.Fprintf(out, "%d cards, %d offers, %d rejected\n",
				report.CardsFound, report.OffersAssembled, report.Rejected)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table.")
	return cmd
}
