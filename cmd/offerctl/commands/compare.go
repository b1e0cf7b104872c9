package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/matfynd/backend/internal/domain"
	"github.com/spf13/cobra"
)

func newCompareCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare <cart.json> [--json]",
		Short: "Totals a saved cart per store and names the cheapest one.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			lines, err := decodeCart(data)
			if err != nil {
				return fmt.Errorf("read cart %s: %w", args[0], err)
			}

			p, err := opts.pipeline()
			if err != nil {
				return err
			}
			defer p.Close()

			comparison := p.deals.CompareCart(lines)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, comparison)
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"Store", "Priced lines", "Skipped lines", "Total"})
			for _, store := range comparison.StoreTotals {
				t.AppendRow(table.Row{store.StoreName, store.PricedLines, store.SkippedLines, formatMoney(&store.Total)})
			}
			t.Render()

			if comparison.BestStore == nil {
				fmt.Fprintln(out, "No store has a priced line.")
				return nil
			}
			fmt.Fprintf(out, "Cheapest: %s (%s below the next store)\n",
				comparison.BestStore.StoreName, formatMoney(&comparison.BestStore.MarginOverNextCheapest))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table.")
	return cmd
}

// decodeCart accepts either a bare array of lines or an object with a "lines" field
func decodeCart(data []byte) ([]domain.CartLine, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	var lines []domain.CartLine
	if data[0] == '[' {
		if err := json.Unmarshal(data, &lines); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return lines, nil
	}

	var wrapped struct {
		Lines []domain.CartLine `json:"lines"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return wrapped.Lines, nil
}
