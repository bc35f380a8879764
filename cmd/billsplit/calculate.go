package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/service"
	"github.com/mmynk/billsplit/pkg/api"
)

var calculateOutput string

func newCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate <bill.json|bill.yaml|->",
		Short: "Compute settlements for a bill file",
		Long: `Reads a bill (people, dishes, ratios, payments, covers) as JSON or YAML
and prints each person's share and the transfers that settle the bill.
Use "-" to read JSON from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadBill(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := service.Validate(req); err != nil {
				return fmt.Errorf("invalid bill: %w", err)
			}

			result := calculator.Calculate(service.ToBill(req))
			switch calculateOutput {
			case "json":
				return writeResultJSON(cmd.OutOrStdout(), result)
			case "text":
				return writeResultText(cmd.OutOrStdout(), result)
			default:
				return fmt.Errorf("unknown output format %q (want text or json)", calculateOutput)
			}
		},
	}
	cmd.Flags().StringVarP(&calculateOutput, "output", "o", "text", "output format: text or json")
	return cmd
}

// loadBill decodes a bill file. YAML is chosen by extension, everything else
// is read as JSON.
func loadBill(path string, stdin io.Reader) (*api.CalculateRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bill: %w", err)
	}

	var req api.CalculateRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &req)
	default:
		err = json.Unmarshal(data, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse bill %s: %w", path, err)
	}
	return &req, nil
}

func writeResultJSON(w io.Writer, result calculator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(service.FromResult(result))
}

func writeResultText(w io.Writer, result calculator.Result) error {
	fmt.Fprintf(w, "Total: %s\n\n", money(result.Total))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Person\tConsumed\tCovered\tCost\tPaid\tBalance\t")
	for _, p := range result.People {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			displayName(p.Name, p.PersonID),
			money(p.Consumption),
			money(p.Covered),
			money(p.FinalCost),
			money(p.Paid),
			money(p.Balance),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(result.Settlements) == 0 {
		_, err := fmt.Fprintln(w, "\nNothing to settle.")
		return err
	}
	fmt.Fprintln(w, "\nSettlements:")
	for _, s := range result.Settlements {
		fmt.Fprintf(w, "  %s -> %s: %s\n", s.DebtorName, s.CreditorName, money(s.Amount))
	}
	return nil
}

// money formats an amount with exactly two decimals.
func money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func displayName(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
