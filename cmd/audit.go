package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/misiddons/bookdb/internal/library"
	"github.com/misiddons/bookdb/internal/models"
	"github.com/misiddons/bookdb/internal/report"
	"github.com/misiddons/bookdb/internal/store"
)

func newAuditCmd() *cobra.Command {
	var (
		tableName       string
		outputPath      string
		applyGaps       bool
		applyMismatches bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Cross-check stored rows against freshly derived metadata",
		Long: `Re-derives the canonical record for every row of a table and reports
where the stored data disagrees (mismatches) or is missing data the
providers have (gaps).

The audit itself never writes. --apply fills gaps with canonical
values; --apply-mismatches additionally overwrites mismatched title and
author cells. Rows whose ISBN cannot be determined are skipped.`,
		Example: `  # Report only
  bookdb audit

  # Audit the wishlist and save a YAML report
  bookdb audit --table Wishlist --output audit.yaml

  # Fill in missing descriptions, languages and covers
  bookdb audit --apply`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			table, err := app.tableByName(tableName)
			if err != nil {
				return err
			}

			findings, err := library.NewAuditor(app.catalog).Audit(ctx, table)
			if err != nil {
				return err
			}

			if len(findings) == 0 {
				fmt.Printf("%s: no discrepancies found\n", table.Name())
			} else {
				rows := make([][]string, 0, len(findings))
				for _, f := range findings {
					rows = append(rows, []string{
						strconv.Itoa(f.RowIndex),
						f.Field,
						f.Classification,
						clipCell(f.Stored),
						clipCell(f.Canonical),
					})
				}
				fmt.Println(renderTable(
					[]string{"Row", "Field", "Class", "Stored", "Canonical"},
					rows,
					[]columnAlignment{alignRight},
				))
			}

			if outputPath != "" {
				if err := report.Save(report.New(table.Name(), findings), outputPath); err != nil {
					return err
				}
				fmt.Printf("Report saved to %s\n", outputPath)
			}

			if applyGaps || applyMismatches {
				applied, err := applyFindings(cmd, app, table, findings, applyMismatches)
				if err != nil {
					return err
				}
				fmt.Printf("Applied %d repair(s)\n", applied)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&tableName, "table", "t", "Library", "Table to audit (Library or Wishlist)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write findings to a YAML report file")
	cmd.Flags().BoolVar(&applyGaps, "apply", false, "Fill gap findings with canonical values")
	cmd.Flags().BoolVar(&applyMismatches, "apply-mismatches", false, "Also overwrite mismatched fields with canonical values")

	return cmd
}

// applyFindings groups findings by row and repairs each row once.
// Gap fills are always safe; mismatch overwrites are opt-in.
func applyFindings(cmd *cobra.Command, app *app, table store.RecordStore, findings []library.Discrepancy, mismatches bool) (int, error) {
	type repair struct {
		record models.BookRecord
		fields []string
	}
	repairs := make(map[int]*repair)
	order := []int{}

	for _, f := range findings {
		if f.Kind == library.KindMismatch && !mismatches {
			continue
		}
		r, ok := repairs[f.RowIndex]
		if !ok {
			r = &repair{}
			repairs[f.RowIndex] = r
			order = append(order, f.RowIndex)
		}
		r.record.SetField(f.Field, f.Canonical)
		r.fields = append(r.fields, f.Field)
	}

	auditor := library.NewAuditor(app.catalog)
	applied := 0
	for _, rowIndex := range order {
		r := repairs[rowIndex]
		if err := auditor.Apply(cmd.Context(), table, rowIndex, r.record, r.fields); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// clipCell keeps table output readable when a description is long.
func clipCell(s string) string {
	const limit = 60
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
