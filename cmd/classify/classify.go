// Package classify handles the single-description classification command
package classify

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/maint-report/cmd/common"
	"fjacquet/maint-report/cmd/root"
	"fjacquet/maint-report/internal/categorizer"
	"fjacquet/maint-report/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command
var Cmd = NewCommand()

// NewCommand builds the classify command.
func NewCommand() *cobra.Command {
	var (
		descriptions []string
		explain      bool
	)

	cmd := &cobra.Command{
		Use:   "classify [description...]",
		Short: "Classify work-order descriptions into failure components",
		Long: `Classify one or more free-text work-order descriptions with the rule table.

Descriptions are taken from --description flags and positional arguments.
With --explain every strategy attempt is shown for each description.

Example:
  maint-report classify -d "vazamento de óleo no cárter"
  maint-report classify --explain "mangueira vazando"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := append(append([]string{}, descriptions...), args...)
			if len(inputs) == 0 {
				return fmt.Errorf("at least one description is required")
			}

			c, err := root.NewContainer(cmd)
			if err != nil {
				return err
			}
			cat := c.GetCategorizer()
			out := cmd.OutOrStdout()

			if explain {
				for i, in := range inputs {
					if i > 0 {
						fmt.Fprintln(out)
					}
					if err := writeExplanation(out, cat.Explain(in), cat.Classify(in)); err != nil {
						return err
					}
				}
				return nil
			}

			table := common.NewTable(out, "Description", "Category", "Method", "Rule")
			for _, in := range inputs {
				result := cat.Classify(in)
				category := result.Category
				if result.IsUnclassified() {
					category = common.MutedStyle.Render(category)
				}
				table.Row(in, category, result.Method, result.Rule)
			}
			return table.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&descriptions, "description", "d", nil, "Work-order description to classify (repeatable)")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show the normalized text and every strategy attempt")

	return cmd
}

func writeExplanation(out io.Writer, trace categorizer.StrategyResults, result models.Classification) error {
	fmt.Fprintf(out, "%s %s\n", common.HeaderStyle.Render("Description:"), trace.Description)
	fmt.Fprintf(out, "%s %s\n", common.HeaderStyle.Render("Normalized: "), trace.Normalized)
	leak := trace.LeakMarker
	if leak == "" {
		leak = common.MutedStyle.Render("(none)")
	}
	fmt.Fprintf(out, "%s %s\n", common.HeaderStyle.Render("Leak marker:"), leak)

	table := common.NewTable(out, "Strategy", "Result", "Category", "Rule")
	for _, r := range trace.Results {
		status := "no match"
		switch {
		case r.Error != nil:
			status = "error: " + r.Error.Error()
		case r.Found:
			status = common.MatchStyle.Render("match")
		}
		table.Row(r.Strategy, status, r.Category, r.Rule)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s (%s)\n", common.HeaderStyle.Render("Result:"), result.Category, strings.ToLower(result.Method))
	return nil
}
