// Package rules handles the rule table inspection commands
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"fjacquet/maint-report/cmd/common"
	"fjacquet/maint-report/cmd/root"
	"fjacquet/maint-report/internal/models"
	"fjacquet/maint-report/internal/rules"
	"fjacquet/maint-report/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the rules command
var Cmd = NewCommand()

// NewCommand builds the rules command and its subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect, export and check the classification rule table",
		Long: `Inspect the effective rule table: the built-in or configured table with the
optional (categoria, padrao) dictionary merged in.`,
	}
	cmd.AddCommand(newListCommand(), newExportCommand(), newCheckCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the categories in priority order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.NewContainer(cmd)
			if err != nil {
				return err
			}
			table, err := c.GetStore().LoadEffectiveTable()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", common.HeaderStyle.Render("Rule table version:"), table.Version)

			builtin := make(map[string]bool)
			for _, category := range models.Catalog() {
				builtin[category] = true
			}

			t := common.NewTable(out, "#", "Category", "Stage", "Source", "Keywords", "Patterns", "Exclude")
			for i, r := range table.Rules {
				source := "built-in"
				if !builtin[r.Category] {
					source = "custom"
				}
				t.Row(strconv.Itoa(i+1), r.Category, stage(table, r), source,
					summarize(r.Keywords), summarize(r.Patterns), summarize(r.Exclude))
			}
			return t.Flush()
		},
	}
}

func newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective rule table as YAML",
		Long: `Write the effective rule table as YAML, to stdout or to the --output file.
The exported file can be edited and passed back with --rules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.NewContainer(cmd)
			if err != nil {
				return err
			}
			table, err := c.GetStore().LoadEffectiveTable()
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return store.EncodeRuleTable(cmd.OutOrStdout(), table)
			}
			return c.GetStore().SaveRuleTableTo(output, table)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output YAML file (default stdout)")
	return cmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate and compile the rule table and dictionary",
		Long: `Load the configured rule table and dictionary, validate them and compile every
keyword and pattern. Exits with an error on the first invalid rule.

Example:
  maint-report rules check --dictionary dicionario.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.NewContainer(cmd)
			if err != nil {
				return err
			}
			compiled := c.GetCategorizer().Rules()
			fmt.Fprintf(cmd.OutOrStdout(), "Rule table OK: version %d, %d categories, catch-all %q\n",
				compiled.Version, len(compiled.Categories()), compiled.CatchAll)
			return nil
		},
	}
}

func stage(table rules.Table, r rules.Rule) string {
	switch {
	case r.Category == table.CatchAll:
		return "catch-all"
	case r.LeakFluid:
		return "leak"
	case r.RequiresLeak:
		return "leak-gated"
	default:
		return "general"
	}
}

// summarize shows up to three entries and the count of the rest.
func summarize(items []string) string {
	const shown = 3
	if len(items) <= shown {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d)", strings.Join(items[:shown], ", "), len(items)-shown)
}
