package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pc-recommender/domain"
)

func newCompareCmd(c *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Manage the list of PCs to compare",
		Long: `Keep up to a few PC builds side by side.

The list is stored locally and survives restarts. Builds can be added from
the last recommend call (--pick) or from a JSON file.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the PCs in the comparison",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				items := c.app.Comparison.GetAll()
				printConfigurations(c.out, items)
				fmt.Fprintln(c.out, mutedStyle.Render(fmt.Sprintf("%d of %d slots used", len(items), c.app.Comparison.MaxItems())))
				return nil
			},
		},
		newCompareAddCmd(c),
		&cobra.Command{
			Use:   "remove ID",
			Short: "Remove a PC from the comparison",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				res := c.app.Comparison.Remove(args[0])
				if err := checkResult(res); err != nil {
					return err
				}
				printSuccess(c.out, res.Message)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every PC from the comparison",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				res := c.app.Comparison.Clear()
				if err := checkResult(res); err != nil {
					return err
				}
				printSuccess(c.out, res.Message)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Summarize the comparison",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				printStats(c.out, c.app.Comparison.Stats())
				return nil
			},
		},
		newCompareSortCmd(c),
		&cobra.Command{
			Use:   "export [FILE]",
			Short: "Write the comparison as JSON to FILE or stdout",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				data := c.app.Comparison.Export()
				if len(args) == 0 {
					return printJSON(c.out, data)
				}
				encoded, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return err
				}
				if err := os.WriteFile(args[0], encoded, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				printSuccess(c.out, fmt.Sprintf("Exported %d PC configurations to %s", len(data.Items), args[0]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "import FILE",
			Short: "Replace the comparison with an exported file (- for stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var data domain.ComparisonExport
				if err := readJSONFile(cmd, args[0], &data); err != nil {
					return fmt.Errorf("invalid comparison data format: %w", err)
				}
				res := c.app.Comparison.Import(data)
				if err := checkResult(res); err != nil {
					return err
				}
				printSuccess(c.out, res.Message)
				return nil
			},
		},
		&cobra.Command{
			Use:   "suggest",
			Short: "Hints for the current comparison",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				suggestions := c.app.Comparison.Suggestions()
				if len(suggestions) == 0 {
					fmt.Fprintln(c.out, mutedStyle.Render("No suggestions."))
					return nil
				}
				for _, s := range suggestions {
					fmt.Fprintf(c.out, "[%s] %s\n", s.Priority, s.Message)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Move a comparison saved under the old key",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				res := c.app.Comparison.MigrateLegacy()
				if err := checkResult(res); err != nil {
					return err
				}
				printSuccess(c.out, res.Message)
				return nil
			},
		},
	)
	return cmd
}

func newCompareAddCmd(c *cliContext) *cobra.Command {
	var pick int

	cmd := &cobra.Command{
		Use:   "add [FILE]",
		Short: "Add a PC from a JSON file (- for stdin) or from the last recommendations",
		Example: `  pcrec compare add --pick 2
  pcrec compare add build.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg domain.PCConfiguration
			switch {
			case pick > 0 && len(args) == 0:
				picked, err := c.app.Recommendations.PickFromLast(pick)
				if err != nil {
					return err
				}
				cfg = picked
			case pick == 0 && len(args) == 1:
				if err := readJSONFile(cmd, args[0], &cfg); err != nil {
					return fmt.Errorf("read configuration: %w", err)
				}
			default:
				return fmt.Errorf("give either FILE or --pick N")
			}

			res := c.app.Comparison.Add(cfg)
			if err := checkResult(res); err != nil {
				return err
			}
			c.app.Analytics.TrackComparisonAdded(cmd.Context(), cfg.ConfigurationID)
			printSuccess(c.out, fmt.Sprintf("%s (%d of %d)", res.Message, res.Count, c.app.Comparison.MaxItems()))
			return nil
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 0, "position in the last recommend output")
	return cmd
}

func newCompareSortCmd(c *cliContext) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Show the comparison sorted by price, performance, confidence or value",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			items, err := c.app.Comparison.SortByCriteria(domain.SortCriteria(by))
			if err != nil {
				return err
			}
			printConfigurations(c.out, items)
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", string(domain.SortByPrice), "price, performance, confidence or value")
	return cmd
}

// readJSONFile decodes path, or stdin when path is "-", into v.
func readJSONFile(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return json.NewDecoder(r).Decode(v)
}
