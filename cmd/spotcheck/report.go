package main

import (
	"fmt"
	"os"

	"github.com/aretw0/spotcheck/internal/presentation/tui"
	"github.com/aretw0/spotcheck/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize recorded results",
	Long: `Prints per-step hit and miss counts and the questionnaire answers as Markdown.
Output is rendered for the terminal unless piped or --raw is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		session, _ := cmd.Flags().GetString("session")
		raw, _ := cmd.Flags().GetBool("raw")

		steps, err := a.catalog.ListSteps(cmd.Context())
		if err != nil {
			return err
		}
		results, err := a.db.ListResults(cmd.Context(), session)
		if err != nil {
			return err
		}
		md := report.Summarize(steps, results).Markdown()

		fd := int(os.Stdout.Fd())
		if raw || !term.IsTerminal(fd) {
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}

		width := 100
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		out, err := render(md)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("session", "", "Only include one participant session")
	reportCmd.Flags().Bool("raw", false, "Print plain Markdown")
}
