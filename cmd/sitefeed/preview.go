package main

import (
	"github.com/spf13/cobra"

	"github.com/bitcheongmo/sitefeed"
)

var (
	previewShell string
	previewURL   string
	previewOut   string
)

var previewCmd = &cobra.Command{
	Use:   "preview <collection>",
	Short: "Render a collection page shell",
	Long: `Preview renders the list or detail view of a collection into an HTML page
shell. The --url flag selects the view: a slug query parameter or a
#/<noun>/<slug> fragment renders the detail view.`,
	Example: `  sitefeed preview statements --shell statements.html --url "https://example.org/statements.html?statement=first"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sitefeed.Dispatch(cmd.Context(), sitefeed.RenderRoute{
			Collection: args[0],
			Shell:      previewShell,
			URL:        previewURL,
			Out:        previewOut,
		})
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewShell, "shell", "", "HTML page shell holding the collection container")
	previewCmd.Flags().StringVar(&previewURL, "url", "", "page URL to render")
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "", "write the page to this file instead of stdout")
	_ = previewCmd.MarkFlagRequired("shell")
}
