package main

import (
	"github.com/spf13/cobra"

	"github.com/bitcheongmo/sitefeed"
)

var (
	transformNotion   string
	transformMarkdown string
	transformOut      string
)

var transformCmd = &cobra.Command{
	Use:   "transform <collection>",
	Short: "Convert a Notion export or markdown directory into a collection document",
	Long: `Transform builds a collection document from a Notion database query export
(--notion) or a directory of markdown files with front matter (--markdown).
An export without publishable records leaves the existing document in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sitefeed.Dispatch(cmd.Context(), sitefeed.TransformDocument{
			Collection:  args[0],
			NotionFile:  transformNotion,
			MarkdownDir: transformMarkdown,
			Out:         transformOut,
		})
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	transformCmd.Flags().StringVar(&transformNotion, "notion", "", "Notion query export (JSON)")
	transformCmd.Flags().StringVar(&transformMarkdown, "markdown", "", "directory of markdown files")
	transformCmd.Flags().StringVarP(&transformOut, "out", "o", "", "write the document to this file instead of stdout")
	transformCmd.MarkFlagsMutuallyExclusive("notion", "markdown")
}
