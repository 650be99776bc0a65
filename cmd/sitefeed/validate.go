package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bitcheongmo/sitefeed"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate <collection> [file]",
	Short: "Check a collection document",
	Long: `Validate decodes a collection document, checks it against the envelope
schema and normalizes every record. The file defaults to the configured data
path of the collection.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection := args[0]
		path, err := documentPath(collection, args[1:])
		if err != nil {
			return err
		}
		return sitefeed.Dispatch(cmd.Context(), sitefeed.ValidateDocument{
			Collection: collection,
			Path:       path,
			Strict:     validateStrict,
		})
	},
}

// documentPath resolves an explicit file argument or the configured data
// path of collection.
func documentPath(collection string, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, ok := module.Config().Collection(collection)
	if !ok {
		return "", fmt.Errorf("%w: %q", sitefeed.ErrUnknownCollection, collection)
	}
	return filepath.Join(module.Config().Feed.Root, cfg.DataPath), nil
}

func printReport(cmd *cobra.Command) func(sitefeed.ValidationReport) {
	return func(report sitefeed.ValidationReport) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d records, %d accepted, %d rejected, %d unpublished\n",
			report.Collection, report.Records, report.Accepted, report.Rejected, report.Unpublished)
		fmt.Fprintf(out, "sync status: %s\n", report.Metadata.SyncStatus)
		for _, log := range report.Logs {
			if log.Err != nil {
				fmt.Fprintf(out, "  record %d: error: %v\n", log.Index, log.Err)
			}
			for _, msg := range log.Warnings {
				fmt.Fprintf(out, "  record %d (%s): warning: %s\n", log.Index, log.Slug, msg)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail when any record is rejected")
}
