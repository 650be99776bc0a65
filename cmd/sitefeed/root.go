package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bitcheongmo/sitefeed"
	"github.com/bitcheongmo/sitefeed/cmd/sitefeed/internal/bootstrap"
)

var (
	configPath  string
	envFiles    []string
	logProvider string
	logLevel    string
	logFormat   string
	feedRoot    string
	verbose     bool

	module      *sitefeed.Module
	unsubscribe func()
)

var rootCmd = &cobra.Command{
	Use:   "sitefeed",
	Short: "Render and maintain the content collections of a static site",
	Long: `sitefeed loads collection documents (activities, statements), renders
their list and detail views into page shells and converts Notion or markdown
exports into collection documents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		level := logLevel
		if verbose {
			level = "debug"
		}
		built, err := bootstrap.BuildModule(bootstrap.Options{
			ConfigPath:  configPath,
			EnvFiles:    envFiles,
			LogProvider: logProvider,
			LogLevel:    level,
			LogFormat:   logFormat,
			FeedRoot:    feedRoot,
		})
		if err != nil {
			return err
		}
		module = built
		unsubscribe = module.SubscribeCommands(cmd.OutOrStdout(), printReport(cmd))
		return nil
	},
}

// closeModule drops the command subscriptions and closes the module built
// for the current invocation.
func closeModule() error {
	if unsubscribe != nil {
		unsubscribe()
		unsubscribe = nil
	}
	err := module.Close()
	module = nil
	return err
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if closeErr := closeModule(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before SITEFEED_* overrides")
	flags.StringVar(&logProvider, "log-provider", "", "logging provider (console or gologger)")
	flags.StringVar(&logLevel, "log-level", "", "log level")
	flags.StringVar(&logFormat, "log-format", "", "go-logger output format (json, console, pretty)")
	flags.StringVar(&feedRoot, "root", "", "site root holding the collection documents")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
