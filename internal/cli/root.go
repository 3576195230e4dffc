// Package cli implements the reader command line tool: one-shot
// translation, offline tokenization of stored model replies and an MCP
// tool server on stdio.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-reader/internal/adapter/boltdb"
	"github.com/heartmarshall/myenglish-reader/internal/app"
	"github.com/heartmarshall/myenglish-reader/internal/config"
	"github.com/heartmarshall/myenglish-reader/internal/provider"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

type rootOptions struct {
	cfgFile string
	format  string
	pretty  bool
	verbose bool
}

// NewRootCmd builds the command tree. Output goes to the command's out and
// err writers so tests can capture it.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "reader",
		Short: "Translate text into reader tokens",
		Long: `reader turns model translations into a stream of word, punctuation and
whitespace tokens ready for the reader UI.

Example usage:
  reader translate -p "Translate to English: Hola, amigo."
  reader tokenize replies/**/*.txt        # tokenize stored replies offline
  reader mcp                              # serve MCP tools on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(opts.format)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", os.Getenv("CONFIG_PATH"), "config file (default is ./config.yaml)")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", formatJSON, "output format: json or yaml")
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline decisions to stderr")

	cmd.AddCommand(
		newTranslateCmd(opts),
		newTokenizeCmd(opts),
		newMCPCmd(opts),
	)

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "reader:", err)
		return 1
	}
	return 0
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(o.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// cliLogger writes to stderr only. Without --verbose just warnings and
// errors get through, so stdout stays clean for piping.
func (o *rootOptions) cliLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	logCfg := config.LogConfig{Level: "warn", Format: "text"}
	if cfg != nil && cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if o.verbose {
		logCfg.Level = "debug"
	}
	return app.NewLoggerTo(w, logCfg)
}

// newService builds the translation service, recording outcomes to the
// bolt log when one is configured. The returned func releases the log.
func newService(cfg *config.Config, logger *slog.Logger, completer provider.Completer) (*translation.Service, func(), error) {
	if cfg.Outcomes.BoltPath == "" {
		return translation.NewService(logger, completer, nil), func() {}, nil
	}

	store, err := boltdb.Open(cfg.Outcomes.BoltPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("recording outcomes", slog.String("path", cfg.Outcomes.BoltPath))
	return translation.NewService(logger, completer, store), func() { _ = store.Close() }, nil
}
