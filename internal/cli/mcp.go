package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-reader/internal/app"
	"github.com/heartmarshall/myenglish-reader/internal/transport/mcp"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the translate and tokenize_reply tools over MCP stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout. Logs go to stderr
so they never corrupt the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger := root.cliLogger(cmd.ErrOrStderr(), cfg)

			completer, err := app.NewCompleter(cfg.LLM, logger)
			if err != nil {
				return err
			}

			svc, closeLog, err := newService(cfg, logger, completer)
			if err != nil {
				return err
			}
			defer closeLog()

			logger.Info("mcp server starting",
				slog.String("provider", completer.Name()),
				slog.String("version", app.BuildVersion()),
			)

			srv := mcp.NewServer(svc, app.BuildVersion(), logger)
			return srv.Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
