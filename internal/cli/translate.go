package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-reader/internal/app"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

type translateOptions struct {
	prompt      string
	maxTokens   int
	temperature float64
}

func newTranslateCmd(root *rootOptions) *cobra.Command {
	opts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Send one prompt to the configured model and print the tokens",
		Long: `Send one prompt to the configured completion provider and print the
resulting translation with tokens. The prompt is read from stdin when
--prompt is not given.

When outcomes.bolt_path is configured the outcome is recorded there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "prompt text (default: read stdin)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "override llm.default_max_tokens")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "override llm.temperature")

	return cmd
}

func runTranslate(cmd *cobra.Command, root *rootOptions, opts *translateOptions) error {
	input := opts.prompt
	if input == "" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = string(b)
	}
	if strings.TrimSpace(input) == "" {
		return errors.New("empty prompt")
	}

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

	req := translation.Request{Prompt: input}
	if cmd.Flags().Changed("max-tokens") {
		req.MaxTokens = &opts.maxTokens
	}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = &opts.temperature
	}

	result, err := svc.GenerateTranslationWithTokens(cmd.Context(), req)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), root.format, root.pretty, result)
}
