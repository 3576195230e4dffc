package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
	"github.com/heartmarshall/myenglish-reader/internal/service/translation"
)

type tokenizeOptions struct {
	progress bool
}

// fileResult is one entry of a multi-file tokenize run.
type fileResult struct {
	File   string                        `json:"file"`
	Result domain.TranslationWithTokens `json:"result"`
}

func newTokenizeCmd(root *rootOptions) *cobra.Command {
	opts := &tokenizeOptions{}

	cmd := &cobra.Command{
		Use:   "tokenize [file|glob]...",
		Short: "Tokenize stored model replies without calling a provider",
		Long: `Run stored model replies through validation and fallback tokenization.
No configuration or credentials are needed.

With no arguments the reply is read from stdin. Arguments may be file paths
or doublestar globs; several inputs produce a list of {file, result} entries.

Examples:
  reader tokenize < reply.json
  reader tokenize 'replies/**/*.txt' --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.progress, "progress", true, "show a progress bar on stderr for multiple files")

	return cmd
}

func runTokenize(cmd *cobra.Command, root *rootOptions, opts *tokenizeOptions, args []string) error {
	logger := root.cliLogger(cmd.ErrOrStderr(), nil)
	ctx := cmd.Context()

	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		return writeResult(cmd.OutOrStdout(), root.format, root.pretty, translation.TokenizeReply(ctx, logger, string(b)))
	}

	files, err := expandInputs(args)
	if err != nil {
		return err
	}

	if len(files) == 1 {
		b, err := os.ReadFile(files[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", files[0], err)
		}
		return writeResult(cmd.OutOrStdout(), root.format, root.pretty, translation.TokenizeReply(ctx, logger, string(b)))
	}

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Tokenizing[reset]"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}),
		)
	}

	results := make([]fileResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		results = append(results, fileResult{File: f, Result: translation.TokenizeReply(ctx, logger, string(b))})
		if bar != nil {
			bar.Add(1) //nolint:errcheck
		}
	}

	return writeResult(cmd.OutOrStdout(), root.format, root.pretty, results)
}

// expandInputs resolves globs and plain paths into a sorted, de-duplicated
// list of regular files. A pattern that matches nothing is an error.
func expandInputs(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(p string) error {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
		return nil
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			if err := add(arg); err != nil {
				return nil, fmt.Errorf("input %s: %w", arg, err)
			}
			continue
		}

		if !doublestar.ValidatePattern(arg) {
			return nil, fmt.Errorf("invalid pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, fmt.Errorf("input %s: %w", m, err)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	sort.Strings(files)
	return files, nil
}

func hasMeta(p string) bool {
	for _, r := range p {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
