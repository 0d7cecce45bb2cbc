// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// translate_cmd.go - One-shot translation.
//
// Command: translate [text...]
// Short:   Translate input and stream the result to stdout
//
// Input comes from the arguments, --file, or stdin when it is piped.
// Piped stdout receives the raw stream as it arrives; a terminal gets the
// finished output highlighted (code) or rendered as markdown (prose).
// The finished output is copied to the clipboard unless --no-copy is set.
//
// Examples:
//   coderhelper translate --to Go --file main.py
//   coderhelper translate --mode explain --lang Spanish --file main.go
//   echo "fizzbuzz up to 100" | coderhelper translate --to Python
//   coderhelper translate --json --to Rust "sum a slice"

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/coderhelper/internal/clipboard"
	"github.com/jeranaias/coderhelper/internal/cloud"
	"github.com/jeranaias/coderhelper/internal/config"
	"github.com/jeranaias/coderhelper/internal/logging"
	"github.com/jeranaias/coderhelper/internal/stream"
	"github.com/jeranaias/coderhelper/internal/translate"
	"github.com/jeranaias/coderhelper/internal/ui/components"
	"github.com/jeranaias/coderhelper/internal/ui/styles"
)

// newClipboard creates the clipboard for finished translations. OSC 52
// sequences go to w.
var newClipboard = func(w io.Writer, osc52 bool) clipboard.Writer {
	return clipboard.NewSystem(w).WithFallback(osc52)
}

type translateFlags struct {
	from   string
	to     string
	lang   string
	mode   string
	file   string
	url    string
	raw    bool
	json   bool
	noCopy bool
}

func newTranslateCommand(global *globalFlags) *cobra.Command {
	f := &translateFlags{}
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate input and stream the result to stdout",
		Long: `Translate code or a natural-language description.

Input is read from the arguments, from --file, or from stdin when it is
piped. Modes: ` + strings.Join(modeNames(), ", ") + `.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			return runTranslate(cmd, cfg, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "input language (default from config, \"Natural Language\" for prose)")
	fl.StringVar(&f.to, "to", "", "output programming language")
	fl.StringVar(&f.lang, "lang", "", "natural language of explanations")
	fl.StringVarP(&f.mode, "mode", "m", "", "mode: "+strings.Join(modeNames(), ", "))
	fl.StringVarP(&f.file, "file", "f", "", "read input from FILE")
	fl.StringVar(&f.url, "url", "", "translation server base URL")
	fl.BoolVar(&f.raw, "raw", false, "stream raw output even on a terminal")
	fl.BoolVar(&f.json, "json", false, "write one JSON document when finished")
	fl.BoolVar(&f.noCopy, "no-copy", false, "do not copy the result to the clipboard")
	return cmd
}

func modeNames() []string {
	names := make([]string, 0, len(translate.Modes))
	for _, m := range translate.Modes {
		names = append(names, m.String())
	}
	return names
}

// =============================================================================
// RUN
// =============================================================================

func runTranslate(cmd *cobra.Command, cfg *config.Config, f *translateFlags, args []string) error {
	closer, err := logging.Setup(cfg.Log, logging.SurfaceCLI)
	if err != nil {
		return configError(err)
	}
	defer closer.Close()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	input, err := readInput(cmd.InOrStdin(), f.file, args)
	if err != nil {
		return err
	}
	opts, err := f.options(cfg.TranslateOptions())
	if err != nil {
		return err
	}

	req, err := translate.ComposeWithLimit(input, opts, cfg.Client.MaxInputLength)
	if err != nil {
		var ve *translate.ValidationError
		if errors.As(err, &ve) {
			return withCode(ExitUsageError, errors.New(ve.UserMessage()))
		}
		return err
	}

	baseURL := cfg.Client.BaseURL
	if f.url != "" {
		baseURL = f.url
	}
	client := cloud.NewClient(baseURL).WithEndpoint(cfg.Client.Endpoint)

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rendered := isTerminal(out) && !f.raw && !f.json
	var (
		onChunk  stream.ChunkFunc
		writeErr error
	)
	if !rendered && !f.json {
		onChunk = func(piece string) {
			if writeErr != nil {
				return
			}
			// Nobody is reading any more; stop the request.
			if _, err := io.WriteString(out, piece); err != nil {
				writeErr = err
				cancel()
			}
		}
	}
	if rendered && isTerminal(errOut) {
		fmt.Fprintln(errOut, DimStyle.Render("Translating with "+client.URL()+" ..."))
	}

	start := time.Now()
	text, err := client.Translate(ctx, req, onChunk)
	result := TranslationResult{
		InputLanguage:         req.InputLanguage,
		OutputLanguage:        req.OutputLanguage,
		Option:                req.Option.String(),
		OutputNaturalLanguage: req.OutputNaturalLanguage,
		Output:                text,
		DurationMs:            time.Since(start).Milliseconds(),
	}

	if writeErr != nil {
		return fmt.Errorf("could not write output: %w", writeErr)
	}
	if err != nil {
		err = translateError(err)
		if f.json {
			NewJSONErrorResponse("translate", result, err).Write(out)
		} else if onChunk != nil && text != "" {
			// Terminate the partial line before the error is printed.
			fmt.Fprintln(out)
		}
		return err
	}

	if text != "" && cfg.UI.CopyOnComplete && !f.noCopy {
		result.Copied = copyResult(text, errOut, cfg.UI.OSC52 && isTerminal(errOut))
	}

	switch {
	case f.json:
		return NewJSONResponse("translate", result).Write(out)
	case rendered:
		fmt.Fprintln(out, renderResult(req, text, terminalWidth(out)))
	case text != "" && !strings.HasSuffix(text, "\n"):
		fmt.Fprintln(out)
	}

	if result.Copied && isTerminal(errOut) {
		fmt.Fprintln(errOut, DimStyle.Render("Copied to clipboard."))
	}
	return nil
}

// readInput returns the text to translate.
func readInput(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case file != "" && len(args) > 0:
		return "", withCode(ExitUsageError, errors.New("use either text arguments or --file, not both"))
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", withCode(ExitUsageError, fmt.Errorf("could not read input file: %w", err))
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case stdin != nil && !isTerminal(stdin):
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("could not read stdin: %w", err)
		}
		return string(data), nil
	default:
		// An empty input is reported by validation.
		return "", nil
	}
}

// options applies the flags on top of the configured options.
func (f *translateFlags) options(base translate.Options) (translate.Options, error) {
	opts := base
	if f.from != "" {
		opts.InputLanguage = f.from
	}
	if f.to != "" {
		opts.OutputLanguage = f.to
	}
	if f.lang != "" {
		opts.OutputNaturalLanguage = f.lang
	}
	if f.mode != "" {
		mode, err := translate.ParseMode(f.mode)
		if err != nil {
			return opts, withCode(ExitUsageError, fmt.Errorf("%w (valid modes: %s)", err, strings.Join(modeNames(), ", ")))
		}
		opts.Mode = mode
	}
	return opts, nil
}

// translateError attaches the user-facing message and exit code.
func translateError(err error) error {
	if errors.Is(err, context.Canceled) {
		return withCode(ExitInterrupted, errors.New("translation canceled"))
	}
	if msg := cloud.UserMessage(err); msg != "" {
		return withCode(ExitNetworkError, fmt.Errorf("%s (%w)", msg, err))
	}
	var se *stream.StreamError
	if errors.As(err, &se) {
		return withCode(ExitNetworkError, err)
	}
	return withCode(ExitNetworkError, fmt.Errorf("could not reach the translation server: %w", err))
}

// copyResult copies text and reports whether it worked.
func copyResult(text string, errOut io.Writer, osc52 bool) bool {
	clip := newClipboard(errOut, osc52)
	if err := clip.WriteAll(text); err != nil {
		log.WithError(err).Warn("could not copy the result to the clipboard")
		return false
	}
	return true
}

// renderResult highlights code or renders prose for a terminal.
func renderResult(req translate.Request, text string, width int) string {
	theme := styles.NewTheme(styles.ThemeAuto)
	if req.ProducesCode() {
		return components.Highlight(text, req.TargetLanguage(), theme.ChromaStyle())
	}
	return components.NewMarkdown(theme.GlamourStyle(), width).Render(text)
}
