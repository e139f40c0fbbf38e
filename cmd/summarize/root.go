package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BerylCAtieno/document-summary-assistant/internal/config"
	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/state"
	"github.com/BerylCAtieno/document-summary-assistant/internal/summarizer"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
	"github.com/spf13/cobra"
)

type options struct {
	length   string
	provider string
	model    string
	baseURL  string
	mimeType string
	output   string
	logLevel string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "summarize [flags] FILE",
	Short: "Summarize a PDF or image with a generative model",
	Long: `Summarize sends one document to the configured model and prints the
markdown summary. The API key is read from API_KEY (or GEMINI_API_KEY).`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummarize,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.length, "length", "l", string(models.DefaultLength), "summary length: short, medium or long")
	f.StringVar(&opts.provider, "provider", "", "model backend: gemini or openrouter (default from AI_PROVIDER)")
	f.StringVar(&opts.model, "model", "", "model identifier (default from AI_MODEL)")
	f.StringVar(&opts.baseURL, "base-url", "", "override the backend base URL")
	f.StringVar(&opts.mimeType, "type", "", "MIME type of FILE (detected when empty)")
	f.StringVarP(&opts.output, "output", "o", "", "write the summary to this file instead of stdout")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level for stderr diagnostics")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	logger := utils.NewLoggerTo(cmd.ErrOrStderr(), opts.logLevel)

	generator, err := summarizer.NewGenerator(cfg.Provider, cfg.BaseURL)
	if err != nil {
		return err
	}
	client := summarizer.NewClient(generator, summarizer.DefaultCredentials(), cfg.Model, logger)

	text, err := summarizeFile(cmd.Context(), client, models.NewTypePolicy(cfg.AllowedTypes), logger, args[0], opts.mimeType, opts.length)
	if err != nil {
		return err
	}

	return writeSummary(cmd.OutOrStdout(), opts.output, text)
}

// applyOverrides layers non-empty flag values over the loaded config. The
// provider is checked the same way AI_PROVIDER is.
func applyOverrides(cfg *config.Config, o options) error {
	if o.provider != "" {
		provider, err := config.NormalizeProvider(o.provider)
		if err != nil {
			return utils.NewValidationError("--provider: " + err.Error())
		}
		cfg.Provider = provider
	}
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	return nil
}

// summarizeFile drives a single controller through select, length and
// generate. Any outcome other than a real summary is an error.
func summarizeFile(ctx context.Context, sum state.Summarizer, policy *models.TypePolicy, logger *utils.Logger, path, mimeType, length string) (string, error) {
	parsed, err := models.ParseSummaryLength(length)
	if err != nil {
		return "", utils.NewValidationError(err.Error())
	}

	doc, err := models.NewDocumentFromFile(path, mimeType)
	if err != nil {
		return "", utils.NewEncodingError(err)
	}

	var outcome state.Outcome
	ctrl := state.NewController(sum, policy, logger, state.WithCompletionHook(func(o state.Outcome) {
		outcome = o
	}))

	if err := ctrl.SelectDocument(doc); err != nil {
		return "", err
	}
	if err := ctrl.SetLength(parsed); err != nil {
		return "", err
	}

	snap, err := ctrl.Generate(ctx)
	if err != nil {
		return "", err
	}
	if outcome.Err != nil {
		return "", outcome.Err
	}
	if snap.State != models.StateSucceeded {
		return "", errors.New(snap.Error)
	}
	if outcome.RemoteErr != nil {
		return "", errors.New(snap.Summary)
	}

	return snap.Summary, nil
}

// writeSummary stores the exact summary string in path, or prints it with a
// trailing newline when path is empty.
func writeSummary(stdout io.Writer, path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintln(stdout, text)
	return err
}
