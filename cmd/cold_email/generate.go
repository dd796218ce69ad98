package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nkhl07/cold-email-assistant/internal/config"
	"github.com/nkhl07/cold-email-assistant/internal/ingestion"
	"github.com/nkhl07/cold-email-assistant/internal/observability"
	"github.com/nkhl07/cold-email-assistant/internal/pipeline"
	"github.com/nkhl07/cold-email-assistant/internal/pipeline/steps"
	"github.com/nkhl07/cold-email-assistant/internal/scraper"
	"github.com/nkhl07/cold-email-assistant/internal/types"
	"github.com/nkhl07/cold-email-assistant/internal/validation"
)

// generateOptions holds the flags of the generate command.
type generateOptions struct {
	URLs     []string
	Resume   string
	Profile  string
	Goal     string
	NoColor  bool
	ShowPlan bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft one outreach email from the command line",
	Long: `Runs the same pipeline as the API: the extraction service reads the target pages
(and the résumé, if given), then the configured model drafts the email.

Exactly one of --resume or --profile is required.`,
	Example: `  cold_email generate --url example.edu/staff/jane --profile "Junior CS major interested in databases." --goal "ask about a research assistantship"
  cold_email generate --url https://github.com/jane --resume cv.pdf`,
	RunE: runGenerateCmd,
}

func init() {
	generateCmd.Flags().StringArrayVarP(&genOpts.URLs, "url", "u", nil, "Target page URL (repeatable, or several separated by newlines; https:// is added when missing)")
	generateCmd.Flags().StringVarP(&genOpts.Resume, "resume", "r", "", "Path to a PDF résumé")
	generateCmd.Flags().StringVarP(&genOpts.Profile, "profile", "p", "", "Free-text student background, or @path to read it from a file")
	generateCmd.Flags().StringVarP(&genOpts.Goal, "goal", "g", "", "What the email should ask for")
	generateCmd.Flags().BoolVar(&genOpts.NoColor, "no-color", false, "Disable colored output")
	generateCmd.Flags().BoolVarP(&genOpts.ShowPlan, "verbose", "v", false, "Print the request and aggregated context before the email")
	generateCmd.MarkFlagsMutuallyExclusive("resume", "profile")
	rootCmd.AddCommand(generateCmd)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	return generate(cmd.Context(), cmd.OutOrStdout(), cfg, log, genOpts)
}

// generate builds the request from opts, runs the pipeline once and prints the email to out.
func generate(ctx context.Context, out io.Writer, cfg *config.Config, log *observability.Logger, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	p, generator, err := buildPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = generator.Close() }()

	printer := observability.NewPrinter(out, !opts.NoColor)
	if opts.ShowPlan {
		printer.PrintRequest(req)
	}

	email, err := p.RunWithOptions(ctx, req, pipeline.RunOptions{
		OnProgress: func(event pipeline.ProgressEvent) {
			if !opts.ShowPlan || event.Stage != steps.StageContextAggregated {
				return
			}
			if aggregated, ok := event.Content.(types.AggregatedContext); ok {
				printer.PrintContext(aggregated)
			}
		},
	})
	if err != nil {
		return err
	}

	printer.PrintEmail(email)
	return nil
}

// buildRequest applies the same input rules as the API validator to the CLI flags.
func buildRequest(opts generateOptions) (*types.OutreachRequest, error) {
	urls := []string{}
	for _, value := range opts.URLs {
		urls = append(urls, ingestion.SplitURLLines(value)...)
	}
	req := &types.OutreachRequest{
		TargetURLs: urls,
		Goal:       opts.Goal,
	}

	switch {
	case opts.Resume != "" && opts.Profile != "":
		return nil, &validation.InvalidRequestError{Message: "use either --resume or --profile, not both"}
	case opts.Resume != "":
		doc, err := readResume(opts.Resume)
		if err != nil {
			return nil, err
		}
		req.Student = doc
	case opts.Profile != "":
		text, err := readProfile(opts.Profile)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, &validation.MissingInputError{Field: "profile", Message: "student profile is empty"}
		}
		req.Student = &types.FreeText{Text: text}
	default:
		return nil, &validation.MissingInputError{Field: "student", Message: "either --resume or --profile is required"}
	}

	return req, nil
}

func readResume(path string) (*types.UploadedDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read résumé: %w", err)
	}
	if info.Size() > validation.DefaultMaxDocumentBytes {
		return nil, &validation.PayloadTooLargeError{Size: info.Size(), Limit: validation.DefaultMaxDocumentBytes}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read résumé: %w", err)
	}
	if !scraper.IsPDF(data) {
		return nil, &validation.UnsupportedMediaTypeError{MediaType: http.DetectContentType(data)}
	}

	return &types.UploadedDocument{
		Filename:  filepath.Base(path),
		MediaType: "application/pdf",
		Size:      int64(len(data)),
		Data:      data,
	}, nil
}

// readProfile returns the flag value, or the contents of the file when it starts with "@".
func readProfile(value string) (string, error) {
	path, ok := strings.CutPrefix(value, "@")
	if !ok {
		return value, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read profile: %w", err)
	}
	return string(data), nil
}
