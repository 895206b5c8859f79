package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/logger"
	"github.com/jonathan/hiring-funnel/internal/observability"
	"github.com/jonathan/hiring-funnel/internal/schemas"
	"github.com/jonathan/hiring-funnel/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type analyzeOptions struct {
	requestPath string
	resumePath  string
	jobPath     string
	roleLevel   string
	atsSystem   string
	persona     string
	floorPolicy string
	outputPath  string
	rewrite     bool
	verbose     bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a résumé against a job description",
		Long: `Runs the ATS, recruiter and interview stages and prints the analysis result as JSON.

The request can be loaded from a JSON file using --request. Command-line flags override request values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.requestPath, "request", "r", "", "Path to an analysis request JSON file")
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "Path to the résumé plain text")
	cmd.Flags().StringVarP(&opts.jobPath, "job", "j", "", "Path to the job description text")
	cmd.Flags().StringVar(&opts.roleLevel, "role-level", "", "Role level (intern, entry, associate_pm, mid, senior, staff, principal, executive)")
	cmd.Flags().StringVar(&opts.atsSystem, "ats", "", "ATS system the résumé is submitted through")
	cmd.Flags().StringVar(&opts.persona, "persona", "", "Recruiter persona")
	cmd.Flags().StringVar(&opts.floorPolicy, "floor-policy", "", "Probability floor policy (advisory or soft_guard)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the result JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.rewrite, "rewrite", false, "Rewrite explanations with the language model (requires an API key)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a human-readable summary")

	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("floor-policy") {
		cfg.Scoring.FloorPolicy = opts.floorPolicy
	}
	if cmd.Flags().Changed("rewrite") {
		cfg.LLM.Enabled = opts.rewrite
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	req, err := buildRequest(cmd, opts)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	analyzer, cleanup, err := buildAnalyzer(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := analyzer.Analyze(ctx, req)
	if err != nil {
		return err
	}
	log.Debug("analysis finished",
		zap.String(logger.FieldAnalysisID, result.AnalysisID),
		zap.Float64("overall_probability", result.Aggregate.OverallProbability),
	)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		if opts.outputPath != "" {
			printer = observability.NewPrinter(out)
		}
		printer.PrintResult(result)
	}

	if opts.outputPath != "" {
		if err := os.WriteFile(opts.outputPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Analysis written to %s\n", opts.outputPath)
		return nil
	}

	_, _ = fmt.Fprintln(out, string(data))
	return nil
}

// buildRequest loads the request file, if given, and applies flag overrides.
func buildRequest(cmd *cobra.Command, opts *analyzeOptions) (*types.AnalysisRequest, error) {
	var req types.AnalysisRequest

	if opts.requestPath != "" {
		data, err := os.ReadFile(opts.requestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read request file: %w", err)
		}
		if err := schemas.ValidateBytes(schemas.RequestSchema, data); err != nil {
			return nil, fmt.Errorf("request file %s: %w", opts.requestPath, err)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse request file: %w", err)
		}
	}

	if opts.resumePath != "" {
		text, err := readText(opts.resumePath, cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read résumé: %w", err)
		}
		req.ResumeText = text
	}
	if opts.jobPath != "" {
		text, err := readText(opts.jobPath, cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read job description: %w", err)
		}
		req.JobDescription = text
	}
	if cmd.Flags().Changed("role-level") {
		req.RoleLevel = opts.roleLevel
	}
	if cmd.Flags().Changed("ats") {
		req.ATSSystem = opts.atsSystem
	}
	if cmd.Flags().Changed("persona") {
		req.RecruiterPersona = opts.persona
	}

	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return nil, fmt.Errorf("a résumé and a job description are required (use --request, or --resume and --job)")
	}
	return &req, nil
}

// readText reads a file, or stdin when path is "-".
func readText(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
