// Package main provides the CLI entry point for vcf-filter.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entni-lin/vcf-filter/internal/cli"
	"github.com/entni-lin/vcf-filter/internal/config"
	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/factory"
	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/internal/pathutil"
	"github.com/entni-lin/vcf-filter/internal/runtime"
)

// Exit codes
const (
	ExitSuccess         = errhandling.ExitSuccess
	ExitValidationError = errhandling.ExitValidationError
	ExitParseError      = errhandling.ExitParseError
	ExitRuntimeError    = errhandling.ExitRuntimeError
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	logFormat string
	logFile   string

	// Run command flags
	vcfPath      string
	criteriaPath string
	outputPath   string
	passTag      string
	warnMissing  string
	dryRun       bool

	// settings holds the environment settings with flag overrides applied
	settings *config.Settings

	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		exit(ExitRuntimeError)
	}
}

// exit flushes the log file before terminating the process.
func exit(code int) {
	logger.CloseLogFile()
	os.Exit(code)
}

var rootCmd = &cobra.Command{
	Use:   "vcffilter",
	Short: "vcf-filter - Criteria-based variant record filter",
	Long: `vcf-filter marks the variant records of a VCF file that satisfy a set of
criteria.

Criteria are a flat JSON or YAML document mapping a field name to a
condition such as ">=10". A record passes when every condition holds; its
FILTER column is then replaced by the pass tag. Every other record is
written unchanged.

Examples:
  # Filter a VCF file
  vcffilter run --vcf calls.vcf --criteria criteria.json --output filtered.vcf

  # Check a criteria document
  vcffilter validate criteria.yaml`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if err := configure(cmd); err != nil {
			cli.PrintError("Invalid settings", err)
			exit(ExitValidationError)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <criteria-file>",
	Short: "Validate a criteria document",
	Long: `Validate a criteria document and compile its conditions.

Supports both JSON and YAML formats. The format is auto-detected
based on file extension (.json, .yaml, .yml) or content.

Exit codes:
  0 - Criteria are valid
  1 - Validation errors (schema violations, disallowed operators)
  2 - Parse errors (unreadable file, invalid JSON/YAML syntax)

Examples:
  vcffilter validate criteria.json
  vcffilter validate --verbose criteria.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Filter a VCF file",
	Long: `Filter the records of a VCF file against a criteria document.

The criteria are parsed and compiled first. If they are invalid, no record
is read and no output is created. Paths ending in .gz are read and written
gzip-compressed.

Flags:
  --dry-run   Evaluate every record without writing the output file

Exit codes:
  0 - Filtering completed
  1 - Validation errors
  2 - Parse errors
  3 - Input/output errors

Examples:
  vcffilter run --vcf calls.vcf --criteria criteria.json --output filtered.vcf
  vcffilter run --vcf calls.vcf.gz --criteria criteria.yaml --output out.vcf.gz --pass-tag KEEP
  vcffilter run --vcf calls.vcf --criteria criteria.json --dry-run`,
	Args: cobra.NoArgs,
	Run:  runFilter,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, commit hash, and build date information.",
	Run:   runVersion,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or human (env VCFFILTER_LOG_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file (env VCFFILTER_LOG_FILE)")

	// Run command flags
	runCmd.Flags().StringVar(&vcfPath, "vcf", "", "Input VCF file (plain or .gz)")
	runCmd.Flags().StringVar(&criteriaPath, "criteria", "", "Criteria document (JSON or YAML)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Output VCF file (.gz to compress)")
	runCmd.Flags().StringVar(&passTag, "pass-tag", "", "FILTER tag for accepted records (env VCFFILTER_PASS_TAG, default PASS)")
	runCmd.Flags().StringVar(&warnMissing, "warn-missing", "", "Comma-separated fields whose absence is logged, * for all, empty for none (env VCFFILTER_WARN_MISSING, default TLOD,DP)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate records without writing output")
	_ = runCmd.MarkFlagRequired("vcf")
	_ = runCmd.MarkFlagRequired("criteria")

	// Add commands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// configure loads the environment settings, applies flag overrides and
// sets up logging.
func configure(cmd *cobra.Command) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-format") {
		s.LogFormat = logFormat
	}
	if flags.Changed("log-file") {
		s.LogFile = logFile
	}
	if flags.Changed("pass-tag") {
		s.PassTag = passTag
	}
	if flags.Changed("warn-missing") {
		s.WarnMissing = config.ParseFieldList(warnMissing)
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings = s

	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelError
	}
	format, err := logger.ParseFormat(s.LogFormat)
	if err != nil {
		return err
	}

	if s.LogFile != "" {
		return logger.SetLogFile(s.LogFile, level, format)
	}
	logger.SetLevelAndFormat(level, format)
	return nil
}

func runValidate(_ *cobra.Command, args []string) {
	path := args[0]

	if !quiet {
		fmt.Fprintf(cli.Stdout, "Validating criteria: %s\n", path)
	}

	result, code := loadCriteria(path)
	if code != ExitSuccess {
		exit(code)
	}

	if _, err := factory.CreateFilterModule(result, settings.WarnMissing); err != nil {
		cli.PrintError("Invalid criteria", err)
		exit(errhandling.ExitCode(err))
	}

	if !quiet {
		fmt.Fprintf(cli.Stdout, "✓ Criteria are valid (format: %s)\n", result.Format)
		if verbose {
			cli.PrintCriteriaSummary(result.Criteria())
		}
	}

	exit(ExitSuccess)
}

// loadCriteria parses and validates the criteria document at path, printing
// any errors. It returns the exit code the process should use on failure.
func loadCriteria(path string) (*config.Result, int) {
	result := config.ParseCriteriaFile(path)

	if len(result.ParseErrors) > 0 {
		cli.PrintParseErrors(result.ParseErrors, verbose)
		return nil, ExitParseError
	}
	if len(result.ValidationErrors) > 0 {
		cli.PrintValidationErrors(result.ValidationErrors, verbose, quiet)
		return nil, ExitValidationError
	}
	return result, ExitSuccess
}

func runFilter(_ *cobra.Command, _ []string) {
	if err := validatePaths(); err != nil {
		cli.PrintError("Invalid arguments", err)
		exit(ExitValidationError)
	}

	if !quiet {
		fmt.Fprintf(cli.Stdout, "Loading criteria: %s\n", criteriaPath)
	}
	result, code := loadCriteria(criteriaPath)
	if code != ExitSuccess {
		exit(code)
	}

	evaluator, err := factory.CreateFilterModule(result, settings.WarnMissing)
	if err != nil {
		cli.PrintError("Invalid criteria", err)
		exit(errhandling.ExitCode(err))
	}
	if verbose {
		cli.PrintCriteriaSummary(result.Criteria())
	}

	inputModule, err := factory.CreateInputModule(vcfPath)
	if err != nil {
		cli.PrintError("Cannot open input", err)
		exit(errhandling.ExitCode(err))
	}

	outputModule, err := factory.CreateOutputModule(outputPath, settings.PassTag, dryRun)
	if err != nil {
		_ = inputModule.Close()
		cli.PrintError("Cannot create output", err)
		exit(errhandling.ExitCode(err))
	}

	executor := runtime.NewExecutorWithModules(inputModule, evaluator, outputModule,
		runtime.WithPassTag(settings.PassTag),
		runtime.WithDryRun(dryRun),
		runtime.WithPaths(vcfPath, outputPath, criteriaPath),
	)

	if !quiet {
		if dryRun {
			fmt.Fprintln(cli.Stdout, "Filtering records (dry-run mode - no output will be written)...")
		} else {
			fmt.Fprintln(cli.Stdout, "Filtering records...")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	execResult, err := executor.ExecuteWithContext(ctx)
	stop()

	cli.PrintExecutionResult(execResult, err, cli.OutputOptions{
		Verbose: verbose,
		Quiet:   quiet,
		DryRun:  dryRun,
	})

	exit(errhandling.ExitCode(err))
}

// validatePaths checks the run command's file arguments.
func validatePaths() error {
	if err := pathutil.ValidateFilePath(vcfPath); err != nil {
		return fmt.Errorf("--vcf: %w", err)
	}
	if err := pathutil.ValidateFilePath(criteriaPath); err != nil {
		return fmt.Errorf("--criteria: %w", err)
	}
	if dryRun {
		return nil
	}
	if err := pathutil.ValidateFilePath(outputPath); err != nil {
		return fmt.Errorf("--output is required unless --dry-run is set: %w", err)
	}
	if err := pathutil.ValidateDistinct(vcfPath, outputPath); err != nil {
		return err
	}
	return pathutil.ValidateDistinct(criteriaPath, outputPath)
}

func runVersion(_ *cobra.Command, _ []string) {
	fmt.Fprintf(cli.Stdout, "Version: %s\n", version)
	fmt.Fprintf(cli.Stdout, "Commit: %s\n", commit)
	fmt.Fprintf(cli.Stdout, "Build Date: %s\n", buildDate)
}
