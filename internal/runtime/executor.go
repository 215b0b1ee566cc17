// Package runtime provides the filtering run engine.
// It streams records from an input module through a filter module into an
// output module, one record at a time and in input order.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/entni-lin/vcf-filter/internal/errhandling"
	"github.com/entni-lin/vcf-filter/internal/logger"
	"github.com/entni-lin/vcf-filter/internal/modules/filter"
	"github.com/entni-lin/vcf-filter/internal/modules/input"
	"github.com/entni-lin/vcf-filter/internal/modules/output"
	"github.com/entni-lin/vcf-filter/pkg/connector"
)

// Error codes for run errors
const (
	ErrCodeInputFailed  = "INPUT_FAILED"
	ErrCodeOutputFailed = "OUTPUT_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeCancelled    = "CANCELLED"
)

// Run status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultPassTag is the status tag given to accepted records.
const DefaultPassTag = "PASS"

// Common errors
var (
	// ErrNilInputModule is returned when input module is nil
	ErrNilInputModule = errors.New("input module is nil")

	// ErrNilFilterModule is returned when filter module is nil
	ErrNilFilterModule = errors.New("filter module is nil")

	// ErrNilOutputModule is returned when output module is nil
	ErrNilOutputModule = errors.New("output module is nil")
)

// Executor runs one filtering pass: Input → Filter → Output.
//
// The Executor only interacts with modules through their public interfaces.
// The filter decides; the executor applies the decision by replacing the
// status tags of accepted records before writing them. Rejected records are
// written as they were read.
type Executor struct {
	inputModule  input.Module
	filterModule filter.Module
	outputModule output.Module

	passTag string
	dryRun  bool
	runID   string
	logCtx  logger.RunContext
}

// Option configures an Executor.
type Option func(*Executor)

// WithPassTag sets the tag applied to accepted records (default PASS).
func WithPassTag(tag string) Option {
	return func(e *Executor) {
		if tag != "" {
			e.passTag = tag
		}
	}
}

// WithDryRun evaluates every record without writing any. A nil output
// module is allowed in dry-run mode.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(e *Executor) {
		e.runID = id
	}
}

// WithPaths records the run's file paths for logging.
func WithPaths(inputPath, outputPath, criteriaPath string) Option {
	return func(e *Executor) {
		e.logCtx.InputPath = inputPath
		e.logCtx.OutputPath = outputPath
		e.logCtx.CriteriaPath = criteriaPath
	}
}

// NewExecutorWithModules creates an executor with all modules configured.
func NewExecutorWithModules(
	inputModule input.Module,
	filterModule filter.Module,
	outputModule output.Module,
	opts ...Option,
) *Executor {
	e := &Executor{
		inputModule:  inputModule,
		filterModule: filterModule,
		outputModule: outputModule,
		passTag:      DefaultPassTag,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	if e.dryRun && e.outputModule == nil {
		e.outputModule = output.NewDiscard()
	}
	e.logCtx.RunID = e.runID
	e.logCtx.DryRun = e.dryRun
	return e
}

// RunID returns the run identifier.
func (e *Executor) RunID() string {
	return e.runID
}

// Execute runs the filtering pass with a background context.
func (e *Executor) Execute() (*connector.ExecutionResult, error) {
	return e.ExecuteWithContext(context.Background())
}

// ExecuteWithContext runs the filtering pass. The context is checked before
// every record; cancellation stops the run with an error.
//
// Resource Management:
//   - Input module: closed when the run ends, whatever the outcome.
//   - Output module: closed after the last record; a close failure fails the run
//     since buffered records may not have reached the destination.
//
// Returns both result and error for comprehensive error handling.
func (e *Executor) ExecuteWithContext(ctx context.Context) (*connector.ExecutionResult, error) {
	startedAt := time.Now()
	result := &connector.ExecutionResult{
		RunID:     e.runID,
		StartedAt: startedAt,
		Status:    StatusError,
		DryRun:    e.dryRun,
	}

	logger.LogRunStart(e.logCtx)

	if e.inputModule != nil {
		defer e.closeModule("input", e.inputModule)
	}
	if err := e.validateExecution(result); err != nil {
		logger.LogRunEnd(e.logCtx, StatusError, 0, time.Since(startedAt))
		return result, err
	}

	if err := e.stream(ctx, result); err != nil {
		_ = e.outputModule.Close()
		result.CompletedAt = time.Now()
		logger.LogRunEnd(e.logCtx, StatusError, result.RecordsProcessed, time.Since(startedAt))
		return result, err
	}

	if err := e.outputModule.Close(); err != nil {
		result.CompletedAt = time.Now()
		result.Error = buildExecutionError(ErrCodeOutputFailed, "output", err)
		logger.LogRunEnd(e.logCtx, StatusError, result.RecordsProcessed, time.Since(startedAt))
		return result, fmt.Errorf("closing output module: %w", err)
	}

	e.finalizeSuccessWithMetrics(result, startedAt)
	return result, nil
}

// stream copies the header, then every record, applying the filter decision.
func (e *Executor) stream(ctx context.Context, result *connector.ExecutionResult) error {
	stageCtx := e.logCtx
	stageCtx.Stage = "filter"
	logger.LogStageStart(stageCtx)
	stageStart := time.Now()

	fail := func(code, module string, err error, wrap string) error {
		result.Error = buildExecutionError(code, module, err)
		result.Error.Details["recordIndex"] = result.RecordsProcessed
		logger.LogError("run failed", logger.ErrorContext{
			RunID:        e.runID,
			Stage:        module,
			ErrorCode:    code,
			ErrorMessage: err.Error(),
			Err:          err,
			Path:         errhandling.ClassifyError(err).Path,
			RecordIndex:  result.RecordsProcessed,
			Duration:     time.Since(stageStart),
		})
		logger.LogStageEnd(stageCtx, result.RecordsProcessed, time.Since(stageStart), &logger.StageError{
			Code:    code,
			Message: err.Error(),
		})
		return fmt.Errorf("%s: %w", wrap, err)
	}

	if err := e.outputModule.WriteHeader(e.inputModule.Header()); err != nil {
		return fail(ErrCodeOutputFailed, "output", err, "writing header")
	}

	for {
		rec, err := e.inputModule.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return fail(ErrCodeCancelled, "input", err, "run cancelled")
			}
			return fail(ErrCodeInputFailed, "input", err, "executing input module")
		}
		result.RecordsProcessed++

		if e.filterModule.Accept(rec) {
			rec.ReplaceStatusTags(e.passTag)
			result.RecordsAccepted++
		} else {
			result.RecordsRejected++
		}

		if err := e.outputModule.Write(rec); err != nil {
			return fail(ErrCodeOutputFailed, "output", err, "executing output module")
		}
	}

	logger.LogStageEnd(stageCtx, result.RecordsProcessed, time.Since(stageStart), nil)
	return nil
}

// buildExecutionError creates an ExecutionError carrying the error category.
func buildExecutionError(code, module string, err error) *connector.ExecutionError {
	return &connector.ExecutionError{
		Code:    code,
		Message: err.Error(),
		Module:  module,
		Details: map[string]interface{}{
			"category": string(errhandling.GetErrorCategory(err)),
		},
	}
}

// validateExecution checks that every module is present before the run starts.
func (e *Executor) validateExecution(result *connector.ExecutionResult) error {
	var err error
	var module string
	switch {
	case e.inputModule == nil:
		err, module = ErrNilInputModule, "input"
	case e.filterModule == nil:
		err, module = ErrNilFilterModule, "filter"
	case e.outputModule == nil:
		err, module = ErrNilOutputModule, "output"
	default:
		return nil
	}

	logger.LogError("run failed: "+err.Error(), logger.ErrorContext{
		RunID:     e.runID,
		Stage:     module,
		ErrorCode: ErrCodeInvalidInput,
	})
	result.CompletedAt = time.Now()
	result.Error = buildExecutionError(ErrCodeInvalidInput, module, err)
	return err
}

// closeModule closes a module and logs any error.
func (e *Executor) closeModule(moduleName string, m interface{ Close() error }) {
	if err := m.Close(); err != nil {
		logger.Warn("failed to close module",
			slog.String("run_id", e.runID),
			slog.String("module", moduleName),
			slog.String("error", err.Error()),
		)
	}
}

// finalizeSuccessWithMetrics marks the run as successful and logs completion with metrics.
func (e *Executor) finalizeSuccessWithMetrics(result *connector.ExecutionResult, startedAt time.Time) {
	result.Status = StatusSuccess
	result.CompletedAt = time.Now()
	result.Error = nil

	totalDuration := time.Since(startedAt)

	var recordsPerSecond float64
	if result.RecordsProcessed > 0 && totalDuration > 0 {
		recordsPerSecond = float64(result.RecordsProcessed) / totalDuration.Seconds()
	}

	logger.LogRunEnd(e.logCtx, StatusSuccess, result.RecordsProcessed, totalDuration)
	logger.LogMetrics(e.logCtx, logger.RunMetrics{
		TotalDuration:    totalDuration,
		RecordsProcessed: result.RecordsProcessed,
		RecordsAccepted:  result.RecordsAccepted,
		RecordsRejected:  result.RecordsRejected,
		RecordsPerSecond: recordsPerSecond,
	})
}
