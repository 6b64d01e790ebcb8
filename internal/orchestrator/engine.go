package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/datastore"
	"github.com/aleister1102/snippetpatch/internal/document"
	"github.com/aleister1102/snippetpatch/internal/generator"
	"github.com/aleister1102/snippetpatch/internal/locator"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/aleister1102/snippetpatch/internal/patcher"
	"github.com/aleister1102/snippetpatch/internal/prober"
	"github.com/aleister1102/snippetpatch/internal/reporter"
	"github.com/aleister1102/snippetpatch/internal/stager"
	"github.com/rs/zerolog"
)

// defaultTransformSystemPrompt frames rewrite requests sent to the
// text-generation backend.
const defaultTransformSystemPrompt = "You rewrite code snippets. Reply with the rewritten snippet only, " +
	"no commentary, no code fences. Preserve the original formatting conventions."

// Engine wires the locate, patch, stage and probe components into the
// operations the command layer exposes. One engine serves many files.
type Engine struct {
	globalConfig *config.GlobalConfig
	host         document.Host
	stager       *stager.Manager
	prober       *prober.Prober
	provider     generator.Provider
	historyStore *datastore.EditHistoryStore
	logger       zerolog.Logger
}

// NewEngine builds an engine from the global configuration. The generator
// provider is optional and only constructed when transform support is
// requested; the history store is skipped when storage is disabled.
func NewEngine(cfg *config.GlobalConfig, withGenerator bool, logger zerolog.Logger) (*Engine, error) {
	engineLogger := logger.With().Str("component", "Engine").Logger()

	host, err := document.NewFileHost(logger)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create document host")
	}

	loc := locator.NewLocator(cfg.LocatorConfig, logger)
	synth := patcher.NewSynthesizer(cfg.PatcherConfig, logger)

	diffReporter, err := reporter.NewDiffReporter(cfg.ReporterConfig, logger)
	if err != nil {
		_ = host.Close()
		return nil, errorwrapper.WrapError(err, "failed to create diff reporter")
	}

	stagingManager, err := stager.NewManager(cfg.StagerConfig, host, loc, synth, diffReporter, logger)
	if err != nil {
		_ = host.Close()
		return nil, err
	}

	validityProber, err := prober.NewProber(host, loc, logger)
	if err != nil {
		_ = host.Close()
		return nil, err
	}

	var historyStore *datastore.EditHistoryStore
	if cfg.StorageConfig.Enabled {
		historyStore, err = datastore.NewEditHistoryStore(cfg.StorageConfig, logger)
		if err != nil {
			_ = host.Close()
			return nil, errorwrapper.WrapError(err, "failed to create edit history store")
		}
	}

	var provider generator.Provider
	if withGenerator {
		provider, err = generator.NewProvider(cfg.GeneratorConfig, logger)
		if err != nil {
			_ = host.Close()
			return nil, err
		}
	}

	return &Engine{
		globalConfig: cfg,
		host:         host,
		stager:       stagingManager,
		prober:       validityProber,
		provider:     provider,
		historyStore: historyStore,
		logger:       engineLogger,
	}, nil
}

// ApplyToFile stages and applies one snippet replacement, recording the
// outcome in the edit history.
func (e *Engine) ApplyToFile(ctx context.Context, input models.ApplyInput) (*models.EditOutcome, error) {
	outcome, err := e.stager.ApplyToFile(ctx, input)
	e.recordOutcome(input, outcome, err)
	return outcome, err
}

// CheckValidity probes whether a remembered snippet is still locatable.
func (e *Engine) CheckValidity(ctx context.Context, filePath string, snippet models.Snippet) (models.SnippetProbeResult, error) {
	return e.prober.CheckValidity(ctx, filePath, snippet)
}

// Transform asks the generation backend to rewrite the snippet per the
// instruction, then applies the result like any other edit. There is no
// retry on failed application: the caller decides whether to regenerate.
func (e *Engine) Transform(ctx context.Context, input models.ApplyInput, instruction string) (*models.EditOutcome, error) {
	if e.provider == nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "engine was built without a generator provider")
	}
	if instruction == "" {
		return nil, errorwrapper.NewValidationError("instruction", instruction, "transform instruction is required")
	}

	generateCtx := ctx
	if timeout := e.globalConfig.GeneratorConfig.TimeoutSecs; timeout > 0 {
		var cancel context.CancelFunc
		generateCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	replacement, err := e.provider.Generate(generateCtx, generator.GenerateRequest{
		SystemPrompt: defaultTransformSystemPrompt,
		Prompt:       buildTransformPrompt(input.OriginalSnippet, instruction),
	})
	if err != nil {
		return nil, errorwrapper.WrapError(err, "snippet generation failed")
	}

	e.logger.Debug().
		Str("provider", e.provider.Name()).
		Int("replacement_bytes", len(replacement)).
		Msg("Generated replacement snippet")

	input.ReplacementSnippet = replacement
	return e.ApplyToFile(ctx, input)
}

// EditHistory returns the recorded edits for a file, newest first.
func (e *Engine) EditHistory(targetFilePath string, limit int) ([]models.EditRecord, error) {
	if e.historyStore == nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "edit history storage is disabled")
	}
	return e.historyStore.ListRecords(targetFilePath, limit)
}

// CloseSession releases the staging session for a file, if any.
func (e *Engine) CloseSession(targetFilePath string) {
	e.stager.CloseSession(targetFilePath)
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	e.stager.Close()
	return e.host.Close()
}

// recordOutcome persists one edit attempt to the history store. History is
// observability, not control flow: failures here are logged and swallowed.
func (e *Engine) recordOutcome(input models.ApplyInput, outcome *models.EditOutcome, applyErr error) {
	if e.historyStore == nil {
		return
	}

	record := models.EditRecord{
		FilePath:      input.FilePath,
		Timestamp:     time.Now().UnixMilli(),
		OriginalHash:  hashText(input.OriginalSnippet),
		OriginalBytes: int64(len(input.OriginalSnippet)),
	}

	switch {
	case applyErr == nil && outcome != nil:
		record.SessionID = outcome.SessionID
		record.Outcome = models.EditOutcomeApplied
		record.MatchLocation = int64(outcome.Match.Location)
		record.MatchScore = outcome.Match.Score
		record.MatchStrategy = string(outcome.Match.Strategy)
		record.PatchedHash = hashText(outcome.PatchedText)
		record.PatchedBytes = int64(len(outcome.PatchedText))
	case errors.Is(applyErr, errorwrapper.ErrApplyRejected):
		record.Outcome = models.EditOutcomeRejected
		record.MatchLocation = models.LocationNotFound
		record.MatchStrategy = string(models.StrategyNone)
		record.ErrorMessage = applyErr.Error()
	default:
		record.Outcome = models.EditOutcomeFailed
		record.MatchLocation = models.LocationNotFound
		record.MatchStrategy = string(models.StrategyNone)
		record.ErrorMessage = applyErr.Error()
	}

	if err := e.historyStore.RecordEdit(record); err != nil {
		e.logger.Warn().Err(err).Str("file", input.FilePath).Msg("Failed to record edit history")
	}
}

// buildTransformPrompt assembles the user prompt for a rewrite request.
func buildTransformPrompt(originalSnippet, instruction string) string {
	return "Instruction: " + instruction + "\n\nSnippet:\n" + originalSnippet
}

// hashText returns a short content hash for history records.
func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}
