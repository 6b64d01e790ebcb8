package prober

import (
	"context"
	"errors"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/document"
	"github.com/aleister1102/snippetpatch/internal/locator"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/rs/zerolog"
)

// Prober answers whether a previously captured snippet is still present in
// its file, without mutating anything. Callers use it to decide whether a
// stored edit suggestion is still applicable.
type Prober struct {
	host    document.Host
	locator *locator.Locator
	logger  zerolog.Logger
}

// NewProber creates a new Prober instance
func NewProber(host document.Host, loc *locator.Locator, logger zerolog.Logger) (*Prober, error) {
	if host == nil || loc == nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrInvalidConfiguration, "prober requires a document host and locator")
	}

	return &Prober{
		host:    host,
		locator: loc,
		logger:  logger.With().Str("component", "Prober").Logger(),
	}, nil
}

// CheckValidity probes whether the snippet can still be located inside the
// file. Missing files and unlocatable snippets are reported as statuses,
// not errors; the error return is reserved for unexpected I/O failures.
func (p *Prober) CheckValidity(ctx context.Context, filePath string, snippet models.Snippet) (models.SnippetProbeResult, error) {
	result := models.SnippetProbeResult{
		FilePath: filePath,
		Match:    models.NoMatch(),
	}

	docText, err := p.host.ReadDocument(ctx, filePath)
	if err != nil {
		if errors.Is(err, errorwrapper.ErrFileMissing) {
			result.Status = models.ProbeFileMissing
			return result, nil
		}
		return result, err
	}

	match := p.locator.Locate(docText, snippet.Text, snippet.OffsetHint)
	result.Match = match

	if !match.Found() {
		result.Status = models.ProbeCodeNotMatched
		p.logger.Debug().Str("file", filePath).Msg("Snippet no longer present")
		return result, nil
	}

	result.Status = models.ProbeSuccess
	return result, nil
}
