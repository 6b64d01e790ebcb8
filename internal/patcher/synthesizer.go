package patcher

import (
	"strings"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// PatchApplyFailedMessage is surfaced to the user when the synthesized
// patch could not be cleanly reapplied to the original snippet.
const PatchApplyFailedMessage = "the code may have changed too much"

// Synthesizer computes the diff between an original snippet and its
// replacement and reconstructs a patched snippet, preserving the original
// block's indentation. Routing the replacement through a diff-and-reapply
// step keeps the patch tolerant to whitespace and formatting drift
// introduced by the generation step, instead of requiring byte-exact
// equality. Synthesizers are stateless over their inputs and safe for
// concurrent use.
type Synthesizer struct {
	dmp    *diffmatchpatch.DiffMatchPatch
	config config.PatcherConfig
	logger zerolog.Logger
}

// NewSynthesizer creates a new Synthesizer instance
func NewSynthesizer(cfg config.PatcherConfig, logger zerolog.Logger) *Synthesizer {
	dmp := diffmatchpatch.New()
	dmp.PatchDeleteThreshold = cfg.DeleteThreshold

	return &Synthesizer{
		dmp:    dmp,
		config: cfg,
		logger: logger.With().Str("component", "Synthesizer").Logger(),
	}
}

// Synthesize produces the patched snippet for replacing originalText with
// replacementText, using the configured indentation policy.
func (s *Synthesizer) Synthesize(originalText, replacementText string) models.PatchResult {
	return s.SynthesizeWithIndentation(originalText, replacementText, s.config.PreserveIndentation)
}

// SynthesizeWithIndentation produces the patched snippet with an explicit
// indentation policy.
func (s *Synthesizer) SynthesizeWithIndentation(originalText, replacementText string, preserveIndentation bool) models.PatchResult {
	return s.synthesize(originalText, originalText, replacementText, preserveIndentation)
}

// Reapply synthesizes the patch taking originalText to replacementText and
// applies it to baseText, the text actually found in the document. When a
// fuzzy match located a drifted region, baseText differs from originalText
// and the patch segments land by context rather than exact position.
func (s *Synthesizer) Reapply(baseText, originalText, replacementText string) models.PatchResult {
	return s.synthesize(baseText, originalText, replacementText, s.config.PreserveIndentation)
}

func (s *Synthesizer) synthesize(baseText, originalText, replacementText string, preserveIndentation bool) models.PatchResult {
	if preserveIndentation {
		replacementText = restoreIndentation(originalText, replacementText)
	}

	diffs := s.dmp.DiffMain(originalText, replacementText, false)
	patches := s.dmp.PatchMake(originalText, diffs)
	patchedText, applied := s.dmp.PatchApply(patches, baseText)

	for i, ok := range applied {
		if !ok {
			s.logger.Warn().Int("patch_index", i).Msg("Patch segment failed to apply")
			return models.FailedPatch(PatchApplyFailedMessage)
		}
	}

	return models.SuccessfulPatch(patchedText)
}

// restoreIndentation prepends the original first line's leading whitespace
// run to the replacement when the replacement lost it. Generated
// replacements commonly come back dedented to column zero.
func restoreIndentation(originalText, replacementText string) string {
	indent := leadingWhitespace(firstLine(originalText))
	if indent == "" {
		return replacementText
	}

	if leadingWhitespace(firstLine(replacementText)) != "" {
		return replacementText
	}

	return indent + replacementText
}

// firstLine returns the text up to the first newline.
func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

// leadingWhitespace returns the run of spaces and tabs at the start of s.
func leadingWhitespace(s string) string {
	end := 0
	for end < len(s) && (s[end] == ' ' || s[end] == '\t') {
		end++
	}
	return s[:end]
}
