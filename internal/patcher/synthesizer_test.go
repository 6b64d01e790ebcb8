package patcher

import (
	"testing"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSynthesizer() *Synthesizer {
	return NewSynthesizer(config.NewDefaultPatcherConfig(), zerolog.Nop())
}

func TestSynthesizer_NoOpEditIsIdempotent(t *testing.T) {
	s := newTestSynthesizer()

	original := "func main() {\n\tprintln(\"hello\")\n}\n"
	result := s.Synthesize(original, original)

	require.True(t, result.Success)
	assert.Equal(t, original, result.PatchedText)
	assert.Empty(t, result.ErrorMessage)
}

func TestSynthesizer_SimpleReplacement(t *testing.T) {
	s := newTestSynthesizer()

	result := s.Synthesize("return a + b;", "return a + b + 1;")

	require.True(t, result.Success)
	assert.Equal(t, "return a + b + 1;", result.PatchedText)
}

func TestSynthesizer_RestoresLostIndentation(t *testing.T) {
	s := newTestSynthesizer()

	original := "    if err != nil {\n        return err\n    }"
	replacement := "if err != nil {\n        return fmt.Errorf(\"wrapped: %w\", err)\n    }"

	result := s.Synthesize(original, replacement)

	require.True(t, result.Success)
	assert.Equal(t, "    ", result.PatchedText[:4])
}

func TestSynthesizer_IndentationOnlyDifferenceReproducesOriginal(t *testing.T) {
	s := newTestSynthesizer()

	original := "\tconst x = 1;"
	replacement := "const x = 1;"

	result := s.Synthesize(original, replacement)

	require.True(t, result.Success)
	assert.Equal(t, original, result.PatchedText)
}

func TestSynthesizer_KeepsReplacementIndentationWhenPresent(t *testing.T) {
	s := newTestSynthesizer()

	original := "  old line"
	replacement := "    new line"

	result := s.Synthesize(original, replacement)

	require.True(t, result.Success)
	assert.Equal(t, "    new line", result.PatchedText)
}

func TestSynthesizer_IndentationPolicyCanBeDisabled(t *testing.T) {
	s := newTestSynthesizer()

	original := "    indented line"
	replacement := "dedented line"

	result := s.SynthesizeWithIndentation(original, replacement, false)

	require.True(t, result.Success)
	assert.Equal(t, "dedented line", result.PatchedText)
}

func TestSynthesizer_TabIndentation(t *testing.T) {
	s := newTestSynthesizer()

	original := "\t\treturn nil"
	replacement := "return errors.New(\"boom\")"

	result := s.Synthesize(original, replacement)

	require.True(t, result.Success)
	assert.Equal(t, "\t\t", result.PatchedText[:2])
}

func TestSynthesizer_EmptyOriginal(t *testing.T) {
	s := newTestSynthesizer()

	result := s.Synthesize("", "brand new content")

	require.True(t, result.Success)
	assert.Equal(t, "brand new content", result.PatchedText)
}

func TestSynthesizer_MultilineRewrite(t *testing.T) {
	s := newTestSynthesizer()

	original := "  for i := 0; i < n; i++ {\n    sum += i\n  }"
	replacement := "for i := range n {\n    sum += i * 2\n  }"

	result := s.Synthesize(original, replacement)

	require.True(t, result.Success)
	assert.Contains(t, result.PatchedText, "sum += i * 2")
	assert.Equal(t, "  ", result.PatchedText[:2])
}
