package locator

import (
	"strings"
	"testing"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocator() *Locator {
	return NewLocator(config.NewDefaultLocatorConfig(), zerolog.Nop())
}

func TestLocator_ExactMatch(t *testing.T) {
	loc := newTestLocator()

	haystack := "function add(a, b) {\n  return a + b;\n}\n"
	needle := "return a + b;"

	result := loc.Locate(haystack, needle, 0)

	require.True(t, result.Found())
	assert.Equal(t, 23, result.Location)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, models.StrategyExact, result.Strategy)
}

func TestLocator_ExactMatchFromHint(t *testing.T) {
	loc := newTestLocator()

	haystack := "x = 1\nx = 1\nx = 1\n"
	result := loc.Locate(haystack, "x = 1", 7)

	require.True(t, result.Found())
	assert.Equal(t, 12, result.Location)
	assert.Equal(t, models.StrategyExact, result.Strategy)
}

func TestLocator_ExactMatchBeforeHint(t *testing.T) {
	loc := newTestLocator()

	// Snippet drifted towards the start: hinted region misses, full scan hits.
	haystack := "const value = 42;\n// trailing commentary\n"
	result := loc.Locate(haystack, "const value", 30)

	require.True(t, result.Found())
	assert.Equal(t, 0, result.Location)
	assert.Equal(t, 1.0, result.Score)
}

func TestLocator_CaseInsensitiveMatch(t *testing.T) {
	loc := newTestLocator()

	haystack := "SELECT * FROM users WHERE id = 1;"
	result := loc.Locate(haystack, "select * from users", 0)

	require.True(t, result.Found())
	assert.Equal(t, 0, result.Location)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, models.StrategyCaseInsensitive, result.Strategy)
}

func TestLocator_BitapMatchToleratesSmallDrift(t *testing.T) {
	loc := newTestLocator()

	// Snippet remembered with a double space, live document has a single one.
	haystack := "const x = 1;"
	result := loc.Locate(haystack, "const  x = 1;", 0)

	require.True(t, result.Found())
	assert.Equal(t, 0, result.Location)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, models.StrategyBitap, result.Strategy)
}

func TestLocator_BitapMatchInsideLargerDocument(t *testing.T) {
	loc := newTestLocator()

	haystack := "package main\n\nfunc main() {\n\tconst x = 1;\n\tprintln(x)\n}\n"
	result := loc.Locate(haystack, "const  x = 1;", 0)

	require.True(t, result.Found())
	assert.Equal(t, models.StrategyBitap, result.Strategy)
	assert.Equal(t, strings.Index(haystack, "const x = 1;"), result.Location)
}

func TestLocator_NotFoundForShortNeedle(t *testing.T) {
	loc := newTestLocator()

	result := loc.Locate("completely unrelated text here", "zzQQzz##unseen", 0)

	assert.False(t, result.Found())
	assert.Equal(t, models.StrategyNone, result.Strategy)
}

func TestLocator_WindowedMatchAcceptsHighOverlap(t *testing.T) {
	loc := newTestLocator()

	// 80-char needle, not present verbatim. The live document carries the
	// needle's leading 32 chars with a single substituted character at a
	// known offset: edit distance 2, score (32-2)/32 ~= 0.94.
	needle := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima mike."
	require.Greater(t, len(needle), 32)

	drifted := []byte(needle[:32])
	drifted[10] = 'X'

	padding := strings.Repeat("# ", 60) // 120 chars of filler
	haystack := padding + string(drifted) + " and the rest of the line continues"

	result := loc.Locate(haystack, needle, 0)

	require.True(t, result.Found())
	assert.Equal(t, models.StrategyWindowed, result.Strategy)
	assert.Equal(t, 120, result.Location)
	assert.GreaterOrEqual(t, result.Score, 0.9)
}

func TestLocator_WindowedMatchRejectsLowOverlap(t *testing.T) {
	loc := newTestLocator()

	needle := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima mike."
	require.Greater(t, len(needle), 32)

	// Four substituted characters: edit distance 8, score 0.75 < 0.9.
	drifted := []byte(needle[:32])
	drifted[3] = 'Q'
	drifted[11] = 'Q'
	drifted[19] = 'Q'
	drifted[27] = 'Q'

	haystack := strings.Repeat("~ ", 40) + string(drifted) + " trailing text"

	result := loc.Locate(haystack, needle, 0)

	assert.False(t, result.Found())
}

func TestLocator_EmptyInputs(t *testing.T) {
	loc := newTestLocator()

	assert.False(t, loc.Locate("", "needle", 0).Found())
	assert.False(t, loc.Locate("haystack", "", 0).Found())
}

func TestLocator_HintBeyondDocumentIsClamped(t *testing.T) {
	loc := newTestLocator()

	haystack := "short document"
	result := loc.Locate(haystack, "short", 10_000)

	require.True(t, result.Found())
	assert.Equal(t, 0, result.Location)
}

func TestLocator_LocationWithinBounds(t *testing.T) {
	loc := newTestLocator()

	haystack := "some text with a needle in it"
	result := loc.Locate(haystack, "needle", 0)

	require.True(t, result.Found())
	assert.GreaterOrEqual(t, result.Location, 0)
	assert.LessOrEqual(t, result.Location, len(haystack))
}
