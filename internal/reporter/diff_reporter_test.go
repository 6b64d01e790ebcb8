package reporter

import (
	"os"
	"strings"
	"testing"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReporter(t *testing.T) *DiffReporter {
	t.Helper()

	cfg := config.ReporterConfig{OutputDir: t.TempDir()}
	reporter, err := NewDiffReporter(cfg, zerolog.Nop())
	require.NoError(t, err)

	return reporter
}

func TestDiffReporter_GenerateReport(t *testing.T) {
	reporter := newTestReporter(t)

	reportPath, err := reporter.GenerateReport(
		"function add(a, b) {\n  return a + b;\n}\n",
		"function add(a, b) {\n  return a + b + 1;\n}\n",
		"/src/add.js",
		"session-123",
	)
	require.NoError(t, err)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "add.js")
	assert.Contains(t, html, "session-123")
	assert.Contains(t, html, "<ins>")
	assert.True(t, strings.HasSuffix(reportPath, "add.js-session-123.html"))
}

func TestDiffReporter_IdenticalContentNotice(t *testing.T) {
	reporter := newTestReporter(t)

	reportPath, err := reporter.GenerateReport("same", "same", "/src/file.go", "session-1")
	require.NoError(t, err)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "identical")
}

func TestDiffReporter_EscapesMarkup(t *testing.T) {
	reporter := newTestReporter(t)

	reportPath, err := reporter.GenerateReport(
		"<script>alert(1)</script>",
		"<script>alert(2)</script>",
		"/src/page.html",
		"session-2",
	)
	require.NoError(t, err)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "<script>alert(")
}
