package reporter

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/aleister1102/snippetpatch/internal/common/errorwrapper"
	"github.com/aleister1102/snippetpatch/internal/common/filemanager"
	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/differ"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/rs/zerolog"
)

//go:embed templates/*
var templateFS embed.FS

// DiffReporter renders an HTML before/after comparison between the
// pre-edit snapshot and the edited document, for human review of a staged
// patch.
type DiffReporter struct {
	processor   *differ.DiffProcessor
	fileManager *filemanager.FileManager
	config      config.ReporterConfig
	template    *template.Template
	logger      zerolog.Logger
}

// diffReportData is the template payload for a single report
type diffReportData struct {
	FileName     string
	FilePath     string
	SessionID    string
	GeneratedAt  string
	CharsAdded   int
	CharsDeleted int
	IsIdentical  bool
	DiffHTML     template.HTML
}

// NewDiffReporter creates a new DiffReporter instance
func NewDiffReporter(cfg config.ReporterConfig, logger zerolog.Logger) (*DiffReporter, error) {
	componentLogger := logger.With().Str("component", "DiffReporter").Logger()

	tmpl, err := template.ParseFS(templateFS, "templates/diff_report.html.tmpl")
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse HTML diff template")
	}

	return &DiffReporter{
		processor:   differ.NewDiffProcessor(differ.DefaultDiffConfig()),
		fileManager: filemanager.NewFileManager(componentLogger),
		config:      cfg,
		template:    tmpl,
		logger:      componentLogger,
	}, nil
}

// GenerateReport diffs the snapshot against the edited text and writes an
// HTML report. It returns the report path.
func (dr *DiffReporter) GenerateReport(snapshotText, editedText, targetFilePath, sessionID string) (string, error) {
	diffResult := dr.processor.BuildContentDiffResult(snapshotText, editedText)

	data := diffReportData{
		FileName:     filepath.Base(targetFilePath),
		FilePath:     targetFilePath,
		SessionID:    sessionID,
		GeneratedAt:  time.Now().Format(time.RFC3339),
		CharsAdded:   diffResult.CharsAdded,
		CharsDeleted: diffResult.CharsDeleted,
		IsIdentical:  diffResult.IsIdentical,
		DiffHTML:     renderDiffHTML(diffResult.Diffs),
	}

	var rendered strings.Builder
	if err := dr.template.Execute(&rendered, data); err != nil {
		return "", errorwrapper.WrapError(err, "failed to render diff report")
	}

	reportPath := dr.buildReportPath(targetFilePath, sessionID)
	opts := filemanager.DefaultFileWriteOptions()
	if err := dr.fileManager.WriteFile(reportPath, []byte(rendered.String()), opts); err != nil {
		return "", errorwrapper.WrapError(err, "failed to write diff report")
	}

	dr.logger.Info().Str("report_path", reportPath).Str("session_id", sessionID).Msg("Diff report generated")
	return reportPath, nil
}

// buildReportPath places reports under the configured output directory,
// named by target file and session.
func (dr *DiffReporter) buildReportPath(targetFilePath, sessionID string) string {
	base := filepath.Base(targetFilePath)
	return filepath.Join(dr.config.OutputDir, fmt.Sprintf("%s-%s.html", base, sessionID))
}

// renderDiffHTML converts structured diffs into escaped ins/del markup.
func renderDiffHTML(diffs []models.ContentDiff) template.HTML {
	var builder strings.Builder
	for _, diff := range diffs {
		escaped := template.HTMLEscapeString(diff.Text)
		switch diff.Operation {
		case models.DiffInsert:
			builder.WriteString("<ins>")
			builder.WriteString(escaped)
			builder.WriteString("</ins>")
		case models.DiffDelete:
			builder.WriteString("<del>")
			builder.WriteString(escaped)
			builder.WriteString("</del>")
		default:
			builder.WriteString(escaped)
		}
	}
	return template.HTML(builder.String())
}
