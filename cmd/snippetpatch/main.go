package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/snippetpatch/internal/config"
	"github.com/aleister1102/snippetpatch/internal/logger"
	"github.com/aleister1102/snippetpatch/internal/models"
	"github.com/aleister1102/snippetpatch/internal/orchestrator"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// API keys and overrides may live in a local .env file.
	_ = godotenv.Load()

	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, zerolog.Nop())
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if gCfg.ReporterConfig.OutputDir != "" {
		if err := os.MkdirAll(gCfg.ReporterConfig.OutputDir, 0755); err != nil {
			zLogger.Fatal().Err(err).Str("directory", gCfg.ReporterConfig.OutputDir).Msg("Could not create report output directory")
		}
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	withGenerator := flags.Mode == "transform"
	engine, err := orchestrator.NewEngine(gCfg, withGenerator, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize engine")
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			zLogger.Error().Err(closeErr).Msg("Failed to close engine")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, engine, flags, zLogger); err != nil {
		zLogger.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, engine *orchestrator.Engine, flags AppFlags, zLogger zerolog.Logger) error {
	snippetText, err := os.ReadFile(flags.SnippetFile)
	if err != nil {
		return fmt.Errorf("reading snippet file: %w", err)
	}

	switch flags.Mode {
	case "apply":
		return runApply(ctx, engine, flags, string(snippetText), zLogger)
	case "probe":
		return runProbe(ctx, engine, flags, string(snippetText), zLogger)
	case "transform":
		return runTransform(ctx, engine, flags, string(snippetText), zLogger)
	default:
		return fmt.Errorf("unknown mode '%s' (expected apply, probe or transform)", flags.Mode)
	}
}

func runApply(ctx context.Context, engine *orchestrator.Engine, flags AppFlags, snippetText string, zLogger zerolog.Logger) error {
	if flags.ReplacementFile == "" {
		return fmt.Errorf("apply mode requires -replacement")
	}
	replacementText, err := os.ReadFile(flags.ReplacementFile)
	if err != nil {
		return fmt.Errorf("reading replacement file: %w", err)
	}

	outcome, err := engine.ApplyToFile(ctx, models.ApplyInput{
		FilePath:           flags.TargetFile,
		OriginalSnippet:    snippetText,
		ReplacementSnippet: string(replacementText),
		OffsetHint:         flags.OffsetHint,
	})
	if err != nil {
		return err
	}

	zLogger.Info().
		Str("file", outcome.FilePath).
		Str("session_id", outcome.SessionID).
		Int("location", outcome.Match.Location).
		Str("strategy", string(outcome.Match.Strategy)).
		Msg("Edit applied")
	if outcome.ReportPath != "" {
		fmt.Printf("Diff report: %s\n", outcome.ReportPath)
	}
	return nil
}

func runProbe(ctx context.Context, engine *orchestrator.Engine, flags AppFlags, snippetText string, zLogger zerolog.Logger) error {
	result, err := engine.CheckValidity(ctx, flags.TargetFile, models.NewSnippet(snippetText, flags.OffsetHint))
	if err != nil {
		return err
	}

	zLogger.Info().
		Str("file", result.FilePath).
		Str("status", string(result.Status)).
		Msg("Probe completed")

	switch result.Status {
	case models.ProbeSuccess:
		fmt.Printf("%s: snippet found at offset %d (score %.2f, %s)\n",
			result.FilePath, result.Match.Location, result.Match.Score, result.Match.Strategy)
	default:
		fmt.Printf("%s: %s\n", result.FilePath, result.Status)
	}
	return nil
}

func runTransform(ctx context.Context, engine *orchestrator.Engine, flags AppFlags, snippetText string, zLogger zerolog.Logger) error {
	if flags.Instruction == "" {
		return fmt.Errorf("transform mode requires -instruction")
	}

	outcome, err := engine.Transform(ctx, models.ApplyInput{
		FilePath:        flags.TargetFile,
		OriginalSnippet: snippetText,
		OffsetHint:      flags.OffsetHint,
	}, flags.Instruction)
	if err != nil {
		return err
	}

	zLogger.Info().
		Str("file", outcome.FilePath).
		Str("session_id", outcome.SessionID).
		Msg("Transform applied")
	fmt.Println(outcome.PatchedText)
	if outcome.ReportPath != "" {
		fmt.Printf("Diff report: %s\n", outcome.ReportPath)
	}
	return nil
}
