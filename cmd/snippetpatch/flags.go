package main

import (
	"flag"
	"fmt"
	"os"
)

type AppFlags struct {
	GlobalConfigFile string
	Mode             string
	TargetFile       string
	SnippetFile      string
	ReplacementFile  string
	Instruction      string
	OffsetHint       int
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	modeFlag := flag.String("mode", "", "Mode to run the tool: apply, probe or transform")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	targetFile := flag.String("file", "", "Path to the target file to edit or probe")
	targetFileAlias := flag.String("f", "", "Alias for -file")

	snippetFile := flag.String("snippet", "", "Path to a file holding the original snippet text")
	snippetFileAlias := flag.String("s", "", "Alias for -snippet")

	replacementFile := flag.String("replacement", "", "Path to a file holding the replacement snippet text (apply mode)")
	replacementFileAlias := flag.String("r", "", "Alias for -replacement")

	instruction := flag.String("instruction", "", "Rewrite instruction for the generation backend (transform mode)")
	instructionAlias := flag.String("i", "", "Alias for -instruction")

	offsetHint := flag.Int("offset", 0, "Offset hint: where the snippet was last seen in the target file")

	flag.Parse()

	flags := AppFlags{OffsetHint: *offsetHint}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *modeFlag != "" {
		flags.Mode = *modeFlag
	} else if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	if *targetFile != "" {
		flags.TargetFile = *targetFile
	} else if *targetFileAlias != "" {
		flags.TargetFile = *targetFileAlias
	}

	if *snippetFile != "" {
		flags.SnippetFile = *snippetFile
	} else if *snippetFileAlias != "" {
		flags.SnippetFile = *snippetFileAlias
	}

	if *replacementFile != "" {
		flags.ReplacementFile = *replacementFile
	} else if *replacementFileAlias != "" {
		flags.ReplacementFile = *replacementFileAlias
	}

	if *instruction != "" {
		flags.Instruction = *instruction
	} else if *instructionAlias != "" {
		flags.Instruction = *instructionAlias
	}

	if flags.Mode == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] --mode argument is required (apply, probe or transform)")
		os.Exit(1)
	}
	if flags.TargetFile == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] --file argument is required")
		os.Exit(1)
	}
	if flags.SnippetFile == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] --snippet argument is required")
		os.Exit(1)
	}

	return flags
}
