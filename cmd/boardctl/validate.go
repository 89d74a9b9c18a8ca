package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/tileboard/game/engine"
)

var configExtensions = []string{".json", ".yaml", ".yml"}

// ValidationResult captures the outcome of validating a single file.
// Info holds summary lines for valid files.
type ValidationResult struct {
	File  string
	Valid bool
	Err   error
	Info  []string
}

// validateConfig loads one configuration and checks that a board can be
// built from it.
func validateConfig(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path)}

	config, err := engine.LoadBoardConfig(path)
	if err != nil {
		result.Err = err
		return result
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		result.Err = err
		return result
	}
	if err := eng.CheckInvariants(); err != nil {
		result.Err = err
		return result
	}

	view := eng.View()
	counts := []string{}
	for _, kind := range []engine.Kind{engine.Ball, engine.Box, engine.Candle} {
		if n := engine.CountKind(view, kind); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, kind))
		}
	}

	result.Valid = true
	result.Info = []string{
		fmt.Sprintf("Name: %s", config.Name),
		fmt.Sprintf("Board: %dx%d", config.BoardSize, config.BoardSize),
		fmt.Sprintf("Components: %s", strings.Join(counts, ", ")),
		fmt.Sprintf("Observers: %d", len(config.Observers)),
		fmt.Sprintf("Placed: %d of %d", view.Placed, len(view.Components)),
	}
	return result
}

// collectConfigFiles returns args when given, otherwise every config file in dir.
func collectConfigFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("config directory: %w", err)
	}

	var files []string
	for _, ext := range configExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// validateFiles prints a report for each file and reports whether all passed.
func validateFiles(out io.Writer, files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateConfig(file)
		if result.Valid {
			success(out, "%s\n", result.File)
			for _, info := range result.Info {
				fmt.Fprintf(out, "    %s\n", info)
			}
			continue
		}
		allValid = false
		failure(out, "%s: %v\n", result.File, result.Err)
	}

	if allValid {
		success(out, "All %d configurations are valid\n", len(files))
	}
	return allValid
}
