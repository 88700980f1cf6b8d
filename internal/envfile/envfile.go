// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package envfile parses environment variable files in the common
// KEY=VALUE dotenv format.
//
// The parser is deliberately forgiving: blank lines and '#' comments are
// skipped, lines without a '=' separator produce a warning and are dropped,
// and a single pair of matching surrounding quotes (double or single) is
// stripped from values. Variables keep the order of their first occurrence
// in the file; a duplicate key overwrites the value but keeps the original
// position, matching the behavior of a plain insertion-ordered map.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Variable is a single KEY=VALUE entry from an environment file.
type Variable struct {
	Key   string
	Value string
}

// ParseFile reads and parses the environment file at path.
// A missing or unreadable file is returned as an error, the caller decides
// whether that is fatal.
func ParseFile(path string) ([]Variable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file %s: %w", path, err)
	}
	defer f.Close()

	vars, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vars, nil
}

// Parse reads KEY=VALUE lines from r and returns the variables in file order.
// Invalid lines are logged as warnings and skipped, they never abort the parse.
func Parse(r io.Reader) ([]Variable, error) {
	var vars []Variable
	index := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			slog.Warn("Invalid line in env file, skipping", "line", lineNum, "content", line)
			continue
		}

		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))
		if key == "" {
			slog.Warn("Line with empty key in env file, skipping", "line", lineNum)
			continue
		}

		// Duplicate keys keep their first position, last value wins
		if i, ok := index[key]; ok {
			vars[i].Value = value
			continue
		}
		index[key] = len(vars)
		vars = append(vars, Variable{Key: key, Value: value})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}

// unquote strips a single pair of matching surrounding double or single
// quotes from a value. Unmatched or nested quotes are left untouched.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
