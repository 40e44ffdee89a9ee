package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LogEntry represents a parsed log entry with all structured fields.
type LogEntry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	Operation string         `json:"operation,omitempty"`
	Service   string         `json:"service,omitempty"`
	Table     string         `json:"table,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// LogFilter defines criteria for filtering log entries.
type LogFilter struct {
	// Level filters to entries at or above this level (DEBUG < INFO < WARN < ERROR)
	// Empty string means no level filtering.
	Level string

	// StartTime filters to entries at or after this time.
	// Zero value means no start time filtering.
	StartTime time.Time

	// Operation filters to entries from a specific lifecycle operation.
	// Empty string means no operation filtering.
	Operation string

	// MessageContains filters to entries whose message contains this substring.
	// Empty string means no message filtering.
	MessageContains string
}

// levelOrder defines the ordering of log levels for filtering.
var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadEntries reads and parses all log entries from a state directory.
// It looks for the debug.log file in the specified directory and parses
// each line as a JSON log entry.
// Entries are returned sorted by timestamp in ascending order.
func ReadEntries(stateDir string) ([]LogEntry, error) {
	logPath := filepath.Join(stateDir, FileName)

	file, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file found in state directory: %w", err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseLogEntry(line)
		if err != nil {
			// Skip unparseable lines; this allows partial recovery
			// from corrupted logs.
			continue
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	return entries, nil
}

// parseLogEntry parses a single JSON log line into a LogEntry.
// Fields that are not part of the known schema are collected into Attrs.
func parseLogEntry(line string) (LogEntry, error) {
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return LogEntry{}, fmt.Errorf("invalid log line: %w", err)
	}

	var all map[string]any
	if err := json.Unmarshal([]byte(line), &all); err != nil {
		return LogEntry{}, fmt.Errorf("invalid log line: %w", err)
	}

	delete(all, "time")
	delete(all, "level")
	delete(all, "msg")
	delete(all, "operation")
	delete(all, "service")
	delete(all, "table")

	if len(all) > 0 {
		entry.Attrs = all
	}

	return entry, nil
}

// FilterEntries returns the entries that match all criteria in the filter.
func FilterEntries(entries []LogEntry, filter LogFilter) []LogEntry {
	var result []LogEntry

	minLevel, filterByLevel := levelOrder[strings.ToUpper(filter.Level)]

	for _, entry := range entries {
		if filterByLevel && filter.Level != "" {
			if levelOrder[strings.ToUpper(entry.Level)] < minLevel {
				continue
			}
		}
		if !filter.StartTime.IsZero() && entry.Timestamp.Before(filter.StartTime) {
			continue
		}
		if filter.Operation != "" && entry.Operation != filter.Operation {
			continue
		}
		if filter.MessageContains != "" && !strings.Contains(entry.Message, filter.MessageContains) {
			continue
		}
		result = append(result, entry)
	}

	return result
}
