package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"chstack/internal/errors"
)

// reader loads one dataset file into a Frame.
type reader func(path string) (*Frame, error)

// readers maps file extensions (without the dot) to their loader.
var readers = map[string]reader{
	"csv":  readCSV,
	"json": readJSON,
}

// SupportedFormat reports whether files with the extension can be loaded.
func SupportedFormat(ext string) bool {
	_, ok := readers[ext]
	return ok
}

// readCSV loads a CSV file with a header row. Cells stay raw strings;
// types are inferred afterwards.
func readCSV(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	frame := &Frame{Columns: header, Rows: rows}
	frame.InferTypes()
	return frame, nil
}

// readJSON loads a JSON array of flat objects. Column order follows the
// key order of the first object; objects missing a key get an empty cell.
func readJSON(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("expected a JSON array: %w", err)
	}

	var columns []string
	index := make(map[string]int)
	var rows [][]string

	for dec.More() {
		var obj map[string]json.RawMessage
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("failed to decode object %d: %w", len(rows)+1, err)
		}

		if columns == nil {
			columns, err = objectKeys(path, len(rows))
			if err != nil {
				return nil, err
			}
			for i, col := range columns {
				index[col] = i
			}
		}

		row := make([]string, len(columns))
		for key, raw := range obj {
			i, ok := index[key]
			if !ok {
				continue
			}
			cell, err := scalarString(raw)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", key, err)
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}

	if columns == nil {
		return nil, fmt.Errorf("empty file")
	}

	frame := &Frame{Columns: columns, Rows: rows}
	frame.InferTypes()
	return frame, nil
}

// readMCCCodes loads the merchant category code mapping: a single JSON
// object whose keys become the code column and values the name column.
// Both columns stay String regardless of what the codes look like.
func readMCCCodes(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}

	frame := &Frame{
		Columns: []string{"code", "name"},
		Types:   []ColumnType{TypeString, TypeString},
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("code %q: %w", key, err)
		}
		value, err := scalarString(raw)
		if err != nil {
			return nil, fmt.Errorf("code %q: %w", key, err)
		}

		frame.Rows = append(frame.Rows, []string{key, value})
	}

	return frame, nil
}

// expectDelim consumes the next token and checks it is the wanted delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("got %v, want %v", tok, want)
	}
	return nil
}

// scalarString renders a raw JSON scalar as a cell value.
func scalarString(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	switch v := tok.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("%w: nested values are not supported", errors.ErrInvalidInput)
	}
}

// objectKeys re-reads the file to recover the key order of the first
// object, since map decoding loses it.
func objectKeys(path string, skip int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	// Advance past the objects already consumed.
	for i := 0; i < skip; i++ {
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		keys = append(keys, key)

		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
