// Package dataset loads seed data files into ClickHouse. Every file under
// the dataset directory becomes one table named after the file stem; column
// types are inferred from the data and each table is created with the
// Memory engine.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"chstack/internal/clickhouse"
)

// ColumnType is the ClickHouse type assigned to an inferred column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt32
	TypeFloat32
	TypeDateTime
)

// String returns the ClickHouse type name.
func (t ColumnType) String() string {
	switch t {
	case TypeInt32:
		return "Int32"
	case TypeFloat32:
		return "Float32"
	case TypeDateTime:
		return "DateTime"
	default:
		return "String"
	}
}

// dateTimeLayouts are the formats accepted for DateTime inference.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Frame is a loaded dataset file: column names in file order, one
// ClickHouse type per column, and rows of raw string cells.
type Frame struct {
	Columns []string
	Types   []ColumnType
	Rows    [][]string
}

// InferTypes assigns a ColumnType per column by scanning every cell.
// A column is Int32 only if every cell parses as a 32-bit integer,
// Float32 if every cell parses as a 32-bit float, DateTime if every
// cell matches a known layout. Anything else, including empty columns,
// falls back to String. Readers that already set Types are left alone.
func (f *Frame) InferTypes() {
	if f.Types != nil {
		return
	}

	f.Types = make([]ColumnType, len(f.Columns))
	for i := range f.Columns {
		f.Types[i] = inferColumn(f.Rows, i)
	}
}

func inferColumn(rows [][]string, col int) ColumnType {
	if len(rows) == 0 {
		return TypeString
	}

	isInt, isFloat, isDateTime := true, true, true
	for _, row := range rows {
		cell := row[col]
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 32); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 32); err != nil {
				isFloat = false
			}
		}
		if isDateTime && !parsesAsDateTime(cell) {
			isDateTime = false
		}
		if !isInt && !isFloat && !isDateTime {
			return TypeString
		}
	}

	switch {
	case isInt:
		return TypeInt32
	case isFloat:
		return TypeFloat32
	case isDateTime:
		return TypeDateTime
	default:
		return TypeString
	}
}

func parsesAsDateTime(cell string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, cell); err == nil {
			return true
		}
	}
	return false
}

// CreateTableDDL renders the CREATE TABLE statement for the frame.
func (f *Frame) CreateTableDDL(table string) string {
	defs := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		defs[i] = fmt.Sprintf("%s %s", clickhouse.QuoteIdentifier(col), f.Types[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s) ENGINE = Memory",
		clickhouse.QuoteIdentifier(table), strings.Join(defs, ", "))
}

// typedValue converts a raw cell to the native value for its column type.
func typedValue(cell string, t ColumnType) (any, error) {
	switch t {
	case TypeInt32:
		v, err := strconv.ParseInt(cell, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("not an Int32: %q", cell)
		}
		return int32(v), nil
	case TypeFloat32:
		v, err := strconv.ParseFloat(cell, 32)
		if err != nil {
			return nil, fmt.Errorf("not a Float32: %q", cell)
		}
		return float32(v), nil
	case TypeDateTime:
		for _, layout := range dateTimeLayouts {
			if v, err := time.Parse(layout, cell); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("not a DateTime: %q", cell)
	default:
		return cell, nil
	}
}
