package dataset

import (
	"testing"
	"time"
)

func TestInferTypes(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []ColumnType
	}{
		{
			name: "integer column",
			rows: [][]string{{"1"}, {"42"}, {"-7"}},
			want: []ColumnType{TypeInt32},
		},
		{
			name: "float column",
			rows: [][]string{{"1.5"}, {"42.0"}, {"-0.25"}},
			want: []ColumnType{TypeFloat32},
		},
		{
			name: "datetime column",
			rows: [][]string{{"2010-01-01 00:01:00"}, {"2019-10-05 14:33:12"}},
			want: []ColumnType{TypeDateTime},
		},
		{
			name: "string column",
			rows: [][]string{{"Visa"}, {"Mastercard"}},
			want: []ColumnType{TypeString},
		},
		{
			name: "mixed falls back to string",
			rows: [][]string{{"1"}, {"two"}},
			want: []ColumnType{TypeString},
		},
		{
			name: "int overflow falls back to float",
			rows: [][]string{{"9999999999"}},
			want: []ColumnType{TypeFloat32},
		},
		{
			name: "currency prefix stays string",
			rows: [][]string{{"$59696"}, {"$12400"}},
			want: []ColumnType{TypeString},
		},
		{
			name: "no rows defaults to string",
			rows: nil,
			want: []ColumnType{TypeString},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := &Frame{Columns: []string{"col"}, Rows: tt.rows}
			frame.InferTypes()
			if len(frame.Types) != len(tt.want) {
				t.Fatalf("Types length = %d, want %d", len(frame.Types), len(tt.want))
			}
			for i, want := range tt.want {
				if frame.Types[i] != want {
					t.Errorf("Types[%d] = %s, want %s", i, frame.Types[i], want)
				}
			}
		})
	}
}

func TestInferTypesMultipleColumns(t *testing.T) {
	frame := &Frame{
		Columns: []string{"id", "amount", "date", "merchant"},
		Rows: [][]string{
			{"1", "34.50", "2016-01-01 09:30:00", "Acme Corner Store"},
			{"2", "120.00", "2016-01-02 17:05:44", "Big Box Mart"},
		},
	}
	frame.InferTypes()

	want := []ColumnType{TypeInt32, TypeFloat32, TypeDateTime, TypeString}
	for i, w := range want {
		if frame.Types[i] != w {
			t.Errorf("Types[%d] (%s) = %s, want %s", i, frame.Columns[i], frame.Types[i], w)
		}
	}
}

func TestInferTypesPreset(t *testing.T) {
	frame := &Frame{
		Columns: []string{"code", "name"},
		Types:   []ColumnType{TypeString, TypeString},
		Rows:    [][]string{{"5411", "Grocery Stores"}},
	}
	frame.InferTypes()

	// Numeric-looking codes must stay String when the reader pinned types.
	if frame.Types[0] != TypeString {
		t.Errorf("Types[0] = %s, want String", frame.Types[0])
	}
}

func TestColumnTypeString(t *testing.T) {
	tests := []struct {
		t    ColumnType
		want string
	}{
		{TypeString, "String"},
		{TypeInt32, "Int32"},
		{TypeFloat32, "Float32"},
		{TypeDateTime, "DateTime"},
		{ColumnType(99), "String"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("ColumnType(%d).String() = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestCreateTableDDL(t *testing.T) {
	frame := &Frame{
		Columns: []string{"id", "amount", "merchant"},
		Types:   []ColumnType{TypeInt32, TypeFloat32, TypeString},
	}

	got := frame.CreateTableDDL("transactions_data")
	want := "CREATE TABLE `transactions_data` (`id` Int32, `amount` Float32, `merchant` String) ENGINE = Memory"
	if got != want {
		t.Errorf("CreateTableDDL() = %q, want %q", got, want)
	}
}

func TestTypedValue(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		v, err := typedValue("42", TypeInt32)
		if err != nil {
			t.Fatalf("typedValue() error = %v", err)
		}
		if v != int32(42) {
			t.Errorf("typedValue() = %v (%T), want int32(42)", v, v)
		}
	})

	t.Run("float32", func(t *testing.T) {
		v, err := typedValue("1.5", TypeFloat32)
		if err != nil {
			t.Fatalf("typedValue() error = %v", err)
		}
		if v != float32(1.5) {
			t.Errorf("typedValue() = %v (%T), want float32(1.5)", v, v)
		}
	})

	t.Run("datetime", func(t *testing.T) {
		v, err := typedValue("2016-01-01 09:30:00", TypeDateTime)
		if err != nil {
			t.Fatalf("typedValue() error = %v", err)
		}
		ts, ok := v.(time.Time)
		if !ok {
			t.Fatalf("typedValue() = %T, want time.Time", v)
		}
		if ts.Year() != 2016 || ts.Hour() != 9 {
			t.Errorf("typedValue() = %v, want 2016-01-01 09:30:00", ts)
		}
	})

	t.Run("string passthrough", func(t *testing.T) {
		v, err := typedValue("hello", TypeString)
		if err != nil {
			t.Fatalf("typedValue() error = %v", err)
		}
		if v != "hello" {
			t.Errorf("typedValue() = %v, want %q", v, "hello")
		}
	})

	t.Run("bad int reports error", func(t *testing.T) {
		if _, err := typedValue("nope", TypeInt32); err == nil {
			t.Error("typedValue() error = nil, want parse error")
		}
	})
}
