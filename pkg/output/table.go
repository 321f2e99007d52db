package output

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
)

// writeTable renders rows of elem as an aligned table. Headers come from the
// exported struct fields, renamed or skipped through the `table` tag.
func writeTable(w io.Writer, elem reflect.Type, rows []reflect.Value) error {
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("pretty output: %s is not a struct", elem)
	}

	var headers []string
	var fields []int
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("table")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		headers = append(headers, name)
		fields = append(fields, i)
	}

	t := table.New().Headers(headers...)
	for _, row := range rows {
		for row.Kind() == reflect.Ptr && !row.IsNil() {
			row = row.Elem()
		}
		cells := make([]string, len(fields))
		if row.Kind() == reflect.Struct {
			for j, i := range fields {
				cells[j] = cellString(row.Field(i))
			}
		}
		t = t.Row(cells...)
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

// cellString formats one table cell. Nil pointers render empty so optional
// columns stay blank instead of printing <nil>.
func cellString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		return cellString(v.Elem())
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return fmt.Sprintf("%v", v.Interface())
		}
		lines := make(Lines, v.Len())
		for i := range lines {
			lines[i] = cellString(v.Index(i))
		}
		return lines.String()
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// Lines renders a list of values as a sorted, newline-joined block. Table
// cells use it for slice columns; callers can reach for it directly when a
// field should display one entry per line.
type Lines []string

func (l Lines) String() string {
	sorted := slices.Clone(l)
	slices.Sort(sorted)
	return strings.Join(sorted, "\n")
}
