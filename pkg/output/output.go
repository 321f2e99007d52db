// Package output renders structured command results in the format the user
// asked for.
//
// A command exposes a Format flag; any value the command produces can then
// be printed as an aligned table (pretty), as indented JSON or as YAML
// without the command caring which. Table columns come from the exported
// struct fields, overridable with the `table` tag.
//
//	type peer struct {
//		Name string   `json:"name"`
//		Addr string   `json:"addr" table:"Address"`
//		Tags []string `json:"tags" table:"-"`
//	}
//
//	var format output.Format
//	cmd.Flags().VarP(&format, "output", "o", "output format (pretty, json, yaml)")
//
//	return format.List(peers)
package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format selects how structured output is rendered. The zero value renders
// pretty, so commands can embed a Format without initializing it.
type Format string

const (
	Pretty Format = "pretty"
	JSON   Format = "json"
	YAML   Format = "yaml"
)

// String implements the flag value contract.
func (f Format) String() string {
	if f == "" {
		return string(Pretty)
	}
	return string(f)
}

// Set implements the flag value contract used by cobra. Matching is
// case-insensitive.
func (f *Format) Set(s string) error {
	switch v := Format(strings.ToLower(s)); v {
	case Pretty, JSON, YAML:
		*f = v
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected pretty, json or yaml)", s)
	}
}

// Type implements the flag value contract used by cobra.
func (f Format) Type() string { return "format" }

// Item prints a single value to stdout.
func (f Format) Item(v any) error { return f.WriteItem(os.Stdout, v) }

// List prints a slice of values to stdout.
func (f Format) List(v any) error { return f.WriteList(os.Stdout, v) }

// WriteItem renders a single value. Pretty output is a one-row table; JSON
// and YAML render the bare value, not a one-element list.
func (f Format) WriteItem(w io.Writer, v any) error {
	switch f {
	case JSON:
		return writeJSON(w, v)
	case YAML:
		return writeYAML(w, v)
	case Pretty, "":
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return fmt.Errorf("pretty output: nil value")
		}
		return writeTable(w, rv.Type(), []reflect.Value{rv})
	default:
		return fmt.Errorf("unknown format %q", string(f))
	}
}

// WriteList renders a slice of values.
func (f Format) WriteList(w io.Writer, v any) error {
	switch f {
	case JSON:
		return writeJSON(w, v)
	case YAML:
		return writeYAML(w, v)
	case Pretty, "":
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return fmt.Errorf("pretty list: %T is not a slice", v)
		}
		rows := make([]reflect.Value, rv.Len())
		for i := range rows {
			rows[i] = rv.Index(i)
		}
		return writeTable(w, rv.Type().Elem(), rows)
	default:
		return fmt.Errorf("unknown format %q", string(f))
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}
