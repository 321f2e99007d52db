// Package file consumes user-provided files into structs.
//
// Load reads a path, detects the format from the file extension (JSON and
// YAML are supported) and decodes it into the target type. Decode failures
// name the offending field, so a bad value in a nested document points at
// "server.port" rather than at the file as a whole.
//
// Input binds loading to a command line flag. The file is read and decoded
// while flags are parsed, so a broken path or document aborts the command
// before any hook runs:
//
//	type apply struct {
//		cascade.Base
//		manifest file.Input[Manifest]
//	}
//
//	cmd.Flags().VarP(&apply.manifest, "file", "f", "manifest to apply")
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnsupportedType reports a file extension no decoder is registered for.
var ErrUnsupportedType = errors.New("unsupported file type")

// Load reads path and decodes its content into T. The format is picked by
// extension: .json, .yaml and .yml are supported.
func Load[T any](path string) (T, error) {
	var out T

	raw, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}

	var data any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return out, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return out, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return out, fmt.Errorf("%s: %w %q", path, ErrUnsupportedType, ext)
	}

	if err := decode(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// decode maps loosely typed document data onto the target struct. Going
// through mapstructure rather than straight into T keeps field names in
// decode errors.
func decode(data, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

// Input is a flag value that loads the file the user passed. Set runs during
// flag parsing, so decoding problems surface as flag errors with the usual
// "invalid argument ... for --flag" framing.
type Input[T any] struct {
	// Path is the argument as given on the command line.
	Path string

	// Value holds the decoded document once the flag has been parsed.
	Value T
}

// String implements the flag value contract.
func (i *Input[T]) String() string { return i.Path }

// Set implements the flag value contract used by cobra.
func (i *Input[T]) Set(path string) error {
	v, err := Load[T](path)
	if err != nil {
		return err
	}
	i.Path = path
	i.Value = v
	return nil
}

// Type implements the flag value contract used by cobra.
func (i *Input[T]) Type() string { return "file" }
