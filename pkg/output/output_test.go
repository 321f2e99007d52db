package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverney/cascade/pkg/output"
)

type release struct {
	Name    string   `json:"name"`
	Channel string   `json:"channel" table:"Channel"`
	Digest  string   `json:"digest" table:"-"`
	Notes   *string  `json:"notes,omitempty"`
	Tags    []string `json:"tags,omitempty" table:"Tags"`
}

func TestFormat_SetAcceptsKnownValues(t *testing.T) {
	for _, in := range []string{"pretty", "json", "yaml", "JSON", "Yaml"} {
		var f output.Format
		require.NoError(t, f.Set(in))
		assert.Equal(t, strings.ToLower(in), f.String())
	}
}

func TestFormat_SetRejectsUnknownValues(t *testing.T) {
	var f output.Format
	err := f.Set("xml")
	require.ErrorContains(t, err, `unknown format "xml"`)
	assert.Equal(t, "pretty", f.String())
}

func TestFormat_ZeroValueRendersPretty(t *testing.T) {
	var f output.Format
	assert.Equal(t, "pretty", f.String())

	var buf bytes.Buffer
	require.NoError(t, f.WriteItem(&buf, release{Name: "cascade", Channel: "stable"}))
	assert.Contains(t, buf.String(), "cascade")
}

func TestFormat_Type(t *testing.T) {
	assert.Equal(t, "format", output.Pretty.Type())
}

func TestJSONItemIsNotWrappedInAList(t *testing.T) {
	var item, list bytes.Buffer
	require.NoError(t, output.JSON.WriteItem(&item, release{Name: "cascade"}))
	require.NoError(t, output.JSON.WriteList(&list, []release{{Name: "cascade"}}))

	assert.True(t, strings.HasPrefix(item.String(), "{"))
	assert.True(t, strings.HasPrefix(list.String(), "["))
}

func TestJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.JSON.WriteItem(&buf, release{Name: "cascade", Channel: "stable"}))
	assert.Contains(t, buf.String(), "\n  \"name\": \"cascade\"")
}

func TestYAMLListRendersASequence(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.YAML.WriteList(&buf, []release{
		{Name: "alpha", Channel: "edge"},
		{Name: "beta", Channel: "stable"},
	}))
	assert.Contains(t, buf.String(), "- name: alpha")
	assert.Contains(t, buf.String(), "- name: beta")
}

func TestPrettyListUsesTagsForHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Pretty.WriteList(&buf, []release{
		{Name: "alpha", Channel: "edge", Digest: "sha256:1111"},
		{Name: "beta", Channel: "stable", Digest: "sha256:2222"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Channel")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "stable")
	assert.NotContains(t, out, "Digest", "table:\"-\" columns must be dropped")
	assert.NotContains(t, out, "sha256")
}

func TestPrettyItemRendersASingleRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Pretty.WriteItem(&buf, release{Name: "alpha", Channel: "edge"}))

	out := buf.String()
	assert.Contains(t, out, "Name")
	assert.Equal(t, 1, strings.Count(out, "alpha"))
}

func TestPrettyRendersNilPointersEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Pretty.WriteList(&buf, []release{{Name: "alpha"}}))
	assert.NotContains(t, buf.String(), "<nil>")
}

func TestPrettyRendersStringers(t *testing.T) {
	type row struct {
		Name  string
		State health
	}
	var buf bytes.Buffer
	require.NoError(t, output.Pretty.WriteList(&buf, []row{{Name: "api", State: healthy}}))
	assert.Contains(t, buf.String(), "healthy")
}

func TestPrettyListRequiresASlice(t *testing.T) {
	err := output.Pretty.WriteList(&bytes.Buffer{}, release{Name: "alpha"})
	require.ErrorContains(t, err, "not a slice")
}

func TestPrettyRequiresStructElements(t *testing.T) {
	err := output.Pretty.WriteList(&bytes.Buffer{}, []int{1, 2, 3})
	require.ErrorContains(t, err, "not a struct")
}

func TestUnknownFormatValueFailsRendering(t *testing.T) {
	err := output.Format("xml").WriteItem(&bytes.Buffer{}, release{})
	require.ErrorContains(t, err, `unknown format "xml"`)
}

func TestEmptyListRendersHeadersOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.Pretty.WriteList(&buf, []release{}))
	assert.Contains(t, buf.String(), "Name")
}

func TestLines_SortsAndJoins(t *testing.T) {
	assert.Equal(t, "a\nb\nc", output.Lines{"c", "a", "b"}.String())
	assert.Equal(t, "", output.Lines{}.String())
}

func TestFormatIsACobraFlag(t *testing.T) {
	var f output.Format
	cmd := &cobra.Command{
		Use:           "list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(*cobra.Command, []string) error { return nil },
	}
	cmd.Flags().VarP(&f, "output", "o", "output format")

	cmd.SetArgs([]string{"--output", "yaml"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, output.YAML, f)

	cmd.SetArgs([]string{"-o", "toml"})
	require.Error(t, cmd.Execute())
}

type health int

const healthy health = iota

func (h health) String() string { return "healthy" }
