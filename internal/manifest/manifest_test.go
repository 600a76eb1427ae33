package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type callSummary struct {
	Name     string
	Function string
	Args     int
}

func summarize(calls []*Call) []callSummary {
	out := make([]callSummary, len(calls))
	for i, c := range calls {
		out[i] = callSummary{Name: c.Name, Function: c.Function, Args: len(c.Args)}
	}
	return out
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `
call "difference" {
  function = "Sub"
  args     = [3, 1]
}

call "Ping" {}
`)
	writeFile(t, dir, "nested/b.hcl", `
call "shout" {
  function = "Upper"
  args     = ["hi"]
}
`)
	writeFile(t, dir, "ignored.txt", `call "nope" {}`)

	calls, err := Load(context.Background(), dir)
	require.NoError(t, err)

	want := []callSummary{
		{Name: "difference", Function: "Sub", Args: 2},
		{Name: "Ping", Function: "Ping", Args: 0},
		{Name: "shout", Function: "Upper", Args: 1},
	}
	if diff := cmp.Diff(want, summarize(calls)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, calls[0].Args[0].Equals(cty.NumberIntVal(3)).True())
	assert.Equal(t, filepath.Join(dir, "a.hcl"), calls[0].Range.Filename)
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "calls.hcl", `
call "Concat" {
  args = ["a", "b"]
}
`)
	calls, err := Load(context.Background(), path, path)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "Concat", calls[0].Function)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		files       map[string]string
		expectErr   error
		errContains string
	}{
		{
			name: "duplicate label across files",
			files: map[string]string{
				"a.hcl": `call "x" {}`,
				"b.hcl": `call "x" {}`,
			},
			expectErr: ErrDuplicateCall,
		},
		{
			name:        "syntax error",
			files:       map[string]string{"a.hcl": `call "x" {`},
			errContains: "failed to parse",
		},
		{
			name:        "unknown attribute",
			files:       map[string]string{"a.hcl": `call "x" { retries = 3 }`},
			errContains: "failed to decode",
		},
		{
			name:      "args not a list",
			files:     map[string]string{"a.hcl": `call "x" { args = "3" }`},
			expectErr: ErrInvalidArgs,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeFile(t, dir, name, content)
			}
			_, err := Load(context.Background(), dir)
			require.Error(t, err)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
			}
			if tc.errContains != "" {
				assert.Contains(t, err.Error(), tc.errContains)
			}
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseArgs(t *testing.T) {
	vals, err := ParseArgs(`[3, "x", [1, 2], { a = 1 }]`)
	require.NoError(t, err)
	require.Len(t, vals, 4)
	assert.True(t, vals[0].Equals(cty.NumberIntVal(3)).True())
	assert.True(t, vals[1].RawEquals(cty.StringVal("x")))
	assert.True(t, vals[2].Type().IsTupleType())
	assert.True(t, vals[3].Type().IsObjectType())

	vals, err = ParseArgs("")
	require.NoError(t, err)
	assert.Empty(t, vals)

	_, err = ParseArgs("[1,")
	require.Error(t, err)

	_, err = ParseArgs("true")
	require.ErrorIs(t, err, ErrInvalidArgs)

	_, err = ParseArgs("[var.x]")
	require.Error(t, err)
}
