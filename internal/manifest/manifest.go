// Package manifest loads call requests from HCL files and converts their
// arguments into the Go values a registered function expects.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/fndispatch/internal/ctxlog"
	"github.com/vk/fndispatch/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrDuplicateCall is returned when two call blocks share a label.
	ErrDuplicateCall = errors.New("manifest: duplicate call")
	// ErrInvalidArgs is returned when args is not a list or tuple of known
	// values.
	ErrInvalidArgs = errors.New("manifest: invalid args")
)

// Call is one request read from a manifest.
type Call struct {
	// Name is the block label and identifies the call in output.
	Name string
	// Function is the registered function name. It defaults to Name.
	Function string
	Args     []cty.Value
	Range    hcl.Range
}

type callBlock struct {
	Name     string         `hcl:"name,label"`
	Function *string        `hcl:"function,optional"`
	Args     hcl.Expression `hcl:"args,optional"`
	DefRange hcl.Range      `hcl:",def_range"`
}

type fileRoot struct {
	Calls  []*callBlock `hcl:"call,block"`
	Remain hcl.Body     `hcl:",remain"`
}

// Load reads every call block from the given paths. A path may be a single
// file or a directory, which is searched recursively for .hcl files. Calls
// are returned in file order, then block order.
func Load(ctx context.Context, paths ...string) ([]*Call, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := findFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	seen := make(map[string]hcl.Range)
	var calls []*Call

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Calls {
			rng := block.DefRange
			if prev, ok := seen[block.Name]; ok {
				return nil, fmt.Errorf("%w %q at %s, first defined at %s", ErrDuplicateCall, block.Name, rng, prev)
			}
			seen[block.Name] = rng

			args, err := evalArgs(block.Args)
			if err != nil {
				return nil, fmt.Errorf("call %q: %w", block.Name, err)
			}
			c := &Call{Name: block.Name, Function: block.Name, Args: args, Range: rng}
			if block.Function != nil && *block.Function != "" {
				c.Function = *block.Function
			}
			calls = append(calls, c)
		}
	}

	logger.Debug("Manifest loading complete.", "calls", len(calls))
	return calls, nil
}

// ParseArgs parses src as a single HCL expression and returns its elements.
// It backs the -args flag, e.g. `[3, 1]` or `["a", ["b", "c"]]`.
func ParseArgs(src string) ([]cty.Value, error) {
	if src == "" {
		return nil, nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<args>", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse args: %w", diags)
	}
	return evalArgs(expr)
}

func evalArgs(expr hcl.Expression) ([]cty.Value, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate args: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return nil, fmt.Errorf("%w: want a list, got %s", ErrInvalidArgs, ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: args must be known values", ErrInvalidArgs)
	}
	return val.AsValueSlice(), nil
}

func findFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		files := []string{path}
		if info.IsDir() {
			files, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
		}
		for _, f := range files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	return all, nil
}
