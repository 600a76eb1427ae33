package manifest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fndispatch/internal/invoke"
	"github.com/zclconf/go-cty/cty"
)

func mustSig(t *testing.T, fn any) invoke.Signature {
	t.Helper()
	sig, err := invoke.SignatureOf(fn)
	require.NoError(t, err)
	return sig
}

func TestConvertArgs(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		fn        any
		src       string
		expect    []any
		expectErr error
	}{
		{
			name:   "ints",
			fn:     func(a, b int) int { return a - b },
			src:    `[3, 1]`,
			expect: []any{3, 1},
		},
		{
			name:   "string to number",
			fn:     func(a int) {},
			src:    `["7"]`,
			expect: []any{7},
		},
		{
			name:   "tuple to slice and map",
			fn:     func(xs []float64, m map[string]int) {},
			src:    `[[1, 2.5], { a = 1 }]`,
			expect: []any{[]float64{1, 2.5}, map[string]int{"a": 1}},
		},
		{
			name:   "null for slice",
			fn:     func(xs []string) {},
			src:    `[null]`,
			expect: []any{[]string(nil)},
		},
		{
			name:   "variadic gathers the tail",
			fn:     func(sep string, parts ...string) string { return "" },
			src:    `["-", "a", "b"]`,
			expect: []any{"-", []string{"a", "b"}},
		},
		{
			name:   "variadic with empty tail",
			fn:     func(xs ...int) int { return 0 },
			src:    `[]`,
			expect: []any{[]int{}},
		},
		{
			name:      "too few",
			fn:        func(a, b int) {},
			src:       `[1]`,
			expectErr: ErrArgumentCount,
		},
		{
			name:      "variadic missing fixed",
			fn:        func(sep string, parts ...string) {},
			src:       `[]`,
			expectErr: ErrArgumentCount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vals, err := ParseArgs(tc.src)
			require.NoError(t, err)

			got, err := ConvertArgs(ctx, mustSig(t, tc.fn), vals)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expect, got); diff != "" {
				t.Errorf("ConvertArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertArgs_BadValues(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name string
		fn   any
		vals []cty.Value
	}{
		{name: "fraction into int", fn: func(int) {}, vals: []cty.Value{cty.NumberFloatVal(1.5)}},
		{name: "word into int", fn: func(int) {}, vals: []cty.Value{cty.StringVal("seven")}},
		{name: "null into int", fn: func(int) {}, vals: []cty.Value{cty.NullVal(cty.Number)}},
		{name: "interface parameter", fn: func(any) {}, vals: []cty.Value{cty.True}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ConvertArgs(ctx, mustSig(t, tc.fn), tc.vals)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "argument 0")
		})
	}
}

func TestRender(t *testing.T) {
	testCases := []struct {
		in     any
		expect string
	}{
		{in: nil, expect: "null"},
		{in: 2, expect: "2"},
		{in: 1.5, expect: "1.5"},
		{in: "x", expect: `"x"`},
		{in: true, expect: "true"},
		{in: []string{"a", "b"}, expect: `["a","b"]`},
		{in: map[string]int{"b": 1, "a": 2}, expect: `{"a":2,"b":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.expect, func(t *testing.T) {
			got, err := Render(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}
