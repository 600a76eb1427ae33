package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertCallOutput checks that the run printed the rendered result of call.
func AssertCallOutput(t *testing.T, result *HarnessResult, call, rendered string) {
	t.Helper()

	want := fmt.Sprintf("%s = %s\n", call, rendered)
	require.True(t,
		strings.Contains(result.Output, want),
		"expected %q in output:\n%s", want, result.Output,
	)
}

// AssertCallFailed checks that the run reported an error for call.
func AssertCallFailed(t *testing.T, result *HarnessResult, call string) {
	t.Helper()

	want := fmt.Sprintf("%s: error: ", call)
	require.True(t,
		strings.Contains(result.Output, want),
		"expected failure of %q in output:\n%s", call, result.Output,
	)
}
