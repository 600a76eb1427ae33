package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutionRecord_Overlaps(t *testing.T) {
	base := time.Unix(0, 0)
	at := func(from, to int) *ExecutionRecord {
		return &ExecutionRecord{Start: base.Add(time.Duration(from)), End: base.Add(time.Duration(to))}
	}

	assert.True(t, at(0, 10).Overlaps(at(5, 15)))
	assert.True(t, at(5, 15).Overlaps(at(0, 10)))
	assert.True(t, at(0, 10).Overlaps(at(2, 3)))
	assert.False(t, at(0, 10).Overlaps(at(10, 20)), "touching intervals do not overlap")
	assert.False(t, at(20, 30).Overlaps(at(0, 10)))
}
