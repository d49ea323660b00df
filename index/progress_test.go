package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()

	for range 4 {
		tracker.SkipDone(100)
	}
	assert.Empty(t, buf.String(), "nothing reported before the interval")

	tracker.SkipDone(1000)
	assert.Contains(t, buf.String(), "5/10 skips (50.0%)")
	assert.Contains(t, buf.String(), "1,400 occurrences")
	assert.Equal(t, 5, tracker.Completed())
}

func TestProgressTracker_FinishPrintsNewline(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 2, 10)
	tracker.Start()
	tracker.SkipDone(1)
	tracker.SkipDone(1)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "2/2 skips (100.0%)")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressTracker_IgnoresBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 2, 1)
	tracker.SkipDone(3)
	tracker.Finish()

	assert.Zero(t, tracker.Completed())
	assert.Zero(t, tracker.Elapsed())
	assert.Empty(t, buf.String())
}
