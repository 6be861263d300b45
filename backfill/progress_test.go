package backfill

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 100, 10)
	tracker.Start()

	tracker.Update(5)
	assert.Empty(t, buf.String())

	tracker.Update(10)
	assert.Contains(t, buf.String(), "10/100")
	assert.Contains(t, buf.String(), "10.0%")
}

func TestProgressIncrement(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 20, 10)
	tracker.Start()

	tracker.Increment(6)
	tracker.Increment(6)
	assert.Contains(t, buf.String(), "12/20")
}

func TestProgressCapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)
	tracker.Start()

	tracker.Update(50)
	assert.Contains(t, buf.String(), "10/10")
	assert.Contains(t, buf.String(), "100.0%")
}

func TestProgressFinish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 7, 100)
	tracker.Start()
	tracker.Update(3)
	tracker.Finish()

	out := buf.String()
	assert.Contains(t, out, "7/7")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Positive(t, tracker.Elapsed())
}

func TestProgressIgnoredBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Update(5)
	tracker.Increment(5)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Elapsed())
}
