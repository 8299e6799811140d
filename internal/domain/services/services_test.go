package services

import (
	"fmt"
	"testing"
	"time"
)

// freezeClock pins timestamps, ids and colors for the duration of a test.
func freezeClock(t *testing.T) {
	t.Helper()
	origNow, origID, origColor := timeNow, newID, pickColor

	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }

	var n int
	newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	pickColor = func() string { return "#3b82f6" }

	t.Cleanup(func() {
		timeNow, newID, pickColor = origNow, origID, origColor
	})
}

const frozenTimestamp = "2024-03-01T12:30:00.000Z"
