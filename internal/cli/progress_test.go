package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/aneks/internal/inventory"
)

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgressReporter(&buf)
	report := r.Func()

	report(inventory.Progress{Stage: inventory.StageCopy, Item: "Alfa", Current: 1, Total: 2})
	first := r.bar
	report(inventory.Progress{Stage: inventory.StageCopy, Item: "Beta", Current: 2, Total: 2})
	assert.Same(t, first, r.bar, "same stage keeps its bar")

	report(inventory.Progress{Stage: inventory.StageDiscover, Item: "Alfa", Current: 1, Total: 3})
	assert.NotSame(t, first, r.bar, "a new stage starts a new bar")
	assert.Equal(t, inventory.StageDiscover, r.stage)

	r.Finish()
	assert.Nil(t, r.bar)
	r.Finish()

	assert.Contains(t, buf.String(), "Copying source tree")
	assert.Contains(t, buf.String(), "Scanning clients")
}
