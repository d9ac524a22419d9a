package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceIDs(t *testing.T) {
	gen := NewSequenceIDs("")
	assert.Equal(t, "entry-1", gen.NewID())
	assert.Equal(t, "entry-2", gen.NewID())
	assert.Equal(t, 2, gen.Issued())

	custom := NewSequenceIDs("legacy")
	assert.Equal(t, "legacy-1", custom.NewID())
}
