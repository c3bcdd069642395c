package harness

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("one", "two")

	assert.Equal(t, "one", gen.Generate())
	assert.Equal(t, "two", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
