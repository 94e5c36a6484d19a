package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtrAndValue(t *testing.T) {
	p := Ptr(42)
	assert.Equal(t, 42, *p)
	assert.Equal(t, 42, Value(p))

	var nilPtr *string
	assert.Equal(t, "", Value(nilPtr))
}
