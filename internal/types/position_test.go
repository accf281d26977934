package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	p := Position{Line: 2, Col: 3}
	assert.Equal(t, Position{Line: 2, Col: 6}, Advance(p, []byte("héy")))
	assert.Equal(t, Position{Line: 3, Col: 0}, Advance(p, []byte("ab\n")))
	assert.Equal(t, Position{Line: 4, Col: 2}, Advance(p, []byte("x\ny\nzz")))
	assert.Equal(t, p, Advance(p, nil))
}

func TestOrdered(t *testing.T) {
	a, b := Position{Line: 1, Col: 5}, Position{Line: 1, Col: 2}
	s, e := Ordered(a, b)
	assert.Equal(t, b, s)
	assert.Equal(t, a, e)
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, Position{Line: 0, Col: 9}.Before(Position{Line: 1}))
}
