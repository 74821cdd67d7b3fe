package config

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPrimeBits(t *testing.T) {
	c := qt.New(t)

	c.Assert(PrimeBits(2, 2), qt.Equals, MinPrimeBits)
	c.Assert(PrimeBits(100, 10), qt.Equals, 2*100*10+1)
}
