package types

import (
	"encoding/json"
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBigIntJSONRoundTrip(t *testing.T) {
	c := qt.New(t)

	want := big.NewInt(123456789)
	b := NewBigInt(want)

	data, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"123456789"`)

	var got BigInt
	c.Assert(json.Unmarshal(data, &got), qt.IsNil)
	c.Assert(got.Int().Cmp(want), qt.Equals, 0)
}

func TestBigIntUnmarshalInvalid(t *testing.T) {
	c := qt.New(t)

	var got BigInt
	err := json.Unmarshal([]byte(`"not-a-number"`), &got)
	c.Assert(err, qt.ErrorMatches, "types:.*")
}
