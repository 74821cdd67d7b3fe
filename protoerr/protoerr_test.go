package protoerr

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestKindStrings(t *testing.T) {
	c := qt.New(t)
	c.Assert(KindBadRequest.String(), qt.Equals, "bad-request")
	c.Assert(KindProtocolViolation.String(), qt.Equals, "protocol-violation")
	c.Assert(KindCryptoFailure.String(), qt.Equals, "crypto-failure")
}

func TestIsUnwrapsThroughFmtErrorf(t *testing.T) {
	c := qt.New(t)

	base := NotFound("election unknown")
	wrapped := fmt.Errorf("loading election: %w", base)

	c.Assert(Is(wrapped, KindNotFound), qt.IsTrue)
	c.Assert(Is(wrapped, KindConflict), qt.IsFalse)
}

func TestIsFalseForPlainError(t *testing.T) {
	c := qt.New(t)
	c.Assert(Is(errors.New("plain"), KindInternal), qt.IsFalse)
}
