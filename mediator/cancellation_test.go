package mediator

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/mpcvote/api"
	"github.com/vocdoni/mpcvote/storage"
	"github.com/vocdoni/mpcvote/types"
)

// fakeCollector stands up an httptest server that answers the cancellation
// route with a fixed pair of shares, rejecting requests that carry no
// Authorization header.
func fakeCollector(t *testing.T, signer *api.TokenSigner, fwd, rev int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.CancelationResponse{
			ForwardCancelationShares: types.NewBigInt(big.NewInt(fwd)),
			ReverseCancelationShares: types.NewBigInt(big.NewInt(rev)),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestMediator(t *testing.T) *Mediator {
	t.Helper()
	signer, err := api.NewTokenSigner([]byte("test-secret"))
	if err != nil {
		t.Fatalf("building token signer: %v", err)
	}
	return New(nil, signer)
}

func TestAggregateCancelationSharesSumsAcrossCollectors(t *testing.T) {
	c := qt.New(t)
	m := newTestMediator(t)

	srv0 := fakeCollector(t, m.collectorSigner, 5, 7)
	srv1 := fakeCollector(t, m.collectorSigner, 11, 13)

	electionID := types.NewUuid()
	collectors := []storage.ElectionCollector{
		{ElectionID: electionID, CollectorID: srv0.URL, Index: 0},
		{ElectionID: electionID, CollectorID: srv1.URL, Index: 1},
	}

	req := api.CancelationAggregateRequest{
		UserIDs: []types.Uuid{types.NewUuid()},
		Prime:   types.NewBigInt(big.NewInt(23)),
	}

	fwd, rev, err := m.aggregateCancelationShares(collectors, electionID.String(), types.NewUuid().String(), req)
	c.Assert(err, qt.IsNil)

	order := big.NewInt(22) // prime - 1
	wantFwd := new(big.Int).Mod(big.NewInt(5+11), order)
	wantRev := new(big.Int).Mod(big.NewInt(7+13), order)
	c.Assert(fwd.Cmp(wantFwd), qt.Equals, 0)
	c.Assert(rev.Cmp(wantRev), qt.Equals, 0)
}

func TestAggregateCancelationSharesAbortsOnCollectorFailure(t *testing.T) {
	c := qt.New(t)
	m := newTestMediator(t)

	healthy := fakeCollector(t, m.collectorSigner, 5, 7)
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)

	electionID := types.NewUuid()
	collectors := []storage.ElectionCollector{
		{ElectionID: electionID, CollectorID: healthy.URL, Index: 0},
		{ElectionID: electionID, CollectorID: failing.URL, Index: 1},
	}

	req := api.CancelationAggregateRequest{
		UserIDs: []types.Uuid{types.NewUuid()},
		Prime:   types.NewBigInt(big.NewInt(23)),
	}

	_, _, err := m.aggregateCancelationShares(collectors, electionID.String(), types.NewUuid().String(), req)
	c.Assert(err, qt.ErrorMatches, ".*internal.*")
}

func TestCancelationPathSubstitutesElectionAndQuestion(t *testing.T) {
	c := qt.New(t)
	got := cancelationPath("e1", "q1")
	c.Assert(got, qt.Equals, "/elections/e1/questions/q1/cancelation")
}
