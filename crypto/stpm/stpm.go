// Package stpm implements the three-step Secure Two-Party Multiplication
// primitive (spec §4.1.2) that STPM_Request/STPM_Response exchanges during
// the verification sub-protocol are built from.
package stpm

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/vocdoni/mpcvote/crypto/paillier"
)

// Step1 is C_A encrypting its secret x1 under the shared Paillier key.
func Step1(x1 *big.Int, pub *paillier.PublicKey) (*big.Int, error) {
	return pub.Encrypt(x1)
}

// Step2 is C_B's half: it samples r2 in [0,n), folds in its secret x2 via
// the homomorphic multiply, and subtracts E(r2) so the counterparty's
// decryption yields r1 with r1+r2 = x1*x2 (mod n). When normalize is set,
// r2 is mapped into the signed range (-n/2, n/2] so r1+r2 = x1*x2 holds
// over the integers, not just mod n.
func Step2(eX1 *big.Int, x2 *big.Int, pub *paillier.PublicKey, normalize bool) (r2, eOut *big.Int, err error) {
	r2, err = rand.Int(rand.Reader, pub.N)
	if err != nil {
		return nil, nil, fmt.Errorf("stpm: sampling r2: %w", err)
	}

	eX2 := pub.MulScalar(eX1, x2)

	eR2, err := pub.Encrypt(r2)
	if err != nil {
		return nil, nil, fmt.Errorf("stpm: encrypting r2: %w", err)
	}
	eR2Inv := new(big.Int).ModInverse(eR2, pub.N2)
	if eR2Inv == nil {
		return nil, nil, fmt.Errorf("stpm: no modular inverse")
	}

	eOut = pub.Add(eX2, eR2Inv)

	if normalize {
		r2 = normalizeResidual(r2, pub.N)
	}

	return r2, eOut, nil
}

// Step3 decrypts C_A's half of a Step2 exchange to recover r1, applying
// the same normalization so r1+r2 = x1*x2 holds without a modular wrap.
func Step3(eOut *big.Int, priv *paillier.PrivateKey, normalize bool) (r1 *big.Int, err error) {
	r1, err = priv.Decrypt(eOut)
	if err != nil {
		return nil, fmt.Errorf("stpm: decrypting: %w", err)
	}

	if normalize {
		r1 = normalizeResidual(r1, priv.N)
	}
	return r1, nil
}

// normalizeResidual maps a value sampled in [0,n) into the signed range
// (-n/2, n/2] by subtracting n whenever 2*r >= n.
func normalizeResidual(r, n *big.Int) *big.Int {
	twice := new(big.Int).Lsh(r, 1)
	if twice.Cmp(n) >= 0 {
		return new(big.Int).Sub(r, n)
	}
	return new(big.Int).Set(r)
}
