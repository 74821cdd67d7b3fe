// Package locanon implements the Paillier-based location anonymization
// pipeline (spec §4.1.3): the orchestrator encrypts each voter's clear
// ordinal, then each collector in turn strips off a random residual,
// collector 0 additionally shuffling the list, until the last collector
// decrypts its remaining share directly.
package locanon

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/vocdoni/mpcvote/crypto/paillier"
)

// Step1 is the orchestrator encrypting a clear location x in [0,N).
func Step1(x *big.Int, pub *paillier.PublicKey) (*big.Int, error) {
	return pub.Encrypt(x)
}

// StepIth is an intermediate collector's move: sample r_i in [0,n), strip
// it from the running ciphertext, and return both the residual (the
// collector's share of the final sum) and the ciphertext to forward.
func StepIth(eXPrev *big.Int, pub *paillier.PublicKey) (ri, eX *big.Int, err error) {
	ri, err = rand.Int(rand.Reader, pub.N)
	if err != nil {
		return nil, nil, fmt.Errorf("locanon: sampling residual: %w", err)
	}

	eRi, err := pub.Encrypt(ri)
	if err != nil {
		return nil, nil, fmt.Errorf("locanon: encrypting residual: %w", err)
	}
	eRiInv := new(big.Int).ModInverse(eRi, pub.N2)
	if eRiInv == nil {
		return nil, nil, fmt.Errorf("locanon: no modular inverse")
	}

	eX = pub.Add(eXPrev, eRiInv)
	return ri, eX, nil
}

// StepLast is the final collector decrypting its remaining ciphertext
// directly to obtain its residual, since there is nothing left to forward.
func StepLast(eXPrev *big.Int, priv *paillier.PrivateKey) (*big.Int, error) {
	return priv.Decrypt(eXPrev)
}

// Shuffle applies a uniformly random permutation to the list of
// ciphertexts, per the "collector 0 shuffles, others preserve order" rule.
func Shuffle(ciphertexts []*big.Int) ([]*big.Int, error) {
	out := make([]*big.Int, len(ciphertexts))
	copy(out, ciphertexts)

	for i := len(out) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("locanon: sampling shuffle index: %w", err)
		}
		j := int(jBig.Int64())
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
