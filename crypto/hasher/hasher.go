// Package hasher implements the deterministic SHA-256 hasher (spec
// §4.1.5) that inter-collector RSA signatures sign: a running digest fed
// little-endian primitive encodings, finalized as a big-endian integer
// interpretation of the 32-byte digest so two machines with different
// native endianness still produce identical signatures.
package hasher

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
)

// Hasher buffers the bytes written to it and hashes them with SHA-256 when
// Sum or SumBigInt is called.
type Hasher struct {
	buf []byte
}

// New returns a fresh hasher.
func New() *Hasher {
	return &Hasher{}
}

// Write appends raw bytes to the running digest input.
func (d *Hasher) Write(b []byte) *Hasher {
	d.buf = append(d.buf, b...)
	return d
}

// WriteUint8/16/32/64 append a little-endian encoding of an unsigned
// primitive, regardless of host byte order.
func (d *Hasher) WriteUint8(v uint8) *Hasher { d.buf = append(d.buf, v); return d }

func (d *Hasher) WriteUint16(v uint16) *Hasher {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return d.Write(b[:])
}

func (d *Hasher) WriteUint32(v uint32) *Hasher {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return d.Write(b[:])
}

func (d *Hasher) WriteUint64(v uint64) *Hasher {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return d.Write(b[:])
}

// WriteInt8/16/32/64 are the signed counterparts, encoded via their
// unsigned bit pattern.
func (d *Hasher) WriteInt8(v int8) *Hasher   { return d.WriteUint8(uint8(v)) }
func (d *Hasher) WriteInt16(v int16) *Hasher { return d.WriteUint16(uint16(v)) }
func (d *Hasher) WriteInt32(v int32) *Hasher { return d.WriteUint32(uint32(v)) }
func (d *Hasher) WriteInt64(v int64) *Hasher { return d.WriteUint64(uint64(v)) }

// WriteUsize/WriteIsize encode platform-word-sized values as u64/i64,
// matching the widest primitive width the protocol needs portably.
func (d *Hasher) WriteUsize(v uint64) *Hasher { return d.WriteUint64(v) }
func (d *Hasher) WriteIsize(v int64) *Hasher  { return d.WriteInt64(v) }

// WriteBigInt appends a big-endian byte encoding of v, prefixed with its
// length so differently-sized integers don't collide.
func (d *Hasher) WriteBigInt(v *big.Int) *Hasher {
	b := v.Bytes()
	return d.WriteUint32(uint32(len(b))).Write(b)
}

// Sum returns the raw 32-byte SHA-256 digest of everything written so far.
func (d *Hasher) Sum() [32]byte {
	return sha256.Sum256(d.buf)
}

// SumBigInt finalizes the digest and returns its big-endian integer
// interpretation, the form signatures are computed over.
func (d *Hasher) SumBigInt() *big.Int {
	sum := d.Sum()
	return new(big.Int).SetBytes(sum[:])
}
