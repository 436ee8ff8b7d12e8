package core

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// DigestLen is the length of the canonical digest encoding in bytes.
const DigestLen = 32

// Digest is a 256-bit hash committing to a cryptographic object. The canonical
// encoding is the raw 32 bytes, most significant 64-bit limb first.
type Digest [DigestLen]byte

// HashBytes hashes the concatenation of the given byte slices with blake2b-256.
func HashBytes(data ...[]byte) Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b only errors on invalid key sizes.
		panic(err)
	}
	for _, d := range data {
		h.Write(d)
	}

	var digest Digest
	h.Sum(digest[:0])
	return digest
}

// HashDigests hashes the concatenation of the given digests, used to derive
// internal Merkle tree nodes.
func HashDigests(digests ...Digest) Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	for _, d := range digests {
		h.Write(d[:])
	}

	var digest Digest
	h.Sum(digest[:0])
	return digest
}

// Marshal returns the canonical byte encoding of the digest.
func (d *Digest) Marshal() []byte {
	out := make([]byte, DigestLen)
	copy(out, d[:])
	return out
}

// Unmarshal sets the digest from its canonical byte encoding.
func (d *Digest) Unmarshal(data []byte) error {
	if len(data) != DigestLen {
		return fmt.Errorf("digest must be %d bytes long, got %d", DigestLen, len(data))
	}
	copy(d[:], data)
	return nil
}

func (d *Digest) IsZero() bool {
	return *d == Digest{}
}

func (d *Digest) Equal(other *Digest) bool {
	return *d == *other
}

func (d *Digest) String() string {
	return "0x" + hex.EncodeToString(d[:])
}

// MostSignificantLimb returns the most significant 64-bit limb of the digest.
func (d *Digest) MostSignificantLimb() uint64 {
	return binary.BigEndian.Uint64(d[:8])
}

func (d Digest) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(d[:])
}

func (d *Digest) UnmarshalCBOR(data []byte) error {
	var raw []byte
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.Unmarshal(raw)
}
