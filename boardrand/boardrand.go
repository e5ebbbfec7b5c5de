// Package boardrand supplies the board's deterministic randomness source:
// a seedable, reproducible generator built on a ChaCha20 keystream, the
// same family the teacher's selection and search code threads through as a
// plain *rand.Rand.
package boardrand

import (
	"encoding/binary"
	"math/rand"

	"golang.org/x/crypto/chacha20"
)

// Seed is the 32-byte key used to derive a board's randomness.
type Seed [32]byte

// Source is a math/rand.Source64 backed by a ChaCha20 keystream keyed with
// a 32-byte seed. Two Sources constructed from the same seed and driven
// through the same call sequence produce bit-identical output.
type Source struct {
	cipher  *chacha20.Cipher
	seed    Seed
	counter uint64 // number of uint64 words produced so far, for Clone
	Rand    *rand.Rand
}

// New builds a Source keyed by seed, with an embedded *rand.Rand ready for
// callers (e.g. Shuffle, Perm, Intn) exactly as evolution/selection.go
// threads a *rand.Rand through selection routines.
func New(seed Seed) *Source {
	s := &Source{seed: seed}
	s.reset()
	s.Rand = rand.New(s)
	return s
}

// reset (re)creates the underlying cipher at the zero nonce, the documented
// chacha20 idiom for a deterministic keystream generator.
func (s *Source) reset() {
	c, err := chacha20.NewUnauthenticatedCipher(s.seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		// Only possible if the key/nonce length is wrong, which cannot
		// happen given the fixed-size Seed and NonceSize above.
		panic("boardrand: invalid chacha20 key or nonce: " + err.Error())
	}
	s.cipher = c
	s.counter = 0
}

// Uint64 implements rand.Source64 by drawing the next 8 keystream bytes.
func (s *Source) Uint64() uint64 {
	var zero [8]byte
	var out [8]byte
	s.cipher.XORKeyStream(out[:], zero[:])
	s.counter++
	return binary.LittleEndian.Uint64(out[:])
}

// Int63 implements rand.Source.
func (s *Source) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// Seed implements rand.Source's required method. Re-seeding a board's RNG
// mid-game would break replay determinism, so this reinitializes to the
// Source's original 32-byte seed and ignores the int64 argument; the
// engine never calls it after construction.
func (s *Source) Seed(int64) {
	s.reset()
}

// Clone returns an independent copy of the Source at the same point in its
// keystream, so snapshotting a board state yields a continuation that
// reproduces identical future shuffles.
func (s *Source) Clone() *Source {
	clone := &Source{seed: s.seed}
	clone.reset()
	// Fast-forward the clone's cipher to the same keystream position by
	// discarding the words already produced by s.
	for i := uint64(0); i < s.counter; i++ {
		var zero, discard [8]byte
		clone.cipher.XORKeyStream(discard[:], zero[:])
	}
	clone.counter = s.counter
	clone.Rand = rand.New(clone)
	return clone
}
