package crypto

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// Source supplies uniformly distributed integers in [0, n). Implementations
// must be safe for concurrent use.
type Source interface {
	IntN(n int) int
}

// rekeyAfter bounds how much keystream one ChaCha20 key produces.
const rekeyAfter = 1 << 30

// lockedSource serializes access to a *rand.Rand, which is not safe for
// concurrent use on its own.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// NewSeededSource returns a deterministic source. Two sources built from the
// same seed yield the same sequence.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewCryptoSource returns a source driven by a ChaCha20 keystream keyed from
// crypto/rand.
func NewCryptoSource() (Source, error) {
	var seed [chacha20.KeySize + chacha20.NonceSize]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}

	c, err := chacha20.NewUnauthenticatedCipher(seed[:chacha20.KeySize], seed[chacha20.KeySize:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	clear(seed[:])

	ks := &keystream{cipher: c}
	ks.off = len(ks.buf)
	return &lockedSource{r: rand.New(ks)}, nil
}

func mustCryptoSource() Source {
	src, err := NewCryptoSource()
	if err != nil {
		panic(err)
	}
	return src
}

// keystream implements rand.Source over ChaCha20 output. After rekeyAfter
// bytes the cipher is replaced with one keyed from its own output.
type keystream struct {
	cipher *chacha20.Cipher
	buf    [512]byte
	off    int
	used   int
}

func (k *keystream) Uint64() uint64 {
	if k.off+8 > len(k.buf) {
		k.refill()
	}
	v := binary.LittleEndian.Uint64(k.buf[k.off:])
	k.off += 8
	return v
}

func (k *keystream) refill() {
	if k.used >= rekeyAfter {
		var seed [chacha20.KeySize + chacha20.NonceSize]byte
		k.cipher.XORKeyStream(seed[:], seed[:])
		c, err := chacha20.NewUnauthenticatedCipher(seed[:chacha20.KeySize], seed[chacha20.KeySize:])
		if err != nil {
			panic(fmt.Sprintf("crypto: rekeying chacha20: %v", err))
		}
		clear(seed[:])
		k.cipher = c
		k.used = 0
	}

	clear(k.buf[:])
	k.cipher.XORKeyStream(k.buf[:], k.buf[:])
	k.used += len(k.buf)
	k.off = 0
}
