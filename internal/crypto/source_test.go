package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20"
)

func TestNewCryptoSourceRange(t *testing.T) {
	src, err := NewCryptoSource()
	require.NoError(t, err)

	counts := make([]int, 10)
	for i := 0; i < 10000; i++ {
		v := src.IntN(10)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	for digit, c := range counts {
		assert.Greater(t, c, 0, "digit %d never drawn", digit)
	}
}

func TestKeystreamRekeys(t *testing.T) {
	c, err := chacha20.NewUnauthenticatedCipher(make([]byte, chacha20.KeySize), make([]byte, chacha20.NonceSize))
	require.NoError(t, err)

	k := &keystream{cipher: c, used: rekeyAfter}
	k.off = len(k.buf)

	_ = k.Uint64()
	assert.NotSame(t, c, k.cipher)
	assert.Equal(t, len(k.buf), k.used)
	assert.Equal(t, 8, k.off)
}

func TestKeystreamDeterministicForKey(t *testing.T) {
	newKS := func() *keystream {
		c, err := chacha20.NewUnauthenticatedCipher(make([]byte, chacha20.KeySize), make([]byte, chacha20.NonceSize))
		require.NoError(t, err)
		k := &keystream{cipher: c}
		k.off = len(k.buf)
		return k
	}

	a, b := newKS(), newKS()
	for i := 0; i < 200; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestSeededSourceDeterministic(t *testing.T) {
	a := NewSeededSource(99)
	b := NewSeededSource(99)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}
