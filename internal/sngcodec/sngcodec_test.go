package sngcodec

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otaznik/rs-utils/internal/cipher"
)

func testKey() []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = byte(i * 3)
	}
	return k
}

// Decoding an encoded blob recovers it exactly, whatever the key.
func TestRoundTrip(t *testing.T) {
	key := testKey()

	for _, n := range []int{0, 1, 100, 100000} {
		data := make([]byte, n)
		_, err := rand.Read(data)
		require.NoError(t, err)

		encoded, err := Encode(data, key)
		require.NoError(t, err)

		decoded, err := Decode(encoded, key)
		require.NoError(t, err)
		require.Equal(t, data, decoded)
	}
}

func TestFramingLayout(t *testing.T) {
	data := make([]byte, 1000)
	encoded, err := Encode(data, testKey())
	require.NoError(t, err)

	require.Equal(t, []byte{0x4A, 0, 0, 0}, encoded[0:4])
	require.Equal(t, []byte{0x03, 0, 0, 0}, encoded[4:8])

	iv := encoded[8:24]
	for _, b := range iv {
		require.Zero(t, b)
	}

	trailer := encoded[len(encoded)-56:]
	for _, b := range trailer {
		require.Zero(t, b)
	}
}

// A declared size that disagrees with the actual decompressed length is
// fatal for that entry.
func TestSizeMismatch(t *testing.T) {
	key := testKey()

	bad, err := buildMismatched(key)
	require.NoError(t, err)

	_, err = Decode(bad, key)
	require.Error(t, err)
	var mismatch *SizeMismatch
	require.ErrorAs(t, err, &mismatch)
}

// buildMismatched hand-assembles a payload whose declared uncompressed size
// disagrees with what the zlib stream actually decompresses to.
func buildMismatched(key []byte) ([]byte, error) {
	compressed, err := deflate([]byte("hello"))
	if err != nil {
		return nil, err
	}
	plain := make([]byte, 4+len(compressed))
	plain[0] = 99 // wrong declared size, little-endian
	copy(plain[4:], compressed)

	iv := make([]byte, 16)
	body, err := cipher.Encrypt(plain, key, iv)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 8+16+len(body)+56)
	out = append(out, 0x4A, 0, 0, 0, 0x03, 0, 0, 0)
	out = append(out, iv...)
	out = append(out, body...)
	out = append(out, make([]byte, 56)...)
	return out, nil
}
