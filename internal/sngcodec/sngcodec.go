// Package sngcodec implements the SNG payload codec (P): the inner
// encrypted-then-compressed framing that wraps each platform-specific song
// binary before it goes through the block codec.
package sngcodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/xerrors"

	"github.com/otaznik/rs-utils/internal/cipher"
)

const (
	magic1   = 0x0000004A
	magic2   = 0x00000003
	ivLen    = 16
	trailLen = 56
	hdrLen   = 8 + ivLen // constant header + IV, before the ciphertext
)

// SizeMismatch is returned by Decode when the decompressed payload's length
// does not match the size declared in the encrypted header.
type SizeMismatch struct {
	Declared, Got int
}

func (e *SizeMismatch) Error() string {
	return fmt.Sprintf("sngcodec: size mismatch: declared %d, got %d", e.Declared, e.Got)
}

// Encode wraps data as an SNG payload: an 8-byte constant header, a 16-byte
// zero IV, the AES-encrypted (uncompressed-size ‖ zlib(data)) body, and 56
// trailing zero bytes.
func Encode(data, key []byte) ([]byte, error) {
	compressed, err := deflate(data)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, 4+len(compressed))
	binary.LittleEndian.PutUint32(plain[:4], uint32(len(data)))
	copy(plain[4:], compressed)

	iv := make([]byte, ivLen)
	body, err := cipher.Encrypt(plain, key, iv)
	if err != nil {
		return nil, xerrors.Errorf("sngcodec: encrypting body: %w", err)
	}

	out := make([]byte, 0, hdrLen+len(body)+trailLen)
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], magic1)
	binary.LittleEndian.PutUint32(hdr[4:8], magic2)
	out = append(out, hdr[:]...)
	out = append(out, iv...)
	out = append(out, body...)
	out = append(out, make([]byte, trailLen)...)

	return out, nil
}

// Decode unwraps an SNG payload encoded by Encode, using the IV embedded at
// bytes [8, 24) of data. It returns SizeMismatch if the decompressed
// length disagrees with the size declared in the header.
func Decode(data, key []byte) ([]byte, error) {
	if len(data) < hdrLen {
		return nil, xerrors.Errorf("sngcodec: payload too short: %d bytes", len(data))
	}

	iv := data[8:hdrLen]
	ciphertext := data[hdrLen:]

	plain, err := cipher.Decrypt(ciphertext, key, iv)
	if err != nil {
		return nil, xerrors.Errorf("sngcodec: decrypting body: %w", err)
	}
	if len(plain) < 4 {
		return nil, xerrors.Errorf("sngcodec: decrypted body too short")
	}

	declared := int(binary.LittleEndian.Uint32(plain[:4]))

	payload, err := inflate(plain[4:])
	if err != nil {
		return nil, xerrors.Errorf("sngcodec: inflating body: %w", err)
	}

	if len(payload) != declared {
		return nil, &SizeMismatch{Declared: declared, Got: len(payload)}
	}

	return payload, nil
}

func deflate(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
