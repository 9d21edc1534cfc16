// Package block implements the PSARC block codec (B): it splits an
// uncompressed byte stream into fixed-size logical blocks, independently
// zlib-compresses each one when that's a win, and reassembles the stream
// from an entry's offset, total length, and block-length slice on the way
// back.
package block

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"golang.org/x/xerrors"
)

// Size is the logical block size recorded in the archive header.
const Size = 65536

// Encode splits data into Size-byte chunks, zlib-compresses each one at
// best-compression, and keeps the compressed form only if it is strictly
// shorter than the raw chunk. It returns the concatenated block bodies and
// the parallel list of stored lengths: 0 means "Size bytes, stored
// raw"; any other value N means "N bytes follow", compressed unless
// decompressing them fails, in which case they are the incompressible raw
// chunk and N happens to equal len(chunk) mod Size.
func Encode(data []byte) (body []byte, lengths []uint16, err error) {
	var out bytes.Buffer

	for off := 0; off < len(data); off += Size {
		end := off + Size
		if end > len(data) {
			end = len(data)
		}
		raw := data[off:end]

		compressed, err := deflate(raw)
		if err != nil {
			return nil, nil, err
		}

		if len(compressed) < len(raw) {
			out.Write(compressed)
			lengths = append(lengths, uint16(len(compressed)))
		} else {
			out.Write(raw)
			lengths = append(lengths, uint16(len(raw)%Size))
		}
	}

	return out.Bytes(), lengths, nil
}

// Decode reads consecutive blocks from r, starting at the entry's offset and
// following lengths in order, until it has accumulated total bytes of
// decompressed output. A stored length of 0 is read as Size raw bytes. A
// non-zero length L is read as L bytes and zlib-decompressed; blocks that
// fail to decompress are legitimately stored raw (the format overloads a
// non-zero length) and are appended verbatim instead.
func Decode(r io.ReaderAt, offset int64, total uint64, lengths []uint16) ([]byte, error) {
	out := make([]byte, 0, total)
	pos := offset

	for _, l := range lengths {
		if uint64(len(out)) >= total {
			break
		}

		var chunkLen int
		var raw bool
		if l == 0 {
			chunkLen = Size
			raw = true
		} else {
			chunkLen = int(l)
		}

		buf := make([]byte, chunkLen)
		if _, err := r.ReadAt(buf, pos); err != nil {
			return nil, xerrors.Errorf("block: reading %d bytes at offset %d: %w", chunkLen, pos, err)
		}
		pos += int64(chunkLen)

		if raw {
			out = append(out, buf...)
			continue
		}

		decompressed, err := inflate(buf)
		if err != nil {
			// Non-zero length with undecompressible content: stored raw
			// despite carrying a length.
			out = append(out, buf...)
			continue
		}
		out = append(out, decompressed...)
	}

	if uint64(len(out)) > total {
		out = out[:total]
	}
	return out, nil
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
