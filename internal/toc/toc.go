// Package toc implements the PSARC archive TOC (T): the fixed 32-byte
// header, the encrypted entry-record table, and the block-length array that
// follows it, plus the path manifest stored as entry zero.
package toc

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"io"
	"sort"
	"strings"

	"golang.org/x/xerrors"

	"github.com/otaznik/rs-utils/internal/block"
	"github.com/otaznik/rs-utils/internal/cipher"
)

const (
	magic            = "PSAR"
	version          = 0x00010004
	compression      = "zlib"
	headerSize       = 32
	entryRecSize     = 30
	archiveFlags     = 4
	logicalBlockSize = block.Size
)

// ArcKey and ArcIV are the fixed key/IV that encrypt the TOC itself.
var (
	ArcKey = mustHex("C53DB23870A1A2F71CAE64061FDD0E1157309DC85204D4C5BFDF25090DF2572C")
	ArcIV  = mustHex("E915AA018FEF71FC508132E4BB4CEB42")
)

// ErrBadMagic is returned when the archive header's magic bytes don't match
// "PSAR".
var ErrBadMagic = xerrors.New("toc: bad magic")

// Header is the fixed 32-byte archive header.
type Header struct {
	Magic       [4]byte
	Version     uint32
	Compression [4]byte
	TocSize     uint32
	EntrySize   uint32
	EntryCount  uint32
	BlockSize   uint32
	Flags       uint32
}

// Entry is one archive entry: entry zero (the path manifest) has an empty
// Path and a zero Digest; every other entry carries its archive-relative
// path, MD5 digest, and the decompressed sizes/offsets needed to read it
// back through the block codec.
type Entry struct {
	Path    string
	Digest  [16]byte
	ZIndex  uint32
	Length  uint64
	Offset  uint64
	Lengths []uint16 // this entry's suffix of the global block-length array
}

// TOC is a parsed or freshly-built table of contents.
type TOC struct {
	Header  Header
	Entries []Entry // entry zero (manifest) first
}

// PathDigest returns the MD5 digest of path, or sixteen zero bytes for the
// empty path used by entry zero.
func PathDigest(path string) [16]byte {
	if path == "" {
		return [16]byte{}
	}
	return md5.Sum([]byte(path))
}

// Parse reads the header, decrypts the entry-record and block-length
// tables, and resolves every entry's path from entry zero's manifest.
// r must expose the whole archive, since recovering the manifest
// requires decoding entry zero's block-compressed body.
func Parse(r io.ReaderAt) (*TOC, error) {
	var hdrBuf [headerSize]byte
	if _, err := r.ReadAt(hdrBuf[:], 0); err != nil {
		return nil, xerrors.Errorf("toc: reading header: %w", err)
	}

	hdr := Header{
		Version:    binary.BigEndian.Uint32(hdrBuf[4:8]),
		TocSize:    binary.BigEndian.Uint32(hdrBuf[12:16]),
		EntrySize:  binary.BigEndian.Uint32(hdrBuf[16:20]),
		EntryCount: binary.BigEndian.Uint32(hdrBuf[20:24]),
		BlockSize:  binary.BigEndian.Uint32(hdrBuf[24:28]),
		Flags:      binary.BigEndian.Uint32(hdrBuf[28:32]),
	}
	copy(hdr.Magic[:], hdrBuf[0:4])
	copy(hdr.Compression[:], hdrBuf[8:12])

	if string(hdr.Magic[:]) != magic {
		return nil, ErrBadMagic
	}
	if hdr.Version != version || string(hdr.Compression[:]) != compression || hdr.EntrySize != entryRecSize {
		return nil, xerrors.Errorf("toc: unsupported header: version=%x compression=%q entrySize=%d",
			hdr.Version, hdr.Compression, hdr.EntrySize)
	}

	tocSize := int64(hdr.TocSize) - headerSize
	if tocSize < 0 {
		return nil, xerrors.Errorf("toc: implausible toc size %d", hdr.TocSize)
	}

	padded := tocSize
	if rem := padded % cipher.IVLen; rem != 0 {
		padded += cipher.IVLen - rem
	}
	ciphertext := make([]byte, padded)
	if _, err := r.ReadAt(ciphertext, headerSize); err != nil {
		return nil, xerrors.Errorf("toc: reading encrypted table: %w", err)
	}

	plain, err := cipher.Decrypt(ciphertext, ArcKey, ArcIV)
	if err != nil {
		return nil, xerrors.Errorf("toc: decrypting table: %w", err)
	}
	plain = plain[:tocSize]

	n := int(hdr.EntryCount)
	if int64(entryRecSize*n) > tocSize {
		return nil, xerrors.Errorf("toc: %d entries do not fit in table of %d bytes", n, tocSize)
	}
	recBytes := plain[:entryRecSize*n]
	lengthBytes := plain[entryRecSize*n:]

	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		rec := recBytes[i*entryRecSize : (i+1)*entryRecSize]
		copy(entries[i].Digest[:], rec[:16])
		entries[i].ZIndex = binary.BigEndian.Uint32(rec[16:20])
		entries[i].Length = getUint40(rec[20:25])
		entries[i].Offset = getUint40(rec[25:30])
	}

	lengths := make([]uint16, len(lengthBytes)/2)
	for i := range lengths {
		lengths[i] = binary.BigEndian.Uint16(lengthBytes[i*2 : i*2+2])
	}
	for i := range entries {
		if int(entries[i].ZIndex) > len(lengths) {
			return nil, xerrors.Errorf("toc: entry %d zindex %d beyond block-length array of %d", i, entries[i].ZIndex, len(lengths))
		}
		entries[i].Lengths = lengths[entries[i].ZIndex:]
	}

	if n == 0 {
		return nil, xerrors.Errorf("toc: archive has no entries, expected at least entry zero")
	}

	manifestBytes, err := block.Decode(r, int64(entries[0].Offset), entries[0].Length, entries[0].Lengths)
	if err != nil {
		return nil, xerrors.Errorf("toc: decoding manifest entry: %w", err)
	}
	paths := strings.Fields(string(manifestBytes))
	if len(paths) != n-1 {
		return nil, xerrors.Errorf("toc: manifest lists %d paths, archive has %d non-manifest entries", len(paths), n-1)
	}
	for i, p := range paths {
		entries[i+1].Path = p
	}

	return &TOC{Header: hdr, Entries: entries}, nil
}

// Build assigns Offset and ZIndex to entries (entry zero — the manifest —
// must be entries[0], with Length/Lengths already computed by the block
// codec over its manifest payload, and likewise for every other entry) and
// serializes the plaintext header followed by the encrypted record and
// block-length tables. It returns that header+ciphertext prefix and
// the logical TOC size, which callers need both to place the archive on
// disk and to reproduce the offsets stored in the records.
func Build(entries []Entry) (prefix []byte, tocSize int64, err error) {
	if len(entries) == 0 || entries[0].Path != "" {
		return nil, 0, xerrors.Errorf("toc: entries[0] must be the manifest entry")
	}

	var allLengths []uint16
	offset := uint64(0)
	zindex := uint32(0)
	for i := range entries {
		entries[i].Offset = offset
		entries[i].ZIndex = zindex
		entries[i].Digest = PathDigest(entries[i].Path)

		offset += bodySize(entries[i].Lengths)

		zindex += uint32(len(entries[i].Lengths))
		allLengths = append(allLengths, entries[i].Lengths...)
	}

	n := len(entries)

	// Entry offsets are computed against the logical TOC size, but the
	// encrypted table always occupies a 16-byte multiple on disk. Padding
	// the block-length array with zero entries keeps the two equal, so the
	// stored offsets are also the absolute file positions of the bodies.
	// Pad entries are never consumed: each entry's length slice stops as
	// soon as its decompressed total is reached.
	for (entryRecSize*n+2*len(allLengths))%cipher.IVLen != 0 {
		allLengths = append(allLengths, 0)
	}

	logicalTocSize := int64(headerSize + entryRecSize*n + 2*len(allLengths))

	var hdrBuf [headerSize]byte
	copy(hdrBuf[0:4], magic)
	binary.BigEndian.PutUint32(hdrBuf[4:8], version)
	copy(hdrBuf[8:12], compression)
	binary.BigEndian.PutUint32(hdrBuf[12:16], uint32(logicalTocSize))
	binary.BigEndian.PutUint32(hdrBuf[16:20], entryRecSize)
	binary.BigEndian.PutUint32(hdrBuf[20:24], uint32(n))
	binary.BigEndian.PutUint32(hdrBuf[24:28], logicalBlockSize)
	binary.BigEndian.PutUint32(hdrBuf[28:32], archiveFlags)

	var table bytes.Buffer
	for _, e := range entries {
		table.Write(e.Digest[:])
		var rec [14]byte
		binary.BigEndian.PutUint32(rec[0:4], e.ZIndex)
		putUint40(rec[4:9], e.Length)
		putUint40(rec[9:14], e.Offset+uint64(logicalTocSize))
		table.Write(rec[:])
	}
	for _, l := range allLengths {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], l)
		table.Write(b[:])
	}

	ciphertext, err := cipher.Encrypt(table.Bytes(), ArcKey, ArcIV)
	if err != nil {
		return nil, 0, xerrors.Errorf("toc: encrypting table: %w", err)
	}

	out := make([]byte, 0, headerSize+len(ciphertext))
	out = append(out, hdrBuf[:]...)
	out = append(out, ciphertext...)

	return out, logicalTocSize, nil
}

// bodySize returns the number of physical bytes an entry's body occupies
// on disk given its stored block lengths: 0 means a full logical block.
func bodySize(lengths []uint16) uint64 {
	var size uint64
	for _, l := range lengths {
		if l == 0 {
			size += logicalBlockSize
		} else {
			size += uint64(l)
		}
	}
	return size
}

// SortPathsReverseLex returns paths sorted in reverse lexicographic order,
// the archive's storage order for everything after the manifest entry.
func SortPathsReverseLex(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

func getUint40(b []byte) uint64 {
	var buf [8]byte
	copy(buf[3:], b)
	return binary.BigEndian.Uint64(buf[:])
}

func putUint40(dst []byte, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	copy(dst, buf[3:])
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
