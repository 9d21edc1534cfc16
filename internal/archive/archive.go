// Package archive implements the PSARC archive engine (A): it orchestrates
// the block codec, the SNG payload codec, and the TOC to pack a directory
// of files into an archive or unpack an archive back into files, applying
// the path-prefix rule that selects which SNG key (if any) wraps an entry.
package archive

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio"
	"golang.org/x/xerrors"

	"github.com/otaznik/rs-utils/internal/block"
	"github.com/otaznik/rs-utils/internal/sngcodec"
	"github.com/otaznik/rs-utils/internal/toc"
)

// Platform-songs path prefixes that select an SNG key.
const (
	MacPrefix = "songs/bin/macos/"
	PcPrefix  = "songs/bin/generic/"
)

// MacKey and PcKey are the fixed SNG payload keys for the two platforms.
var (
	MacKey = mustHex("9821330E34B91F70D0A48CBD625993126970CEA09192C0E6CDA676CC9838289D")
	PcKey  = mustHex("CB648DF3D12A16BF71701414E69619EC171CCA5D2A142E3E59DE7ADDA18A3A30")
)

// ErrPathConflict is returned at pack time when two input files resolve to
// the same archive-relative path.
var ErrPathConflict = xerrors.New("archive: duplicate entry path")

// File is one archive-relative path and its raw (post-SNG-decode) content.
type File struct {
	Path string
	Data []byte
}

// sngKeyFor returns the SNG key that applies to path, or nil if path is not
// under a platform-songs prefix and should be stored without SNG framing.
func sngKeyFor(path string) []byte {
	switch {
	case strings.HasPrefix(path, MacPrefix):
		return MacKey
	case strings.HasPrefix(path, PcPrefix):
		return PcKey
	default:
		return nil
	}
}

// PackFiles builds archive bytes for files and writes them to w. The order
// of files does not matter: entries are stored sorted in reverse
// lexicographic order, with a synthetic manifest entry zero prepended.
func PackFiles(w io.Writer, files []File) error {
	seen := make(map[string]bool, len(files))
	paths := make([]string, 0, len(files))
	byPath := make(map[string][]byte, len(files))
	for _, f := range files {
		if seen[f.Path] {
			return xerrors.Errorf("%w: %q", ErrPathConflict, f.Path)
		}
		seen[f.Path] = true
		paths = append(paths, f.Path)
		byPath[f.Path] = f.Data
	}

	ordered := toc.SortPathsReverseLex(paths)

	entries := make([]toc.Entry, 0, len(ordered)+1)
	bodies := make([][]byte, 0, len(ordered)+1)

	manifestEntry, manifestBody, err := buildEntry("", []byte(strings.Join(ordered, "\n")))
	if err != nil {
		return err
	}
	entries = append(entries, manifestEntry)
	bodies = append(bodies, manifestBody)

	for _, p := range ordered {
		data := byPath[p]
		if key := sngKeyFor(p); key != nil {
			encoded, err := sngcodec.Encode(data, key)
			if err != nil {
				return xerrors.Errorf("archive: sng-encoding %q: %w", p, err)
			}
			data = encoded
		}
		entry, body, err := buildEntry(p, data)
		if err != nil {
			return xerrors.Errorf("archive: block-encoding %q: %w", p, err)
		}
		entries = append(entries, entry)
		bodies = append(bodies, body)
	}

	prefix, _, err := toc.Build(entries)
	if err != nil {
		return err
	}

	if _, err := w.Write(prefix); err != nil {
		return xerrors.Errorf("archive: writing header: %w", err)
	}
	for i, body := range bodies {
		if _, err := w.Write(body); err != nil {
			return xerrors.Errorf("archive: writing entry %q: %w", entries[i].Path, err)
		}
	}

	return nil
}

// buildEntry block-encodes data and returns the TOC entry describing it
// (sizes and per-block lengths; toc.Build fills in Offset/ZIndex once it
// knows every entry's position) alongside the physical bytes to write.
func buildEntry(path string, data []byte) (toc.Entry, []byte, error) {
	body, lengths, err := block.Encode(data)
	if err != nil {
		return toc.Entry{}, nil, err
	}
	return toc.Entry{
		Path:    path,
		Digest:  toc.PathDigest(path),
		Length:  uint64(len(data)),
		Lengths: lengths,
	}, body, nil
}

// UnpackFiles parses an archive from r and returns its entries (excluding
// the synthetic manifest), with SNG-framed payloads already unwrapped.
func UnpackFiles(r io.ReaderAt) ([]File, error) {
	t, err := toc.Parse(r)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(t.Entries)-1)
	for _, e := range t.Entries[1:] {
		data, err := block.Decode(r, int64(e.Offset), e.Length, e.Lengths)
		if err != nil {
			return nil, xerrors.Errorf("archive: decoding entry %q: %w", e.Path, err)
		}
		if key := sngKeyFor(e.Path); key != nil {
			decoded, err := sngcodec.Decode(data, key)
			if err != nil {
				return nil, xerrors.Errorf("archive: decoding sng payload %q: %w", e.Path, err)
			}
			data = decoded
		}
		files = append(files, File{Path: e.Path, Data: data})
	}
	return files, nil
}

// UnpackToDir parses an archive from r and writes every entry under dir,
// creating intermediate directories as needed and writing each file
// atomically via renameio so an interrupted unpack never leaves a
// truncated file at its final path.
func UnpackToDir(r io.ReaderAt, dir string) error {
	files, err := UnpackFiles(r)
	if err != nil {
		return err
	}
	for _, f := range files {
		dest := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return xerrors.Errorf("archive: creating %s: %w", filepath.Dir(dest), err)
		}
		t, err := renameio.TempFile("", dest)
		if err != nil {
			return xerrors.Errorf("archive: opening temp file for %s: %w", dest, err)
		}
		defer t.Cleanup()
		if _, err := t.Write(f.Data); err != nil {
			return xerrors.Errorf("archive: writing %s: %w", dest, err)
		}
		if err := t.CloseAtomicallyReplace(); err != nil {
			return xerrors.Errorf("archive: finalizing %s: %w", dest, err)
		}
	}
	return nil
}

// PackDir walks root and packs every regular file it finds into an
// archive written to w, using the file's path relative to root (with
// forward slashes) as its archive path.
func PackDir(w io.Writer, root string) error {
	var files []File
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return xerrors.Errorf("archive: walking %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return PackFiles(w, files)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
