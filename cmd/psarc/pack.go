package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"

	"github.com/otaznik/rs-utils/internal/archive"
)

const packHelp = `psarc pack [-flags] <directory>...

Pack each directory tree into a sibling <directory>.psarc archive,
reverse-lexicographically ordering entries by path and rewrapping
songs/bin/{macos,generic}/* payloads with the corresponding SNG key.

Example:
  % psarc pack ./unpacked
`

func pack(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("pack", flag.ExitOnError)
	fset.Usage = usage(fset, packHelp)
	fset.Parse(args)

	if fset.NArg() == 0 {
		fset.Usage()
		os.Exit(2)
	}

	for _, dir := range fset.Args() {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := filepath.Clean(dir) + ".psarc"
		if err := packOne(dir, dst); err != nil {
			return xerrors.Errorf("pack: %w", err)
		}
	}
	return nil
}

func packOne(dir, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	if err := archive.PackDir(f, dir); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	return f.Close()
}
