package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"

	"github.com/otaznik/rs-utils/internal/archive"
)

const unpackHelp = `psarc unpack [-flags] <archive.psarc>...

Unpack each PSARC archive into a sibling directory named after the
archive without its extension, unwrapping songs/bin/{macos,generic}/*
payloads along the way.

Example:
  % psarc unpack ./input.psarc
`

func unpack(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("unpack", flag.ExitOnError)
	fset.Usage = usage(fset, unpackHelp)
	fset.Parse(args)

	if fset.NArg() == 0 {
		fset.Usage()
		os.Exit(2)
	}

	for _, src := range fset.Args() {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := strings.TrimSuffix(src, filepath.Ext(src))
		if dir == src {
			dir = src + ".d"
		}
		if err := unpackOne(src, dir); err != nil {
			return xerrors.Errorf("unpack: %w", err)
		}
	}
	return nil
}

func unpackOne(src, dir string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	return archive.UnpackToDir(f, dir)
}
