package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"golang.org/x/xerrors"

	"github.com/otaznik/rs-utils/internal/toc"
)

const listHelp = `psarc list [-flags] <archive.psarc>

List the paths stored in a PSARC archive, in on-disk (reverse
lexicographic) order, without extracting any entry contents.

Example:
  % psarc list ./input.psarc
`

func list(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("list", flag.ExitOnError)
	fset.Usage = usage(fset, listHelp)
	fset.Parse(args)

	if fset.NArg() != 1 {
		fset.Usage()
		os.Exit(2)
	}

	f, err := os.Open(fset.Arg(0))
	if err != nil {
		return xerrors.Errorf("list: %w", err)
	}
	defer f.Close()

	t, err := toc.Parse(f)
	if err != nil {
		return xerrors.Errorf("list: %w", err)
	}
	for _, e := range t.Entries[1:] {
		fmt.Println(e.Path)
	}
	return nil
}
