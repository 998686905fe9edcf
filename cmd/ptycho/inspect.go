package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/npz"
)

func runInspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("inspect", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: inspect needs at least one archive", errUsage)
	}

	fsys := fsutil.OSFileSystem{}
	for _, path := range fs.Args() {
		if err := ctx.Err(); err != nil {
			return err
		}
		arrays, err := npz.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", path, err)
		}

		names := make([]string, 0, len(arrays))
		for name := range arrays {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(stdout, "%s\n", path)
		for _, name := range names {
			a := arrays[name]
			st := a.Summarize()
			fmt.Fprintf(stdout, "  %-20s %-24s n=%-10d min=%-12.5g max=%-12.5g mean=%.5g\n",
				name, a.String(), st.Count, st.Min, st.Max, st.Mean)
		}
	}
	return nil
}
