package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/catalog"
)

func runCatalog(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("catalog", stderr)
	catalogPath := fs.String("catalog", "", "sqlite catalog to list (required)")
	kind := fs.String("kind", "all", "records to list: all, scans or datasets")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *catalogPath == "" {
		return fmt.Errorf("%w: -catalog is required", errUsage)
	}
	if *kind != "all" && *kind != "scans" && *kind != "datasets" {
		return fmt.Errorf("%w: unknown -kind %q", errUsage, *kind)
	}

	store, err := catalog.Open(*catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *kind != "datasets" {
		scans, err := store.ListScans(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Scans (%d)\n", len(scans))
		for _, s := range scans {
			fmt.Fprintf(stdout, "  %s  %s  %-10s %-5s %6d pts  x=[%s, %s] y=[%s, %s]  %s\n",
				s.ID, s.CreatedAt.Format(time.RFC3339), s.Initializer, s.Transform, s.Points,
				orDash(s.MinX), orDash(s.MaxX), orDash(s.MinY), orDash(s.MaxY), s.Path)
		}
	}
	if *kind != "scans" {
		datasets, err := store.ListDatasets(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Training datasets (%d)\n", len(datasets))
		for _, d := range datasets {
			fmt.Fprintf(stdout, "  %s  %s  %-10s %6d samples  patterns %dx%d  patches %dx%dx%d  %s\n",
				d.ID, d.CreatedAt.Format(time.RFC3339), d.Reconstructor, d.Samples,
				d.PatternHeight, d.PatternWidth, d.Channels, d.PatchHeight, d.PatchWidth, d.Path)
		}
	}
	return nil
}

func orDash(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
