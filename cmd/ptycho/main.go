package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ptychodus/ptycho/internal/config"
	"github.com/ptychodus/ptycho/internal/settings"
	"github.com/ptychodus/ptycho/internal/version"
)

// errUsage marks command-line mistakes; run prints usage and exits 2.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "scan":
		err = runScan(ctx, rest, stdout, stderr)
	case "simulate":
		err = runSimulate(ctx, rest, stdout, stderr)
	case "inspect":
		err = runInspect(ctx, rest, stdout, stderr)
	case "catalog":
		err = runCatalog(ctx, rest, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String())
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `ptycho - scan generation and training data tools for ptychography

Usage: ptycho <command> [options]

Commands:
  scan       Generate or load a scan, apply a transform, write CSV/PNG/HTML
  simulate   Simulate diffraction patterns for a scan and save a training archive
  inspect    Print array shapes and statistics of an NPZ archive
  catalog    List scans and training datasets recorded in a catalog
  version    Show version information
  help       Show this help message

Common Flags:
  -config <file>       JSON or YAML settings file (defaults built in)
  -set Group.Entry=v   Override a setting, repeatable (e.g. -set Scan.ExtentX=20)
  -catalog <file>      sqlite catalog to record outputs in

Examples:
  ptycho scan -initializer Snake -transform "-x+y" -formats csv,png,html -out-dir out
  ptycho simulate -set Scan.ExtentX=16 -set Scan.ExtentY=16 -out-dir out -catalog out/catalog.db
  ptycho inspect out/training_data.npz
  ptycho catalog -catalog out/catalog.db
`)
}

// settingOverrides collects repeated -set Group.Entry=value flags.
type settingOverrides []string

func (s *settingOverrides) String() string { return strings.Join(*s, ",") }

func (s *settingOverrides) Set(v string) error {
	key, _, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected Group.Entry=value, got %q", v)
	}
	*s = append(*s, v)
	return nil
}

// apply assigns every override to reg in command-line order.
func (s settingOverrides) apply(reg *settings.Registry) error {
	for _, kv := range s {
		key, value, _ := strings.Cut(kv, "=")
		if err := reg.Set(key, value); err != nil {
			return fmt.Errorf("%w: -set %s: %v", errUsage, kv, err)
		}
	}
	return nil
}

// commonFlags are shared by the commands that build settings.
type commonFlags struct {
	configPath string
	overrides  settingOverrides
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "JSON or YAML settings file")
	fs.Var(&c.overrides, "set", "override a setting as Group.Entry=value (repeatable)")
}

// loadConfig reads and validates -config, or returns an empty configuration whose
// accessors yield the built-in defaults.
func (c *commonFlags) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", c.configPath, err)
	}
	return cfg, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseFlags wraps flag parse failures in errUsage.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}
