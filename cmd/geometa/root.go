package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/simonhull/geometa"
	"github.com/simonhull/geometa/internal/config"
)

// sniffLength is how many leading bytes sniff prints.
const sniffLength = 32

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "geometa",
		Short: "Extract spatial metadata from geospatial files",
		Long: `geometa reads CSV, GeoJSON, TopoJSON, Shapefile, KML, GPX, GeoTIFF and
VRT files and prints their projection, extent, center, zoom range, layers
and schema as JSON.

Environment:
  GEOMETA_CONFIG       config file (.yaml, .yml or .toml)
  GEOMETA_CONCURRENCY  queries in flight per digest

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage or configuration error
  10 - Invalid source (EINVALID)
  11 - File not found`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug records to stderr")
	root.PersistentFlags().String("config", "", "Config file (default $GEOMETA_CONFIG)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newDigestCmd(), newSniffCmd(), newFormatsCmd(), newVersionCmd())
	return root
}

// args wraps a cobra argument validator so its failures are usage errors.
func args(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := validate(cmd, a); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func newDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest <file>...",
		Short: "Print the metadata digest of each file",
		Args:  args(cobra.MinimumNArgs(1)),
		RunE:  runDigest,
	}
	cmd.Flags().Bool("pretty", false, "Indent JSON output")
	cmd.Flags().Int("concurrency", 0, "Queries in flight per digest (0 = one per CPU)")
	return cmd
}

func runDigest(cmd *cobra.Command, paths []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg, cmd.ErrOrStderr())

	opts := []geometa.Option{
		geometa.WithLogger(logger),
		geometa.WithZoomConfig(cfg.Zoom),
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, geometa.WithConcurrency(cfg.Concurrency))
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	if cfg.Pretty || isTerminal(out) {
		enc.SetIndent("", "  ")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Every file is reported; the first failure decides the exit code.
	var first error
	for _, path := range paths {
		md, err := geometa.DigestContext(ctx, path, opts...)
		if err != nil {
			logger.Error("digest failed", "file", path, "code", geometa.ErrorCode(err), "error", err)
			if first == nil {
				first = fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		if err := enc.Encode(md); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return first
}

// loadConfig builds settings from the config file, .env and environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	_ = godotenv.Load()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		n, _ := cmd.Flags().GetInt("concurrency")
		if n < 0 {
			return nil, &usageError{err: errors.New("--concurrency must not be negative")}
		}
		cfg.Concurrency = n
	}
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		cfg.Pretty = true
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newSniffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff <file>",
		Short: "Show the detected filetype and leading bytes of a file",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			return sniff(cmd.OutOrStdout(), a[0])
		},
	}
}

// sniff prints the filetype detection result and a hex dump of the
// signature bytes.
func sniff(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	head := make([]byte, min(info.Size(), sniffLength))
	if _, err := io.ReadFull(f, head); err != nil {
		return err
	}

	ft, err := geometa.DetectFiletype(f, info.Size(), path)
	switch {
	case errors.Is(err, geometa.ErrUnrecognized):
		fmt.Fprintf(w, "filetype: unrecognized (tried as csv)\n")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "filetype: %s\n", ft)
	}
	fmt.Fprintf(w, "size:     %d bytes\n", info.Size())
	fmt.Fprint(w, hex.Dump(head))
	return nil
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported filetypes",
		Args:  args(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			for _, ft := range geometa.SupportedFiletypes() {
				fmt.Fprintf(w, "%-9s %s\n", ft, strings.Join(ft.Extensions(), " "))
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  args(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			info := geometa.GetVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "geometa %s (%s, %s) %s\n",
				info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		},
	}
}
