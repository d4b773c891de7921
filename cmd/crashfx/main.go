package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/vinumeris/crashfx"
	"github.com/vinumeris/crashfx/internal/color"
	"github.com/vinumeris/crashfx/internal/config"
	"github.com/vinumeris/crashfx/internal/format"
	"github.com/vinumeris/crashfx/internal/palette"
)

var (
	flagConfig    string
	flagVerbosity int
	flagLogFile   string
	flagSeed      string
	flagPadded    bool
	flagCheck     bool
	flagForce     bool
	version       = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:     "crashfx",
	Short:   "Collect crash reports and show them on a colored dashboard",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the crash intake and dashboard server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var paletteCmd = &cobra.Command{
	Use:   "palette [label=count...]",
	Short: "Print the colors assigned to labeled counts",
	Long:  "Print the base and highlight color assigned to each label=count argument, in the order given.",
	RunE:  runPalette,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format crashfx config files",
	Long:  "Format one or more HCL config files in-place. Prints the name of each file that was modified.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "crashfx.hcl", "path to config HCL file")
	serveCmd.Flags().CountVarP(&flagVerbosity, "verbose", "v", "increase log verbosity (can be repeated)")
	serveCmd.Flags().StringVar(&flagLogFile, "log", "", "log to file instead of stderr")
	paletteCmd.Flags().StringVar(&flagSeed, "seed", "", "first palette color as #rrggbb (default cornflower blue)")
	paletteCmd.Flags().BoolVar(&flagPadded, "padded", false, "print zero-padded #rrggbb colors")
	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "check if files are formatted (do not write changes)")
	initCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	var logPath *string
	if flagLogFile != "" {
		logPath = &flagLogFile
	}
	commonlog.Configure(1+flagVerbosity, logPath)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := crashfx.New(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}

func runPalette(cmd *cobra.Command, args []string) error {
	entries, err := parseEntries(args)
	if err != nil {
		return err
	}

	seed := color.CornflowerBlue
	if flagSeed != "" {
		c, err := color.ParseHex(flagSeed)
		if err != nil {
			return fmt.Errorf("--seed: %w", err)
		}
		seed = c.RGB()
	}
	f := color.FormatLegacy
	if flagPadded {
		f = color.FormatPadded
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tCOUNT\tCOLOR\tHIGHLIGHT")
	for _, s := range palette.Generate(seed, entries, palette.WithFormat(f)) {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Label, s.Count, s.Color, s.Highlight)
	}
	return w.Flush()
}

// parseEntries reads label=count arguments. The last '=' separates the count,
// so labels may contain '='.
func parseEntries(args []string) ([]palette.Entry, error) {
	entries := make([]palette.Entry, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i < 0 {
			return nil, fmt.Errorf("argument %q: expected label=count", arg)
		}
		n, err := strconv.Atoi(arg[i+1:])
		if err != nil {
			return nil, fmt.Errorf("argument %q: invalid count: %w", arg, err)
		}
		entries = append(entries, palette.Entry{Label: arg[:i], Count: n})
	}
	return entries, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	hasErrors := false
	needsFormatting := false

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		content := string(data)
		formatted, err := format.Format(content)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error formatting %s: %v\n", path, err)
			hasErrors = true
			continue
		}

		if formatted == content {
			continue
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		needsFormatting = true

		if !flagCheck {
			if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", path, err)
				hasErrors = true
			}
		}
	}

	if hasErrors || (flagCheck && needsFormatting) {
		os.Exit(1)
	}

	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	if !flagForce {
		if _, err := os.Stat(flagConfig); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", flagConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := os.WriteFile(flagConfig, format.DefaultConfig(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s; set %s before running serve\n", flagConfig, config.PasswordEnv)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
