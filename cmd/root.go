package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hclifford823/icecore-resampler-2018version/internal/classify"
	cfgpkg "github.com/hclifford823/icecore-resampler-2018version/internal/config"
	"github.com/hclifford823/icecore-resampler-2018version/internal/emit"
	"github.com/hclifford823/icecore-resampler-2018version/internal/run"
	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Resample flags (override config if set)
	flagDataDir    string
	flagOutDir     string
	flagSheetName  string
	flagSheetIndex int
	flagDelimiter  string
	flagTrim       bool
	flagNoLogPlots bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "resample <file> <by> <increment>...",
	Short: "Resample ice-core data onto regular depth or age increments",
	Long: `Resample bins tabular ice-core measurements (csv, tsv, txt or xlsx) onto
uniform increments of a depth or age axis, writing one CSV and one PDF plot
per (axis, increment) combination.

<by> selects the axis: depth, age/year, or all (both). Columns are matched
by case-sensitive prefix/suffix against the synonym sets, so "Depth (m)",
"Age_kyr" and "ice_Depth" all classify. Increments are one or more positive
numbers in the axis column's units.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runResample,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.icecore-resample/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory bare input filenames are resolved against (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheetName, "sheet-name", "", "xlsx worksheet name (default: first sheet)")
	rootCmd.PersistentFlags().IntVar(&flagSheetIndex, "sheet-index", 0, "xlsx worksheet index, 1-based")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter for delimited text: ','|';'|'tab'")

	rootCmd.Flags().StringVar(&flagOutDir, "out-dir", "", "artifact output root (overrides config)")
	rootCmd.Flags().BoolVar(&flagTrim, "trim", false, "truncate output past a run of 5 consecutive empty bins")
	rootCmd.Flags().BoolVar(&flagNoLogPlots, "no-log-plots", false, "skip the extra log-scale PDF per pair")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{DataDir: "data", OutputDir: "output_files", LogPlots: true}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if rootCmd.Flags().Changed("out-dir") && flagOutDir != "" {
		cfg.OutputDir = flagOutDir
	}
	if rootCmd.Flags().Changed("trim") {
		cfg.TrimSparseTail = flagTrim
	}
	if rootCmd.Flags().Changed("no-log-plots") {
		cfg.LogPlots = !flagNoLogPlots
	}
}

func runResample(cmd *cobra.Command, args []string) error {
	roles, err := classify.ParseByToken(args[1])
	if err != nil {
		return err
	}
	increments, err := parseIncrements(args[2:])
	if err != nil {
		return err
	}
	opt, err := loaderOptions()
	if err != nil {
		return err
	}
	path := resolveDataPath(args[0])
	if debug {
		fmt.Printf("loading %s\n", path)
	}
	t, err := table.Load(path, opt)
	if err != nil {
		return err
	}

	trim := 0
	if cfg.TrimSparseTail {
		trim = 5
	}
	emitter := &emit.FileEmitter{OutDir: cfg.OutputDir, Raw: t, LogPlots: cfg.LogPlots}
	runner := &run.Runner{
		Synonyms:       cfg.Synonyms(),
		TrimSparseBins: trim,
		Logf: func(format string, a ...any) {
			fmt.Printf(format, a...)
		},
	}
	sum := runner.Run(t, roles, increments, emitter)

	printSummary(sum)
	if sum.AllRolesFailed() {
		return fmt.Errorf("no requested role matched any column in %s", t.Name)
	}
	if err := emitter.WriteManifest(sum); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	fmt.Printf("✓ Wrote %d artifact files under %s\n", len(emitter.Artifacts()), filepath.Join(cfg.OutputDir, t.Name))
	return nil
}

func printSummary(sum *run.Summary) {
	fmt.Printf("\nRun %s: %d/%d pairs succeeded\n", sum.RunID, sum.Succeeded(), len(sum.Pairs))
	for i := range sum.Pairs {
		p := &sum.Pairs[i]
		if p.OK() {
			fmt.Printf("  ✓ %s @ %v (%s, %d bins)\n", p.Role, p.Increment, p.Axis, p.Bins)
		} else {
			fmt.Printf("  ⚠ %s @ %v skipped: %v\n", p.Role, p.Increment, p.Err)
		}
	}
	for _, miss := range sum.Missing {
		fmt.Printf("  ⚠ %v\n", miss)
	}
	for _, amb := range sum.Ambiguous {
		fmt.Printf("  ⚠ %v\n", amb)
	}
}

// resolveDataPath keeps explicit paths as-is and resolves bare names against
// the data directory.
func resolveDataPath(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(cfg.DataDir, name)
}

func parseIncrements(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("increment %q is not a number", a)
		}
		out = append(out, f)
	}
	return out, nil
}

func loaderOptions() (table.Options, error) {
	opt := table.DefaultOptions()
	opt.SheetName = flagSheetName
	if flagSheetIndex > 0 {
		opt.SheetIndex = flagSheetIndex
	}
	switch strings.ToLower(strings.TrimSpace(flagDelimiter)) {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", flagDelimiter)
	}
	return opt, nil
}
