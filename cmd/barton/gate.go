package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"barton-hq/meridian/pkg/audit"
	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/config"
)

var gateFlags struct {
	registry string
	strict   bool
	format   string
	watch    bool
}

var gateCmd = &cobra.Command{
	Use:   "gate [path...]",
	Short: "Run the compliance gate over a doctrine corpus",
	Long: `Discover doctrine payload files under the given paths, evaluate every
subject against the compliance rulebook, and exit non-zero when the
run fails.

Without arguments the gate runs over the current directory. Discovery
follows the gate.patterns globs from the configuration file.

Examples:
  barton gate ./doctrine
  barton gate --strict --format json ./doctrine ./shq
  barton gate --watch ./doctrine`,
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)

	gateCmd.Flags().StringVarP(&gateFlags.registry, "registry", "r", "", "registry file (built-in catalog when unset)")
	gateCmd.Flags().BoolVar(&gateFlags.strict, "strict", false, "treat warning findings as failures")
	gateCmd.Flags().StringVarP(&gateFlags.format, "format", "f", "", "output format: text or json")
	gateCmd.Flags().BoolVarP(&gateFlags.watch, "watch", "w", false, "re-run the gate when corpus or registry files change")
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	strict := gateFlags.strict || cfg.Gate.Strict
	format := gateFlags.format
	if format == "" {
		format = cfg.Gate.Format
	}

	if gateFlags.watch {
		return watchGate(cfg, roots, strict, format)
	}

	report, files, err := gateOnce(cfg, roots)
	if err != nil {
		return err
	}
	return emitGateReport(report, files, strict, format)
}

// gateOnce resolves the registry, discovers the corpus, and evaluates it.
// The registry is re-read on every call so watch mode picks up registry
// edits as well as corpus edits.
func gateOnce(cfg *config.Config, roots []string) (*compliance.Report, []string, error) {
	reg, err := resolveRegistry(gateFlags.registry, cfg)
	if err != nil {
		return nil, nil, cli.NewCommandError("gate", err)
	}

	files, err := discoverCorpus(roots, cfg.Gate.Patterns)
	if err != nil {
		return nil, nil, cli.NewCommandError("gate", err)
	}
	if len(files) == 0 {
		return nil, nil, cli.NewCommandError("gate",
			fmt.Errorf("no corpus files found under %s", strings.Join(roots, ", ")))
	}

	subjects, err := audit.LoadSources(files)
	if err != nil {
		return nil, nil, cli.NewCommandError("gate", err)
	}

	enforcer := compliance.NewEnforcer(compliance.Config{
		Registry:    reg,
		Caller:      cfg.Gate.Caller,
		Parallelism: cfg.Gate.Parallelism,
	})

	return enforcer.Evaluate(subjects), files, nil
}

// discoverCorpus expands every root through the configured globs and
// returns the union, sorted and deduplicated.
func discoverCorpus(roots, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, root := range roots {
		matches, err := audit.Discover(root, patterns)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func emitGateReport(report *compliance.Report, files []string, strict bool, format string) error {
	status := report.Status
	if strict && report.WarningCount() > 0 {
		status = compliance.StatusFail
	}

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	} else {
		for _, f := range report.Errors() {
			fmt.Fprintf(os.Stderr, "✗ %s\n", f.String())
		}
		for _, f := range report.Warnings() {
			fmt.Printf("⚠  %s\n", f.String())
		}
		if report.ErrorCount() > 0 || report.WarningCount() > 0 {
			fmt.Println()
		}
		fmt.Printf("Gate: %d file(s), %d subject(s), %d error(s), %d warning(s)\n",
			len(files), report.Subjects, report.ErrorCount(), report.WarningCount())
		if strict && report.WarningCount() > 0 && report.Passed() {
			fmt.Println("Strict mode: warnings count as failures")
		}
		fmt.Println(status)
	}

	if status == compliance.StatusFail {
		return cli.NewCommandError("gate", fmt.Errorf("compliance gate failed"))
	}
	return nil
}

// watchGate runs the gate once, then re-runs it after every corpus or
// registry change until interrupted. A failing run keeps the watch
// alive; only setup problems terminate it.
func watchGate(cfg *config.Config, roots []string, strict bool, format string) error {
	ctx := cli.SetupSignalHandler()

	runOnce := func() error {
		report, files, err := gateOnce(cfg, roots)
		if err != nil {
			return err
		}
		return emitGateReport(report, files, strict, format)
	}

	if err := runOnce(); err != nil {
		var cmdErr *cli.CommandError
		if !errors.As(err, &cmdErr) {
			return err
		}
		// Keep watching: the whole point of watch mode is iterating
		// on a corpus until it passes.
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	watcherCfg := audit.DefaultWatcherConfig()
	watcherCfg.Paths = append(watcherCfg.Paths, roots...)
	if gateFlags.registry != "" {
		watcherCfg.Paths = append(watcherCfg.Paths, gateFlags.registry)
	} else if cfg.Registry.Path != "" {
		watcherCfg.Paths = append(watcherCfg.Paths, cfg.Registry.Path)
	}
	if cfg.Gate.WatchDebounce > 0 {
		watcherCfg.DebounceInterval = cfg.Gate.WatchDebounce
	}

	watcher, err := audit.NewWatcher(watcherCfg, slog.Default().With("component", "gate.watch"))
	if err != nil {
		return cli.NewCommandError("gate", err)
	}

	fmt.Fprintf(os.Stderr, "Watching %s for changes (press Ctrl+C to stop)\n", strings.Join(roots, ", "))
	if err := watcher.Watch(ctx, runOnce); err != nil {
		return cli.NewCommandError("gate", err)
	}
	return nil
}
