package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/compliance"
	"barton-hq/meridian/pkg/numbering"
	"barton-hq/meridian/pkg/registry"
)

var benchFlags struct {
	registry    string
	count       int
	batch       int
	defectRate  float64
	parallelism int
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the compliance enforcer",
	Long: `Generate a synthetic identifier corpus from the registry catalog and
measure enforcement throughput and batch latency.

Identifiers are drawn from the registered databases, sub-hives, and
section ranges, with a configurable fraction of deliberate defects
mixed in so rule evaluation exercises both the passing and the
finding-producing paths.

Examples:
  barton bench
  barton bench --count 50000 --batch 500 --defect-rate 0.1`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVarP(&benchFlags.registry, "registry", "r", "", "registry file (built-in catalog when unset)")
	benchCmd.Flags().IntVar(&benchFlags.count, "count", 10000, "identifiers to evaluate")
	benchCmd.Flags().IntVar(&benchFlags.batch, "batch", 100, "identifiers per enforcement batch")
	benchCmd.Flags().Float64Var(&benchFlags.defectRate, "defect-rate", 0.05, "fraction of identifiers made defective")
	benchCmd.Flags().IntVar(&benchFlags.parallelism, "parallelism", 0, "enforcer workers (0 = one per CPU)")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg, err := resolveRegistry(benchFlags.registry, cfg)
	if err != nil {
		return cli.NewCommandError("bench", err)
	}

	if benchFlags.count <= 0 {
		return cli.NewCommandError("bench", fmt.Errorf("--count must be positive"))
	}
	if benchFlags.batch <= 0 {
		return cli.NewCommandError("bench", fmt.Errorf("--batch must be positive"))
	}

	raws := syntheticIdentifiers(reg, benchFlags.count, benchFlags.defectRate)

	fmt.Println("Barton Meridian Bench")
	fmt.Println("=====================")
	fmt.Printf("Registry:    %s\n", reg.Version())
	fmt.Printf("Identifiers: %d\n", len(raws))
	fmt.Printf("Batch size:  %d\n", benchFlags.batch)
	fmt.Printf("Defect rate: %.0f%%\n", benchFlags.defectRate*100)
	fmt.Println()
	fmt.Println("Running...")
	fmt.Println()

	enforcer := compliance.NewEnforcer(compliance.Config{
		Registry:    reg,
		Caller:      "barton-bench",
		Parallelism: benchFlags.parallelism,
	})

	results := runEnforcementBench(enforcer, raws, benchFlags.batch)
	displayBenchResults(results)
	return nil
}

type benchResults struct {
	identifiers   int
	batches       int
	findings      int
	failedBatches int
	duration      time.Duration
	latencies     []time.Duration
}

func runEnforcementBench(enforcer *compliance.Enforcer, raws []string, batch int) *benchResults {
	results := &benchResults{
		identifiers: len(raws),
		latencies:   make([]time.Duration, 0, (len(raws)+batch-1)/batch),
	}

	progress := cli.NewProgressReporter(nil)
	progress.Start(int64(len(raws)))

	start := time.Now()
	for begin := 0; begin < len(raws); begin += batch {
		end := begin + batch
		if end > len(raws) {
			end = len(raws)
		}

		batchStart := time.Now()
		report := enforcer.EvaluateIdentifiers(raws[begin:end], numbering.GrammarBarton)
		results.latencies = append(results.latencies, time.Since(batchStart))

		results.batches++
		results.findings += len(report.Findings)
		if !report.Passed() {
			results.failedBatches++
		}
		progress.Update(int64(end))
	}
	results.duration = time.Since(start)
	progress.Finish()

	return results
}

func displayBenchResults(results *benchResults) {
	fmt.Println()
	fmt.Println("Results:")
	fmt.Println("--------")
	fmt.Printf("Identifiers:  %d in %d batch(es)\n", results.identifiers, results.batches)
	fmt.Printf("Duration:     %.2fs\n", results.duration.Seconds())
	if results.duration > 0 {
		throughput := float64(results.identifiers) / results.duration.Seconds()
		fmt.Printf("Throughput:   %.0f identifiers/s\n", throughput)
	}
	fmt.Printf("Findings:     %d across %d failing batch(es)\n", results.findings, results.failedBatches)

	if len(results.latencies) > 0 {
		min, mean, median, p95, p99, max := calculatePercentiles(results.latencies)

		fmt.Println()
		fmt.Println("Batch latency:")
		fmt.Printf("  Min:     %.2fms\n", float64(min.Microseconds())/1000)
		fmt.Printf("  Mean:    %.2fms\n", float64(mean.Microseconds())/1000)
		fmt.Printf("  Median:  %.2fms\n", float64(median.Microseconds())/1000)
		fmt.Printf("  p95:     %.2fms\n", float64(p95.Microseconds())/1000)
		fmt.Printf("  p99:     %.2fms\n", float64(p99.Microseconds())/1000)
		fmt.Printf("  Max:     %.2fms\n", float64(max.Microseconds())/1000)
	}
}

// syntheticIdentifiers builds a deterministic identifier corpus from the
// catalog. Defects rotate through the three failure classes: wrong
// segment count, out-of-range section, and an empty segment.
func syntheticIdentifiers(reg *registry.Registry, count int, defectRate float64) []string {
	dbs := reg.Databases()
	sections := reg.Sections()
	subMin, subMax := reg.SubSubHiveRange()

	defectEvery := 0
	if defectRate >= 1 {
		defectEvery = 1
	} else if defectRate > 0 {
		defectEvery = int(1 / defectRate)
	}

	raws := make([]string, 0, count)
	for i := 0; i < count; i++ {
		db := dbs[i%len(dbs)]
		hive := db.SubHives[i%len(db.SubHives)]
		subSub := subMin + i%(subMax-subMin+1)
		span := sections[i%len(sections)]
		section := span.Min + i%(span.Max-span.Min+1)

		raw := fmt.Sprintf("%d.%d.%d.%d.%d", db.Code, hive.Code, subSub, section, i%10)

		if defectEvery > 0 && i%defectEvery == defectEvery-1 {
			switch i % 3 {
			case 0:
				raw = fmt.Sprintf("%d.%d.%d.%d", db.Code, hive.Code, subSub, section)
			case 1:
				raw = fmt.Sprintf("%d.%d.%d.999.%d", db.Code, hive.Code, subSub, i%10)
			default:
				raw = strings.Replace(raw, ".", "..", 1)
			}
		}
		raws = append(raws, raw)
	}
	return raws
}

func calculatePercentiles(latencies []time.Duration) (min, mean, median, p95, p99, max time.Duration) {
	if len(latencies) == 0 {
		return
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	min = sorted[0]
	max = sorted[len(sorted)-1]

	var sum time.Duration
	for _, lat := range sorted {
		sum += lat
	}
	mean = sum / time.Duration(len(sorted))

	median = sorted[len(sorted)/2]
	p95 = sorted[int(float64(len(sorted))*0.95)]
	p99 = sorted[int(float64(len(sorted))*0.99)]

	return
}
