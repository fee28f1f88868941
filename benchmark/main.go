// Package main provides a performance benchmarking tool for the riskboard CLI.
// It generates synthetic record files of increasing size, then times the dashboard
// and table commands against the file source and the SQLite store source,
// treating the first successful store run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - riskboard binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated record files and the benchmark store
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/riskboard/schema"
)

// BenchmarkResult holds the result of a benchmark run (file average, cold store run and average of warm store runs).
type BenchmarkResult struct {
	Size     int
	Command  string
	Grouping string
	FileTime string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	FileRuns   int
	StoreRuns  int
	Sizes      []int
	Groupings  []string
	Commands   []string
	RecordSeed uint64
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    5 * time.Minute,
		FileRuns:   3,
		StoreRuns:  4,
		Sizes:      []int{1_000, 10_000, 100_000},
		Groupings:  []string{"day", "week", "month"},
		Commands:   []string{"dashboard", "table"},
		RecordSeed: 42,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config.Commands)
}

// checkPrerequisites verifies that the riskboard binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("riskboard"); err != nil {
		return fmt.Errorf("riskboard binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, file: %d runs, store: %d runs\n",
		len(config.Sizes), config.Timeout, config.FileRuns, config.StoreRuns)

	rng := rand.New(rand.NewPCG(config.RecordSeed, config.RecordSeed))
	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %d records\n", size)

		recordsPath := filepath.Join(config.WorkDir, fmt.Sprintf("records_%d.json", size))
		if err := writeSyntheticRecords(recordsPath, size, rng); err != nil {
			fmt.Printf("  Skipping: %v\n", err)
			continue
		}

		storePath := filepath.Join(config.WorkDir, fmt.Sprintf("records_%d.db", size))
		_ = os.Remove(storePath)
		importCmd := exec.Command("riskboard", "import", recordsPath, "--store-backend", "sqlite", "--store-db-connect", storePath)
		if output, err := importCmd.CombinedOutput(); err != nil {
			fmt.Printf("  Skipping: import failed: %v\nOutput: %s\n", err, string(output))
			continue
		}

		for _, command := range config.Commands {
			for _, grouping := range config.Groupings {
				if command == "table" && grouping != config.Groupings[0] {
					continue // the table does not bucket
				}
				result := runBenchmarkSuite(config, size, command, grouping, recordsPath, storePath)
				results = append(results, result)
			}
		}
	}

	return results
}

// writeSyntheticRecords writes n random records spread over the last two years.
func writeSyntheticRecords(path string, n int, rng *rand.Rand) error {
	bands := []schema.RiskBand{schema.NoRisk, schema.LowerRisk, schema.AverageRisk, schema.HigherRisk}
	end := schema.DateOf(time.Now())
	records := make([]schema.Record, n)
	for i := range records {
		created := end.AddDays(-rng.IntN(730))
		r := schema.Record{
			ID:           100000 + i,
			Summary:      fmt.Sprintf("Synthetic bug %d", i),
			CreationDate: created,
			Regression:   rng.IntN(3) == 0,
			Fixed:        rng.IntN(4) != 0,
			RiskBand:     bands[rng.IntN(len(bands))],
			MostCommonRegressionComponents: map[string]float64{
				"Core::DOM":     rng.Float64(),
				"Firefox::Tabs": rng.Float64(),
			},
		}
		if r.Fixed {
			resolved := created.AddDays(rng.IntN(60))
			r.Date = &resolved
			ttb := float64(rng.IntN(30))
			r.TimeToBug = &ttb
		}
		if rng.IntN(2) == 0 {
			r.Types = []schema.BugType{schema.AllBugTypes[rng.IntN(len(schema.AllBugTypes))]}
		}
		for range rng.IntN(4) {
			added, unknown := rng.IntN(200), rng.IntN(10)
			covered := rng.IntN(added + 1)
			r.Commits = append(r.Commits, schema.Commit{
				Testing:  schema.AllTestingTags[rng.IntN(len(schema.AllTestingTags))],
				Coverage: &schema.Coverage{Added: &added, Covered: &covered, Unknown: &unknown},
			})
		}
		records[i] = r
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite runs both file and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, size int, command, grouping, recordsPath, storePath string) BenchmarkResult {
	fmt.Printf("Running %s grouped by %s\n", command, grouping)

	// Helper to run a benchmark phase
	runPhase := func(args []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	common := []string{"--grouping", grouping, "--output-file", os.DevNull}

	// Phase 1: file source
	_, fileAvg := runPhase(append([]string{"--input", recordsPath}, common...), config.FileRuns, "File")

	// Phase 2: store source
	storeArgs := append([]string{"--source", "store", "--store-backend", "sqlite", "--store-db-connect", storePath}, common...)
	coldTime, warmAvg := runPhase(storeArgs, config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  File average: %s, Cold time: %s, Warm average: %s\n", fileAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Size:     size,
		Command:  command,
		Grouping: grouping,
		FileTime: fileAvg,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a riskboard command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command string, extraArgs []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{command, "--color", "no"}, extraArgs...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("riskboard", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates the result was written
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "💾 Wrote")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/riskboard_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"records", "cmd", "grouping", "file_warm_avg", "store_cold", "store_warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		rec := []string{fmt.Sprint(result.Size), result.Command, result.Grouping, result.FileTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, commands []string) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %8d records by %-5s: File: %s, Cold: %s, Warm: %s\n",
					result.Size, result.Grouping, result.FileTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
