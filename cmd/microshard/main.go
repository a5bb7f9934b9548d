// MicroShard CLI - Command-line tool for MicroShard UUID generation and
// inspection
//
// Usage:
//   microshard generate [flags]      Generate MicroShard UUIDs
//   microshard parse <id>            Parse and inspect an ID
//   microshard from-iso <ts> [flags] Build an ID from an ISO 8601 timestamp
//   microshard validate <input>      Validate an ID or an ISO 8601 timestamp
//   microshard bench                 Run performance benchmarks
//
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	microshard "github.com/dilipvamsi/microshard-uuid"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "generate", "gen", "g":
		cmdGenerate(os.Args[2:])
	case "parse", "p":
		cmdParse(os.Args[2:])
	case "from-iso", "iso", "i":
		cmdFromISO(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "bench", "benchmark", "b":
		cmdBench(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("microshard CLI version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `MicroShard CLI - Sortable, shard-aware 128-bit UUID generator

Usage:
  microshard <command> [flags]

Commands:
  generate, gen, g      Generate MicroShard UUIDs
  parse, p              Parse and inspect an ID
  from-iso, iso, i      Build an ID from an ISO 8601 timestamp
  validate, val, v      Validate an ID or an ISO 8601 timestamp
  bench, b              Run performance benchmarks
  version               Show version information
  help                  Show this help message

Examples:
  # Generate a single ID
  microshard generate --shard 42

  # Generate 10 IDs as JSON
  microshard generate --count 10 --shard 42 --json

  # Parse and inspect an ID
  microshard parse 0632e9f3-64d2-8d2a-8000-02ba49f3c1e7

  # Build an ID for a known instant (backfill)
  microshard from-iso "2023-01-01T00:00:00.000000" --shard 42

  # Validate an ID or a timestamp
  microshard validate 0632e9f3-64d2-8d2a-8000-02ba49f3c1e7
  microshard validate "2024-02-29T12:00:00"

  # Run benchmarks
  microshard bench --duration 5s

For detailed help on a command:
  microshard <command> --help

`)
}

// shardFlag validates a --shard value, which arrives as int64 from the flag
// package and may exceed the 32-bit field.
func shardFlag(v int64) uint32 {
	shard, err := microshard.ShardFromInt64(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return shard
}

// ============================================================================
// Generate Command
// ============================================================================

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("count", 1, "Number of IDs to generate")
	shardID := fs.Int64("shard", 0, "Shard ID (0-4294967295)")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	batch := fs.Bool("batch", false, "Use batch generation for better performance")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: microshard generate [flags]

Generate one or more MicroShard UUIDs.

Flags:
  --count N          Number of IDs to generate (default: 1)
  --shard N          Shard ID 0-4294967295 (default: 0)
  --json             Output as JSON with full details
  --batch            Use batch generation (faster for large counts)

Examples:
  microshard generate --shard 42
  microshard generate --count 1000 --shard 42
  microshard generate --json --shard 5
`)
	}

	fs.Parse(args)

	gen := microshard.New(shardFlag(*shardID))

	var ids []microshard.ID
	var genErr error
	startTime := time.Now()

	if *batch && *count > 1 {
		ids, genErr = gen.NewIDBatch(context.Background(), *count)
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", genErr)
			os.Exit(1)
		}
	} else {
		ids = make([]microshard.ID, *count)
		for i := 0; i < *count; i++ {
			ids[i], genErr = gen.NewID()
			if genErr != nil {
				fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", genErr)
				os.Exit(1)
			}
		}
	}

	duration := time.Since(startTime)

	if *jsonOutput {
		outputJSON(ids, duration)
	} else {
		for _, id := range ids {
			fmt.Println(id)
		}

		// Show performance stats for large batches
		if *count > 100 {
			rate := float64(*count) / duration.Seconds()
			fmt.Fprintf(os.Stderr, "\nGenerated %d IDs in %v (%.0f IDs/sec)\n",
				*count, duration, rate)
		}
	}
}

func outputJSON(ids []microshard.ID, duration time.Duration) {
	type IDInfo struct {
		ID        string `json:"id"`
		Timestamp string `json:"timestamp"`
		Micros    uint64 `json:"micros"`
		Shard     uint32 `json:"shard"`
		Random    uint64 `json:"random"`
	}

	type Output struct {
		Count      int      `json:"count"`
		Duration   string   `json:"duration"`
		RatePerSec float64  `json:"rate_per_sec"`
		IDs        []IDInfo `json:"ids"`
	}

	infos := make([]IDInfo, len(ids))
	for i, id := range ids {
		infos[i] = IDInfo{
			ID:        id.String(),
			Timestamp: id.ISOTime(),
			Micros:    id.Micros(),
			Shard:     id.Shard(),
			Random:    id.Random(),
		}
	}

	output := Output{
		Count:      len(ids),
		Duration:   duration.String(),
		RatePerSec: float64(len(ids)) / duration.Seconds(),
		IDs:        infos,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

// ============================================================================
// Parse Command
// ============================================================================

func cmdParse(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: microshard parse <id>\n")
		fmt.Fprintf(os.Stderr, "\nParse and inspect a MicroShard UUID.\n")
		fmt.Fprintf(os.Stderr, "\nHyphens may appear anywhere; the bare 32-digit form works too.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  microshard parse 0632e9f3-64d2-8d2a-8000-02ba49f3c1e7\n")
		fmt.Fprintf(os.Stderr, "  microshard parse 0632e9f364d28d2a800002ba49f3c1e7\n")
		os.Exit(1)
	}

	id, err := microshard.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("MicroShard UUID: %s\n", id)
	fmt.Printf("\n")
	fmt.Printf("Components:\n")
	fmt.Printf("  Timestamp:  %s (%d us since epoch)\n", id.ISOTime(), id.Micros())
	fmt.Printf("  Shard ID:   %d\n", id.Shard())
	fmt.Printf("  Random:     %#x\n", id.Random())
	fmt.Printf("  Version:    %d\n", id.VersionField())
	fmt.Printf("  Variant:    %d\n", id.VariantField())
	fmt.Printf("\n")
	hi, lo := id.Parts()
	fmt.Printf("Raw halves:   %016x %016x\n", hi, lo)
	fmt.Printf("Age:          %v\n", id.Age().Round(time.Millisecond))
	fmt.Printf("Valid:        %v\n", id.IsValid())
}

// ============================================================================
// From-ISO Command
// ============================================================================

func cmdFromISO(args []string) {
	fs := flag.NewFlagSet("from-iso", flag.ExitOnError)
	shardID := fs.Int64("shard", 0, "Shard ID (0-4294967295)")
	count := fs.Int("count", 1, "Number of IDs to build for the instant")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: microshard from-iso <timestamp> [flags]

Build IDs for a specific instant, e.g. when backfilling historical records.
The timestamp is "YYYY-MM-DDTHH:MM:SS[.ffffff]" in UTC; each ID gets fresh
entropy, so repeated runs differ.

Flags:
  --shard N          Shard ID 0-4294967295 (default: 0)
  --count N          Number of IDs to build (default: 1)

Examples:
  microshard from-iso "2023-01-01T00:00:00.000000" --shard 42
  microshard from-iso "2024-02-29T12:00:00" --shard 7 --count 5
`)
	}

	if len(args) < 1 || args[0] == "--help" || args[0] == "-h" {
		fs.Usage()
		os.Exit(1)
	}

	text := args[0]
	fs.Parse(args[1:])

	shard := shardFlag(*shardID)
	for i := 0; i < *count; i++ {
		id, err := microshard.FromISO(text, shard)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	}
}

// ============================================================================
// Validate Command
// ============================================================================

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: microshard validate <input>\n")
		fmt.Fprintf(os.Stderr, "\nValidate a MicroShard UUID or an ISO 8601 timestamp.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  microshard validate 0632e9f3-64d2-8d2a-8000-02ba49f3c1e7\n")
		fmt.Fprintf(os.Stderr, "  microshard validate \"2024-02-29T12:00:00\"\n")
		os.Exit(1)
	}

	input := args[0]

	// Try the input as a timestamp first, then as an ID. The two forms
	// cannot collide: a timestamp always contains characters outside hex.
	if microshard.ValidateISO(input) {
		micros, _ := microshard.ParseISO(input)
		fmt.Printf("VALID: ISO 8601 timestamp\n")
		fmt.Printf("\n")
		fmt.Printf("  Normalized: %s\n", microshard.FormatISO(micros))
		fmt.Printf("  Micros:     %d\n", micros)
		return
	}

	id, err := microshard.Parse(input)
	if err != nil {
		fmt.Printf("INVALID: %v\n", err)
		os.Exit(1)
	}

	if !id.IsValid() {
		fmt.Printf("INVALID: version/variant fields do not match\n")
		fmt.Printf("\n")
		fmt.Printf("  Version:  %d (want %d)\n", id.VersionField(), microshard.Version)
		fmt.Printf("  Variant:  %d (want %d)\n", id.VariantField(), microshard.Variant)
		os.Exit(1)
	}

	fmt.Printf("VALID: ID structure is valid\n")
	fmt.Printf("\n")
	fmt.Printf("Components:\n")
	fmt.Printf("  Timestamp:  %s\n", id.ISOTime())
	fmt.Printf("  Shard ID:   %d\n", id.Shard())
	fmt.Printf("  Random:     %#x\n", id.Random())
	fmt.Printf("  Age:        %v\n", id.Age().Round(time.Millisecond))
}

// ============================================================================
// Benchmark Command
// ============================================================================

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	duration := fs.Duration("duration", 3*time.Second, "Benchmark duration")
	shardID := fs.Int64("shard", 0, "Shard ID (0-4294967295)")
	batchSize := fs.Int("batch", 1000, "Batch size for batch generation test")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: microshard bench [flags]

Run performance benchmarks for ID generation and parsing.

Flags:
  --duration D      Benchmark duration per test (default: 3s)
  --shard N         Shard ID 0-4294967295 (default: 0)
  --batch N         Batch size for batch test (default: 1000)

Examples:
  microshard bench --duration 5s
  microshard bench --shard 42 --duration 10s
`)
	}

	fs.Parse(args)

	gen := microshard.New(shardFlag(*shardID))
	fmt.Printf("Running benchmarks (duration: %v, shard: %d)\n\n", *duration, gen.Shard())
	ctx := context.Background()

	// Benchmark 1: Single ID generation
	fmt.Printf("1. Single ID Generation:\n")
	count := 0
	start := time.Now()
	deadline := start.Add(*duration)
	for time.Now().Before(deadline) {
		if _, err := gen.NewID(); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", err)
			break
		}
		count++
	}
	elapsed := time.Since(start)
	fmt.Printf("   Generated: %d IDs\n", count)
	fmt.Printf("   Rate:      %.0f IDs/sec\n", float64(count)/elapsed.Seconds())
	fmt.Printf("   Latency:   %v per ID\n\n", elapsed/time.Duration(count))

	// Benchmark 2: Batch generation
	fmt.Printf("2. Batch Generation (batch size %d):\n", *batchSize)
	count = 0
	start = time.Now()
	deadline = start.Add(*duration)
	for time.Now().Before(deadline) {
		ids, err := gen.NewIDBatch(ctx, *batchSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", err)
			break
		}
		count += len(ids)
	}
	elapsed = time.Since(start)
	fmt.Printf("   Generated: %d IDs\n", count)
	fmt.Printf("   Rate:      %.0f IDs/sec\n", float64(count)/elapsed.Seconds())
	fmt.Printf("   Latency:   %v per ID\n\n", elapsed/time.Duration(count))

	// Benchmark 3: Parse
	fmt.Printf("3. Text Parsing:\n")
	sample := gen.MustNewID().String()
	count = 0
	start = time.Now()
	deadline = start.Add(*duration)
	for time.Now().Before(deadline) {
		if _, err := microshard.Parse(sample); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing: %v\n", err)
			break
		}
		count++
	}
	elapsed = time.Since(start)
	fmt.Printf("   Parsed:    %d IDs\n", count)
	fmt.Printf("   Rate:      %.0f parses/sec\n", float64(count)/elapsed.Seconds())
	fmt.Printf("   Latency:   %v per parse\n", elapsed/time.Duration(count))
}
