// neardedup finds near-duplicate documents in a text collection using a
// Bloom pre-filter, MinHash/LSH candidate enumeration, and Union-Find
// clustering, with brute-force baselines for validation on small inputs.
package main

import (
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neardedup/neardedup/internal/baseline"
	"github.com/neardedup/neardedup/internal/config"
	"github.com/neardedup/neardedup/internal/dedup"
	"github.com/neardedup/neardedup/internal/fingerprint"
	"github.com/neardedup/neardedup/internal/ioload"
	"github.com/neardedup/neardedup/internal/report"
	"github.com/neardedup/neardedup/internal/tui"
	"github.com/neardedup/neardedup/internal/webapi"
)

var version = "0.1.0-dev"

var (
	inputFile   string
	queryText   string
	configFile  string
	outputDir   string
	outputFmt   string
	numBands    int
	rowsPerBand int
	numHashes   int
	shingleSize int
	probes      int
	threshold   float64
	ngramN      int
	baselineArg string
	verbose     bool
	searchPort  string
	searchRPS   int
	noTUI       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neardedup",
		Short: "Near-duplicate document detection over Bloom/MinHash/LSH",
		Long: `neardedup finds groups of near-duplicate documents in a text
collection.

Pipeline: Bloom filter exact-duplicate pre-screen, MinHash signatures,
banded LSH candidate enumeration, Union-Find clustering, optional
Jaccard refinement.`,
	}

	rootCmd.PersistentFlags().StringVarP(&inputFile, "input_file", "i", "", "Input file: TSV (doc text in column 2, or column 1) or .jsonl")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output_dir", "./output", "Directory for generated reports")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Report format: text or json")
	rootCmd.PersistentFlags().IntVar(&numBands, "num_bands", 10, "Number of LSH bands")
	rootCmd.PersistentFlags().IntVar(&rowsPerBand, "rows_per_band", 5, "Rows per LSH band")
	rootCmd.PersistentFlags().IntVar(&numHashes, "num_hashes", 50, "MinHash signature length (must equal num_bands*rows_per_band)")
	rootCmd.PersistentFlags().IntVar(&shingleSize, "shingle_size", 5, "Character shingle width")
	rootCmd.PersistentFlags().IntVar(&probes, "probes", 0, "Multi-probe LSH neighboring-bucket count (0 disables)")
	rootCmd.PersistentFlags().Float64Var(&threshold, "threshold", 0.7, "Similarity threshold for refinement, search, and jaccard baseline")
	rootCmd.PersistentFlags().IntVar(&ngramN, "n", 3, "N-gram size for the ngram baseline")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&noTUI, "no-tui", false, "Disable the progress dashboard and print plain-text status")

	dedupCmd := &cobra.Command{
		Use:   "dedup",
		Short: "Run the full Bloom/MinHash/LSH/Union-Find pipeline",
		RunE:  runDedup,
	}

	lshCmd := &cobra.Command{
		Use:   "lsh",
		Short: "Run LSH candidate enumeration and clustering without refinement",
		RunE:  runDedup,
	}

	improvedLSHCmd := &cobra.Command{
		Use:   "improved_lsh",
		Short: "Run LSH with Jaccard refinement (multi-probe expansion only when --probes > 0)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedupWith(func(cfg *dedup.Config) {
				cfg.RefineJaccard = true
			})
		},
	}

	unionFindCmd := &cobra.Command{
		Use:   "union_find_lsh",
		Short: "Run LSH candidate enumeration with explicit Union-Find clustering output",
		RunE:  runDedup,
	}

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Build a nearest-neighbor index and serve query mode",
		RunE:  runSearch,
	}
	searchCmd.Flags().StringVar(&queryText, "query", "", "Query document text (non-server mode)")
	searchCmd.Flags().StringVar(&searchPort, "port", ":8090", "HTTP port for search server mode (used with --serve)")
	searchCmd.Flags().IntVar(&searchRPS, "rate", 20, "Search endpoint requests-per-second limit")
	searchCmd.Flags().Bool("serve", false, "Start the HTTP/websocket search server instead of a one-shot query")

	baselineCmd := &cobra.Command{
		Use:   "baseline",
		Short: "Run a brute-force comparator for ground-truth validation",
		RunE:  runBaseline,
	}
	baselineCmd.Flags().StringVar(&baselineArg, "baseline", "md5", "Comparator: md5, ngram, jaccard, bloom, lsh, or tlsh")

	scurveCmd := &cobra.Command{
		Use:   "scurve",
		Short: "Print the LSH S-curve probability for a given Jaccard similarity",
		RunE:  runSCurve,
	}
	scurveCmd.Flags().Float64("jaccard", 0.5, "Jaccard similarity to evaluate")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("neardedup version %s\n", version)
		},
	}

	rootCmd.AddCommand(dedupCmd, lshCmd, improvedLSHCmd, unionFindCmd, searchCmd, baselineCmd, scurveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig starts from a YAML config file (if given) or the built-in
// defaults, then overwrites shingle width, MinHash/LSH geometry, probes,
// refinement threshold, output format and verbosity with the CLI flag
// values, and validates the result. Those fields always take the flag
// value, its default when the flag is not given, so the file's values
// for them have no effect; the file's Bloom and other Dedup settings
// are kept.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	cfg.Shingle.Width = shingleSize
	cfg.MinHash.NumHashes = numHashes
	cfg.LSH.NumBands = numBands
	cfg.LSH.RowsPerBand = rowsPerBand
	cfg.LSH.Probes = probes
	cfg.Dedup.RefineThreshold = threshold
	cfg.Output.Format = outputFmt
	cfg.Output.Verbose = verbose

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDocuments() ([]string, error) {
	if inputFile == "" {
		return nil, fmt.Errorf("neardedup: --input_file is required")
	}
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("neardedup: opening %s: %w", inputFile, err)
	}
	defer f.Close()

	if strings.HasSuffix(inputFile, ".jsonl") {
		return ioload.LoadJSONL(f)
	}
	return ioload.LoadTSV(f)
}

func runDedup(cmd *cobra.Command, args []string) error {
	return runDedupWith(nil)
}

func runDedupWith(adjust func(*dedup.Config)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := loadDocuments()
	if err != nil {
		return err
	}

	dedupCfg := cfg.ToDedupConfig()
	if adjust != nil {
		adjust(&dedupCfg)
	}

	dd, err := dedup.New(dedupCfg)
	if err != nil {
		return err
	}

	var dash *tui.Dashboard
	updates := make(chan tui.ProgressMsg, 8)
	if !noTUI {
		dash = tui.NewDashboard(updates)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	resultCh := make(chan *dedup.Result, 1)
	errCh := make(chan error, 1)

	go func() {
		updates <- tui.ProgressMsg{Phase: tui.PhaseExactDedup, Completed: 0, Total: len(docs)}
		updates <- tui.ProgressMsg{Phase: tui.PhaseSigning, Completed: 0, Total: len(docs)}
		updates <- tui.ProgressMsg{Phase: tui.PhaseIndexing, Completed: 0, Total: len(docs)}

		result, err := dd.Run(docs)
		if err != nil {
			errCh <- err
			close(updates)
			return
		}

		updates <- tui.ProgressMsg{Phase: tui.PhaseClustering, Completed: len(docs), Total: len(docs)}
		updates <- tui.ProgressMsg{Phase: tui.PhaseDone, Completed: len(docs), Total: len(docs)}
		resultCh <- result
		close(updates)
	}()

	if dash != nil {
		dashErrCh := make(chan error, 1)
		go func() { dashErrCh <- tui.Run(dash) }()

		select {
		case err := <-errCh:
			return err
		case result := <-resultCh:
			dash.SetSummary(len(result.Clusters), len(result.ExactDuplicates))
			<-dashErrCh
			return emitResult(result, len(docs))
		case <-sigCh:
			return fmt.Errorf("neardedup: interrupted")
		}
	}

	select {
	case err := <-errCh:
		return err
	case result := <-resultCh:
		return emitResult(result, len(docs))
	case <-sigCh:
		return fmt.Errorf("neardedup: interrupted")
	}
}

func emitResult(result *dedup.Result, total int) error {
	rpt := report.NewReport("neardedup run", total, result.ExactDuplicates, result.Clusters)

	if outputFmt == "" {
		outputFmt = "text"
	}

	mgr := report.NewManager(outputDir)
	if _, ok := mgr.GetGenerator(outputFmt); !ok {
		return fmt.Errorf("neardedup: unknown report format %q", outputFmt)
	}
	if err := mgr.WriteToWriter(rpt, outputFmt, os.Stdout); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "documents: %d, exact duplicates: %d, clusters: %d\n",
			total, len(result.ExactDuplicates), len(result.Clusters))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := loadDocuments()
	if err != nil {
		return err
	}

	dd, err := dedup.New(cfg.ToDedupConfig())
	if err != nil {
		return err
	}
	if err := dd.BuildIndex(docs); err != nil {
		return err
	}

	serve, _ := cmd.Flags().GetBool("serve")
	if !serve {
		if queryText == "" {
			return fmt.Errorf("neardedup: --query is required unless --serve is set")
		}
		matches := dd.Query(queryText, threshold)
		for _, id := range matches {
			fmt.Println(id)
		}
		return nil
	}

	srv := webapi.NewServer(dd, webapi.Config{RequestsPerSecond: searchRPS})
	srv.ReportProgress(len(docs), len(docs), true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(searchPort); err != nil {
			errCh <- err
		}
	}()

	fmt.Printf("search server listening on %s\n", searchPort)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		fmt.Println("shutting down search server...")
		return srv.Stop()
	}
}

func runBaseline(cmd *cobra.Command, args []string) error {
	docs, err := loadDocuments()
	if err != nil {
		return err
	}

	var clusters [][]int
	switch baselineArg {
	case "md5":
		clusters = baseline.FindExactDuplicates(docs)
	case "ngram":
		clusters = baseline.FindNgramDuplicates(docs, ngramN, threshold)
	case "jaccard":
		clusters = baseline.FindJaccardDuplicates(docs, threshold)
	case "bloom":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		clusters, err = baseline.FindBloomDuplicates(docs, cfg.Bloom.Capacity, cfg.Bloom.FalsePositiveRate)
		if err != nil {
			return err
		}
	case "lsh":
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dd, err := dedup.New(cfg.ToDedupConfig())
		if err != nil {
			return err
		}
		result, err := dd.Run(docs)
		if err != nil {
			return err
		}
		clusters = result.Clusters
	case "tlsh":
		clusters, err = baseline.FindTLSHDuplicates(docs, fingerprint.DefaultConfig())
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("neardedup: unknown baseline %q (want md5, ngram, jaccard, bloom, lsh, or tlsh)", baselineArg)
	}

	rpt := report.NewReport("baseline run", len(docs), nil, clusters)
	mgr := report.NewManager(outputDir)
	return mgr.WriteToWriter(rpt, outputFmt, os.Stdout)
}

func runSCurve(cmd *cobra.Command, args []string) error {
	jaccard, _ := cmd.Flags().GetFloat64("jaccard")
	r := float64(rowsPerBand)
	b := float64(numBands)
	p := 1 - math.Pow(1-math.Pow(jaccard, r), b)
	fmt.Printf("P(detect | J=%.4f, bands=%d, rows=%d) = %.6f\n", jaccard, numBands, rowsPerBand, p)
	return nil
}
