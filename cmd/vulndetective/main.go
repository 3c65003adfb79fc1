// VulnDetective - CVSS scoring and report toolkit for detected weaknesses
//
// Usage:
//
//	Score a findings file produced by the detection pipeline:
//	    vulndetective -findings findings.json -output ./reports
//
//	Download a remote source file for analysis:
//	    vulndetective -fetch https://github.com/org/repo/blob/main/app.py
//
//	Persist results and expose Prometheus metrics:
//	    vulndetective -findings findings.json -save -metrics-addr :9090
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vulndetective/vulndetective/pkg/config"
	"github.com/vulndetective/vulndetective/pkg/cvss"
	"github.com/vulndetective/vulndetective/pkg/fetch"
	"github.com/vulndetective/vulndetective/pkg/finding"
	"github.com/vulndetective/vulndetective/pkg/logging"
	"github.com/vulndetective/vulndetective/pkg/metrics"
	"github.com/vulndetective/vulndetective/pkg/report"
	"github.com/vulndetective/vulndetective/pkg/store"
)

const (
	appName    = "vulndetective"
	appVersion = "1.0.0"
)

// findingsInput is the JSON document the detection pipeline hands over.
// A bare array of findings is also accepted.
type findingsInput struct {
	Filename  string            `json:"filename"`
	Language  string            `json:"language"`
	LineCount int               `json:"line_count"`
	SizeBytes int               `json:"size_bytes"`
	Findings  []finding.Finding `json:"findings"`
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	findingsPath := flag.String("findings", "", "Path to findings JSON produced by the detection pipeline")
	fetchURL := flag.String("fetch", "", "Remote source URL to download for analysis")
	outputDir := flag.String("output", "", "Report output directory (overrides config)")
	formats := flag.String("formats", "", "Comma-separated report formats: json,html (overrides config)")
	save := flag.Bool("save", false, "Persist the report to the SQLite store")
	minConfidence := flag.Float64("min-confidence", -1, "Drop findings below this confidence (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	verbose := flag.Bool("verbose", false, "Verbose output")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, appVersion)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *formats != "" {
		cfg.Output.Formats = strings.Split(*formats, ",")
	}
	if *minConfidence >= 0 {
		cfg.Analysis.ConfidenceThreshold = *minConfidence
	}
	if *save {
		cfg.Storage.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	level := logging.LevelFromString(cfg.LogLevel)
	if *verbose {
		level = logging.LevelDebug
	}
	log := logging.New(appName, level)

	m := metrics.New(nil)
	if *metricsAddr != "" {
		go func() {
			log.Info("serving metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, m.Handler()); err != nil {
				log.Error("metrics server: %v", err)
			}
		}()
	}

	ctx := context.Background()

	if *fetchURL != "" {
		runFetch(ctx, cfg, log, m, *fetchURL)
		if *findingsPath == "" {
			return
		}
	}

	if *findingsPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -findings or -fetch")
		flag.Usage()
		os.Exit(2)
	}

	runScore(ctx, cfg, log, m, *findingsPath)
}

// runFetch downloads a remote source file into the output directory so an
// external detector can analyze it.
func runFetch(ctx context.Context, cfg *config.Config, log logging.Logger, m *metrics.Metrics, rawURL string) {
	fetcher, err := fetch.New(fetch.Options{
		GitHubToken:       cfg.Fetch.GitHubToken,
		GitLabToken:       cfg.Fetch.GitLabToken,
		Timeout:           cfg.Fetch.Timeout,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		MaxFileSize:       cfg.Analysis.MaxFileSize,
		Logger:            log,
	})
	if err != nil {
		fatal("create fetcher: %v", err)
	}

	source := fetch.SourceHTTP
	if u, err := url.Parse(rawURL); err == nil {
		source = fetch.Classify(u)
	}

	res, err := fetcher.Fetch(ctx, rawURL)
	m.ObserveFetch(string(source), err)
	if err != nil {
		fatal("fetch %s: %v", rawURL, err)
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		fatal("create output dir: %v", err)
	}
	dest := filepath.Join(cfg.Output.Dir, res.Filename)
	if err := os.WriteFile(dest, []byte(res.Content), 0o644); err != nil {
		fatal("write %s: %v", dest, err)
	}

	fmt.Printf("Downloaded %s (%d bytes, language %s) to %s\n",
		res.Filename, len(res.Content), res.Language, dest)
}

// runScore scores a findings file and writes the reports.
func runScore(ctx context.Context, cfg *config.Config, log logging.Logger, m *metrics.Metrics, path string) {
	started := time.Now()

	input, err := readFindings(path)
	if err != nil {
		fatal("read findings: %v", err)
	}

	kept := input.Findings[:0]
	for _, f := range input.Findings {
		if f.Confidence >= cfg.Analysis.ConfidenceThreshold {
			kept = append(kept, f)
		} else {
			log.Debug("dropping %s at line %d: confidence %.2f below threshold %.2f",
				f.VulnType, f.LineNumber, f.Confidence, cfg.Analysis.ConfidenceThreshold)
		}
	}

	calc := cvss.NewCalculator()
	scored := report.ScoreFindings(calc, kept)
	for _, s := range scored {
		m.ObserveScore(s.CVSS, s.RiskScore)
	}

	target := report.Target{
		Filename:  input.Filename,
		Language:  input.Language,
		LineCount: input.LineCount,
		SizeBytes: input.SizeBytes,
	}
	if target.Filename == "" {
		target.Filename = filepath.Base(path)
	}

	rep := report.New(report.Tool{Name: appName, Version: appVersion}, target, scored)

	printTable(rep)

	if err := writeReports(cfg, log, rep); err != nil {
		fatal("write reports: %v", err)
	}

	if cfg.Storage.Enabled {
		st, err := store.Open(cfg.Storage.DatabasePath, log)
		if err != nil {
			fatal("open store: %v", err)
		}
		defer st.Close()
		if err := st.SaveReport(ctx, rep); err != nil {
			fatal("save report: %v", err)
		}
		log.Info("report %s saved to %s", rep.ID, cfg.Storage.DatabasePath)
	}

	m.ObserveScanDuration(time.Since(started).Seconds())
}

func readFindings(path string) (*findingsInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var input findingsInput
	if err := json.Unmarshal(data, &input); err == nil && len(input.Findings) > 0 {
		return &input, nil
	}

	// Fall back to a bare array of findings.
	var findings []finding.Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &findingsInput{Findings: findings}, nil
}

func printTable(rep *report.Report) {
	fmt.Printf("\n%d finding(s) in %s:\n\n", len(rep.Findings), rep.Target.Filename)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tLINE\tSEVERITY\tBASE\tVECTOR\tRISK")
	for _, s := range rep.Findings {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.1f\t%s\t%.1f\n",
			s.VulnType, s.LineNumber, s.CVSS.Severity, s.CVSS.BaseScore,
			s.CVSS.VectorString, s.RiskScore)
	}
	w.Flush()

	fmt.Printf("\nHighest severity: %s  Max risk: %.1f  Avg base: %.1f\n",
		rep.Stats.HighestSeverity, rep.Stats.MaxRiskScore, rep.Stats.AvgBaseScore)
}

func writeReports(cfg *config.Config, log logging.Logger, rep *report.Report) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}

	for _, format := range cfg.Output.Formats {
		path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("report_%s.%s", rep.ID, format))
		f, err := os.Create(path)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			err = rep.WriteJSON(f)
		case "html":
			err = rep.WriteHTML(f)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log.Info("wrote %s", path)
	}
	return nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
