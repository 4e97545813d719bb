package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"xsscan/internal/ai"
	"xsscan/internal/config"
	"xsscan/internal/discovery"
	"xsscan/internal/logger"
	"xsscan/internal/models"
	"xsscan/internal/payloads"
	"xsscan/internal/reporter"
	"xsscan/internal/requester"
	"xsscan/internal/scanner"
)

var (
	targetURL  string
	httpMethod string
	paramFlags []string
	workers    int
	enableAI   bool
	insecure   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a reflected XSS scan against a target URL",
	Long: `The scan command probes every parameter of the target for reflection,
classifies the injection contexts, and tests context-specific payloads
until one is confirmed per context.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&targetURL, "url", "u", "", "Target URL (query parameters become the test set)")
	scanCmd.Flags().StringVarP(&httpMethod, "method", "m", "", "HTTP method: GET or POST")
	scanCmd.Flags().StringSliceVarP(&paramFlags, "param", "p", nil, "Parameter to test as name=value (repeatable)")
	scanCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers")
	scanCmd.Flags().BoolVar(&enableAI, "ai", false, "Enable AI payload generation")
	scanCmd.Flags().BoolVarP(&insecure, "insecure", "k", true, "Skip TLS certificate verification")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level})

	applyFlags(cmd, &cfg)
	if cfg.Target.URL == "" {
		return fmt.Errorf("no target URL: pass --url or set target.url in xsscan.yaml")
	}
	if !strings.HasPrefix(cfg.Target.URL, "http://") && !strings.HasPrefix(cfg.Target.URL, "https://") {
		cfg.Target.URL = "http://" + cfg.Target.URL
	}

	printBanner()

	client := requester.NewHTTPClient(requester.Options{
		Timeout:   time.Duration(cfg.Scanner.Timeout) * time.Second,
		VerifyTLS: cfg.Scanner.VerifyTLS,
		UserAgent: cfg.Scanner.UserAgent,
	})

	// Interrupt stops scheduling new parameter tasks; findings already
	// recorded are still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target, err := buildTarget(ctx, client, cfg)
	if err != nil {
		return err
	}
	if len(target.Params) == 0 {
		return fmt.Errorf("no parameters to test: pass --param or use a URL with a query string")
	}

	var gen *ai.Generator
	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			log.Warn().Msg("AI enabled but no API key configured, using templates only")
		} else {
			gen = ai.New(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
			log.Info().Str("model", cfg.AI.Model).Msg("AI payload generation enabled")
		}
	}

	collector := reporter.NewCollector(target.URL)
	catalog := payloads.NewCatalog(rand.New(rand.NewSource(time.Now().UnixNano())))
	engine := scanner.New(target, client, catalog, gen, collector)

	found := engine.Run(ctx)

	report := collector.Build(target.Method, len(target.Params))
	saveReports(cfg, report)
	printSummary(len(target.Params), found, report.Summary.TotalDuration)
	return nil
}

// applyFlags lets command-line flags override the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Settings) {
	if targetURL != "" {
		cfg.Target.URL = targetURL
	}
	if httpMethod != "" {
		cfg.Target.Method = strings.ToUpper(httpMethod)
	}
	if workers > 0 {
		cfg.Scanner.Workers = workers
	}
	if enableAI {
		cfg.AI.Enabled = true
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("XSSCAN_AI_API_KEY")
	}
	if cmd.Flags().Changed("insecure") {
		cfg.Scanner.VerifyTLS = !insecure
	}
	if outputDir != "" {
		cfg.Reporting.Path = outputDir
	}
	if len(paramFlags) > 0 {
		if cfg.Target.Params == nil {
			cfg.Target.Params = map[string]string{}
		}
		for _, p := range paramFlags {
			name, value, _ := strings.Cut(p, "=")
			if name != "" {
				cfg.Target.Params[name] = value
			}
		}
	}
}

// buildTarget assembles the immutable scan target, running parameter
// discovery when the config and flags supplied none.
func buildTarget(ctx context.Context, client *requester.HTTPClient, cfg config.Settings) (models.ScanTarget, error) {
	target := models.ScanTarget{
		URL:     cfg.Target.URL,
		Method:  cfg.Target.Method,
		Params:  cfg.Target.Params,
		Workers: cfg.Scanner.Workers,
	}
	if target.Method == "" {
		target.Method = "GET"
	}

	if len(target.Params) == 0 {
		result, err := discovery.Discover(ctx, client, target.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Parameter discovery incomplete")
		}
		target.Params = result.Params
		if result.BaseURL != "" {
			target.URL = result.BaseURL
		}
		if result.Method != "" {
			target.Method = result.Method
		}
	} else {
		// Strip the query string; baselines travel in Params.
		if base, _, found := strings.Cut(target.URL, "?"); found {
			target.URL = base
		}
	}
	return target, nil
}

func saveReports(cfg config.Settings, report reporter.Report) {
	now := time.Now()
	for _, format := range cfg.Reporting.Formats {
		switch strings.ToLower(format) {
		case "json":
			exp, err := reporter.NewJSONExporter(reporter.Filename(cfg.Reporting.Path, report.Summary.TargetURL, "json", now))
			if err == nil {
				err = exp.Export(report)
			}
			if err != nil {
				log.Error().Err(err).Msg("Failed to save JSON report")
			}
		case "html":
			exp, err := reporter.NewHTMLExporter(reporter.Filename(cfg.Reporting.Path, report.Summary.TargetURL, "html", now))
			if err == nil {
				err = exp.Export(report)
			}
			if err != nil {
				log.Error().Err(err).Msg("Failed to save HTML report")
			}
		default:
			log.Warn().Str("format", format).Msg("Unknown report format")
		}
	}
}

func printBanner() {
	color.Cyan(`
            ┌─────────────────────────────┐
            │ xsscan · context-aware XSS  │
            └─────────────────────────────┘`)
	color.Yellow("  Only test applications you are authorized to test.\n")
}

func printSummary(params, found int, duration string) {
	fmt.Println()
	color.Cyan("Scan complete in %s", duration)
	color.Green("  Parameters tested: %d", params)
	if found > 0 {
		color.Red("  Vulnerabilities found: %d", found)
	} else {
		color.Green("  Vulnerabilities found: 0")
	}
}
