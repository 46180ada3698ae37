package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-proxy/internal/probe/client"
	"golang-stock-proxy/internal/probe/config"
	"golang-stock-proxy/internal/probe/scenario"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/telegram"
	"golang-stock-proxy/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	configPath string
	baseURL    string
	verbose    bool
	wait       time.Duration

	stockCode    string
	enableAI     bool
	outputDir    string
	sendTelegram bool
	schedule     string
)

// app bundles what every subcommand needs.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	runner *scenario.Runner
}

func setup(withTelegram bool) *app {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if baseURL != "" {
		cfg.Probe.BaseURL = baseURL
	}
	if stockCode == "" {
		stockCode = cfg.Probe.StockCode
	}
	if outputDir == "" {
		outputDir = cfg.Probe.OutputDir
	}

	level := cfg.Logger.Level
	if verbose {
		level = "debug"
	}
	appLogger, err := logger.New(level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	var notifier telegram.Notifier
	if withTelegram && cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	analysisClient := client.NewAnalysisClient(cfg.Probe.BaseURL, cfg.Probe.Timeout, cfg.Probe.StreamTimeout, appLogger)

	if wait <= 0 {
		wait = cfg.Probe.Wait
	}
	if wait > 0 {
		fmt.Printf("等待应用启动 (%s)...\n", wait)
		time.Sleep(wait)
	}

	fmt.Printf("🚀 目标服务: %s\n\n", cfg.Probe.BaseURL)
	return &app{
		cfg:    cfg,
		log:    appLogger,
		runner: scenario.NewRunner(analysisClient, notifier, os.Stdout, verbose, appLogger),
	}
}

var errScenarioFailed = errors.New("one or more probe scenarios failed")

// finish prints the summary and flushes the logger. It returns
// errScenarioFailed when anything failed so main can exit non-zero.
func finish(a *app, results []scenario.Result) error {
	defer func() { _ = a.log.Sync() }()
	if !scenario.PrintSummary(os.Stdout, results) {
		return errScenarioFailed
	}
	return nil
}

func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Checks GET /health",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(false)
		return finish(a, []scenario.Result{a.runner.Health(ctx)})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Checks GET /api/config/ai",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(false)
		return finish(a, []scenario.Result{a.runner.Config(ctx)})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Runs a non-streaming analysis (both AI and fallback cases unless --ai is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(false)
		if cmd.Flags().Changed("ai") {
			return finish(a, []scenario.Result{a.runner.Analyze(ctx, stockCode, enableAI)})
		}
		return finish(a, a.runner.AnalyzeCases(ctx, stockCode))
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Runs a streaming analysis and validates the event order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(false)
		return finish(a, []scenario.Result{a.runner.Stream(ctx, stockCode, enableAI)})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generates a Markdown analysis report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(sendTelegram)
		return finish(a, []scenario.Result{a.runner.Report(ctx, stockCode, enableAI, outputDir, sendTelegram)})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Runs every scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(false)
		return finish(a, a.runner.All(ctx, stockCode, outputDir))
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Runs every scenario on a cron schedule until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := newContext()
		defer stop()
		a := setup(false)
		defer func() { _ = a.log.Sync() }()

		if schedule == "" {
			schedule = a.cfg.Probe.Schedule
		}

		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		c := cron.New(cron.WithParser(parser), cron.WithLocation(utils.GetCSTTimeLocation()))
		_, err := c.AddFunc(schedule, func() {
			results := a.runner.All(ctx, stockCode, outputDir)
			if !scenario.PrintSummary(os.Stdout, results) {
				a.log.Warn("Probe run failed", logger.StringField("schedule", schedule))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}

		a.log.Info("Watching analysis service", logger.StringField("schedule", schedule))
		c.Start()
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "probe",
		Short:         "Probes the stock analysis service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-probe.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Analysis service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print full payloads and debug logs")
	rootCmd.PersistentFlags().DurationVar(&wait, "wait", 0, "Wait before probing, e.g. 3s")

	for _, cmd := range []*cobra.Command{analyzeCmd, streamCmd, reportCmd, allCmd, watchCmd} {
		cmd.Flags().StringVar(&stockCode, "code", "", "Stock code (defaults to probe.stock_code)")
	}
	for _, cmd := range []*cobra.Command{analyzeCmd, streamCmd, reportCmd} {
		cmd.Flags().BoolVar(&enableAI, "ai", false, "Enable AI analysis")
	}
	for _, cmd := range []*cobra.Command{reportCmd, allCmd, watchCmd} {
		cmd.Flags().StringVar(&outputDir, "out", "", "Report output directory (defaults to probe.output_dir)")
	}
	reportCmd.Flags().BoolVar(&sendTelegram, "telegram", false, "Push the report to Telegram")
	watchCmd.Flags().StringVar(&schedule, "schedule", "", "Cron spec (defaults to probe.schedule)")

	rootCmd.AddCommand(healthCmd, configCmd, analyzeCmd, streamCmd, reportCmd, allCmd, watchCmd)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScenarioFailed) {
			fmt.Fprintf(os.Stderr, "Error executing probe CLI: %s\n", err)
		}
		os.Exit(1)
	}
}
