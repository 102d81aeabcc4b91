package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/llm"
	"StockLens/internal/logging"
	"StockLens/internal/news"
	"StockLens/internal/report"
	"StockLens/internal/resolver"
	"StockLens/internal/retry"
)

// App holds the wired components shared by the commands.
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Primary   *collector.FinnhubClient
	Collector *collector.Collector
	News      *news.Aggregator
	Assembler *report.Assembler
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath   string
		noAnalyze bool
	)
	root := &cobra.Command{
		Use:          "stocklens",
		Short:        "Resolve stock identifiers and build bilingual stock reports",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath(), "path to config file")
	root.PersistentFlags().BoolVar(&noAnalyze, "no-analysis", false, "skip the narrative analysis")

	load := func(ctx context.Context, bot bool) (*App, error) {
		return newApp(ctx, cfgPath, bot, !noAnalyze)
	}
	root.AddCommand(newReportCmd(load))
	root.AddCommand(newBotCmd(load))
	return root
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

type appLoader func(ctx context.Context, bot bool) (*App, error)

func newApp(ctx context.Context, cfgPath string, bot, analyze bool) (*App, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	validate := cfg.Validate
	if bot {
		validate = cfg.ValidateBot
	}
	if err := validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	policy := retry.Policy{Attempts: cfg.Retry.Attempts, Delay: cfg.Retry.Delay}
	primary := collector.NewFinnhubClient(cfg.Finnhub.BaseURL, cfg.Finnhub.APIKey, cfg.Proxy,
		collector.WithRetry(policy),
		collector.WithRateLimit(cfg.Finnhub.RateLimit, cfg.Finnhub.RateBurst),
		collector.WithLogger(log))
	yahoo := collector.NewYahooFetcher(cfg.Yahoo.BaseURL, cfg.Proxy, policy, log)
	col := collector.NewCollector(primary, yahoo, log)

	completer, err := llm.New(ctx, cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.Model, log)
	if err != nil {
		return nil, fmt.Errorf("init text completion: %w", err)
	}
	log.Info("components ready",
		zap.String("primary", primary.Name()),
		zap.String("secondary", yahoo.Name()),
		zap.String("llm", completer.Name()))

	res := resolver.New(resolver.Deps{
		Profiles:  col,
		Searcher:  primary,
		Meta:      yahoo,
		Completer: completer,
	}, log)
	agg := news.NewAggregator(primary, completer, log)

	var narrator *report.Narrator
	if _, disabled := completer.(llm.Disabled); analyze && !disabled {
		narrator = report.NewNarrator(completer, log)
	}

	return &App{
		Config:    cfg,
		Log:       log,
		Primary:   primary,
		Collector: col,
		News:      agg,
		Assembler: report.NewAssembler(res, primary, col, agg, narrator, log),
	}, nil
}
