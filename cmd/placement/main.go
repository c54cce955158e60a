// Command placement runs a one-shot inbox-placement analysis: fetch a
// placement test's results from Instantly, break them down by mailbox
// provider and optionally email the breakdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/luxvance/instantly-reporter/internal/config"
	"github.com/luxvance/instantly-reporter/internal/instantly"
	"github.com/luxvance/instantly-reporter/internal/mailer"
	"github.com/luxvance/instantly-reporter/internal/pkg/logger"
	"github.com/luxvance/instantly-reporter/internal/placement"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	testID := flag.String("test-id", "", "Inbox-placement test ID (overrides config)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *testID != "" {
		cfg.Placement.TestID = *testID
	}
	if cfg.Placement.TestID == "" {
		fmt.Fprintln(os.Stderr, "placement test ID not set (PLACEMENT_TEST_ID or -test-id)")
		os.Exit(1)
	}
	if cfg.Instantly.APIKey == "" {
		fmt.Fprintln(os.Stderr, "instantly API key not set (INSTANTLY_API_KEY or INSTANTLY_API_KEY_<CLIENT>)")
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.App.LogLevel))
	runLog := logger.WithRunID(uuid.New().String())

	if err := run(context.Background(), cfg, runLog); err != nil {
		runLog.Error("placement run failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, runLog *logger.Logger) error {
	client := instantly.NewClient(cfg.Instantly)

	cp := client.BestCampaignCopy(ctx)
	runLog.Info("campaign copy selected", "campaign", cp.CampaignName, "rendered", cp.Rendered)

	runLog.Info("fetching placement test", "test_id", cfg.Placement.TestID)
	raw, err := client.GetInboxPlacementTest(ctx, cfg.Placement.TestID)
	if err != nil {
		return fmt.Errorf("failed to fetch placement test: %w", err)
	}

	breakdown := placement.AnalyzeBreakdown(raw)
	fmt.Println(placement.FormatBreakdownText(breakdown))

	if !cfg.Placement.EmailBreakdown {
		return nil
	}
	if !cfg.SES.Configured() || len(cfg.Placement.EmailRecipients) == 0 {
		runLog.Warn("breakdown email skipped: SES credentials or recipients not configured")
		return nil
	}

	sender := mailer.NewSender(cfg.SES)
	err = sender.Send(ctx, mailer.Message{
		Subject:  fmt.Sprintf("Inbox Placement Breakdown - Test %s", cfg.Placement.TestID),
		HTMLBody: placement.FormatBreakdownHTML(breakdown),
		TextBody: placement.FormatBreakdownText(breakdown),
		To:       cfg.Placement.EmailRecipients,
	})
	if err != nil {
		return fmt.Errorf("failed to send breakdown: %w", err)
	}
	runLog.Info("breakdown sent", "recipients", len(cfg.Placement.EmailRecipients))
	return nil
}
