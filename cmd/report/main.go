// Command report runs the full campaign performance report: fetch all
// campaign and account analytics from Instantly, aggregate them, rewrite
// the three spreadsheet tabs and send the weekly email digest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/luxvance/instantly-reporter/internal/config"
	"github.com/luxvance/instantly-reporter/internal/instantly"
	"github.com/luxvance/instantly-reporter/internal/mailer"
	"github.com/luxvance/instantly-reporter/internal/pkg/logger"
	"github.com/luxvance/instantly-reporter/internal/report"
	"github.com/luxvance/instantly-reporter/internal/sheets"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	skipEmail := flag.Bool("skip-email", false, "Build the sheets but do not send the digest")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.App.LogLevel))
	runLog := logger.WithRunID(uuid.New().String())

	if err := run(context.Background(), cfg, runLog, *skipEmail); err != nil {
		runLog.Error("report run failed", "error", err.Error())
		os.Exit(1)
	}
	runLog.Info("report run complete")
}

func run(ctx context.Context, cfg *config.Config, runLog *logger.Logger, skipEmail bool) error {
	client := instantly.NewClient(cfg.Instantly)
	clientName := cfg.Instantly.ClientName
	if clientName == "" {
		clientName = "Connect Resources"
	}

	historyStart, err := time.Parse("2006-01-02", cfg.Instantly.HistoryStart)
	if err != nil {
		return fmt.Errorf("invalid history_start %q: %w", cfg.Instantly.HistoryStart, err)
	}
	now := time.Now()

	runLog.Info("fetching campaigns")
	campaigns, err := client.ListCampaigns(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch campaigns: %w", err)
	}
	log.Printf("found %d campaigns", len(campaigns))

	data := make([]report.CampaignData, 0, len(campaigns))
	for _, camp := range campaigns {
		days, err := client.GetCampaignDailyAnalytics(ctx, camp.ID, historyStart, now)
		if err != nil {
			return fmt.Errorf("failed to fetch analytics for campaign %q: %w", camp.Name, err)
		}
		log.Printf("  %s: %d days of analytics", camp.Name, len(days))
		data = append(data, report.CampaignData{Campaign: camp, Days: days})
	}

	runLog.Info("fetching accounts")
	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	accountStats, err := client.GetAccountDailyAnalytics(ctx, historyStart, now)
	if err != nil {
		return fmt.Errorf("failed to fetch account analytics: %w", err)
	}

	runLog.Info("aggregating", "campaigns", len(data), "accounts", len(accounts))
	monthly := report.AggregateMonthly(data)
	weekly := report.AggregateWeekly(data, cfg.Report.TargetYear)
	agents := report.AggregateAgents(accounts, accountStats)

	dashboard := report.BuildMasterDashboard(monthly, clientName)
	campaignsTab := report.BuildCampaignsTab(weekly, cfg.Report.TargetYear)
	agentsTab := report.BuildAgentsTab(agents)

	runLog.Info("writing spreadsheet", "spreadsheet_id", cfg.Sheets.SpreadsheetID)
	writer, err := sheets.NewWriter(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, sheets.DefaultPalette())
	if err != nil {
		return fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	tabs := []struct {
		table  report.Table
		layout sheets.TabLayout
	}{
		{dashboard, sheets.TabLayout{Columns: 6, WideColumn: 0, WideColumnPx: 220, MergeTitleAcross: true}},
		{campaignsTab, sheets.TabLayout{Columns: 8, FrozenRows: 2, WideColumn: 0, WideColumnPx: 280, MergeTitleAcross: true, AlternateDataRows: true, GoldSections: true}},
		{agentsTab, sheets.TabLayout{Columns: 5, FrozenRows: 3, WideColumn: 0, WideColumnPx: 260, MergeTitleAcross: true, AlternateDataRows: true}},
	}
	for _, t := range tabs {
		if err := writer.WriteTab(ctx, t.table, t.layout); err != nil {
			return err
		}
	}
	if err := writer.Reorder(ctx, []string{dashboard.Name, campaignsTab.Name, agentsTab.Name}); err != nil {
		return err
	}

	if skipEmail {
		runLog.Info("digest email skipped by flag")
		return nil
	}
	if !cfg.SES.Configured() || len(cfg.Report.Recipients) == 0 {
		runLog.Warn("digest email skipped: SES credentials or recipients not configured")
		return nil
	}

	digest := report.BuildDigest(clientName, data, monthly.AllTime, now)
	digest.DashboardURL = "https://docs.google.com/spreadsheets/d/" + cfg.Sheets.SpreadsheetID
	html, err := digest.RenderHTML()
	if err != nil {
		return err
	}

	sender := mailer.NewSender(cfg.SES)
	err = sender.Send(ctx, mailer.Message{
		Subject:  digest.Subject(),
		HTMLBody: html,
		TextBody: digest.RenderText(),
		To:       cfg.Report.Recipients,
	})
	if err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	runLog.Info("digest sent", "recipients", len(cfg.Report.Recipients))
	return nil
}
