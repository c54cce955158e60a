package report

import (
	"fmt"
	"strconv"
)

// RowKind tags a table row with its role so the spreadsheet writer can
// style it without parsing cell text.
type RowKind int

const (
	RowTitle RowKind = iota
	RowSectionHeader
	RowColumnHeader
	RowData
	RowSubtotal
	RowGrandTotal
	RowSpacer
)

// Row is one spreadsheet row: a role tag plus its cell values.
type Row struct {
	Kind  RowKind
	Cells []string
}

// Table is a fully laid-out tab ready for the spreadsheet writer.
type Table struct {
	Name string
	Rows []Row
}

// Labels for the computed rows. These are load-bearing: operators filter
// on them in the sheet.
const (
	labelWeeklyTotal = "WEEKLY TOTAL"
	labelGrandTotal  = "GRAND TOTAL (YTD)"
)

// comma formats an integer with thousands separators (12345 -> "12,345").
func comma(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func pct(f float64) string   { return fmt.Sprintf("%.1f%%", f) }
func ratio(f float64) string { return fmt.Sprintf("%.1f", f) }
func whole(f float64) string { return fmt.Sprintf("%.0f", f) }

var dashboardColumns = []string{"Month", "Emails Sent", "New Leads", "Replies", "Opportunities", "Emails/Opp"}

func dashboardCells(label string, t Totals) []string {
	return []string{
		label,
		comma(t.Sent),
		comma(t.NewLeads),
		comma(t.Replies),
		comma(t.Opportunities),
		ratio(t.EmailsPerOpportunity()),
	}
}

// BuildMasterDashboard lays out the all-time summary followed by one
// monthly section per year (most recent first) with its months in
// calendar order.
func BuildMasterDashboard(agg *MonthlyAggregate, clientName string) Table {
	rows := []Row{
		{Kind: RowTitle, Cells: []string{clientName + " - Master Dashboard"}},
		{Kind: RowSpacer},
		{Kind: RowSectionHeader, Cells: []string{"ALL TIME PERFORMANCE"}},
		{Kind: RowColumnHeader, Cells: dashboardColumns},
		{Kind: RowGrandTotal, Cells: dashboardCells("All Time", agg.AllTime)},
		{Kind: RowSpacer},
	}

	for _, year := range agg.YearsDescending() {
		rows = append(rows,
			Row{Kind: RowSectionHeader, Cells: []string{"PERFORMANCE BY MONTH " + strconv.Itoa(year)}},
			Row{Kind: RowColumnHeader, Cells: dashboardColumns},
		)
		for _, month := range agg.MonthsAscending(year) {
			rows = append(rows, Row{Kind: RowData, Cells: dashboardCells(monthLabel(month), agg.Month(year, month))})
		}
		rows = append(rows, Row{Kind: RowSpacer})
	}

	return Table{Name: "Master Dashboard", Rows: rows}
}

// monthLabel turns "2026-01" into "January 2026". Malformed keys pass
// through untouched.
func monthLabel(key string) string {
	if len(key) != 7 || key[4] != '-' {
		return key
	}
	names := map[string]string{
		"01": "January", "02": "February", "03": "March", "04": "April",
		"05": "May", "06": "June", "07": "July", "08": "August",
		"09": "September", "10": "October", "11": "November", "12": "December",
	}
	name, ok := names[key[5:]]
	if !ok {
		return key
	}
	return name + " " + key[:4]
}

var campaignColumns = []string{
	"Campaign", "Emails Sent", "New Leads", "Replies", "Opportunities",
	"Emails/Opp", "Reply Rate", "Opp Rate",
}

func campaignCells(label string, t Totals) []string {
	return []string{
		label,
		comma(t.Sent),
		comma(t.NewLeads),
		comma(t.Replies),
		comma(t.Opportunities),
		ratio(t.EmailsPerOpportunity()),
		pct(t.ReplyRate()),
		pct(t.OpportunityRate()),
	}
}

// BuildCampaignsTab lays out one section per ISO week of the target year:
// week header, column header, per-campaign rows and a weekly subtotal.
// Campaigns with zero activity in a week are left out of that week's rows
// but still feed the subtotal and the grand total, so totals reconcile
// with the raw feed. A final grand-total row closes the tab.
func BuildCampaignsTab(agg *WeeklyAggregate, targetYear int) Table {
	rows := []Row{
		{Kind: RowTitle, Cells: []string{fmt.Sprintf("Campaign Performance %d", targetYear)}},
		{Kind: RowColumnHeader, Cells: campaignColumns},
	}

	var grand Totals
	for _, week := range agg.Weeks() {
		rows = append(rows, Row{Kind: RowSectionHeader, Cells: []string{week.Label}})
		var weekly Totals
		for _, c := range week.Campaigns {
			weekly.Merge(c.Totals)
			if c.Totals.IsZero() {
				continue
			}
			rows = append(rows, Row{Kind: RowData, Cells: campaignCells(c.Name, c.Totals)})
		}
		grand.Merge(weekly)
		rows = append(rows,
			Row{Kind: RowSubtotal, Cells: campaignCells(labelWeeklyTotal, weekly)},
			Row{Kind: RowSpacer},
		)
	}

	rows = append(rows, Row{Kind: RowGrandTotal, Cells: campaignCells(labelGrandTotal, grand)})
	return Table{Name: fmt.Sprintf("Campaigns %d", targetYear), Rows: rows}
}

var agentColumns = []string{"Agent Email", "Total Sent", "Active Days", "Avg/Day", "Status"}

// BuildAgentsTab lays out the per-account sending leaderboard. Agents
// arrive pre-sorted by total sent; the footer carries the roster size and
// active count.
func BuildAgentsTab(agents []AgentStats) Table {
	rows := []Row{
		{Kind: RowTitle, Cells: []string{"Agent Performance"}},
		{Kind: RowSpacer},
		{Kind: RowColumnHeader, Cells: agentColumns},
	}

	active := 0
	var totalSent int
	for _, a := range agents {
		status := "Inactive"
		if a.Active() {
			status = "Active"
			active++
		}
		totalSent += a.TotalSent
		rows = append(rows, Row{Kind: RowData, Cells: []string{
			a.Email,
			comma(a.TotalSent),
			strconv.Itoa(a.ActiveDays),
			whole(a.AvgPerDay()),
			status,
		}})
	}

	rows = append(rows, Row{Kind: RowGrandTotal, Cells: []string{
		fmt.Sprintf("TOTAL (%d agents)", len(agents)),
		comma(totalSent),
		"-",
		"-",
		fmt.Sprintf("%d Active", active),
	}})

	return Table{Name: "Agents", Rows: rows}
}
