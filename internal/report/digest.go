package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/osteele/liquid"
)

// Digest is the weekly email summary: the current Monday-Sunday week's
// totals alongside all-time numbers. DashboardURL is optional; when set
// the HTML body links to the spreadsheet.
type Digest struct {
	ClientName   string
	WeekNumber   int
	DateRange    string
	DashboardURL string
	Week         Totals
	AllTime      Totals
	monday       time.Time
	sunday       time.Time
	generated    time.Time
}

// BuildDigest composes the digest for the week containing now. Week
// totals are folded straight from the daily records inside now's
// Monday-Sunday span, so days from an adjacent calendar year still count
// when the week straddles the year boundary. A week with no records
// reports zeros rather than being an error.
func BuildDigest(clientName string, data []CampaignData, all Totals, now time.Time) Digest {
	week, _ := WeekInfo(now)
	monday, sunday := WeekSpan(now)

	// The span carries now's clock; compare on whole days.
	first := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, time.UTC)

	var weekTotals Totals
	for _, cd := range data {
		for _, d := range cd.Days {
			date, err := time.Parse(dateLayout, d.Date)
			if err != nil || date.Before(first) || date.After(last) {
				continue
			}
			weekTotals.Add(d)
		}
	}

	return Digest{
		ClientName: clientName,
		WeekNumber: week,
		DateRange: fmt.Sprintf("Monday %s of %s - Sunday %s of %s %d",
			ordinal(monday.Day()), monday.Month(), ordinal(sunday.Day()), sunday.Month(), sunday.Year()),
		Week:      weekTotals,
		AllTime:   all,
		monday:    monday,
		sunday:    sunday,
		generated: now,
	}
}

// Subject returns the digest email subject line.
func (d Digest) Subject() string {
	return fmt.Sprintf("%s Report - Week %d (%s to %s)",
		d.ClientName, d.WeekNumber, d.monday.Format("Jan 02"), d.sunday.Format("Jan 02"))
}

func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

var digestTemplate = `
<html>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background: #f4f4f4;">
<div style="max-width: 640px; margin: 0 auto; background: #ffffff;">
    <div style="background: #000000; padding: 24px; text-align: center;">
        <h1 style="color: #D4AF37; margin: 0; font-size: 24px;">{{ client }} Weekly Report</h1>
        <p style="color: #ffffff; margin: 8px 0 0;">Week {{ week_number }} &middot; {{ date_range }}</p>
    </div>

    <div style="padding: 24px;">
        <h2 style="color: #000000; border-bottom: 2px solid #D4AF37; padding-bottom: 8px;">This Week</h2>
        <table style="width: 100%; border-collapse: collapse;">
            <tr style="background: #000000; color: #D4AF37;">
                <th style="padding: 10px; text-align: left;">Metric</th>
                <th style="padding: 10px; text-align: right;">Value</th>
            </tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Emails Sent</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ week_sent }}</td></tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Replies</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ week_replies }}</td></tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Opportunities</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ week_opps }}</td></tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Reply Rate</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ week_reply_rate }}</td></tr>
            <tr><td style="padding: 10px;">Opportunity Rate</td><td style="padding: 10px; text-align: right;">{{ week_opp_rate }}</td></tr>
        </table>

        <h2 style="color: #000000; border-bottom: 2px solid #D4AF37; padding-bottom: 8px; margin-top: 32px;">All Time</h2>
        <table style="width: 100%; border-collapse: collapse;">
            <tr style="background: #000000; color: #D4AF37;">
                <th style="padding: 10px; text-align: left;">Metric</th>
                <th style="padding: 10px; text-align: right;">Value</th>
            </tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Emails Sent</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ all_sent }}</td></tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Replies</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ all_replies }}</td></tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Opportunities</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ all_opps }}</td></tr>
            <tr><td style="padding: 10px; border-bottom: 1px solid #eee;">Reply Rate</td><td style="padding: 10px; text-align: right; border-bottom: 1px solid #eee;">{{ all_reply_rate }}</td></tr>
            <tr><td style="padding: 10px;">Opportunity Rate</td><td style="padding: 10px; text-align: right;">{{ all_opp_rate }}</td></tr>
        </table>
    </div>

{% if dashboard_url != "" %}
    <div style="padding: 0 24px 24px; text-align: center;">
        <a href="{{ dashboard_url }}" style="display: inline-block; background: #D4AF37; color: #000000; padding: 12px 32px; text-decoration: none; font-weight: bold;">View Full Dashboard</a>
    </div>
{% endif %}
    <div style="background: #000000; padding: 16px; text-align: center;">
        <p style="color: #D4AF37; margin: 0; font-size: 12px;">Generated {{ generated }}</p>
    </div>
</div>
</body>
</html>
`

var digestEngine = liquid.NewEngine()

// RenderHTML renders the digest as the styled HTML email body.
func (d Digest) RenderHTML() (string, error) {
	out, err := digestEngine.ParseAndRenderString(digestTemplate, liquid.Bindings{
		"client":          d.ClientName,
		"week_number":     d.WeekNumber,
		"date_range":      d.DateRange,
		"dashboard_url":   d.DashboardURL,
		"week_sent":       comma(d.Week.Sent),
		"week_replies":    comma(d.Week.Replies),
		"week_opps":       comma(d.Week.Opportunities),
		"week_reply_rate": pct(d.Week.ReplyRate()),
		"week_opp_rate":   pct(d.Week.OpportunityRate()),
		"all_sent":        comma(d.AllTime.Sent),
		"all_replies":     comma(d.AllTime.Replies),
		"all_opps":        comma(d.AllTime.Opportunities),
		"all_reply_rate":  pct(d.AllTime.ReplyRate()),
		"all_opp_rate":    pct(d.AllTime.OpportunityRate()),
		"generated":       d.generated.Format("Jan 02, 2006 15:04 MST"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render digest template: %w", err)
	}
	return out, nil
}

// RenderText renders the digest as a plain-text fallback body.
func (d Digest) RenderText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Weekly Report - Week %d (%s)\n\n", d.ClientName, d.WeekNumber, d.DateRange)
	fmt.Fprintf(&b, "This Week:\n")
	fmt.Fprintf(&b, "  Emails Sent:      %s\n", comma(d.Week.Sent))
	fmt.Fprintf(&b, "  Replies:          %s\n", comma(d.Week.Replies))
	fmt.Fprintf(&b, "  Opportunities:    %s\n", comma(d.Week.Opportunities))
	fmt.Fprintf(&b, "  Reply Rate:       %s\n", pct(d.Week.ReplyRate()))
	fmt.Fprintf(&b, "  Opportunity Rate: %s\n\n", pct(d.Week.OpportunityRate()))
	fmt.Fprintf(&b, "All Time:\n")
	fmt.Fprintf(&b, "  Emails Sent:      %s\n", comma(d.AllTime.Sent))
	fmt.Fprintf(&b, "  Replies:          %s\n", comma(d.AllTime.Replies))
	fmt.Fprintf(&b, "  Opportunities:    %s\n", comma(d.AllTime.Opportunities))
	fmt.Fprintf(&b, "  Reply Rate:       %s\n", pct(d.AllTime.ReplyRate()))
	fmt.Fprintf(&b, "  Opportunity Rate: %s\n", pct(d.AllTime.OpportunityRate()))
	return b.String()
}
