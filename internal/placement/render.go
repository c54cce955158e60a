package placement

import (
	"fmt"
	"log"
	"strings"

	"github.com/osteele/liquid"
)

const notAvailable = "Provider breakdown not available yet (test in progress)"

var breakdownTemplate = `
<h3>Provider Breakdown</h3>
<table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
    <tr style="background: #000000; color: #D4AF37;">
        <th style="padding: 12px; text-align: left;">Provider</th>
        <th style="padding: 12px; text-align: center;">Total</th>
        <th style="padding: 12px; text-align: center;">Inbox</th>
        <th style="padding: 12px; text-align: center;">Spam</th>
        <th style="padding: 12px; text-align: center;">Other</th>
    </tr>
{% for row in rows %}
    <tr style="background: #f8f9fa;">
        <td style="padding: 12px;"><strong>{{ row.provider }}</strong></td>
        <td style="padding: 12px; text-align: center;">{{ row.total }}</td>
        <td style="padding: 12px; text-align: center; background: {{ row.inbox_color }}; color: white;">
            <strong>{{ row.inbox_rate }}%</strong><br>
            <small>({{ row.inbox_count }})</small>
        </td>
        <td style="padding: 12px; text-align: center;">
            {{ row.spam_rate }}%<br>
            <small>({{ row.spam_count }})</small>
        </td>
        <td style="padding: 12px; text-align: center;">
            {{ row.other_rate }}%<br>
            <small>({{ row.other_count }})</small>
        </td>
    </tr>
{% endfor %}
</table>
`

var breakdownEngine = liquid.NewEngine()

// inboxColor maps an inbox rate to a traffic-light color for the HTML table.
func inboxColor(rate float64) string {
	switch {
	case rate >= 85:
		return "#28a745"
	case rate >= 75:
		return "#ffc107"
	default:
		return "#dc3545"
	}
}

// FormatBreakdownHTML renders the breakdown as an HTML table fragment for
// the email report. A nil or empty breakdown yields a placeholder
// paragraph rather than a malformed table.
func FormatBreakdownHTML(breakdown map[Provider]*Stats) string {
	if len(breakdown) == 0 {
		return "<p>" + notAvailable + "</p>"
	}

	var rows []map[string]interface{}
	for _, p := range ProviderOrder {
		s, ok := breakdown[p]
		if !ok {
			continue
		}
		rows = append(rows, map[string]interface{}{
			"provider":    string(p),
			"total":       s.Total,
			"inbox_rate":  formatRate(s.InboxRate),
			"spam_rate":   formatRate(s.SpamRate),
			"other_rate":  formatRate(s.OtherRate),
			"inbox_count": s.InboxCount,
			"spam_count":  s.SpamCount,
			"other_count": s.OtherCount,
			"inbox_color": inboxColor(s.InboxRate),
		})
	}

	out, err := breakdownEngine.ParseAndRenderString(breakdownTemplate, liquid.Bindings{"rows": rows})
	if err != nil {
		log.Printf("placement: failed to render breakdown template: %v", err)
		return "<p>" + notAvailable + "</p>"
	}
	return out
}

// FormatBreakdownText renders the breakdown as aligned plain text.
func FormatBreakdownText(breakdown map[Provider]*Stats) string {
	if len(breakdown) == 0 {
		return notAvailable
	}

	var b strings.Builder
	b.WriteString("\nProvider Breakdown:\n\n")
	for _, p := range ProviderOrder {
		s, ok := breakdown[p]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-12s | Total: %3d | Inbox: %5.1f%% (%2d) | Spam: %5.1f%% (%2d) | Other: %5.1f%% (%2d)\n",
			p, s.Total, s.InboxRate, s.InboxCount, s.SpamRate, s.SpamCount, s.OtherRate, s.OtherCount)
	}
	return b.String()
}

// formatRate renders a rate the way the report does everywhere: one decimal.
func formatRate(r float64) string {
	return fmt.Sprintf("%.1f", r)
}
