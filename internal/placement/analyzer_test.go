package placement

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeProvider(t *testing.T) {
	tests := []struct {
		email string
		want  Provider
	}{
		{"a@gmail.com", Google},
		{"a@googlemail.com", Google},
		{"a@GMAIL.COM", Google},
		{"a@outlook.com", Microsoft},
		{"a@hotmail.co.uk", Microsoft},
		{"a@live.com", Microsoft},
		{"a@msn.com", Microsoft},
		{"a@yahoo.com", Yahoo},
		{"a@ymail.com", Yahoo},
		{"a@corp.example.com", Others},
		{"no-at-sign", Others},
		{"", Others},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeProvider(tt.email), "email %q", tt.email)
	}
}

func TestAnalyzeBreakdownNilWhenNoRecipients(t *testing.T) {
	// A payload without a recipients collection means results are not ready.
	assert.Nil(t, AnalyzeBreakdown(json.RawMessage(`{"id":"t1","status":"running"}`)))
	assert.Nil(t, AnalyzeBreakdown(json.RawMessage(`not json`)))
}

func TestAnalyzeBreakdownEmptyRecipients(t *testing.T) {
	got := AnalyzeBreakdown(json.RawMessage(`{"recipients":[]}`))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnalyzeBreakdownScoredRecipients(t *testing.T) {
	payload := `{"recipients":[
		{"email":"a@gmail.com","placement":"inbox"},
		{"email":"b@gmail.com","placement":"INBOX"},
		{"email":"c@gmail.com","placement":"spam_folder"},
		{"email":"d@gmail.com","placement":"promotions"},
		{"email":"e@yahoo.com","placement":"inbox"}
	]}`
	got := AnalyzeBreakdown(json.RawMessage(payload))
	require.NotNil(t, got)

	g := got[Google]
	require.NotNil(t, g)
	assert.Equal(t, 4, g.Total)
	assert.Equal(t, 2, g.InboxCount)
	assert.Equal(t, 1, g.SpamCount)
	assert.Equal(t, 1, g.OtherCount)
	assert.Equal(t, 50.0, g.InboxRate)
	assert.Equal(t, 25.0, g.SpamRate)

	y := got[Yahoo]
	require.NotNil(t, y)
	assert.Equal(t, 100.0, y.InboxRate)

	// No Microsoft recipients: bucket must be absent, not zeroed.
	_, ok := got[Microsoft]
	assert.False(t, ok)
}

func TestAnalyzeBreakdownBareStringRecipients(t *testing.T) {
	// In-progress tests list bare addresses: counted but unscored.
	got := AnalyzeBreakdown(json.RawMessage(`{"recipients":["a@gmail.com","b@outlook.com"]}`))
	require.NotNil(t, got)
	assert.Equal(t, 1, got[Google].Total)
	assert.Zero(t, got[Google].InboxCount)
	assert.Equal(t, 1, got[Microsoft].Total)
}

func TestFormatBreakdownPlaceholders(t *testing.T) {
	assert.Contains(t, FormatBreakdownHTML(nil), "not available yet")
	assert.Contains(t, FormatBreakdownText(nil), "not available yet")
}

func TestFormatBreakdownHTMLOrder(t *testing.T) {
	breakdown := map[Provider]*Stats{
		Yahoo:  {Total: 1, InboxCount: 1, InboxRate: 100},
		Google: {Total: 2, InboxCount: 1, SpamCount: 1, InboxRate: 50, SpamRate: 50},
	}
	html := FormatBreakdownHTML(breakdown)
	gi := strings.Index(html, "Google")
	yi := strings.Index(html, "Yahoo")
	require.GreaterOrEqual(t, gi, 0)
	require.GreaterOrEqual(t, yi, 0)
	assert.Less(t, gi, yi, "Google must render before Yahoo")
	assert.Contains(t, html, "50.0%")
}
