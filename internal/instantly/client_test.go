package instantly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsBearerAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.GetCampaignDailyAnalytics(context.Background(), "camp-1",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestGetCampaignDailyAnalytics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/campaigns/analytics/daily", r.URL.Path)
		assert.Equal(t, "camp-1", r.URL.Query().Get("campaign_id"))
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2026-01-31", r.URL.Query().Get("end_date"))
		// Second record omits counters: they must default to zero.
		fmt.Fprint(w, `[
			{"date":"2026-01-05","sent":100,"new_leads_contacted":40,"unique_replies":5,"opportunities":1},
			{"date":"2026-01-06"}
		]`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	stats, err := c.GetCampaignDailyAnalytics(context.Background(), "camp-1",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 100, stats[0].Sent)
	assert.Equal(t, 5, stats[0].UniqueReplies)
	assert.Zero(t, stats[1].Sent)
	assert.Zero(t, stats[1].Opportunities)
}

func TestGetInboxPlacementTestReturnsRawPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inbox-placement-tests/test-42", r.URL.Path)
		fmt.Fprint(w, `{"id":"test-42","recipients":["a@gmail.com"]}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	raw, err := c.GetInboxPlacementTest(context.Background(), "test-42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"test-42","recipients":["a@gmail.com"]}`, string(raw))
}

func TestEmailBodyAcceptsBothShapes(t *testing.T) {
	var e Email
	require.NoError(t, json.Unmarshal([]byte(`{"ue_type":1,"subject":"hi","body":"plain text"}`), &e))
	assert.Equal(t, "plain text", e.Body.Content())

	var e2 Email
	require.NoError(t, json.Unmarshal([]byte(`{"ue_type":1,"subject":"hi","body":{"html":"<p>h</p>","text":"t"}}`), &e2))
	assert.Equal(t, "<p>h</p>", e2.Body.Content())
}
