package instantly

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxvance/instantly-reporter/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.InstantlyConfig{
		APIKey:         "test-key",
		BaseURL:        serverURL,
		TimeoutSeconds: 5,
		MaxPages:       20,
	})
}

func TestFetchAllPaginatedFollowsCursor(t *testing.T) {
	var cursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("starting_after")
		cursors = append(cursors, cursor)
		switch cursor {
		case "":
			fmt.Fprint(w, `{"items":[{"id":"a"},{"id":"b"}],"next_starting_after":"b"}`)
		case "b":
			fmt.Fprint(w, `{"items":[{"id":"c"}],"next_starting_after":""}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	}))
	defer server.Close()

	c := testClient(server.URL)
	items, err := FetchAllPaginated[Campaign](context.Background(), c, "/campaigns", url.Values{}, 20)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "c", items[2].ID)
	assert.Equal(t, []string{"", "b"}, cursors)
}

func TestFetchAllPaginatedStopsOnEmptyPage(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			fmt.Fprint(w, `{"items":[{"id":"a"}],"next_starting_after":"a"}`)
			return
		}
		// Cursor present but no items: drain must stop here.
		fmt.Fprint(w, `{"items":[],"next_starting_after":"zzz"}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	items, err := FetchAllPaginated[Campaign](context.Background(), c, "/campaigns", url.Values{}, 20)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, requests)
}

func TestFetchAllPaginatedHonorsMaxPages(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, `{"items":[{"id":"p%d"}],"next_starting_after":"p%d"}`, requests, requests)
	}))
	defer server.Close()

	c := testClient(server.URL)
	items, err := FetchAllPaginated[Campaign](context.Background(), c, "/campaigns", url.Values{}, 3)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 3, requests)
}

func TestFetchAllPaginatedPropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid api key"}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := FetchAllPaginated[Campaign](context.Background(), c, "/campaigns", url.Values{}, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid api key")
}
