package instantly

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
)

// DefaultMaxPages bounds pagination against runaway or cyclic cursors.
const DefaultMaxPages = 20

// FetchAllPaginated drains a cursor-paginated list endpoint into a single
// slice, threading each response's next_starting_after cursor into the
// following request's starting_after parameter. It stops when a page
// returns zero items, when the response carries no cursor, or after
// maxPages pages (<= 0 means DefaultMaxPages). Items are appended in
// response order; transport errors propagate unchanged.
func FetchAllPaginated[T any](ctx context.Context, c *Client, endpoint string, initial url.Values, maxPages int) ([]T, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var all []T
	cursor := ""

	for page := 1; page <= maxPages; page++ {
		params := url.Values{}
		for k, vs := range initial {
			params[k] = vs
		}
		if cursor != "" {
			params.Set("starting_after", cursor)
		}

		var resp listPage
		if err := c.get(ctx, endpoint, params, &resp); err != nil {
			return nil, err
		}

		if len(resp.Items) == 0 {
			break
		}

		for _, raw := range resp.Items {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to parse item on page %d of %s: %w", page, endpoint, err)
			}
			all = append(all, item)
		}

		log.Printf("  page %d: %d items (total so far: %d)", page, len(resp.Items), len(all))

		if resp.NextStartingAfter == "" {
			break
		}
		cursor = resp.NextStartingAfter
	}

	return all, nil
}
