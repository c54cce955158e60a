// Package placement analyzes inbox-placement test results by mailbox
// provider: where did the test messages land for Google, Microsoft and
// Yahoo recipients.
package placement

import (
	"encoding/json"
	"math"
	"strings"
)

// Provider is a mailbox-provider bucket.
type Provider string

// The fixed set of provider buckets. Anything unrecognized is Others.
const (
	Google    Provider = "Google"
	Microsoft Provider = "Microsoft"
	Yahoo     Provider = "Yahoo"
	Others    Provider = "Others"
)

// ProviderOrder is the fixed rendering order for breakdowns.
var ProviderOrder = []Provider{Google, Microsoft, Yahoo, Others}

var microsoftDomains = []string{"outlook.", "hotmail.", "live.", "msn.", "office365."}

// CategorizeProvider classifies an email address by its mailbox provider.
// It is total: malformed addresses degrade to Others.
func CategorizeProvider(email string) Provider {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return Others
	}
	domain := strings.ToLower(email[at+1:])

	if strings.Contains(domain, "gmail.com") || strings.Contains(domain, "googlemail.com") {
		return Google
	}
	for _, d := range microsoftDomains {
		if strings.Contains(domain, d) {
			return Microsoft
		}
	}
	if strings.Contains(domain, "yahoo.") || strings.Contains(domain, "ymail.") {
		return Yahoo
	}
	return Others
}

// Stats holds placement counts and rates for one provider bucket.
// Rates are percentages rounded to one decimal.
type Stats struct {
	Total      int
	InboxCount int
	SpamCount  int
	OtherCount int
	InboxRate  float64
	SpamRate   float64
	OtherRate  float64
}

// scoredRecipient is the completed-test recipient shape.
type scoredRecipient struct {
	Email     string `json:"email"`
	Placement string `json:"placement"`
}

// AnalyzeBreakdown computes the per-provider placement breakdown from a
// raw test payload. It returns nil when the payload carries no recipients
// collection at all (test results not yet available) — distinct from an
// empty-but-present collection, which yields an empty map. Providers with
// zero recipients are omitted.
//
// Each recipient is either a bare address string (test still in progress,
// counted but unscored) or an object with email and placement, where the
// placement string is matched case-insensitively for "inbox" and "spam".
func AnalyzeBreakdown(raw json.RawMessage) map[Provider]*Stats {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	recRaw, ok := payload["recipients"]
	if !ok {
		return nil
	}
	var recipients []json.RawMessage
	if err := json.Unmarshal(recRaw, &recipients); err != nil {
		return nil
	}

	counts := make(map[Provider]*Stats)
	bucket := func(p Provider) *Stats {
		s, ok := counts[p]
		if !ok {
			s = &Stats{}
			counts[p] = s
		}
		return s
	}

	for _, r := range recipients {
		var addr string
		if err := json.Unmarshal(r, &addr); err == nil {
			// Bare string: test not complete yet, count only.
			bucket(CategorizeProvider(addr)).Total++
			continue
		}

		var scored scoredRecipient
		if err := json.Unmarshal(r, &scored); err != nil {
			continue
		}
		s := bucket(CategorizeProvider(scored.Email))
		s.Total++
		placement := strings.ToLower(scored.Placement)
		switch {
		case strings.Contains(placement, "inbox"):
			s.InboxCount++
		case strings.Contains(placement, "spam"):
			s.SpamCount++
		default:
			s.OtherCount++
		}
	}

	for _, s := range counts {
		s.InboxRate = round1(float64(s.InboxCount) / float64(s.Total) * 100)
		s.SpamRate = round1(float64(s.SpamCount) / float64(s.Total) * 100)
		s.OtherRate = round1(float64(s.OtherCount) / float64(s.Total) * 100)
	}

	return counts
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
