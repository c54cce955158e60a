package instantly

import (
	"context"
	"log"
	"sort"
)

// CampaignCopy is the subject/body of an email pulled from a campaign,
// used as placement-test content. Rendered means it came from a real sent
// email (variables already substituted) rather than a raw template.
type CampaignCopy struct {
	Subject      string
	Body         string
	CampaignName string
	Rendered     bool
}

var safeCopy = CampaignCopy{
	Subject: "Quick question",
	Body: "Hi there,\n\n" +
		"I wanted to reach out about a potential opportunity.\n\n" +
		"Would you be open to a brief conversation?\n\n" +
		"Best regards",
}

// BestCampaignCopy extracts email copy from the best-performing active
// campaign. It prefers a real sent email (rendered variables), falls back
// to the first sequence variant, and finally to a built-in safe template.
// It never fails: any fetch error degrades to the safe template.
func (c *Client) BestCampaignCopy(ctx context.Context) CampaignCopy {
	campaigns, err := c.ListCampaigns(ctx)
	if err != nil {
		log.Printf("copy: failed to list campaigns: %v", err)
		return named(safeCopy, "Safe Template (Error)")
	}

	var active []Campaign
	for _, camp := range campaigns {
		if camp.Status == StatusActive {
			active = append(active, camp)
		}
	}
	if len(active) == 0 {
		return named(safeCopy, "Safe Template (No Active Campaigns)")
	}

	// Best campaign by reply rate, open rate as tiebreaker signal.
	sort.SliceStable(active, func(i, j int) bool {
		ri, rj := active[i].ReplyRate, active[j].ReplyRate
		if ri == 0 {
			ri = active[i].OpenRate
		}
		if rj == 0 {
			rj = active[j].OpenRate
		}
		return ri > rj
	})
	best := active[0]

	emails, err := c.GetEmails(ctx, best.ID, 20)
	if err != nil {
		log.Printf("copy: failed to fetch sent emails for %q: %v", best.Name, err)
	}
	for _, e := range emails {
		if e.UEType != EmailTypeSent {
			continue
		}
		return CampaignCopy{
			Subject:      e.Subject,
			Body:         e.Body.Content(),
			CampaignName: best.Name,
			Rendered:     true,
		}
	}

	// No sent email available; fall back to the raw sequence template.
	if v, ok := firstVariant(best); ok {
		cp := CampaignCopy{Subject: v.Subject, Body: v.Body, CampaignName: best.Name}
		if cp.Subject == "" {
			cp.Subject = safeCopy.Subject
		}
		if cp.Body == "" {
			cp.Body = safeCopy.Body
		}
		return cp
	}

	return named(safeCopy, best.Name)
}

func firstVariant(c Campaign) (SequenceVariant, bool) {
	for _, seq := range c.Sequences {
		for _, step := range seq.Steps {
			if len(step.Variants) > 0 {
				return step.Variants[0], true
			}
		}
	}
	return SequenceVariant{}, false
}

func named(cp CampaignCopy, name string) CampaignCopy {
	cp.CampaignName = name
	return cp
}
