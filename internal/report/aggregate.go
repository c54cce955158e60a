// Package report folds campaign daily analytics into the time-bucketed
// aggregates behind the spreadsheet tabs and the email digest.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/luxvance/instantly-reporter/internal/instantly"
)

const dateLayout = "2006-01-02"

// Totals is the 4-counter aggregate accumulated per bucket. Counters are
// only ever incremented during a pass, never overwritten.
type Totals struct {
	Sent          int
	NewLeads      int
	Replies       int
	Opportunities int
}

// Add accumulates one daily record into the bucket.
func (t *Totals) Add(d instantly.DailyStat) {
	t.Sent += d.Sent
	t.NewLeads += d.NewLeadsContacted
	t.Replies += d.UniqueReplies
	t.Opportunities += d.Opportunities
}

// Merge accumulates another bucket's counters.
func (t *Totals) Merge(o Totals) {
	t.Sent += o.Sent
	t.NewLeads += o.NewLeads
	t.Replies += o.Replies
	t.Opportunities += o.Opportunities
}

// EmailsPerOpportunity returns sent/opportunities, 0 when there are no
// opportunities. Zero denominators are routine (new campaigns), so the
// ratio is defined as 0 rather than an error.
func (t Totals) EmailsPerOpportunity() float64 {
	if t.Opportunities == 0 {
		return 0
	}
	return float64(t.Sent) / float64(t.Opportunities)
}

// ReplyRate returns replies/sent as a percentage, 0 when nothing was sent.
func (t Totals) ReplyRate() float64 {
	if t.Sent == 0 {
		return 0
	}
	return float64(t.Replies) / float64(t.Sent) * 100
}

// OpportunityRate returns opportunities/sent as a percentage, 0 when
// nothing was sent.
func (t Totals) OpportunityRate() float64 {
	if t.Sent == 0 {
		return 0
	}
	return float64(t.Opportunities) / float64(t.Sent) * 100
}

// IsZero reports whether the activity counters the weekly report cares
// about are all zero. New-leads-only buckets still count as zero activity.
func (t Totals) IsZero() bool {
	return t.Sent == 0 && t.Replies == 0 && t.Opportunities == 0
}

// CampaignData pairs a campaign with its fetched daily analytics.
type CampaignData struct {
	Campaign instantly.Campaign
	Days     []instantly.DailyStat
}

// MonthlyAggregate holds year -> "YYYY-MM" -> totals plus the all-time
// totals, fully merged across campaigns.
type MonthlyAggregate struct {
	years   map[int]map[string]*Totals
	AllTime Totals
}

// monthTotals is the get-or-insert-zero accessor for a (year, month) bucket.
func (a *MonthlyAggregate) monthTotals(year int, month string) *Totals {
	if a.years == nil {
		a.years = make(map[int]map[string]*Totals)
	}
	months, ok := a.years[year]
	if !ok {
		months = make(map[string]*Totals)
		a.years[year] = months
	}
	t, ok := months[month]
	if !ok {
		t = &Totals{}
		months[month] = t
	}
	return t
}

// YearsDescending returns the years present in the data, most recent first.
func (a *MonthlyAggregate) YearsDescending() []int {
	years := make([]int, 0, len(a.years))
	for y := range a.years {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// MonthsAscending returns a year's "YYYY-MM" keys in calendar order.
func (a *MonthlyAggregate) MonthsAscending(year int) []string {
	months := make([]string, 0, len(a.years[year]))
	for m := range a.years[year] {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// Month returns the totals for a "YYYY-MM" key within a year.
func (a *MonthlyAggregate) Month(year int, month string) Totals {
	if t, ok := a.years[year][month]; ok {
		return *t
	}
	return Totals{}
}

// YearTotals returns the merged totals for one year.
func (a *MonthlyAggregate) YearTotals(year int) Totals {
	var t Totals
	for _, mt := range a.years[year] {
		t.Merge(*mt)
	}
	return t
}

// AggregateMonthly folds every daily record into its (year, month) bucket
// and the all-time totals. Records with a missing or malformed date are
// skipped; missing counters have already defaulted to zero at decode time.
func AggregateMonthly(data []CampaignData) *MonthlyAggregate {
	agg := &MonthlyAggregate{}
	for _, cd := range data {
		for _, day := range cd.Days {
			date, err := time.Parse(dateLayout, day.Date)
			if err != nil {
				continue
			}
			agg.monthTotals(date.Year(), date.Format("2006-01")).Add(day)
			agg.AllTime.Add(day)
		}
	}
	return agg
}

// WeekKey identifies a (ISO week, campaign) bucket within the target year.
type WeekKey struct {
	Number   int
	Label    string
	Campaign string
}

// WeeklyAggregate holds per-(week, campaign) totals for one target year.
type WeeklyAggregate struct {
	buckets map[WeekKey]*Totals
}

// bucket is the get-or-insert-zero accessor for a week/campaign bucket.
func (a *WeeklyAggregate) bucket(key WeekKey) *Totals {
	if a.buckets == nil {
		a.buckets = make(map[WeekKey]*Totals)
	}
	t, ok := a.buckets[key]
	if !ok {
		t = &Totals{}
		a.buckets[key] = t
	}
	return t
}

// Week groups one ISO week's campaigns for rendering.
type Week struct {
	Number    int
	Label     string
	Campaigns []CampaignTotals
}

// CampaignTotals is one campaign's totals within a week.
type CampaignTotals struct {
	Name   string
	Totals Totals
}

// Weeks returns the aggregated weeks ordered by ISO week number ascending,
// campaigns sorted by name within each week.
func (a *WeeklyAggregate) Weeks() []Week {
	byNumber := make(map[int]*Week)
	for key, totals := range a.buckets {
		w, ok := byNumber[key.Number]
		if !ok {
			w = &Week{Number: key.Number, Label: key.Label}
			byNumber[key.Number] = w
		}
		w.Campaigns = append(w.Campaigns, CampaignTotals{Name: key.Campaign, Totals: *totals})
	}

	weeks := make([]Week, 0, len(byNumber))
	for _, w := range byNumber {
		sort.Slice(w.Campaigns, func(i, j int) bool {
			return w.Campaigns[i].Name < w.Campaigns[j].Name
		})
		weeks = append(weeks, *w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Number < weeks[j].Number })
	return weeks
}

// WeekSpan returns the Monday and Sunday bounding the week containing d.
func WeekSpan(d time.Time) (monday, sunday time.Time) {
	offset := (int(d.Weekday()) + 6) % 7 // Monday-start week
	monday = d.AddDate(0, 0, -offset)
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// WeekInfo returns the ISO week number of d and the display label derived
// from d's own Monday-Sunday span. The label always reflects that span,
// even when the ISO calendar assigns the week to an adjacent year.
func WeekInfo(d time.Time) (int, string) {
	_, week := d.ISOWeek()
	monday, sunday := WeekSpan(d)
	label := fmt.Sprintf("Week %d (Monday, %s - Sunday, %s)",
		week, monday.Format("Jan 02"), sunday.Format("Jan 02, 2006"))
	return week, label
}

// AggregateWeekly folds records whose calendar year matches targetYear
// into (ISO week, campaign) buckets. Records from adjoining ISO weeks that
// nominally belong to another year are excluded by the calendar-year
// filter before bucketing.
func AggregateWeekly(data []CampaignData, targetYear int) *WeeklyAggregate {
	agg := &WeeklyAggregate{}
	for _, cd := range data {
		name := cd.Campaign.Name
		if name == "" {
			name = "Unnamed"
		}
		for _, day := range cd.Days {
			date, err := time.Parse(dateLayout, day.Date)
			if err != nil || date.Year() != targetYear {
				continue
			}
			week, label := WeekInfo(date)
			agg.bucket(WeekKey{Number: week, Label: label, Campaign: name}).Add(day)
		}
	}
	return agg
}

// AgentStats is the all-time sending aggregate for one account.
type AgentStats struct {
	Email      string
	TotalSent  int
	ActiveDays int
}

// AvgPerDay returns total sent divided by active days, 0 when the account
// never sent.
func (s AgentStats) AvgPerDay() float64 {
	if s.ActiveDays == 0 {
		return 0
	}
	return float64(s.TotalSent) / float64(s.ActiveDays)
}

// Active reports whether the account ever sent anything.
func (s AgentStats) Active() bool {
	return s.TotalSent > 0
}

// AggregateAgents folds per-account daily send records into per-agent
// totals, counting a day as active when its sent count is positive.
// Roster accounts absent from the analytics stream still appear with
// zeros. Agents are ordered by total sent descending, ties keeping
// encounter order.
func AggregateAgents(accounts []instantly.Account, stats []instantly.AccountDailyStat) []AgentStats {
	index := make(map[string]int)
	var agents []AgentStats

	at := func(email string) *AgentStats {
		if i, ok := index[email]; ok {
			return &agents[i]
		}
		index[email] = len(agents)
		agents = append(agents, AgentStats{Email: email})
		return &agents[len(agents)-1]
	}

	for _, day := range stats {
		if day.EmailAccount == "" {
			continue
		}
		a := at(day.EmailAccount)
		a.TotalSent += day.Sent
		if day.Sent > 0 {
			a.ActiveDays++
		}
	}

	for _, acct := range accounts {
		if acct.Email != "" {
			at(acct.Email)
		}
	}

	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].TotalSent > agents[j].TotalSent
	})
	return agents
}
