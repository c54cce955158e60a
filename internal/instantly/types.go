package instantly

import "encoding/json"

// Campaign statuses as reported by the Instantly v2 API.
const (
	StatusDraft  = 0
	StatusActive = 1
	StatusPaused = 2
)

// Campaign is a sending campaign. Only the fields the reporter reads are
// mapped; everything else in the payload is ignored.
type Campaign struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    int        `json:"status"`
	ReplyRate float64    `json:"reply_rate"`
	OpenRate  float64    `json:"open_rate"`
	Sequences []Sequence `json:"sequences"`
}

// Sequence is a campaign's email sequence, used only as a fallback source
// of email copy when no real sent email can be fetched.
type Sequence struct {
	Steps []SequenceStep `json:"steps"`
}

// SequenceStep holds the A/B variants of one sequence step.
type SequenceStep struct {
	Variants []SequenceVariant `json:"variants"`
}

// SequenceVariant is one subject/body variant of a sequence step.
type SequenceVariant struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DailyStat is one calendar day of performance for one campaign.
// Counters absent from the payload unmarshal to zero.
type DailyStat struct {
	Date              string `json:"date"` // YYYY-MM-DD
	Sent              int    `json:"sent"`
	NewLeadsContacted int    `json:"new_leads_contacted"`
	UniqueReplies     int    `json:"unique_replies"`
	Opportunities     int    `json:"opportunities"`
}

// Account is a sending mailbox from the account roster.
type Account struct {
	Email string `json:"email"`
}

// AccountDailyStat is one day of sending volume for one account.
type AccountDailyStat struct {
	Date         string `json:"date"`
	EmailAccount string `json:"email_account"`
	Sent         int    `json:"sent"`
}

// Email user-event types.
const (
	EmailTypeSent  = 1
	EmailTypeReply = 2
)

// Email is a single email event from the unified /emails endpoint.
type Email struct {
	UEType    int       `json:"ue_type"`
	Subject   string    `json:"subject"`
	Body      EmailBody `json:"body"`
	To        string    `json:"to_address_email_list"`
	Timestamp string    `json:"timestamp_email"`
}

// EmailBody accepts both payload shapes the API emits: an object with
// html/text variants, or a bare string.
type EmailBody struct {
	HTML string `json:"html"`
	Text string `json:"text"`
}

// UnmarshalJSON decodes either shape; a bare string lands in Text.
func (b *EmailBody) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Text = s
		return nil
	}
	type alias EmailBody
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = EmailBody(a)
	return nil
}

// Content returns the preferred body content, HTML over plain text.
func (b EmailBody) Content() string {
	if b.HTML != "" {
		return b.HTML
	}
	return b.Text
}

// listPage is the envelope of every cursor-paginated list endpoint.
type listPage struct {
	Items             []json.RawMessage `json:"items"`
	NextStartingAfter string            `json:"next_starting_after"`
}
