package calendar

import (
	"net/url"
	"strconv"
	"time"
)

// ListOptions narrows an events listing. The zero value lists everything.
// See https://developers.google.com/calendar/api/v3/reference/events/list
// for the parameter semantics.
type ListOptions struct {
	MaxResults   int64
	PageToken    string
	OrderBy      string // "startTime" or "updated"
	Query        string // free-text search, the q parameter
	SingleEvents bool
	SyncToken    string
	TimeMin      time.Time
	TimeMax      time.Time
	UpdatedMin   time.Time

	// Extra holds query parameters not covered by the typed fields.
	Extra url.Values
}

// values builds the query parameters for a listing. The manager's time
// zone is always attached.
func (o *ListOptions) values(timeZone string) url.Values {
	params := url.Values{}
	for key, vals := range o.Extra {
		params[key] = append([]string(nil), vals...)
	}
	if o.MaxResults > 0 {
		params.Set("maxResults", strconv.FormatInt(o.MaxResults, 10))
	}
	if o.OrderBy != "" {
		params.Set("orderBy", o.OrderBy)
	}
	if o.Query != "" {
		params.Set("q", o.Query)
	}
	if o.SingleEvents {
		params.Set("singleEvents", "true")
	}
	if o.SyncToken != "" {
		params.Set("syncToken", o.SyncToken)
	}
	if !o.TimeMin.IsZero() {
		params.Set("timeMin", o.TimeMin.Format(time.RFC3339))
	}
	if !o.TimeMax.IsZero() {
		params.Set("timeMax", o.TimeMax.Format(time.RFC3339))
	}
	if !o.UpdatedMin.IsZero() {
		params.Set("updatedMin", o.UpdatedMin.Format(time.RFC3339))
	}
	params.Set("timeZone", timeZone)
	return params
}

// CallOption adjusts the query parameters of a single API call.
type CallOption func(url.Values)

func applyCallOptions(params url.Values, opts []CallOption) {
	for _, opt := range opts {
		opt(params)
	}
}

// SendUpdates controls which attendees are notified of the change. Valid
// modes are "all", "externalOnly" and "none".
func SendUpdates(mode string) CallOption {
	return func(v url.Values) {
		v.Set("sendUpdates", mode)
	}
}

// TimeZone overrides the time zone applied to a single call.
func TimeZone(tz string) CallOption {
	return func(v url.Values) {
		v.Set("timeZone", tz)
	}
}

// WithParam sets an arbitrary query parameter on a single call.
func WithParam(key, value string) CallOption {
	return func(v url.Values) {
		v.Set(key, value)
	}
}
