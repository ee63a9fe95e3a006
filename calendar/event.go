package calendar

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gcalio/gcal"
)

const dateLayout = "2006-01-02"

// EventTime is either an all-day calendar date or a precise timestamp with
// offset. Exactly one of Date and DateTime must be set; TimeZone is an
// optional IANA zone name.
type EventTime struct {
	Date     string `json:"date,omitempty"`
	DateTime string `json:"dateTime,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// NewDate creates an all-day EventTime from the calendar date of t.
func NewDate(t time.Time) *EventTime {
	return &EventTime{Date: t.Format(dateLayout)}
}

// NewDateTime creates a timestamp EventTime in the given IANA time zone.
func NewDateTime(t time.Time, timeZone string) *EventTime {
	return &EventTime{DateTime: t.Format(time.RFC3339), TimeZone: timeZone}
}

// Validate enforces that exactly one of Date and DateTime is set.
func (et *EventTime) Validate() error {
	switch {
	case et == nil:
		return nil
	case et.Date != "" && et.DateTime != "":
		return gcal.NewValidationError("event time: date and dateTime are mutually exclusive")
	case et.Date == "" && et.DateTime == "":
		return gcal.NewValidationError("event time: one of date or dateTime is required")
	}
	return nil
}

// MarshalJSON serialises only the populated fields and fails with a
// validation error when the date/dateTime constraint is violated.
func (et EventTime) MarshalJSON() ([]byte, error) {
	if err := et.Validate(); err != nil {
		return nil, err
	}
	type plain EventTime
	return json.Marshal(plain(et))
}

// Event models a calendar event. The remote schema is a superset of this
// struct: fields the model does not map are retained in Extra and echoed
// back on update, keyed by their JSON field name.
type Event struct {
	// ID is absent for not-yet-created events and present after insert.
	ID      string
	Summary string
	Start   *EventTime
	End     *EventTime
	Extra   map[string]json.RawMessage
}

// UnmarshalJSON decodes the known fields and keeps everything else in
// Extra so a subsequent update round-trips the full remote document.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	*e = Event{}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &e.ID); err != nil {
			return fmt.Errorf("decode event id: %w", err)
		}
		delete(raw, "id")
	}
	if v, ok := raw["summary"]; ok {
		if err := json.Unmarshal(v, &e.Summary); err != nil {
			return fmt.Errorf("decode event summary: %w", err)
		}
		delete(raw, "summary")
	}
	if v, ok := raw["start"]; ok {
		e.Start = &EventTime{}
		if err := json.Unmarshal(v, e.Start); err != nil {
			return fmt.Errorf("decode event start: %w", err)
		}
		delete(raw, "start")
	}
	if v, ok := raw["end"]; ok {
		e.End = &EventTime{}
		if err := json.Unmarshal(v, e.End); err != nil {
			return fmt.Errorf("decode event end: %w", err)
		}
		delete(raw, "end")
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// MarshalJSON produces the wire document: the pass-through fields first,
// overlaid with the typed ones.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Extra)+4)
	for k, v := range e.Extra {
		out[k] = v
	}

	put := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}

	if e.ID != "" {
		if err := put("id", e.ID); err != nil {
			return nil, err
		}
	}
	if e.Summary != "" {
		if err := put("summary", e.Summary); err != nil {
			return nil, err
		}
	}
	if e.Start != nil {
		if err := put("start", e.Start); err != nil {
			return nil, err
		}
	}
	if e.End != nil {
		if err := put("end", e.End); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (e Event) validateForInsert() error {
	if e.ID != "" {
		return gcal.NewValidationError("insert: event must not carry a pre-existing id")
	}
	return nil
}

func (e Event) validateForUpdate() error {
	if e.ID == "" {
		return gcal.NewValidationError("update: event id is required")
	}
	return nil
}
