package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// eventsPage is the wire shape of one listing page.
type eventsPage struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}

// Iterator is a lazy, forward-only cursor over a paginated events listing.
// Pages are fetched in server-provided order as the consumer advances past
// the last item of the current page; the listing ends when a page carries
// no nextPageToken.
//
// An Iterator is single-pass: once exhausted it stays exhausted. Call
// Manager.List again for a fresh cursor.
type Iterator struct {
	mgr       *Manager
	params    url.Values
	pageToken string

	items     []Event
	pos       int
	cur       Event
	lastPage  bool
	exhausted bool
	err       error
}

// fetch retrieves the next page into the buffer.
func (it *Iterator) fetch(ctx context.Context) error {
	params := url.Values{}
	for key, vals := range it.params {
		params[key] = vals
	}
	if it.pageToken != "" {
		params.Set("pageToken", it.pageToken)
	}

	raw, err := it.mgr.session.Request(ctx, http.MethodGet, it.mgr.eventsPath(), params, nil)
	if err != nil {
		return err
	}

	var page eventsPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return fmt.Errorf("decode events page: %w", err)
	}
	it.items = page.Items
	it.pos = 0
	it.pageToken = page.NextPageToken
	it.lastPage = page.NextPageToken == ""
	return nil
}

// Next advances the iterator, fetching the next page at the page boundary.
// It returns false when the listing is exhausted or an error occurred;
// Err distinguishes the two. Cancelling ctx stops the advance without
// invalidating events already yielded.
func (it *Iterator) Next(ctx context.Context) bool {
	if it.err != nil || it.exhausted {
		return false
	}
	for it.pos >= len(it.items) {
		if it.lastPage {
			it.exhausted = true
			return false
		}
		if err := it.fetch(ctx); err != nil {
			it.err = err
			return false
		}
	}
	it.cur = it.items[it.pos]
	it.pos++
	return true
}

// Event returns the event advanced to by the last successful Next call.
func (it *Iterator) Event() Event {
	return it.cur
}

// Err returns the error that terminated iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// All drains the iterator and returns the remaining events.
func (it *Iterator) All(ctx context.Context) ([]Event, error) {
	var events []Event
	for it.Next(ctx) {
		events = append(events, it.Event())
	}
	return events, it.Err()
}
