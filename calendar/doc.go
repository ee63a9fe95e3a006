// Package calendar provides a client for the Google Calendar events API.
//
// The Manager composes the auth and transport packages to implement
// list, get, insert, update and delete against the events collection of a
// single calendar. Listing returns a lazy, single-pass Iterator that
// fetches pages transparently at the page boundary.
//
// Example usage:
//
//	mgr, err := calendar.NewManager(creds, "Europe/London", "primary")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mgr.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Stop()
//
//	created, err := mgr.Insert(ctx, calendar.Event{
//	    Summary: "standup",
//	    Start:   calendar.NewDateTime(start, "Europe/London"),
//	    End:     calendar.NewDateTime(start.Add(15*time.Minute), "Europe/London"),
//	})
package calendar
