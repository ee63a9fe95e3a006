// Package gcal defines the error kinds shared by the Google Calendar
// client packages in this module.
//
// The client itself lives in the calendar package; authentication in auth;
// the HTTP session layer in transport. A typical caller only needs:
//
//	creds := auth.Credentials{
//	    ClientID:     "...",
//	    ClientSecret: "...",
//	    Scopes:       []string{"https://www.googleapis.com/auth/calendar"},
//	    RefreshToken: "...",
//	}
//
//	mgr, err := calendar.NewManager(creds, "Europe/Berlin", "primary")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mgr.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Stop()
//
//	it, err := mgr.List(ctx, &calendar.ListOptions{MaxResults: 50})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for it.Next(ctx) {
//	    fmt.Println(it.Event().Summary)
//	}
//	if err := it.Err(); err != nil {
//	    log.Fatal(err)
//	}
package gcal
