package cli

import (
	"context"
	"strings"
)

// Sync runs a flush-then-sync pass in the foreground and reports the result.
func (a *App) Sync(ctx context.Context) error {
	uploaded, err := a.svc.Flush(ctx, a.userID)
	if err != nil {
		printlnFn("Upload stopped:", err.Error())
	}
	if uploaded > 0 {
		printlnFn("Uploaded", uploaded, "change(s).")
	}

	changed, err := a.svc.SyncOrders(ctx, a.userID)
	if err != nil {
		return err
	}
	if changed {
		printlnFn("Orders updated from the server.")
	} else {
		printlnFn("Already up to date.")
	}

	depth, err := a.svc.OutboxDepth(ctx, a.userID)
	if err == nil && depth > 0 {
		printlnFn(depth, "change(s) still waiting to upload.")
	}
	return nil
}

// Suggest prints the recent values offered as autocomplete for the order form.
func (a *App) Suggest(ctx context.Context) error {
	s, err := a.svc.Suggestions(ctx, a.userID)
	if err != nil {
		return err
	}
	printlnFn("Recipients:", strings.Join(s.Recipients, ", "))
	printlnFn("Senders:   ", strings.Join(s.Senders, ", "))
	printlnFn("Booked by: ", strings.Join(s.BookedBy, ", "))
	printlnFn("Mobiles:   ", strings.Join(s.Mobiles, ", "))
	printlnFn("Couriers:  ", strings.Join(s.Couriers, ", "))
	return nil
}
