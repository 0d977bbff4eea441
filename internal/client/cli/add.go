package cli

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Add creates an order from interactive prompts. The order is visible in
// listings immediately; the upload happens in the background.
func (a *App) Add(ctx context.Context) error {
	hints, err := a.svc.Suggestions(ctx, a.userID)
	if err != nil {
		// Suggestions are a convenience, never a blocker.
		hints = &models.Suggestions{}
	}

	var p models.OrderPayload
	if p.Recipient, err = GetSimpleText(a.reader, withHint("Recipient", hints.Recipients), os.Stdout); err != nil {
		return err
	}
	if p.Sender, err = GetSimpleText(a.reader, withHint("Sender", hints.Senders), os.Stdout); err != nil {
		return err
	}
	if p.BookedBy, err = GetSimpleText(a.reader, withHint("Booked by", hints.BookedBy), os.Stdout); err != nil {
		return err
	}
	if p.Mobile, err = GetSimpleText(a.reader, withHint("Mobile", hints.Mobiles), os.Stdout); err != nil {
		return err
	}
	if p.Courier, err = GetSimpleText(a.reader, withHint("Courier", hints.Couriers), os.Stdout); err != nil {
		return err
	}
	if p.Quantity, err = GetOptionalInt(a.reader, "Quantity", os.Stdout); err != nil {
		return err
	}
	if p.BookingDate, err = GetDate(a.reader, "Booking date", time.Now(), os.Stdout); err != nil {
		return err
	}

	id, err := a.svc.CreateOrder(ctx, a.userID, p)
	if err != nil {
		return err
	}
	printlnFn("Saved:", id)
	a.kick(ctx)
	return nil
}

// withHint appends up to three recent values to the prompt.
func withHint(prompt string, recent []string) string {
	if len(recent) == 0 {
		return prompt
	}
	if len(recent) > 3 {
		recent = recent[:3]
	}
	return prompt + " (recent: " + strings.Join(recent, ", ") + ")"
}
