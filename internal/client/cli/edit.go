package cli

import (
	"context"
	"os"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// Edit updates selected fields of an order. Blank answers leave the field as
// it is.
func (a *App) Edit(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter order id to edit", os.Stdout)
	if err != nil {
		return err
	}

	current, err := a.svc.GetOrderByID(ctx, a.userID, id, nil)
	if err != nil {
		return err
	}
	if current == nil {
		printlnFn("Not found:", id)
		return nil
	}

	var c models.OrderChanges
	for _, f := range []struct {
		prompt  string
		current string
		target  **string
	}{
		{"Recipient", current.Recipient, &c.Recipient},
		{"Sender", current.Sender, &c.Sender},
		{"Booked by", current.BookedBy, &c.BookedBy},
		{"Mobile", current.Mobile, &c.Mobile},
		{"Courier", current.Courier, &c.Courier},
	} {
		text, err := GetSimpleText(a.reader, f.prompt+" ["+f.current+"] (blank = keep)", os.Stdout)
		if err != nil {
			return err
		}
		if text != "" {
			v := text
			*f.target = &v
		}
	}

	if c.Quantity, err = GetOptionalInt(a.reader, "Quantity", os.Stdout); err != nil {
		return err
	}

	if err := a.svc.UpdateOrder(ctx, a.userID, id, c); err != nil {
		return err
	}
	printlnFn("Updated:", id)
	a.kick(ctx)
	return nil
}

// Dispatch marks an order despatched with a despatch date.
func (a *App) Dispatch(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter order id to despatch", os.Stdout)
	if err != nil {
		return err
	}
	date, err := GetDate(a.reader, "Despatch date", time.Now(), os.Stdout)
	if err != nil {
		return err
	}

	if err := a.svc.UpdateOrderStatus(ctx, a.userID, id, models.StatusDespatched, &date); err != nil {
		return err
	}
	printlnFn("Despatched:", id)
	a.kick(ctx)
	return nil
}
