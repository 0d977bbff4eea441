package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kavyatex/sareebook/internal/client/models"
)

// List shows cached orders for a status and day. The cached rows print
// immediately; if a background refresh finds changes the user is nudged to
// list again.
func (a *App) List(ctx context.Context) error {
	filter, err := a.promptFilter()
	if err != nil {
		return err
	}

	orders, err := a.svc.GetOrders(ctx, a.userID, filter, func([]models.Order) {
		printlnFn("(orders updated in the background, run 'list' to refresh)")
	})
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		printlnFn("No orders.")
		return nil
	}
	for _, o := range orders {
		printlnFn(formatOrderLine(o))
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter order id", os.Stdout)
	if err != nil {
		return err
	}

	o, err := a.svc.GetOrderByID(ctx, a.userID, id, nil)
	if err != nil {
		return err
	}
	if o == nil {
		printlnFn("Not found:", id)
		return nil
	}
	printOrder(o)
	return nil
}

func (a *App) promptFilter() (models.OrderFilter, error) {
	status, err := GetSimpleText(a.reader, "Status [pending/despatched] (blank = pending)", os.Stdout)
	if err != nil {
		return models.OrderFilter{}, err
	}
	f := models.OrderFilter{Status: models.StatusPending}
	if strings.HasPrefix(strings.ToLower(status), "d") {
		f.Status = models.StatusDespatched
	}

	day, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD, 'all', blank = today)", os.Stdout)
	if err != nil {
		return models.OrderFilter{}, err
	}
	switch day {
	case "all":
		f.AllDates = true
	case "":
		f.From, f.To = dayRange(time.Now())
	default:
		d, err := time.ParseInLocation(dateLayout, day, time.Local)
		if err != nil {
			return models.OrderFilter{}, err
		}
		f.From, f.To = dayRange(d)
	}
	return f, nil
}

func dayRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func formatOrderLine(o models.Order) string {
	mark := ""
	if o.Provisional {
		mark = " (not yet uploaded)"
	}
	qty := ""
	if o.Quantity != nil {
		qty = fmt.Sprintf(" x%d", *o.Quantity)
	}
	return fmt.Sprintf("%s  %-12s %s%s  %s%s",
		o.BookingDate.Format(dateLayout), o.Status, o.Recipient, qty, o.ID, mark)
}

func printOrder(o *models.Order) {
	printlnFn("ID:          ", o.ID)
	printlnFn("Status:      ", string(o.Status))
	printlnFn("Recipient:   ", o.Recipient)
	printlnFn("Sender:      ", o.Sender)
	printlnFn("Booked by:   ", o.BookedBy)
	printlnFn("Mobile:      ", o.Mobile)
	printlnFn("Courier:     ", o.Courier)
	if o.Quantity != nil {
		printlnFn("Quantity:    ", *o.Quantity)
	}
	printlnFn("Booking date:", o.BookingDate.Format(dateLayout))
	if o.DespatchDate != nil {
		printlnFn("Despatched:  ", o.DespatchDate.Format(dateLayout))
	}
	if o.Provisional {
		printlnFn("(not yet uploaded)")
	}
}
