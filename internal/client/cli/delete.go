package cli

import (
	"context"
	"os"
)

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter order id to delete", os.Stdout)
	if err != nil {
		return err
	}

	confirm, err := GetSimpleText(a.reader, "Delete "+id+"? [y/N]", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "y" && confirm != "Y" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.svc.DeleteOrder(ctx, a.userID, id); err != nil {
		return err
	}
	printlnFn("Deleted:", id)
	a.kick(ctx)
	return nil
}
