package cli

import (
	"context"
	"log"
	"os"
)

// Delete removes one event from the local history, prompting for its id.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter event id to delete", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if err := a.coordinator.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	printlnFn("Deleted")
	return nil
}

// Clear wipes the whole local history after an explicit confirmation.
// Synced events are already on the ledger; pending ones are lost for good.
func (a *App) Clear(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete ALL local events, including unsynced ones? (yes/no)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled")
		return nil
	}
	if err := a.coordinator.ClearAll(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	printlnFn("Local history cleared")
	return nil
}
