// Package cli provides the interactive order book command-line client.
//
// It wires the order service, the background sync session and an interactive
// REPL. The REPL serves every read from the local cache, so it stays usable
// with no connection; queued changes upload whenever connectivity allows.
package cli

import (
	"bufio"
	"context"
	"os"
	"sync/atomic"

	"github.com/kavyatex/sareebook/internal/client/services"
	"github.com/kavyatex/sareebook/internal/client/syncmgr"
)

type App struct {
	svc     *services.OrderService
	manager *syncmgr.Manager
	online  *atomic.Bool
	userID  string
	reader  *bufio.Reader
}

func NewApp(svc *services.OrderService, manager *syncmgr.Manager, online *atomic.Bool, userID string) *App {
	return &App{
		svc:     svc,
		manager: manager,
		online:  online,
		userID:  userID,
		reader:  bufio.NewReader(os.Stdin),
	}
}

func (a *App) status() string {
	mode := "offline"
	if a.online.Load() {
		mode = "online"
	}
	return a.userID + " " + mode
}

// Run starts the background session and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	session, err := a.manager.Init(a.userID)
	if err != nil {
		return err
	}
	defer a.manager.Teardown()

	go func() {
		for {
			select {
			case <-session.Updates():
				printlnFn("(orders updated in the background, run 'list' to refresh)")
			case <-ctx.Done():
				return
			}
		}
	}()

	printlnFn("Saree Order Book (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	return nil
}

// kick wakes the background session so a queued change uploads right away.
func (a *App) kick(ctx context.Context) {
	if s := a.manager.Current(); s != nil {
		s.Foreground(ctx)
	}
}
