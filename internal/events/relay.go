package events

import (
	"context"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

// Event names published for registry changes.
const (
	InterfaceUpsert = "interface.upsert"
	InterfaceRemove = "interface.remove"
)

// Relay forwards registry changes to the dispatcher until ctx is done.
func Relay(ctx context.Context, reg interfaces.Registry, d *Dispatcher) {
	ch, unsub := reg.Subscribe()
	go func() {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-ch:
				switch ev.Type {
				case "upsert":
					d.Dispatch(ctx, New(InterfaceUpsert, ev.ID, ev.Entry))
				case "remove":
					d.Dispatch(ctx, New(InterfaceRemove, ev.ID, map[string]string{"id": ev.ID}))
				}
			}
		}
	}()
}
