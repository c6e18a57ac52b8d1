package cli

import (
	"context"

	"github.com/iudanet/staffdesk/internal/client/tracker"
	"github.com/iudanet/staffdesk/internal/timepunch"
)

// runWatch показывает живой счетчик до отмены ctx (Ctrl+C)
func (c *Cli) runWatch(ctx context.Context) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if err := c.tracker.Refresh(ctx); err != nil {
		return err
	}

	c.io.Println("Watching today's shift. Press Ctrl+C to stop.")

	err := c.tracker.Watch(ctx, func(v tracker.View) {
		// live: идет опрос сервера; при закрытой смене счетчик стоит
		mode := "idle"
		if c.tracker.Polling() {
			mode = "live"
		}
		c.io.Printf("\r%s  %s  [%s]   ", shiftState(v), timepunch.FormatHMS(v.WorkSeconds), mode)
	})
	c.io.Println()
	return err
}
