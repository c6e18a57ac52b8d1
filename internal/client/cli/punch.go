package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runPunch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: staffdesk punch <start|pause|end> [note]", ErrUsage)
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	note := strings.TrimSpace(strings.Join(args[1:], " "))

	// Проверка открытой смены идет по свежему статусу
	if err := c.tracker.Refresh(ctx); err != nil {
		c.logger.Warn("time punch refresh incomplete", "error", err)
	}

	var err error
	switch args[0] {
	case "start":
		err = c.tracker.Start(ctx, note)
	case "pause":
		err = c.tracker.PauseToggle(ctx, note)
	case "end":
		err = c.tracker.End(ctx, note)
	default:
		return fmt.Errorf("%w: punch %s", ErrUnknownCommand, args[0])
	}
	if err != nil {
		return err
	}

	return render(c.io, todayTemplate, newTodayView(c.tracker.Snapshot()))
}
