package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/staffdesk/internal/timepunch"
)

func (c *Cli) runTimelog(ctx context.Context, args []string) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	mode := "today"
	if len(args) > 0 {
		mode = args[0]
	}

	switch mode {
	case "today":
		if err := c.tracker.Refresh(ctx); err != nil {
			return err
		}
		return render(c.io, todayTemplate, newTodayView(c.tracker.Snapshot()))

	case "month":
		if err := c.selectMonth(ctx, args[1:]); err != nil {
			return err
		}

		v := c.tracker.Snapshot()
		return render(c.io, monthTemplate, monthView{
			Title: timepunch.MonthLabel(v.Month),
			Rows:  v.Rows,
			Total: summaryTotal(v.Summary),
		})

	default:
		return fmt.Errorf("%w: timelog %s", ErrUnknownCommand, mode)
	}
}

// selectMonth: без аргумента текущий месяц, YYYY-MM или prev/next от текущего
func (c *Cli) selectMonth(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.tracker.Refresh(ctx)
	}

	switch args[0] {
	case "prev", "next":
		if err := c.tracker.Refresh(ctx); err != nil {
			return err
		}
		if args[0] == "prev" {
			return c.tracker.PrevMonth(ctx)
		}
		return c.tracker.NextMonth(ctx)
	default:
		month, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("%w: month must be YYYY-MM, prev or next", ErrUsage)
		}
		return c.tracker.SetMonth(ctx, month)
	}
}
