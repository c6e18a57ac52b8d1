package cli

import (
	"context"
	"fmt"
	"strconv"

	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

func (c *Cli) runHolidays(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: staffdesk holidays <balance [year]|allocate <employee_id> <days> [year]|approve <id>|reject <id>>", ErrUsage)
	}

	switch args[0] {
	case "balance":
		year := 0
		if len(args) > 1 {
			y, err := strconv.Atoi(args[1])
			if err != nil || y < 1970 {
				return fmt.Errorf("%w: invalid year %q", ErrUsage, args[1])
			}
			year = y
		}
		if err := c.requireAuth(); err != nil {
			return err
		}

		var balance *pkgapi.HolidayBalance
		err := c.session.WithSession(ctx, func(ctx context.Context, token string) error {
			var err error
			balance, err = c.hr.HolidayBalance(ctx, token, year)
			return err
		})
		if err != nil {
			return err
		}
		return render(c.io, holidayBalanceTemplate, balance)

	case "allocate":
		if len(args) < 3 {
			return fmt.Errorf("%w: staffdesk holidays allocate <employee_id> <days> [year]", ErrUsage)
		}
		employeeID, err := parseID(args[1])
		if err != nil {
			return err
		}
		days, err := strconv.Atoi(args[2])
		if err != nil || days < 0 {
			return fmt.Errorf("%w: invalid days %q", ErrUsage, args[2])
		}
		alloc := pkgapi.HolidayAllocation{EmployeeID: employeeID, AllocatedDays: days}
		if len(args) > 3 {
			y, err := strconv.Atoi(args[3])
			if err != nil || y < 1970 {
				return fmt.Errorf("%w: invalid year %q", ErrUsage, args[3])
			}
			alloc.Year = y
		}
		if err := c.requireRole(ctx, staffRoles...); err != nil {
			return err
		}

		var balance *pkgapi.HolidayBalance
		err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
			var err error
			balance, err = c.hr.AllocateHolidays(ctx, token, alloc)
			return err
		})
		if err != nil {
			return err
		}
		c.io.Printf("✓ Employee #%d: %d holiday days allocated\n", employeeID, days)
		return render(c.io, holidayBalanceTemplate, balance)

	case "approve", "reject":
		if len(args) < 2 {
			return fmt.Errorf("%w: staffdesk holidays %s <id>", ErrUsage, args[0])
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := c.requireRole(ctx, staffRoles...); err != nil {
			return err
		}

		approve := args[0] == "approve"
		err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
			_, err := c.hr.DecideHoliday(ctx, token, id, approve)
			return err
		})
		if err != nil {
			return err
		}
		verdict := "rejected"
		if approve {
			verdict = "approved"
		}
		c.io.Printf("✓ Holiday request #%d %s\n", id, verdict)
		return nil

	default:
		return fmt.Errorf("%w: holidays %s", ErrUnknownCommand, args[0])
	}
}
