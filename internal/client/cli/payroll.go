package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

const payrollUsage = "staffdesk payroll <list [limit] [page]|upload <employee_id> <YYYY-MM> <file.pdf>|delete <id>|download <id> <out.pdf>>"

func (c *Cli) runPayroll(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s", ErrUsage, payrollUsage)
	}

	switch args[0] {
	case "list":
		return c.payrollList(ctx, args[1:])
	case "upload":
		return c.payrollUpload(ctx, args[1:])
	case "delete":
		return c.payrollDelete(ctx, args[1:])
	case "download":
		return c.payrollDownload(ctx, args[1:])
	default:
		return fmt.Errorf("%w: payroll %s", ErrUnknownCommand, args[0])
	}
}

func (c *Cli) payrollList(ctx context.Context, args []string) error {
	// 0 оставляет значение сервера
	nums := [2]int{}
	for i := 0; i < len(args) && i < len(nums); i++ {
		n, err := strconv.Atoi(args[i])
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: staffdesk payroll list [limit] [page]", ErrUsage)
		}
		nums[i] = n
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	var raw json.RawMessage
	err := c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		var err error
		raw, err = c.hr.ListPayrolls(ctx, token, nums[0], nums[1])
		return err
	})
	if err != nil {
		return err
	}

	c.io.Println(prettyJSON(raw))
	return nil
}

func (c *Cli) payrollUpload(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: staffdesk payroll upload <employee_id> <YYYY-MM> <file.pdf>", ErrUsage)
	}
	employeeID, err := parseID(args[0])
	if err != nil {
		return err
	}
	period, err := time.Parse("2006-01", args[1])
	if err != nil {
		return fmt.Errorf("%w: invalid period %q, want YYYY-MM", ErrUsage, args[1])
	}
	path := args[2]
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%w: payroll document must be a PDF", ErrUsage)
	}
	if err := c.requireRole(ctx, staffRoles...); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open payroll document: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	meta := pkgapi.PayrollUpload{
		EmployeeID: employeeID,
		Month:      int(period.Month()),
		Year:       period.Year(),
	}
	var raw json.RawMessage
	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		// повтор после refresh читает файл с начала
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		var err error
		raw, err = c.hr.UploadPayroll(ctx, token, meta, filepath.Base(path), f)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Payroll %s uploaded for employee #%d\n", period.Format("2006-01"), employeeID)
	if len(raw) > 0 {
		c.io.Println(prettyJSON(raw))
	}
	return nil
}

func (c *Cli) payrollDelete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: staffdesk payroll delete <id>", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := c.requireRole(ctx, staffRoles...); err != nil {
		return err
	}

	answer, err := c.io.ReadInput(fmt.Sprintf("Delete payroll #%d? [y/N]: ", id))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !isYes(answer) {
		c.io.Println("Cancelled.")
		return nil
	}

	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		return c.hr.DeletePayroll(ctx, token, id)
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Payroll #%d deleted\n", id)
	return nil
}

func (c *Cli) payrollDownload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: staffdesk payroll download <id> <out.pdf>", ErrUsage)
	}

	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	out := args[1]
	tmp := out + ".part"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp)
	}()

	var written int64
	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		// повтор после refresh пишет файл заново
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := f.Truncate(0); err != nil {
			return err
		}
		written, err = c.hr.DownloadPayroll(ctx, token, id, f)
		return err
	})
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, out); err != nil {
		return fmt.Errorf("failed to save payroll: %w", err)
	}

	c.io.Printf("✓ Payroll #%d saved to %s (%d bytes)\n", id, out, written)
	return nil
}
