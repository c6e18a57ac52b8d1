package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func (c *Cli) runAvatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: staffdesk avatar <upload <file>|delete>", ErrUsage)
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	switch args[0] {
	case "upload":
		if len(args) < 2 {
			return fmt.Errorf("%w: staffdesk avatar upload <file>", ErrUsage)
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()

		profile, err := c.session.UploadImage(ctx, filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		c.io.Println("✓ Avatar uploaded")
		if profile != nil && profile.ImageURL != "" {
			c.io.Printf("Image: %s\n", profile.ImageURL)
		}
		return nil

	case "delete":
		if _, err := c.session.DeleteImage(ctx); err != nil {
			return err
		}
		c.io.Println("✓ Avatar deleted")
		return nil

	default:
		return fmt.Errorf("%w: avatar %s", ErrUnknownCommand, args[0])
	}
}
