package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadImage загружает аватар сотрудника (multipart, поле file)
func (c *Client) UploadImage(ctx context.Context, accessToken, filename string, r io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/employees/upload-img", accessToken, &buf)
	if err != nil {
		return err
	}
	// Content-Type с boundary выставляет multipart.Writer
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("upload image request failed: %w", err)
	}
	return nil
}

// DeleteImage удаляет аватар сотрудника
func (c *Client) DeleteImage(ctx context.Context, accessToken string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/employees/delete-img", accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete image request failed: %w", err)
	}
	return nil
}
