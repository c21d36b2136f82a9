// Package upload sends product images to a Cloudinary-compatible unsigned
// upload endpoint.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxImageSize is the largest accepted image
	MaxImageSize = 5 << 20
	// Attempts is the number of tries before an upload is given up
	Attempts = 3
	// Backoff is the fixed pause between tries
	Backoff = time.Second
)

var (
	ErrNotConfigured = errors.New("image upload is not configured")
	ErrNotImage      = errors.New("only image files are allowed")
	ErrTooLarge      = errors.New("image must be under 5MB")
	ErrUploadFailed  = errors.New("image upload failed")
)

// Image is a file to be uploaded
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Validate checks the type and size limits
func (img Image) Validate() error {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return ErrNotImage
	}
	if len(img.Data) == 0 {
		return ErrNotImage
	}
	if len(img.Data) > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

// Client uploads images and returns their hosted URL
type Client struct {
	BaseURL   string
	CloudName string
	Preset    string
	Backoff   time.Duration
	HTTP      *http.Client
	logger    *zap.Logger
}

// NewClient returns a Client for the given cloud and upload preset
func NewClient(baseURL, cloudName, preset string, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		CloudName: cloudName,
		Preset:    preset,
		Backoff:   Backoff,
		HTTP:      &http.Client{Timeout: 60 * time.Second},
		logger:    logger,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload posts img, retrying failed attempts after a fixed pause, and
// returns the secure URL of the hosted image
func (c *Client) Upload(ctx context.Context, img Image) (string, error) {
	if c.CloudName == "" || c.Preset == "" {
		return "", ErrNotConfigured
	}
	if err := img.Validate(); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= Attempts; attempt++ {
		url, err := c.post(ctx, img)
		if err == nil {
			return url, nil
		}
		lastErr = err
		c.logger.Warn("Image upload failed",
			zap.Int("attempt", attempt),
			zap.Int("attempts_left", Attempts-attempt),
			zap.Error(err))

		if attempt == Attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrUploadFailed, ctx.Err())
		case <-time.After(c.Backoff):
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", ErrUploadFailed, Attempts, lastErr)
}

func (c *Client) post(ctx context.Context, img Image) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", img.Filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return "", err
	}
	if err := form.WriteField("upload_preset", c.Preset); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.BaseURL, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.SecureURL == "" {
		return "", errors.New("response has no secure_url")
	}
	return out.SecureURL, nil
}
