package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DevSender implements EmailSender for local development. Instead of talking
// to an email service it appends each email as a JSON file to a directory,
// which makes "did the welcome mail go out" a matter of ls.
type DevSender struct {
	dir string
}

// NewDevSender creates a development email sender writing to dir.
// The directory is created on first send if it does not exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

type devEmail struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Tag       string `json:"tag,omitempty"`
}

// SendEmail writes the email to a timestamped JSON file.
func (d *DevSender) SendEmail(_ context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	now := time.Now()
	raw, err := json.MarshalIndent(devEmail{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Body:      params.Body,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	name := fmt.Sprintf("%s_%d.json", now.Format("2006_01_02_150405"), now.UnixNano()%1000)
	if err := os.WriteFile(filepath.Join(d.dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}
