// Package export writes messages to local .eml files so they survive
// outside the client (the backend keeps no archive contract).
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/emersion/go-message/mail"

	"github.com/dkarlsen/mailterm/internal/model"
)

// Writer saves emails as RFC 5322 files under a fixed directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer targeting dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Save writes the email as a single-part text/plain .eml file and
// returns the path it was written to.
func (w *Writer) Save(email model.Email) (string, error) {
	path := filepath.Join(w.dir, Filename(email))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteEML(f, email); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}

// WriteEML serializes the email as an RFC 5322 message.
func WriteEML(w io.Writer, email model.Email) error {
	var h mail.Header
	h.SetDate(email.Date)
	h.SetSubject(email.Subject)
	h.SetAddressList("From", []*mail.Address{{Address: email.Sender}})
	h.SetAddressList("To", []*mail.Address{{Address: email.Recipient}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	body, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}

	if _, err := io.WriteString(body, email.Body); err != nil {
		body.Close()
		return fmt.Errorf("writing body: %w", err)
	}

	return body.Close()
}

// Filename derives a filesystem-safe name from the message id and subject.
func Filename(email model.Email) string {
	slug := slugify(email.Subject)
	if slug == "" {
		slug = "no-subject"
	}
	return fmt.Sprintf("%d-%s.eml", email.ID, slug)
}

// slugify lowercases the subject and collapses anything that is not a
// letter or digit into single dashes.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 48 {
		out = strings.Trim(out[:48], "-")
	}
	return out
}
