// Package export writes messages to standard mail files: a single .eml per
// message, or an mbox holding a whole page.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"
	"github.com/mrz1836/go-sanitize"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/render"
)

// envelopeSender is used on the mbox "From " line when the sender has no
// parseable address.
const envelopeSender = "MAILER-DAEMON"

// header builds the RFC 5322 header for m.
func header(m model.Message) mail.Header {
	var h mail.Header

	h.SetDate(messageDate(m))
	h.SetSubject(sanitize.SingleLine(m.Subject))

	if addr, err := mail.ParseAddress(m.Sender); err == nil {
		h.SetAddressList("From", []*mail.Address{addr})
	} else if m.Sender != "" {
		h.Set("From", sanitize.SingleLine(m.Sender))
	}
	if m.AccountEmail != "" {
		h.SetAddressList("To", []*mail.Address{{Address: m.AccountEmail}})
	}

	if m.MessageID != "" {
		h.Set("Message-Id", m.MessageID)
	} else {
		h.SetMessageID(fmt.Sprintf("%s@maildesk.local", m.ID))
	}

	if label := m.CategoryLabel(); label != "" {
		h.Set("X-Maildesk-Category", sanitize.SingleLine(label))
	}
	if m.Folder != "" {
		h.Set("X-Maildesk-Folder", m.Folder)
	}
	if len(m.Tags) > 0 {
		h.Set("Keywords", strings.Join(m.Tags, ", "))
	}

	status := "O"
	if m.IsRead {
		status = "RO"
	}
	h.Set("Status", status)
	if m.IsStarred {
		h.Set("X-Status", "F")
	}

	contentType := "text/plain"
	if render.LooksLikeHTML(m.Body) {
		contentType = "text/html"
	}
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	return h
}

func messageDate(m model.Message) time.Time {
	if !m.Date.IsZero() {
		return m.Date.Time
	}
	if !m.CreatedAt.IsZero() {
		return m.CreatedAt.Time
	}
	return time.Unix(0, 0).UTC()
}

// WriteEML writes m to w as a single message.
func WriteEML(w io.Writer, m model.Message) error {
	body, err := mail.CreateSingleInlineWriter(w, header(m))
	if err != nil {
		return fmt.Errorf("writing header for message %s: %w", m.ID, err)
	}
	if _, err := io.WriteString(body, m.Body); err != nil {
		body.Close()
		return fmt.Errorf("writing body for message %s: %w", m.ID, err)
	}
	if err := body.Close(); err != nil {
		return fmt.Errorf("finishing message %s: %w", m.ID, err)
	}
	return nil
}

// WriteMbox writes msgs to w in mbox format, in order.
func WriteMbox(w io.Writer, msgs []model.Message) error {
	mw := mbox.NewWriter(w)
	for _, m := range msgs {
		from := envelopeSender
		if addr, err := mail.ParseAddress(m.Sender); err == nil && addr.Address != "" {
			from = addr.Address
		}

		dst, err := mw.CreateMessage(from, messageDate(m))
		if err != nil {
			return fmt.Errorf("starting mbox entry for %s: %w", m.ID, err)
		}
		if err := WriteEML(dst, m); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing mbox: %w", err)
	}
	return nil
}

// FileName returns a filesystem-safe name for m with the given extension.
func FileName(m model.Message, ext string) string {
	base := sanitize.PathName(strings.ReplaceAll(m.Subject, " ", "_"))
	if len(base) > 60 {
		base = base[:60]
	}
	if base == "" {
		base = "message"
	}
	return fmt.Sprintf("%s-%s.%s", base, sanitize.PathName(m.ID.String()), ext)
}

// SaveEML writes m into dir and returns the file path.
func SaveEML(dir string, m model.Message) (string, error) {
	path := filepath.Join(dir, FileName(m, "eml"))
	return path, writeFile(path, func(w io.Writer) error { return WriteEML(w, m) })
}

// SaveMbox writes msgs into dir under name and returns the file path.
func SaveMbox(dir, name string, msgs []model.Message) (string, error) {
	name = sanitize.PathName(name)
	if name == "" {
		name = "messages"
	}
	path := filepath.Join(dir, name+".mbox")
	return path, writeFile(path, func(w io.Writer) error { return WriteMbox(w, msgs) })
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
