package export

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/model"
)

func sample(id, subject, body string) model.Message {
	return model.Message{
		ID:           model.ID(id),
		AccountEmail: "me@example.com",
		Subject:      subject,
		Sender:       "Ann Lee <ann@example.com>",
		Date:         model.Time{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		Body:         body,
		MainCategory: "work",
		Folder:       "inbox",
		Tags:         []string{"urgent", "q1"},
		IsRead:       true,
	}
}

func readBody(t *testing.T, r io.Reader) (*mail.Reader, string) {
	t.Helper()
	mr, err := mail.CreateReader(r)
	require.NoError(t, err)
	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	return mr, string(body)
}

func TestWriteEML(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	require.NoError(t, WriteEML(&buf, sample("42", "Quarterly report", "Hello\n\nSee you")))

	mr, body := readBody(t, &buf)
	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal("Quarterly report", subject)

	from, err := mr.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal("ann@example.com", from[0].Address)
	assert.Equal("Ann Lee", from[0].Name)

	date, err := mr.Header.Date()
	require.NoError(t, err)
	assert.True(date.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	assert.Equal("work", mr.Header.Get("X-Maildesk-Category"))
	assert.Equal("urgent, q1", mr.Header.Get("Keywords"))
	assert.Equal("RO", mr.Header.Get("Status"))
	assert.Contains(body, "See you")
}

func TestWriteEMLContentType(t *testing.T) {
	t.Run("html body", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEML(&buf, sample("1", "x", "<p>Hi</p>")))
		mr, _ := readBody(t, &buf)
		ct, _, err := mr.Header.ContentType()
		require.NoError(t, err)
		assert.Equal(t, "text/html", ct)
	})

	t.Run("plain body", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEML(&buf, sample("1", "x", "just text")))
		mr, _ := readBody(t, &buf)
		ct, _, err := mr.Header.ContentType()
		require.NoError(t, err)
		assert.Equal(t, "text/plain", ct)
	})

	t.Run("subject newlines are flattened", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteEML(&buf, sample("1", "line one\r\nBcc: evil@example.com", "x")))
		mr, _ := readBody(t, &buf)
		assert.Empty(t, mr.Header.Get("Bcc"))
	})
}

func TestWriteMbox(t *testing.T) {
	msgs := []model.Message{
		sample("1", "first", "From the start\nbody one"),
		sample("2", "second", "body two"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMbox(&buf, msgs))
	assert.True(t, strings.HasPrefix(buf.String(), "From ann@example.com "))

	reader := mbox.NewReader(&buf)
	var subjects, bodies []string
	for {
		r, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		mr, body := readBody(t, r)
		s, _ := mr.Header.Subject()
		subjects = append(subjects, s)
		bodies = append(bodies, body)
	}
	assert.Equal(t, []string{"first", "second"}, subjects)
	assert.Contains(t, bodies[0], "From the start")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Re_hello-42.eml", FileName(sample("42", "Re: hello!", ""), "eml"))
	assert.Equal(t, "message-7.eml", FileName(sample("7", "", ""), "eml"))
	assert.Equal(t, "message-9.eml", FileName(sample("9", "../..", ""), "eml"))
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveEML(dir, sample("5", "saved", "x"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Subject: saved")

	path, err = SaveMbox(dir, "inbox page 1", []model.Message{sample("5", "saved", "x")})
	require.NoError(t, err)
	assert.Equal(t, "inboxpage1.mbox", path[len(dir)+1:])
}
