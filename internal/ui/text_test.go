package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.Local)

	assert.Equal(t, "09:30", ShortDate(time.Date(2024, 5, 10, 9, 30, 0, 0, time.Local), now))
	assert.Equal(t, "Feb 01", ShortDate(time.Date(2024, 2, 1, 9, 30, 0, 0, time.Local), now))
	assert.Equal(t, "2023-12-31", ShortDate(time.Date(2023, 12, 31, 9, 0, 0, 0, time.Local), now))
	assert.Equal(t, "", ShortDate(time.Time{}, now))
}

func TestText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Work Travel", CategoryTitle("work_travel"))
	assert.Equal("", CategoryTitle(""))
	assert.Equal("a b c", SingleLine("a\r\nb\tc"))
	assert.Equal("1,234", Count(1234))
	assert.Equal("2.0 kB", Size(2000))
	assert.Equal("hel…", Truncate("hello", 4))
	assert.Equal("hello", Truncate("hello", 10))
}

func TestSenderName(t *testing.T) {
	assert.Equal(t, "Ann Lee", SenderName(`"Ann Lee" <ann@example.com>`))
	assert.Equal(t, "ann@example.com", SenderName("<ann@example.com>"))
	assert.Equal(t, "ann@example.com", SenderName("ann@example.com"))
}
