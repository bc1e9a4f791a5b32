package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestCommandEmitted(t *testing.T) {
	m := New([]string{"logout", "sync"}, 80, 20)
	m = typeText(m, "sync")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("sync"), cmd())
	assert.False(t, m.Asking())
}

func TestEmptyCommandIgnored(t *testing.T) {
	m := New(nil, 80, 20)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestAskReturnsAnswer(t *testing.T) {
	m := New(nil, 80, 20)
	m.Ask("tag", "Add tags", "comma separated", "work")
	assert.True(t, m.Asking())

	m = typeText(m, ", urgent")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, AnswerMsg{Kind: "tag", Value: "work, urgent"}, cmd())
	assert.False(t, m.Asking(), "answering returns to command mode")
}
