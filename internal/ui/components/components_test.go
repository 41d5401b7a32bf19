package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Header", Disabled: true},
		{Label: "One", Value: "1"},
		{Label: "Gap", Disabled: true},
		{Label: "Two", Value: "2"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected, "stays on the last enabled item")

	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, ChosenMsg{Item: MenuItem{Label: "Two", Value: "2"}}, cmd())

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
	assert.Contains(t, m.View(), "▸ One")
}

func TestTextInputNumericOnly(t *testing.T) {
	in := NewTextInput("", 4)
	in.NumericOnly = true
	for _, r := range "1a2" {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "12", in.Value())
	n, err := in.NumericValue()
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestPasswordInputMasks(t *testing.T) {
	in := NewPasswordInput("password")
	for _, r := range "owl" {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	assert.Equal(t, "owl", in.Value())
	assert.NotContains(t, in.View(), "owl")
}

func TestProgressBarClamps(t *testing.T) {
	assert.Contains(t, NewProgressBar("Goal", 150, 40).View(), "100%")
	assert.Contains(t, NewProgressBar("", -5, 40).View(), "0%")
}
