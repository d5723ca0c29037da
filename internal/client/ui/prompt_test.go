package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  alice  \n"), &out)

	v, ok := p.Ask("Username: ")
	assert.True(t, ok)
	assert.Equal(t, "alice", v)
	assert.Equal(t, "Username: ", out.String())

	_, ok = p.Ask("Password: ")
	assert.False(t, ok, "end of input")
}

func TestPrompter_AskDefault(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\nnew title\n"), &out)

	v, ok := p.AskDefault("Title", "kept")
	assert.True(t, ok)
	assert.Equal(t, "kept", v)

	v, ok = p.AskDefault("Title", "")
	assert.True(t, ok)
	assert.Equal(t, "new title", v)
	assert.Equal(t, "Title [kept]: Title: ", out.String())
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
		assert.Equal(t, tt.want, p.Confirm("Sure?"), "input %q", tt.input)
	}
}

func TestPrompter_Stdin(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdin := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = oldStdin }()

	_, err = w.WriteString("hello\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	v, ok := NewPrompter(os.Stdin, &out).Ask("> ")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
}
