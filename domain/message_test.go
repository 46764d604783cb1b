package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage_String_Joined(t *testing.T) {
	req := require.New(t)

	// When a peer joins
	msg := NewJoined("alice")

	// Then the notification line carries the bracketed name
	req.Equal("[alice] joined", msg.String())
}

func TestMessage_String_Left(t *testing.T) {
	req := require.New(t)

	msg := NewLeft("alice")

	req.Equal("[alice] left", msg.String())
}

func TestMessage_String_Chat(t *testing.T) {
	req := require.New(t)

	msg := NewChat("bob", "hello")

	req.Equal("[bob]: hello", msg.String())
}

func TestMessage_String_EmptyName(t *testing.T) {
	req := require.New(t)

	// Given an empty peer name, accepted verbatim
	msg := NewChat("", "hi")

	// Then rendering does not special-case it
	req.Equal("[]: hi", msg.String())
}

func TestMessage_ChatTextIsOpaque(t *testing.T) {
	req := require.New(t)

	// Given chat text that happens to equal another peer's name
	msg := NewChat("bob", "alice")

	// Then the content is rendered as plain text
	req.Equal("[bob]: alice", msg.String())
	req.Equal("bob", msg.Sender)
}
