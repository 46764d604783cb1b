// Package domain contains core concepts of the relay.
// This file defines Message values and their wire rendering.
// Messages are immutable once created and shared by pointer across mailboxes.
package domain

import "fmt"

type MessageKind int

const (
	KindJoined MessageKind = iota
	KindLeft
	KindChat
)

// Message represents one relay event originating from a named peer.
// A single allocation serves every mailbox it is fanned out to, so
// a Message must never be mutated after construction.
type Message struct {
	Kind    MessageKind
	Sender  string
	Content string
}

func NewJoined(sender string) *Message {
	return &Message{Kind: KindJoined, Sender: sender}
}

func NewLeft(sender string) *Message {
	return &Message{Kind: KindLeft, Sender: sender}
}

func NewChat(sender, content string) *Message {
	return &Message{Kind: KindChat, Sender: sender, Content: content}
}

// String renders the line delivered to other peers.
func (m *Message) String() string {
	switch m.Kind {
	case KindJoined:
		return fmt.Sprintf("[%s] joined", m.Sender)
	case KindLeft:
		return fmt.Sprintf("[%s] left", m.Sender)
	default:
		return fmt.Sprintf("[%s]: %s", m.Sender, m.Content)
	}
}
