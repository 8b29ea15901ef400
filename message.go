package parley

import "time"

// Sender identifies who authored a Message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry in a thread's log. Messages are values and are never
// modified after they are appended.
type Message struct {
	Text      string
	Sender    Sender
	Timestamp time.Time
	// Formatted is the structured rendering of Text. Only bot messages
	// carry it.
	Formatted []Node
}

// NewUserMessage returns a user message stamped with now.
func NewUserMessage(text string, now time.Time) Message {
	return Message{Text: text, Sender: SenderUser, Timestamp: now}
}

// NewBotMessage returns a bot message stamped with now.
func NewBotMessage(text string, formatted []Node, now time.Time) Message {
	return Message{Text: text, Sender: SenderBot, Timestamp: now, Formatted: formatted}
}
