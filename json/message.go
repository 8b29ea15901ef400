package json

import (
	"fmt"
	"time"

	"github.com/fwojciec/parley"
	"github.com/fwojciec/parley/format"
)

// messageDTO is the JSON representation of a Message.
type messageDTO struct {
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Formatted []nodeDTO `json:"formatted,omitempty"`
}

func marshalMessage(m parley.Message) (messageDTO, error) {
	switch m.Sender {
	case parley.SenderUser, parley.SenderBot:
	default:
		return messageDTO{}, fmt.Errorf("unknown sender: %q", m.Sender)
	}
	nodes, err := marshalNodes(m.Formatted)
	if err != nil {
		return messageDTO{}, err
	}
	return messageDTO{
		Text:      m.Text,
		Sender:    string(m.Sender),
		Timestamp: m.Timestamp,
		Formatted: nodes,
	}, nil
}

func unmarshalMessage(dto messageDTO) (parley.Message, error) {
	nodes, err := unmarshalNodes(dto.Formatted)
	if err != nil {
		return parley.Message{}, err
	}
	switch parley.Sender(dto.Sender) {
	case parley.SenderUser:
		return parley.NewUserMessage(dto.Text, dto.Timestamp), nil
	case parley.SenderBot:
		// Snapshots without nodes re-derive them from the text.
		if nodes == nil {
			nodes = format.Format(dto.Text)
		}
		return parley.NewBotMessage(dto.Text, nodes, dto.Timestamp), nil
	default:
		return parley.Message{}, fmt.Errorf("unknown sender: %q", dto.Sender)
	}
}
