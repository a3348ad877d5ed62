package chat

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is a single persisted chat turn, user or assistant.
type Message struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"userId"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageDraft is the caller-supplied part of a Message; the store assigns
// the id and timestamp.
type MessageDraft struct {
	UserID  *int
	Content string
	IsUser  bool
}

// MessageStore is the persistence contract the conversation service depends on.
type MessageStore interface {
	Messages(limit int) []Message
	SaveMessage(draft MessageDraft) Message
	ClearMessages()
}

// CardType discriminates the shape of a knowledge card's content.
type CardType string

const (
	CardText  CardType = "text"
	CardList  CardType = "list"
	CardTable CardType = "table"
)

// TableRow is one label/value pair in a table card.
type TableRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// KnowledgeCard is a structured content block the assistant can attach to a
// reply. Exactly one of Text, Items, or Rows is set, according to Type.
// Cards travel in the message response only; they are never persisted.
type KnowledgeCard struct {
	Title string
	Type  CardType
	Icon  string

	Text  string
	Items []string
	Rows  []TableRow
}

// cardWire is the JSON shape shared with the model and the client:
// content is a string, a string array, or a label/value array depending on type.
type cardWire struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
	Type    CardType        `json:"type"`
	Icon    string          `json:"icon,omitempty"`
}

func (c KnowledgeCard) MarshalJSON() ([]byte, error) {
	var content any
	switch c.Type {
	case CardText:
		content = c.Text
	case CardList:
		content = c.Items
	case CardTable:
		content = c.Rows
	default:
		return nil, fmt.Errorf("knowledge card: unknown type %q", c.Type)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	return json.Marshal(cardWire{
		Title:   c.Title,
		Content: raw,
		Type:    c.Type,
		Icon:    c.Icon,
	})
}

func (c *KnowledgeCard) UnmarshalJSON(data []byte) error {
	var wire cardWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	card := KnowledgeCard{
		Title: wire.Title,
		Type:  wire.Type,
		Icon:  wire.Icon,
	}

	switch wire.Type {
	case CardText:
		if err := json.Unmarshal(wire.Content, &card.Text); err != nil {
			return fmt.Errorf("knowledge card %q: text content: %w", wire.Title, err)
		}
	case CardList:
		if err := json.Unmarshal(wire.Content, &card.Items); err != nil {
			return fmt.Errorf("knowledge card %q: list content: %w", wire.Title, err)
		}
	case CardTable:
		if err := json.Unmarshal(wire.Content, &card.Rows); err != nil {
			return fmt.Errorf("knowledge card %q: table content: %w", wire.Title, err)
		}
	default:
		return fmt.Errorf("knowledge card %q: unknown type %q", wire.Title, wire.Type)
	}

	*c = card
	return nil
}
