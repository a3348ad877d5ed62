package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agrichat/agrichat-api/internal/chat/llm"
)

// ErrEmptyUtterance is returned when Send is called with blank content.
var ErrEmptyUtterance = errors.New("message cannot be empty")

// contextWindow is how many recent messages are replayed to the model.
const contextWindow = 5

const systemPrompt = `You are AgriBot, an agricultural assistant specialized in providing advice about plants, farming techniques, and growing recommendations.

Always respond to the user in a helpful, informative manner. When providing agricultural information, structure your response as JSON with two parts:
1. A conversational message
2. Optional knowledge cards for structured information

Example response format:
{
  "message": "Your conversational response here",
  "knowledgeCards": [
    {
      "title": "Card Title",
      "content": ["Item 1", "Item 2"] or "Text content" or [{"label": "Sun", "value": "Full sun"}],
      "type": "list" or "text" or "table",
      "icon": "fa-leaf" or other Font Awesome icon class
    }
  ]
}

Keep responses focused on agriculture, gardening, plant care, and related topics.`

// Scripted replies for the degraded paths. The conversation never surfaces a
// raw upstream error to the client.
const (
	replyUpstreamDown = "I apologize, but I'm having trouble connecting to my knowledge base. Please try again later."
	replyUnparsable   = "I apologize, but I encountered an error processing your request. Please try asking in a different way."
	replyNoContent    = "I'm sorry, I don't have information on that topic yet."
)

// Service turns a user utterance into a persisted exchange: the utterance and
// the generated assistant reply are both stored, and any knowledge cards ride
// along in the response only.
type Service struct {
	llm   llm.Client
	store MessageStore
	log   zerolog.Logger
}

func NewService(client llm.Client, store MessageStore, log zerolog.Logger) *Service {
	return &Service{
		llm:   client,
		store: store,
		log:   log.With().Str("component", "chat").Logger(),
	}
}

// SendOutput is the result of one message exchange.
type SendOutput struct {
	UserMessage    Message
	BotMessage     Message
	KnowledgeCards []KnowledgeCard
}

// Send persists the utterance, generates an assistant reply with recent
// history as context, persists the reply, and returns both. Upstream or
// parsing failures degrade to a scripted apology; the only error Send returns
// is ErrEmptyUtterance.
func (s *Service) Send(ctx context.Context, utterance string) (*SendOutput, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, ErrEmptyUtterance
	}

	userMsg := s.store.SaveMessage(MessageDraft{Content: utterance, IsUser: true})

	replyText, cards := s.generateReply(ctx, utterance)

	botMsg := s.store.SaveMessage(MessageDraft{Content: replyText, IsUser: false})

	return &SendOutput{
		UserMessage:    userMsg,
		BotMessage:     botMsg,
		KnowledgeCards: cards,
	}, nil
}

// History returns the full message timeline, oldest first.
func (s *Service) History() []Message {
	return s.store.Messages(0)
}

// Reset clears the conversation back to just the welcome message.
func (s *Service) Reset() {
	s.store.ClearMessages()
	s.log.Info().Msg("conversation reset")
}

// modelReply is the JSON shape the system prompt mandates.
type modelReply struct {
	Message        string            `json:"message"`
	KnowledgeCards []json.RawMessage `json:"knowledgeCards"`
}

func (s *Service) generateReply(ctx context.Context, utterance string) (string, []KnowledgeCard) {
	messages := make([]llm.Message, 0, contextWindow+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})

	for _, m := range s.store.Messages(contextWindow) {
		role := llm.RoleAssistant
		if m.IsUser {
			role = llm.RoleUser
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: utterance})

	raw, err := s.llm.Complete(ctx, messages)
	if err != nil {
		s.log.Error().Err(err).Msg("completion call failed")
		return replyUpstreamDown, []KnowledgeCard{}
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		s.log.Error().Err(err).Msg("completion output is not valid JSON")
		return replyUnparsable, []KnowledgeCard{}
	}

	if reply.Message == "" {
		reply.Message = replyNoContent
	}

	return reply.Message, s.parseCards(reply.KnowledgeCards)
}

// parseCards decodes each card independently and drops malformed ones, so a
// single bad card never takes down the whole reply.
func (s *Service) parseCards(raw []json.RawMessage) []KnowledgeCard {
	cards := make([]KnowledgeCard, 0, len(raw))
	for _, r := range raw {
		var card KnowledgeCard
		if err := json.Unmarshal(r, &card); err != nil {
			s.log.Warn().Err(err).Msg("dropping malformed knowledge card")
			continue
		}
		cards = append(cards, card)
	}
	return cards
}
