package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"patternchat/internal/model"
)

var (
	ErrEmptyMessage = errors.New("message content is empty")
	ErrPersistence  = errors.New("persist message failed")
	ErrResolution   = errors.New("resolve reply failed")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Reply is the serialized form of an Answer handed back to the transport:
// fact rows for data answers, a plain string for text answers.
type Reply struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
}

type HistoryPage struct {
	Messages      []model.Message `json:"messages"`
	CurrentPage   int             `json:"currentPage"`
	TotalPages    int             `json:"totalPages"`
	TotalMessages int64           `json:"totalMessages"`
}

type MessageStore interface {
	Create(message *model.Message) error
	ListPage(page, limit int) ([]model.Message, int64, error)
	DeleteAll() (int64, error)
}

type ReplyPublisher interface {
	Publish(ctx context.Context, msg model.Message) error
}

type HistoryCache interface {
	GetPage(ctx context.Context, page, limit int) ([]model.Message, int64, bool, error)
	SetPage(ctx context.Context, page, limit int, messages []model.Message, total int64) error
	Invalidate(ctx context.Context) error
}

type ReplyResolver interface {
	Resolve(message string) (Answer, error)
}

type ChatService struct {
	messages  MessageStore
	resolver  ReplyResolver
	publisher ReplyPublisher
	cache     HistoryCache
}

func NewChatService(
	messages MessageStore,
	resolver ReplyResolver,
	publisher ReplyPublisher,
	cache HistoryCache,
) *ChatService {
	return &ChatService{
		messages:  messages,
		resolver:  resolver,
		publisher: publisher,
		cache:     cache,
	}
}

// HandleTurn runs one turn: persist the user message, resolve a reply, enqueue
// the bot message for persistence, return the reply. The user-message write is
// fatal on failure; the bot-message enqueue is best effort and only logged, so
// a late queue outage never costs the caller an already-computed answer.
func (s *ChatService) HandleTurn(ctx context.Context, userText string) (*Reply, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyMessage
	}

	userMessage := &model.Message{
		Content: userText,
		Sender:  model.SenderUser,
	}
	if err := s.messages.Create(userMessage); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}

	answer, err := s.resolver.Resolve(userText)
	if err != nil {
		return nil, err
	}

	reply := answerToReply(answer)

	botMessage := model.Message{
		Content: encodeReplyContent(reply),
		Sender:  model.SenderBot,
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, botMessage); err != nil {
			log.Printf("enqueue bot reply failed: %v", err)
		}
	}

	return &reply, nil
}

// GetHistory returns one page of messages oldest-first, consulting the cache
// before the store. Cache failures fall through to the store silently.
func (s *ChatService) GetHistory(ctx context.Context, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if s.cache != nil {
		if messages, total, hit, err := s.cache.GetPage(ctx, page, limit); err == nil && hit {
			return buildHistoryPage(messages, total, page, limit), nil
		}
	}

	messages, total, err := s.messages.ListPage(page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if s.cache != nil {
		_ = s.cache.SetPage(ctx, page, limit, messages, total)
	}
	return buildHistoryPage(messages, total, page, limit), nil
}

// ClearHistory removes every message and reports the count.
func (s *ChatService) ClearHistory(ctx context.Context) (int64, error) {
	deleted, err := s.messages.DeleteAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
	return deleted, nil
}

func buildHistoryPage(messages []model.Message, total int64, page, limit int) *HistoryPage {
	if messages == nil {
		messages = []model.Message{}
	}
	// totalPages is 0 for an empty history, ceil(total/limit) otherwise.
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &HistoryPage{
		Messages:      messages,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalMessages: total,
	}
}

func answerToReply(answer Answer) Reply {
	if answer.Type == AnswerTypeData {
		return Reply{Type: AnswerTypeData, Content: answer.Facts}
	}
	return Reply{Type: AnswerTypeText, Content: answer.Text}
}

// encodeReplyContent is the canonical textual form stored as the bot message:
// the reply text itself, or the JSON encoding of the fact rows.
func encodeReplyContent(reply Reply) string {
	if text, ok := reply.Content.(string); ok {
		return text
	}
	payload, err := json.Marshal(reply.Content)
	if err != nil {
		return fmt.Sprintf("%v", reply.Content)
	}
	return string(payload)
}
