package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"patternchat/internal/app"
	"patternchat/internal/model"
	"patternchat/internal/transport/http/handler"
)

type stubMessageStore struct {
	messages []model.Message
}

func (s *stubMessageStore) Create(message *model.Message) error {
	s.messages = append(s.messages, *message)
	return nil
}

func (s *stubMessageStore) ListPage(page, limit int) ([]model.Message, int64, error) {
	return s.messages, int64(len(s.messages)), nil
}

func (s *stubMessageStore) DeleteAll() (int64, error) {
	n := int64(len(s.messages))
	s.messages = nil
	return n, nil
}

type stubResolver struct {
	answer app.Answer
}

func (s *stubResolver) Resolve(string) (app.Answer, error) {
	return s.answer, nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(context.Context, model.Message) error { return nil }

func newTestRouter(store *stubMessageStore, resolver *stubResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewChatService(store, resolver, stubPublisher{}, nil)
	h := handler.NewChatHandler(svc)

	router := gin.New()
	router.POST("/turn", h.Turn)
	router.GET("/history", h.GetHistory)
	router.DELETE("/history", h.ClearHistory)
	return router
}

func TestTurnHandlerHappyPath(t *testing.T) {
	router := newTestRouter(&stubMessageStore{}, &stubResolver{
		answer: app.Answer{Type: app.AnswerTypeText, Text: "Hi there!"},
	})

	req := httptest.NewRequest(http.MethodPost, "/turn", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if body.Type != "text" || body.Content != "Hi there!" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestTurnHandlerRejectsMissingMessage(t *testing.T) {
	router := newTestRouter(&stubMessageStore{}, &stubResolver{})

	for _, payload := range []string{`{}`, `{"message":""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/turn", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d", payload, rec.Code)
		}
	}
}

func TestHistoryHandlerEnvelope(t *testing.T) {
	store := &stubMessageStore{messages: []model.Message{
		{ID: 1, Content: "hello", Sender: model.SenderUser},
		{ID: 2, Content: "Hi there!", Sender: model.SenderBot},
	}}
	router := newTestRouter(store, &stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/history?page=1&limit=20", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var body struct {
		Messages   []model.Message `json:"messages"`
		Pagination struct {
			CurrentPage   int   `json:"currentPage"`
			TotalPages    int   `json:"totalPages"`
			TotalMessages int64 `json:"totalMessages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(body.Messages) != 2 || body.Messages[0].Sender != model.SenderUser {
		t.Fatalf("unexpected messages: %+v", body.Messages)
	}
	if body.Pagination.CurrentPage != 1 || body.Pagination.TotalPages != 1 || body.Pagination.TotalMessages != 2 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestClearHistoryHandler(t *testing.T) {
	store := &stubMessageStore{messages: []model.Message{{ID: 1}, {ID: 2}}}
	router := newTestRouter(store, &stubResolver{})

	req := httptest.NewRequest(http.MethodDelete, "/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var body struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if body.Deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", body.Deleted)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	var after struct {
		Messages   []model.Message `json:"messages"`
		Pagination struct {
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(after.Messages) != 0 || after.Pagination.TotalPages != 0 {
		t.Fatalf("history not empty after clear: %+v", after)
	}
}
