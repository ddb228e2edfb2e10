package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/freee021022/onco/internal/models"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
	closed bool
}

func (r *recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func TestMultiPublishesToAll(t *testing.T) {
	a := &recorder{}
	b := &recorder{err: errors.New("boom")}
	c := &recorder{}

	err := Multi{a, b, c}.Publish(context.Background(), New(MessageSent, "1", nil))
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if len(a.events) != 1 || len(b.events) != 1 || len(c.events) != 1 {
		t.Fatalf("expected every publisher to receive the event")
	}
}

func TestAsyncDrainsOnClose(t *testing.T) {
	rec := &recorder{}
	async := NewAsync(rec, 16, time.Second)

	for i := 0; i < 10; i++ {
		if err := async.Publish(context.Background(), New(ForumPostCreated, "1", nil)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	if err := async.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(rec.events) != 10 {
		t.Fatalf("expected 10 events, got %d", len(rec.events))
	}
	if !rec.closed {
		t.Fatalf("expected wrapped publisher to be closed")
	}
}

type fakeWriter struct {
	messages []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisherEncodesEvent(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &KafkaPublisher{writer: writer}

	event := New(MessageSent, "12", map[string]string{"content": "ciao"})
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "12" {
		t.Fatalf("expected key 12, got %q", msg.Key)
	}

	var decoded struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != "message.sent" || decoded.Payload["content"] != "ciao" {
		t.Fatalf("unexpected message value: %s", msg.Value)
	}
}

func TestWebhookPublisherPostsSecondOpinionEvents(t *testing.T) {
	var mu sync.Mutex
	bodies := map[string][]byte{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies[r.URL.Path] = body
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewWebhookPublisher(server.URL+"/slack", server.URL+"/discord")
	request := &models.SecondOpinionRequest{
		ID:          3,
		PatientID:   1,
		DoctorID:    2,
		Diagnosis:   "Carcinoma",
		Description: "Richiesta di secondo parere",
		Status:      models.StatusAccepted,
	}

	if err := publisher.Publish(context.Background(), New(SecondOpinionStatusChanged, "3", request)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	var slack SlackWebhookRequest
	if err := json.Unmarshal(bodies["/slack"], &slack); err != nil {
		t.Fatalf("decode slack: %v", err)
	}
	if slack.Text != "*Second opinion request accepted*" || slack.Attachments[0].Color != "good" {
		t.Fatalf("unexpected slack payload: %+v", slack)
	}

	var discord DiscordWebhookRequest
	if err := json.Unmarshal(bodies["/discord"], &discord); err != nil {
		t.Fatalf("decode discord: %v", err)
	}
	if len(discord.Embeds) != 1 || discord.Embeds[0].Color != ColorGreen {
		t.Fatalf("unexpected discord payload: %+v", discord)
	}
}

func TestWebhookPublisherIgnoresOtherEvents(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	publisher := NewWebhookPublisher(server.URL, "")
	if err := publisher.Publish(context.Background(), New(MessageSent, "1", &models.Message{ID: 1})); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if called {
		t.Fatalf("expected no webhook call for message events")
	}
}

func TestWebhookPublisherReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewWebhookPublisher(server.URL, "")
	request := &models.SecondOpinionRequest{ID: 1, Status: models.StatusPending}

	if err := publisher.Publish(context.Background(), New(SecondOpinionCreated, "1", request)); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
