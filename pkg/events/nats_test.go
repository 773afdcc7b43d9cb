// Пакет events содержит unit-тесты для Publisher и метода PublishChange
package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"PortfolioBackend/internal/model"
)

// mockConn реализует интерфейс Conn и перехватывает вызовы Publish
type mockConn struct {
	publishedSubject string // тема, переданная в Publish
	publishedData    []byte // данные, переданные в Publish
	returnErr        error  // ошибка, которую вернёт Publish
}

func (m *mockConn) Publish(subject string, data []byte) error {
	m.publishedSubject = subject
	m.publishedData = data
	return m.returnErr
}

// TestPublishChange_Success проверяет успешную публикацию события изменения
// и автоматическое заполнение EventTime
func TestPublishChange_Success(t *testing.T) {
	mock := &mockConn{}
	pub := NewPublisher(mock, "content.changes")

	ev := model.ChangeEvent{ContentType: model.TypeProjects, Action: model.ActionUpsert, ItemID: 42}
	if err := pub.PublishChange(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.publishedSubject != "content.changes" {
		t.Errorf("expected subject content.changes, got %s", mock.publishedSubject)
	}

	var out model.ChangeEvent
	if err := json.Unmarshal(mock.publishedData, &out); err != nil {
		t.Fatalf("payload не является валидным JSON: %v", err)
	}
	if out.ContentType != model.TypeProjects || out.Action != model.ActionUpsert || out.ItemID != 42 {
		t.Errorf("payload mismatch: %+v", out)
	}
	if out.EventTime.IsZero() {
		t.Error("EventTime должен быть проставлен при публикации")
	}
}

// TestPublishChange_KeepsEventTime проверяет, что заданное время события не перетирается
func TestPublishChange_KeepsEventTime(t *testing.T) {
	mock := &mockConn{}
	pub := NewPublisher(mock, "content.changes")

	ts := time.Date(2026, 2, 6, 12, 0, 0, 0, time.UTC)
	ev := model.ChangeEvent{ContentType: model.TypeSkills, Action: model.ActionDelete, ItemID: 1, EventTime: ts}
	if err := pub.PublishChange(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out model.ChangeEvent
	_ = json.Unmarshal(mock.publishedData, &out)
	if !out.EventTime.Equal(ts) {
		t.Errorf("EventTime = %v, want %v", out.EventTime, ts)
	}
}

// TestPublishChange_Error проверяет прокидку ошибки из Conn.Publish
func TestPublishChange_Error(t *testing.T) {
	expErr := errors.New("publish failed")
	mock := &mockConn{returnErr: expErr}
	pub := NewPublisher(mock, "content.changes")

	err := pub.PublishChange(model.ChangeEvent{ContentType: model.TypeEvents, Action: model.ActionReplace, Count: 3})
	if !errors.Is(err, expErr) {
		t.Errorf("expected error %v, got %v", expErr, err)
	}
}
