// Пакет events предоставляет публикацию событий изменения контента в NATS
package events

import (
	"encoding/json"
	"time"

	"PortfolioBackend/internal/model"
)

// Conn определяет минимальный интерфейс NATS-подключения
// Любая реализация (например *nats.Conn) должна предоставлять метод Publish
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher публикует события ChangeEvent в заданную тему NATS
type Publisher struct {
	conn    Conn
	subject string
}

// NewPublisher создаёт новый Publisher, связывая Conn и subject
func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// PublishChange сериализует событие в JSON и отправляет его в NATS
// EventTime проставляется здесь, если отправитель его не заполнил
func (p *Publisher) PublishChange(ev model.ChangeEvent) error {
	if ev.EventTime.IsZero() {
		ev.EventTime = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}
