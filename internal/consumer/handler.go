package consumer

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"PortfolioBackend/internal/model"
)

// Repo описывает интерфейс репозитория ClickHouse для пакетной записи журнала изменений
type Repo interface {
	BatchInsertChanges(ctx context.Context, events []model.ChangeEvent) error
}

// Consumer буферизует события изменения контента и отправляет их пакетно в ClickHouse
// batchSize определяет максимальное количество событий до отправки,
// mutex защищает доступ к буферу events
type Consumer struct {
	repo      Repo
	batchSize int
	events    []model.ChangeEvent
	mu        sync.Mutex
}

// NewConsumer создаёт Consumer с указанным репозиторием и размером пакета
func NewConsumer(repo Repo, batchSize int) *Consumer {
	return &Consumer{repo: repo, batchSize: batchSize, events: make([]model.ChangeEvent, 0, batchSize)}
}

// HandleMessage обрабатывает сообщение из NATS: парсит JSON, добавляет событие в буфер
// и при достижении batchSize отправляет пакет в ClickHouse
func (c *Consumer) HandleMessage(ctx context.Context, data []byte) error {
	var ev model.ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	log.Printf("Получено событие изменения: %s %s id=%d", ev.ContentType, ev.Action, ev.ItemID)
	c.mu.Lock()
	c.events = append(c.events, ev)
	if len(c.events) >= c.batchSize {
		batch := make([]model.ChangeEvent, len(c.events))
		copy(batch, c.events)
		c.events = c.events[:0]
		c.mu.Unlock()
		return c.repo.BatchInsertChanges(ctx, batch)
	}
	c.mu.Unlock()
	return nil
}

// Flush отправляет все накопленные события, если они есть
func (c *Consumer) Flush(ctx context.Context) error {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return nil
	}
	batch := make([]model.ChangeEvent, len(c.events))
	copy(batch, c.events)
	c.events = c.events[:0]
	c.mu.Unlock()
	return c.repo.BatchInsertChanges(ctx, batch)
}
