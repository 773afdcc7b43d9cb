package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"PortfolioBackend/internal/model"
)

// Collection хранит локальное состояние одной коллекции контента.
// Пока бэкенд не ответил (или недоступен), отдаются статические данные,
// переданные при создании; успешная загрузка заменяет их серверными.
// Все операции записи применяются локально сразу, не дожидаясь сервера
type Collection[T any] struct {
	client *Client
	typ    model.ContentType
	id     func(*T) *int64

	mu      sync.RWMutex
	items   []T
	loading bool
}

// NewCollection создаёт коллекцию с начальными статическими данными.
// id извлекает указатель на идентификатор элемента
func NewCollection[T any](c *Client, typ model.ContentType, defaults []T, id func(*T) *int64) *Collection[T] {
	items := make([]T, len(defaults))
	copy(items, defaults)
	return &Collection[T]{
		client:  c,
		typ:     typ,
		id:      id,
		items:   items,
		loading: true,
	}
}

// Load запрашивает коллекцию с бэкенда и при успехе заменяет локальные данные.
// Пустой ответ не затирает статические данные: пустая таблица на сервере
// означает, что контент ещё не заведён, и статика информативнее.
// Флаг загрузки снимается в любом исходе
func (c *Collection[T]) Load(ctx context.Context) error {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	raw, err := c.client.fetch(ctx, c.typ, "")
	if err != nil {
		return err
	}
	var fetched []T
	if err := json.Unmarshal(raw, &fetched); err != nil {
		return fmt.Errorf("failed to decode %s: %w", c.typ, err)
	}
	if len(fetched) == 0 {
		return nil
	}
	c.mu.Lock()
	c.items = fetched
	c.mu.Unlock()
	return nil
}

// Loading сообщает, идёт ли первоначальная загрузка
func (c *Collection[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Items возвращает копию локального состояния коллекции
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find ищет элемент сначала в локальном состоянии, затем на бэкенде.
// Сетевой промах (включая автономный режим) не считается ошибкой:
// возвращается просто "не найдено"
func (c *Collection[T]) Find(ctx context.Context, id int64) (*T, bool) {
	c.mu.RLock()
	for i := range c.items {
		if *c.id(&c.items[i]) == id {
			item := c.items[i]
			c.mu.RUnlock()
			return &item, true
		}
	}
	c.mu.RUnlock()

	raw, err := c.client.fetch(ctx, c.typ, fmt.Sprintf("&id=%d", id))
	if err != nil {
		return nil, false
	}
	var item *T
	if err := json.Unmarshal(raw, &item); err != nil || item == nil {
		return nil, false
	}
	return item, true
}

// Save заменяет коллекцию целиком: локально сразу, на бэкенде — если он доступен.
// Возвращает true только если серверная запись прошла успешно
func (c *Collection[T]) Save(ctx context.Context, items []T) bool {
	local := make([]T, len(items))
	copy(local, items)
	c.mu.Lock()
	c.items = local
	c.mu.Unlock()

	if c.client.gateway.Offline() {
		return false
	}
	err := c.client.post(ctx, c.typ, map[string]interface{}{"items": items})
	return err == nil
}

// Upsert сохраняет один элемент: локально элемент с совпадающим id заменяется,
// новый добавляется в начало списка. Элементу без id назначается идентификатор
// из текущего времени
func (c *Collection[T]) Upsert(ctx context.Context, item T) bool {
	if *c.id(&item) == 0 {
		*c.id(&item) = time.Now().UnixMilli()
	}

	c.mu.Lock()
	replaced := false
	for i := range c.items {
		if *c.id(&c.items[i]) == *c.id(&item) {
			c.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append([]T{item}, c.items...)
	}
	c.mu.Unlock()

	if c.client.gateway.Offline() {
		return false
	}
	err := c.client.post(ctx, c.typ, map[string]interface{}{"action": model.ActionUpsert, "item": item})
	return err == nil
}

// Delete удаляет элемент по id: локально сразу, на бэкенде — если он доступен
func (c *Collection[T]) Delete(ctx context.Context, id int64) bool {
	c.mu.Lock()
	filtered := c.items[:0:0]
	for i := range c.items {
		if *c.id(&c.items[i]) != id {
			filtered = append(filtered, c.items[i])
		}
	}
	c.items = filtered
	c.mu.Unlock()

	if c.client.gateway.Offline() {
		return false
	}
	err := c.client.post(ctx, c.typ, map[string]interface{}{"action": model.ActionDelete, "id": id})
	return err == nil
}
