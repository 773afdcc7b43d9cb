// Package client реализует клиентский слой синхронизации контента:
// загрузку коллекций с бэкенда, оптимистичные локальные правки и
// переход в автономный режим при недоступности сервера.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"PortfolioBackend/internal/model"
)

// DefaultTimeout ограничивает ожидание ответа бэкенда, чтобы медленный
// сервер не блокировал отрисовку дольше нескольких секунд
const DefaultTimeout = 4 * time.Second

// ErrOffline возвращается любой сетевой операцией после фиксации недоступности бэкенда
var ErrOffline = errors.New("backend is offline")

// Gateway хранит признак недоступности бэкенда, общий для всех коллекций процесса.
// Защёлка односторонняя: после первой сетевой ошибки (или ответа прокси 502/504)
// все последующие запросы подавляются до перезапуска процесса
type Gateway struct {
	mu      sync.Mutex
	offline bool
}

// NewGateway создаёт защёлку в состоянии "бэкенд доступен"
func NewGateway() *Gateway {
	return &Gateway{}
}

// Offline сообщает, зафиксирована ли недоступность бэкенда
func (g *Gateway) Offline() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offline
}

// MarkOffline фиксирует недоступность бэкенда. Обратного перехода нет
func (g *Gateway) MarkOffline() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offline = true
}

// Client выполняет HTTP-запросы к эндпоинту контента /api/data
type Client struct {
	baseURL string
	http    *http.Client
	gateway *Gateway
}

// NewClient создаёт клиент с таймаутом по умолчанию.
// gateway может быть общим для нескольких клиентов
func NewClient(baseURL string, gateway *Gateway) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		gateway: gateway,
	}
}

// NewClientWithHTTP создаёт клиент с произвольным http.Client (нужен в тестах
// и при нестандартных требованиях к таймаутам)
func NewClientWithHTTP(baseURL string, gateway *Gateway, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc, gateway: gateway}
}

// Gateway возвращает защёлку клиента
func (c *Client) Gateway() *Gateway {
	return c.gateway
}

// fetch выполняет GET /api/data и возвращает сырое JSON-тело ответа.
// query — хвост запроса после type, например "&id=5"
func (c *Client) fetch(ctx context.Context, typ model.ContentType, query string) (json.RawMessage, error) {
	if c.gateway.Offline() {
		return nil, ErrOffline
	}
	url := fmt.Sprintf("%s/api/data?type=%s%s", c.baseURL, typ, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		// сетевая ошибка или таймаут: бэкенда нет, фиксируем
		c.gateway.MarkOffline()
		return nil, fmt.Errorf("failed to fetch %s: %w", typ, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusGatewayTimeout {
		// так отвечает прокси, когда сам бэкенд не поднят
		c.gateway.MarkOffline()
		return nil, fmt.Errorf("failed to fetch %s: proxy returned %d", typ, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", typ, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// post выполняет POST /api/data с JSON-телом
func (c *Client) post(ctx context.Context, typ model.ContentType, payload interface{}) error {
	if c.gateway.Offline() {
		return ErrOffline
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	url := fmt.Sprintf("%s/api/data?type=%s", c.baseURL, typ)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.gateway.MarkOffline()
		return fmt.Errorf("failed to post %s: %w", typ, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusGatewayTimeout {
		c.gateway.MarkOffline()
		return fmt.Errorf("failed to post %s: proxy returned %d", typ, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to post %s: unexpected status %d", typ, resp.StatusCode)
	}
	return nil
}
