package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"PortfolioBackend/internal/model"
)

// ContentService задаёт интерфейс бизнес-логики для HTTP-слоя, используемый хендлером
// Все операции работают поверх типа коллекции (projects, events, skills)
type ContentService interface {
	List(ctx context.Context, typ model.ContentType) (interface{}, error)
	Get(ctx context.Context, typ model.ContentType, id int64) (interface{}, error)
	Upsert(ctx context.Context, typ model.ContentType, raw json.RawMessage) error
	Delete(ctx context.Context, typ model.ContentType, id int64) error
	Replace(ctx context.Context, typ model.ContentType, raw json.RawMessage) (int, error)
}

// Handler содержит зависимости и реализует единый эндпоинт контента /api/data
type Handler struct {
	srv ContentService
	log *logrus.Logger
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(srv ContentService, log *logrus.Logger) *Handler {
	return &Handler{srv: srv, log: log}
}

// RegisterRoutes регистрирует маршруты API
// Все операции над контентом идут через один эндпоинт: тип коллекции передаётся
// query-параметром, действие определяется методом и телом запроса
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Эндпоинты для проверки здоровья и готовности сервиса
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.HandleFunc("/readyz", h.Readyz).Methods("GET")
	r.HandleFunc("/api/data", h.GetData).Methods("GET")
	r.HandleFunc("/api/data", h.PostData).Methods("POST")
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GetData обрабатывает GET /api/data
// 1. Парсит type из query, валидирует по списку известных коллекций
// 2. Если передан id — возвращает одну запись, иначе весь список
// 3. Ошибки чтения не отдаются клиенту: логируются, а в ответ уходит
//    пустой список (или null для одиночной записи) со статусом 200,
//    чтобы фронтенд переключился на статические данные
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	typ, err := model.ParseContentType(r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid type"})
		return
	}

	if idStr := r.URL.Query().Get("id"); idStr != "" {
		id, convErr := strconv.ParseInt(idStr, 10, 64)
		if convErr != nil {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		item, err := h.srv.Get(r.Context(), typ, id)
		if err != nil {
			h.log.WithError(err).WithField("type", typ).Warn("get item failed, returning null")
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, item)
		return
	}

	items, err := h.srv.List(r.Context(), typ)
	if err != nil {
		h.log.WithError(err).WithField("type", typ).Warn("list failed, returning empty list")
		writeJSON(w, http.StatusOK, []interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// dataRequest тело POST /api/data
// Поля взаимоисключающие: удаление по id, сохранение одной записи,
// либо полная замена коллекции списком items
type dataRequest struct {
	Action string          `json:"action"`
	ID     model.FlexID    `json:"id"`
	Item   json.RawMessage `json:"item"`
	Items  json.RawMessage `json:"items"`
}

// PostData обрабатывает POST /api/data
// 1. Валидирует type из query
// 2. Декодирует тело и выбирает операцию в порядке: delete, upsert, items
// 3. Ошибки записи, в отличие от чтения, отдаются клиенту со статусом 500
func (h *Handler) PostData(w http.ResponseWriter, r *http.Request) {
	typ, err := model.ParseContentType(r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid type"})
		return
	}
	var req dataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing action or items"})
		return
	}

	switch {
	case req.Action == model.ActionDelete && req.ID != 0:
		if err := h.srv.Delete(r.Context(), typ, int64(req.ID)); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
	case req.Action == model.ActionUpsert && len(req.Item) > 0:
		if err := h.srv.Upsert(r.Context(), typ, req.Item); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Item saved successfully"})
	case isJSONArray(req.Items):
		count, err := h.srv.Replace(r.Context(), typ, req.Items)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Data saved successfully", "count": count})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing action or items"})
	}
}

// isJSONArray сообщает, является ли сырое JSON-значение массивом.
// Замена коллекции деструктивна, поэтому items принимается только массивом:
// null или объект не должны интерпретироваться как пустой список
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Healthz возвращает статус работы сервиса
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz возвращает готовность сервиса
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
