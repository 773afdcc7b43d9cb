// Пакет cache содержит unit-тесты для RedisClient: Set, Get, Invalidate и JSON-хелперы
package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	redismock "github.com/go-redis/redismock/v8"
)

// TestSetGetInvalidate проверяет корректную работу базовых методов Set, Get (hit и miss) и Invalidate
func TestSetGetInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	ctx := context.Background()
	key := "content:skills:list"
	val := []byte(`[{"id":1}]`)
	exp := time.Minute

	// Set
	mock.ExpectSet(key, val, exp).SetVal("OK")
	if err := client.Set(ctx, key, val, exp); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Get hit
	mock.ExpectGet(key).SetVal(string(val))
	got, err := client.Get(ctx, key)
	if err != nil {
		t.Errorf("Get error: %v", err)
	}
	if string(got) != string(val) {
		t.Errorf("Get expected %s, got %s", val, got)
	}

	// Get miss
	mock.ExpectGet("missing").RedisNil()
	_, err = client.Get(ctx, "missing")
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}

	// Invalidate
	mock.ExpectDel(key).SetVal(1)
	if err := client.Invalidate(ctx, key); err != nil {
		t.Errorf("Invalidate error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestJSONHelpers проверяет сериализацию и десериализацию через SetJSON/GetJSON
func TestJSONHelpers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	ctx := context.Background()
	type item struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	val := item{ID: 3, Name: "Go"}
	exp := time.Minute

	mock.ExpectSet("k", []byte(`{"id":3,"name":"Go"}`), exp).SetVal("OK")
	if err := client.SetJSON(ctx, "k", val, exp); err != nil {
		t.Errorf("SetJSON error: %v", err)
	}

	mock.ExpectGet("k").SetVal(`{"id":3,"name":"Go"}`)
	var got item
	if err := client.GetJSON(ctx, "k", &got); err != nil {
		t.Errorf("GetJSON error: %v", err)
	}
	if got != val {
		t.Errorf("GetJSON = %+v, want %+v", got, val)
	}

	// промах кэша прокидывается как ErrCacheMiss
	mock.ExpectGet("nope").RedisNil()
	if err := client.GetJSON(ctx, "nope", &got); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestGet_OtherError проверяет возврат произвольной ошибки Redis, не связанной с промахом
func TestGet_OtherError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	mock.ExpectGet("key").SetErr(errors.New("get failed"))
	_, err := client.Get(context.Background(), "key")
	if err == nil || !strings.Contains(err.Error(), "get failed") {
		t.Errorf("expected get error, got %v", err)
	}
}

// TestInvalidate_Error проверяет возврат ошибки при неудаче удаления ключа
func TestInvalidate_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{client: db}
	mock.ExpectDel("key").SetErr(errors.New("del failed"))
	if err := client.Invalidate(context.Background(), "key"); err == nil || !strings.Contains(err.Error(), "del failed") {
		t.Errorf("expected invalidate error, got %v", err)
	}
}

// TestClose проверяет закрытие соединения и отказ операций после него
func TestClose(t *testing.T) {
	db, _ := redismock.NewClientMock()
	client := &RedisClient{client: db}
	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := client.Get(context.Background(), "key"); err == nil {
		t.Error("ожидалась ошибка обращения к закрытому клиенту")
	}
}
