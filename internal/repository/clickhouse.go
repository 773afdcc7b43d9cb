package repository

import (
	"context"
	"database/sql"
	"log"

	"PortfolioBackend/internal/model"
)

// ClickhouseRepo реализует пакетную запись журнала изменений контента в ClickHouse
type ClickhouseRepo struct {
	db *sql.DB
}

// NewClickhouseRepo создаёт новый репозиторий для ClickHouse
func NewClickhouseRepo(db *sql.DB) *ClickhouseRepo {
	return &ClickhouseRepo{db: db}
}

// BatchInsertChanges записывает пакет событий изменения в таблицу content_changes_log
// clickhouse-go собирает несколько Exec подготовленного запроса в один блок вставки
func (r *ClickhouseRepo) BatchInsertChanges(ctx context.Context, events []model.ChangeEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	log.Printf("Начало пакетной вставки %d событий в ClickHouse", len(events))
	query := `INSERT INTO content_changes_log (ContentType, Action, ItemId, Count, EventTime) VALUES (?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx,
			string(e.ContentType), e.Action, e.ItemID, int32(e.Count), e.EventTime,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Успешно вставлено %d событий в ClickHouse", len(events))
	return nil
}
