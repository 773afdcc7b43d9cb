package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"PortfolioBackend/internal/model"
)

func TestBatchInsertChanges(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewClickhouseRepo(db)
	defer db.Close()

	ts := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	events := []model.ChangeEvent{
		{ContentType: model.TypeProjects, Action: model.ActionUpsert, ItemID: 42, EventTime: ts},
		{ContentType: model.TypeSkills, Action: model.ActionReplace, Count: 7, EventTime: ts},
	}

	// Ожидаем транзакцию с подготовленным запросом и Exec на каждое событие
	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO content_changes_log")
	prep.ExpectExec().
		WithArgs("projects", "upsert", int64(42), int32(0), ts).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("skills", "replace", int64(0), int32(7), ts).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.BatchInsertChanges(context.Background(), events)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchInsertChanges_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewClickhouseRepo(db)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO content_changes_log").
		ExpectExec().
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err = repo.BatchInsertChanges(context.Background(), []model.ChangeEvent{
		{ContentType: model.TypeEvents, Action: model.ActionDelete, ItemID: 3, EventTime: time.Now()},
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
