package clickhouse_test

import (
	"database/sql" // пакет взаимодействия с базой данных через стандартный интерфейс
	"os"
	"testing"

	_ "github.com/ClickHouse/clickhouse-go" // ClickHouse драйвер, регистрируется анонимным импортом
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/require" // библиотека утверждений для тестов
)

// TestClickhouseMigrations проверяет, что SQL-миграции для ClickHouse выполняются корректно
func TestClickhouseMigrations(t *testing.T) {
	dsn := os.Getenv("CLICKHOUSE_TEST_DSN")
	if dsn == "" {
		t.Skip("CLICKHOUSE_TEST_DSN env var not set; skipping ClickHouse migration tests")
	}

	// Открываем соединение с ClickHouse
	db, err := sql.Open("clickhouse", dsn)
	require.NoError(t, err, "ошибка при открытии соединения с ClickHouse")
	defer func() {
		require.NoError(t, db.Close(), "ошибка при закрытии соединения с ClickHouse")
	}()

	// Откат предыдущих миграций и применение новых через golang-migrate
	drv, err := clickhouse.WithInstance(db, &clickhouse.Config{})
	require.NoError(t, err, "failed to create ClickHouse migrate driver")
	m, err := migrate.NewWithDatabaseInstance(
		"file://.", "clickhouse", drv,
	)
	require.NoError(t, err, "failed to create ClickHouse migrate instance")
	// сначала откатываем все
	_ = m.Down()
	// применяем up-миграции
	require.NoError(t, m.Up(), "failed to apply ClickHouse migrations")

	// ------------------------- Проверка существования таблицы -------------------------
	var existsTable int
	err = db.QueryRow(
		"SELECT count() FROM system.tables WHERE database=currentDatabase() AND name='content_changes_log'",
	).Scan(&existsTable)
	require.NoError(t, err)
	require.Equal(t, 1, existsTable, "content_changes_log должна существовать после migrate Up")

	// ------------------------- Проверка структуры таблицы -------------------------
	expected := map[string]string{
		"ContentType": "String",
		"Action":      "String",
		"ItemId":      "Int64",
		"Count":       "Int32",
		"EventTime":   "DateTime",
	}

	rows, err := db.Query(
		"SELECT name, type FROM system.columns WHERE database = currentDatabase() AND table = 'content_changes_log'",
	)
	require.NoError(t, err, "ошибка при получении описания колонок таблицы content_changes_log")
	defer rows.Close()

	colsFound := make(map[string]string)
	for rows.Next() {
		var name, ctype string
		require.NoError(t, rows.Scan(&name, &ctype), "ошибка при сканировании строки system.columns")
		colsFound[name] = ctype
	}
	require.NoError(t, rows.Err(), "ошибка после обхода всех строк system.columns")

	for col, typ := range expected {
		actual, ok := colsFound[col]
		require.True(t, ok, "колонка %s должна присутствовать в таблице content_changes_log", col)
		require.Equal(t, typ, actual, "тип колонки %s должен быть %s, получен %s", col, typ, actual)
	}

	// ------------------------- Проверка типа движка таблицы -------------------------
	var engine string
	err = db.QueryRow(
		"SELECT engine FROM system.tables WHERE database=currentDatabase() AND name='content_changes_log'",
	).Scan(&engine)
	require.NoError(t, err, "ошибка при получении типа движка таблицы content_changes_log")
	require.Equal(t, "MergeTree", engine, "движок таблицы content_changes_log должен быть MergeTree")

	// ------------------------- Проверка отката -------------------------
	require.NoError(t, m.Down(), "failed to rollback ClickHouse migrations")
	err = db.QueryRow(
		"SELECT count() FROM system.tables WHERE database=currentDatabase() AND name='content_changes_log'",
	).Scan(&existsTable)
	require.NoError(t, err)
	require.Equal(t, 0, existsTable, "content_changes_log должна быть удалена после migrate Down")
}
