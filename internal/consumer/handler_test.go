package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"PortfolioBackend/internal/model"
)

// mockRepo реализует интерфейс Repo и сохраняет полученные батчи для проверки
type mockRepo struct {
	received [][]model.ChangeEvent // полученные батчи событий
	err      error                 // ошибка, которую вернёт BatchInsertChanges
}

func (m *mockRepo) BatchInsertChanges(ctx context.Context, events []model.ChangeEvent) error {
	batch := make([]model.ChangeEvent, len(events))
	copy(batch, events)
	m.received = append(m.received, batch)
	return m.err
}

func changePayload(t *testing.T, ct model.ContentType, action string, id int64) []byte {
	t.Helper()
	data, err := json.Marshal(model.ChangeEvent{ContentType: ct, Action: action, ItemID: id, EventTime: time.Now()})
	require.NoError(t, err)
	return data
}

func TestHandleMessage_NoFlush(t *testing.T) {
	// при количестве событий меньше batchSize записи в репозиторий нет
	repo := &mockRepo{}
	cons := NewConsumer(repo, 3)

	err := cons.HandleMessage(context.Background(), changePayload(t, model.TypeProjects, model.ActionUpsert, 1))
	require.NoError(t, err)
	require.Len(t, repo.received, 0)
}

func TestHandleMessage_FlushOnBatch(t *testing.T) {
	// при достижении batchSize события отправляются репозиторию одним пакетом
	repo := &mockRepo{}
	cons := NewConsumer(repo, 2)

	require.NoError(t, cons.HandleMessage(context.Background(), changePayload(t, model.TypeProjects, model.ActionUpsert, 1)))
	require.NoError(t, cons.HandleMessage(context.Background(), changePayload(t, model.TypeEvents, model.ActionDelete, 2)))

	require.Len(t, repo.received, 1)
	require.Len(t, repo.received[0], 2)
	require.Equal(t, int64(1), repo.received[0][0].ItemID)
	require.Equal(t, model.ActionDelete, repo.received[0][1].Action)
}

func TestFlush_Empty(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, 5)
	require.NoError(t, cons.Flush(context.Background()))
	require.Len(t, repo.received, 0)
}

func TestFlush_NonEmpty(t *testing.T) {
	// Flush отправляет накопленные события, не дожидаясь batchSize
	repo := &mockRepo{}
	cons := NewConsumer(repo, 5)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, cons.HandleMessage(context.Background(), changePayload(t, model.TypeSkills, model.ActionUpsert, i)))
	}
	require.Len(t, repo.received, 0)

	require.NoError(t, cons.Flush(context.Background()))
	require.Len(t, repo.received, 1)
	require.Len(t, repo.received[0], 3)
}

func TestHandleMessage_ParseError(t *testing.T) {
	repo := &mockRepo{}
	cons := NewConsumer(repo, 1)
	err := cons.HandleMessage(context.Background(), []byte("not json"))
	require.Error(t, err)
	require.Len(t, repo.received, 0)
}

func TestBatchInsertError_IsPropagated(t *testing.T) {
	// ошибка репозитория возвращается при сбросе пакета
	ex := errors.New("insert failed")
	repo := &mockRepo{err: ex}
	cons := NewConsumer(repo, 1)
	err := cons.HandleMessage(context.Background(), changePayload(t, model.TypeProjects, model.ActionReplace, 0))
	require.Error(t, err)
	require.ErrorIs(t, err, ex)
}
