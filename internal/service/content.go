package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"PortfolioBackend/internal/model"
)

// Repo определяет интерфейс репозитория контента. Методы перечислены явно
// для каждого типа коллекции, чтобы обработка всех трёх типов проверялась компилятором
type Repo interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	UpsertProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id int64) error
	ReplaceProjects(ctx context.Context, items []model.Project) error

	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	UpsertEvent(ctx context.Context, e *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ReplaceEvents(ctx context.Context, items []model.Event) error

	ListSkills(ctx context.Context) ([]model.Skill, error)
	GetSkill(ctx context.Context, id int64) (*model.Skill, error)
	UpsertSkill(ctx context.Context, s *model.Skill) error
	DeleteSkill(ctx context.Context, id int64) error
	ReplaceSkills(ctx context.Context, items []model.Skill) error
}

// Cache определяет интерфейс кеширования ответов (Redis)
type Cache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dst interface{}) error
	Invalidate(ctx context.Context, key string) error
}

// ChangeLogger определяет интерфейс публикации событий изменения контента (NATS)
type ChangeLogger interface {
	PublishChange(ev model.ChangeEvent) error
}

// ContentService реализует бизнес-логику контент-API:
// - разбор сырых JSON-элементов в типизированные модели
// - генерация идентификаторов на стороне отправителя (UnixMilli), если id не задан
// - кэширование чтений и инвалидирование при записи
// - публикация событий изменения в журнал
type ContentService struct {
	repo   Repo
	cache  Cache
	logger ChangeLogger
	ttl    time.Duration
}

// NewContentService создаёт новый сервис контента с заданным TTL кэша
func NewContentService(r Repo, c Cache, l ChangeLogger, ttl time.Duration) *ContentService {
	return &ContentService{repo: r, cache: c, logger: l, ttl: ttl}
}

func listKey(typ model.ContentType) string {
	return fmt.Sprintf("content:%s:list", typ)
}

func itemKey(typ model.ContentType, id int64) string {
	return fmt.Sprintf("content:%s:%d", typ, id)
}

// List возвращает коллекцию указанного типа, отсортированную по id:
// 1. Пытается получить из кэша Redis
// 2. При промахе запрашивает репозиторий
// 3. Кэширует результат
// Возвращаемый срез никогда не nil
func (s *ContentService) List(ctx context.Context, typ model.ContentType) (interface{}, error) {
	key := listKey(typ)
	switch typ {
	case model.TypeProjects:
		var cached []model.Project
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
		items, err := s.repo.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, items, s.ttl)
		return items, nil
	case model.TypeEvents:
		var cached []model.Event
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
		items, err := s.repo.ListEvents(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, items, s.ttl)
		return items, nil
	case model.TypeSkills:
		var cached []model.Skill
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return cached, nil
		}
		items, err := s.repo.ListSkills(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, items, s.ttl)
		return items, nil
	}
	return nil, model.ErrInvalidType
}

// Get возвращает полную запись по id с кэшированием.
// Отсутствие записи прокидывается как repository.ErrNotFound
func (s *ContentService) Get(ctx context.Context, typ model.ContentType, id int64) (interface{}, error) {
	key := itemKey(typ, id)
	switch typ {
	case model.TypeProjects:
		var cached model.Project
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
		item, err := s.repo.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, item, s.ttl)
		return item, nil
	case model.TypeEvents:
		var cached model.Event
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
		item, err := s.repo.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, item, s.ttl)
		return item, nil
	case model.TypeSkills:
		var cached model.Skill
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
		item, err := s.repo.GetSkill(ctx, id)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetJSON(ctx, key, item, s.ttl)
		return item, nil
	}
	return nil, model.ErrInvalidType
}

// Upsert разбирает сырой JSON элемента, нормализует его и вставляет-или-заменяет запись:
// 1. Декодирует элемент в модель нужного типа (id принимается числом или строкой)
// 2. Генерирует id из текущего времени в миллисекундах, если он не задан
// 3. Вызывает upsert репозитория (один атомарный оператор)
// 4. Инвалидирует кэш списка и записи, публикует событие в журнал
func (s *ContentService) Upsert(ctx context.Context, typ model.ContentType, raw json.RawMessage) error {
	var id int64
	switch typ {
	case model.TypeProjects:
		p, err := decodeProject(raw)
		if err != nil {
			return err
		}
		if p.ID == 0 {
			p.ID = nextID()
		}
		if err := s.repo.UpsertProject(ctx, p); err != nil {
			return err
		}
		id = p.ID
	case model.TypeEvents:
		e, err := decodeEvent(raw)
		if err != nil {
			return err
		}
		if e.ID == 0 {
			e.ID = nextID()
		}
		if err := s.repo.UpsertEvent(ctx, e); err != nil {
			return err
		}
		id = e.ID
	case model.TypeSkills:
		sk, err := decodeSkill(raw)
		if err != nil {
			return err
		}
		if sk.ID == 0 {
			sk.ID = nextID()
		}
		if err := s.repo.UpsertSkill(ctx, sk); err != nil {
			return err
		}
		id = sk.ID
	default:
		return model.ErrInvalidType
	}
	s.invalidate(ctx, typ, id)
	_ = s.logger.PublishChange(model.ChangeEvent{ContentType: typ, Action: model.ActionUpsert, ItemID: id})
	return nil
}

// Delete удаляет запись по id. Удаление отсутствующего id не является ошибкой
func (s *ContentService) Delete(ctx context.Context, typ model.ContentType, id int64) error {
	var err error
	switch typ {
	case model.TypeProjects:
		err = s.repo.DeleteProject(ctx, id)
	case model.TypeEvents:
		err = s.repo.DeleteEvent(ctx, id)
	case model.TypeSkills:
		err = s.repo.DeleteSkill(ctx, id)
	default:
		return model.ErrInvalidType
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, typ, id)
	_ = s.logger.PublishChange(model.ChangeEvent{ContentType: typ, Action: model.ActionDelete, ItemID: id})
	return nil
}

// Replace полностью заменяет коллекцию переданным списком (деструктивная операция).
// Репозиторий выполняет замену в одной транзакции, поэтому частичного состояния не остаётся.
// Возвращает количество вставленных записей
func (s *ContentService) Replace(ctx context.Context, typ model.ContentType, raw json.RawMessage) (int, error) {
	var count int
	switch typ {
	case model.TypeProjects:
		items, err := decodeList(raw, decodeProject, projectID)
		if err != nil {
			return 0, err
		}
		if err := s.repo.ReplaceProjects(ctx, items); err != nil {
			return 0, err
		}
		count = len(items)
	case model.TypeEvents:
		items, err := decodeList(raw, decodeEvent, eventID)
		if err != nil {
			return 0, err
		}
		if err := s.repo.ReplaceEvents(ctx, items); err != nil {
			return 0, err
		}
		count = len(items)
	case model.TypeSkills:
		items, err := decodeList(raw, decodeSkill, skillID)
		if err != nil {
			return 0, err
		}
		if err := s.repo.ReplaceSkills(ctx, items); err != nil {
			return 0, err
		}
		count = len(items)
	default:
		return 0, model.ErrInvalidType
	}
	// ключи отдельных записей не перечислить без чтения коллекции,
	// устаревшие значения доживают максимум до конца TTL
	_ = s.cache.Invalidate(ctx, listKey(typ))
	_ = s.logger.PublishChange(model.ChangeEvent{ContentType: typ, Action: model.ActionReplace, Count: count})
	return count, nil
}

// invalidate сбрасывает кэш списка и конкретной записи
func (s *ContentService) invalidate(ctx context.Context, typ model.ContentType, id int64) {
	_ = s.cache.Invalidate(ctx, listKey(typ))
	_ = s.cache.Invalidate(ctx, itemKey(typ, id))
}

// nextID возвращает идентификатор из текущего времени в миллисекундах —
// ту же схему генерации использует клиент
func nextID() int64 {
	return time.Now().UnixMilli()
}

// decodeProject разбирает сырой JSON проекта, принимая id числом или строкой
func decodeProject(raw json.RawMessage) (*model.Project, error) {
	var aux struct {
		model.Project
		ID model.FlexID `json:"id"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	p := aux.Project
	p.ID = int64(aux.ID)
	p.Normalize()
	return &p, nil
}

// decodeEvent разбирает сырой JSON события
func decodeEvent(raw json.RawMessage) (*model.Event, error) {
	var aux struct {
		model.Event
		ID model.FlexID `json:"id"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	e := aux.Event
	e.ID = int64(aux.ID)
	e.Normalize()
	return &e, nil
}

// decodeSkill разбирает сырой JSON навыка
func decodeSkill(raw json.RawMessage) (*model.Skill, error) {
	var aux struct {
		model.Skill
		ID model.FlexID `json:"id"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return nil, fmt.Errorf("failed to decode skill: %w", err)
	}
	sk := aux.Skill
	sk.ID = int64(aux.ID)
	return &sk, nil
}

// decodeList разбирает массив сырых JSON-элементов поэлементно.
// Элементы без id получают сгенерированные идентификаторы base+смещение:
// один UnixMilli на весь пакет дал бы коллизию первичного ключа
func decodeList[T any](raw json.RawMessage, decode func(json.RawMessage) (*T, error), idOf func(*T) *int64) ([]T, error) {
	var rawItems []json.RawMessage
	if err := json.Unmarshal(raw, &rawItems); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	items := make([]T, 0, len(rawItems))
	gen := nextID()
	for _, r := range rawItems {
		item, err := decode(r)
		if err != nil {
			return nil, err
		}
		if id := idOf(item); *id == 0 {
			*id = gen
			gen++
		}
		items = append(items, *item)
	}
	return items, nil
}

func projectID(p *model.Project) *int64 { return &p.ID }
func eventID(e *model.Event) *int64     { return &e.ID }
func skillID(s *model.Skill) *int64     { return &s.ID }
