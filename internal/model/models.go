package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidType возвращается при неизвестном значении типа контента
var ErrInvalidType = errors.New("invalid type")

// ContentType задаёт тип коллекции контента (таблицы projects, events, skills)
type ContentType string

const (
	TypeProjects ContentType = "projects"
	TypeEvents   ContentType = "events"
	TypeSkills   ContentType = "skills"
)

// ParseContentType разбирает строковое значение из query-параметра type
// Возвращает ErrInvalidType для пустого или неизвестного значения
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case TypeProjects, TypeEvents, TypeSkills:
		return ContentType(s), nil
	default:
		return "", ErrInvalidType
	}
}

// Project представляет проект портфолио (таблица projects)
// Поле Images хранит галерею для детального просмотра и не отдаётся в списках
type Project struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image"`
	Images      []string  `db:"images" json:"images"`
	TechStack   []string  `db:"tech_stack" json:"techStack"`
	Link        string    `db:"link" json:"link"`
	Github      string    `db:"github" json:"github"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Event представляет событие или награду (таблица events)
type Event struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        string    `db:"date" json:"date"`
	Year        string    `db:"year" json:"year"`
	Type        string    `db:"type" json:"type"`
	Award       string    `db:"award" json:"award"`
	Icon        string    `db:"icon" json:"icon"`
	Image       string    `db:"image" json:"image"`
	Images      []string  `db:"images" json:"images"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Skill представляет навык (таблица skills)
type Skill struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Icon      string    `db:"icon" json:"icon"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// FlexID — идентификатор, который в JSON может прийти как числом, так и числовой строкой
// Формы админки присылают строку, сгенерированные на клиенте id — число (UnixMilli)
type FlexID int64

// UnmarshalJSON принимает число, числовую строку и null
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id value %q: %w", s, err)
	}
	*f = FlexID(v)
	return nil
}

// MarshalJSON сериализует идентификатор обычным числом
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(f))
}

// ChangeEvent описывает событие изменения контента для публикации в NATS
// Count заполняется только для действия replace (количество вставленных записей)
type ChangeEvent struct {
	ContentType ContentType `json:"contentType"`
	Action      string      `json:"action"`
	ItemID      int64       `json:"itemId"`
	Count       int         `json:"count"`
	EventTime   time.Time   `json:"eventTime"`
}

// Действия, попадающие в журнал изменений
const (
	ActionUpsert  = "upsert"
	ActionDelete  = "delete"
	ActionReplace = "replace"
)

// NormalizeArray приводит массивное поле к пустому срезу, если оно пришло nil
// Контракт API: tech_stack и images никогда не хранятся как NULL
func NormalizeArray(a []string) []string {
	if a == nil {
		return []string{}
	}
	return a
}

// Normalize выравнивает массивные поля проекта перед записью
func (p *Project) Normalize() {
	p.Images = NormalizeArray(p.Images)
	p.TechStack = NormalizeArray(p.TechStack)
}

// Normalize выравнивает массивные поля события и выводит год из даты, если он не задан
func (e *Event) Normalize() {
	e.Images = NormalizeArray(e.Images)
	if e.Year == "" {
		e.Year = yearFromDate(e.Date)
	}
}

// yearFromDate пытается извлечь год из строки даты в распространённых форматах
// Возвращает пустую строку, если дата не распознана
func yearFromDate(date string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02.01.2006", "2006"} {
		if t, err := time.Parse(layout, date); err == nil {
			return strconv.Itoa(t.Year())
		}
	}
	return ""
}
