package client

import "PortfolioBackend/internal/model"

// Статические данные, отображаемые пока бэкенд не ответил или недоступен.
// Содержимое дублирует базовое наполнение сайта

// DefaultProjects базовый список проектов
var DefaultProjects = []model.Project{
	{
		ID:          1,
		Title:       "Portfolio Website",
		Description: "Персональный сайт-портфолио с админ-панелью и облачным хранением контента",
		Image:       "/images/projects/portfolio.png",
		Images:      []string{},
		TechStack:   []string{"React", "Go", "PostgreSQL"},
		Link:        "https://example.dev",
		Github:      "https://github.com/example/portfolio",
	},
	{
		ID:          2,
		Title:       "Content Sync Service",
		Description: "Сервис синхронизации контента с кэшированием и журналом изменений",
		Image:       "/images/projects/sync.png",
		Images:      []string{},
		TechStack:   []string{"Go", "Redis", "NATS", "ClickHouse"},
		Github:      "https://github.com/example/content-sync",
	},
}

// DefaultEvents базовый список событий и наград
var DefaultEvents = []model.Event{
	{
		ID:          1,
		Title:       "Hackathon Winner",
		Description: "Первое место в студенческом хакатоне",
		Date:        "2024-04-12",
		Year:        "2024",
		Type:        "award",
		Award:       "1st place",
		Icon:        "trophy",
		Images:      []string{},
	},
	{
		ID:          2,
		Title:       "Tech Conference Talk",
		Description: "Доклад о построении контент-бэкендов",
		Date:        "2023-10-05",
		Year:        "2023",
		Type:        "event",
		Icon:        "mic",
		Images:      []string{},
	},
}

// DefaultSkills базовый список навыков
var DefaultSkills = []model.Skill{
	{ID: 1, Name: "Go", Category: "Backend", Icon: "go"},
	{ID: 2, Name: "PostgreSQL", Category: "Backend", Icon: "postgres"},
	{ID: 3, Name: "React", Category: "Frontend", Icon: "react"},
	{ID: 4, Name: "Docker", Category: "DevOps", Icon: "docker"},
}

func projectID(p *model.Project) *int64 { return &p.ID }
func eventID(e *model.Event) *int64     { return &e.ID }
func skillID(s *model.Skill) *int64     { return &s.ID }

// NewProjects создаёт коллекцию проектов со статическими данными по умолчанию
func NewProjects(c *Client) *Collection[model.Project] {
	return NewCollection(c, model.TypeProjects, DefaultProjects, projectID)
}

// NewEvents создаёт коллекцию событий со статическими данными по умолчанию
func NewEvents(c *Client) *Collection[model.Event] {
	return NewCollection(c, model.TypeEvents, DefaultEvents, eventID)
}

// NewSkills создаёт коллекцию навыков со статическими данными по умолчанию
func NewSkills(c *Client) *Collection[model.Skill] {
	return NewCollection(c, model.TypeSkills, DefaultSkills, skillID)
}
