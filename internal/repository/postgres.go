package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"PortfolioBackend/internal/model"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// ContentRepository реализует доступ к таблицам контента projects, events и skills
// Каждая коллекция независима: внешних ключей между таблицами нет
type ContentRepository struct {
	db *sql.DB
}

// NewContentRepository создает новый репозиторий контента
func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ---------------------------------------------------------------- projects

// ListProjects возвращает все проекты по возрастанию id
// Галерея images в списке не выбирается: она нужна только в детальном просмотре
func (r *ContentRepository) ListProjects(ctx context.Context) ([]model.Project, error) {
	query := `SELECT id, title, COALESCE(description,''), COALESCE(image,''), tech_stack,
		COALESCE(link,''), COALESCE(github,''), updated_at FROM projects ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select projects: %w", err)
	}
	defer rows.Close()
	projects := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Image,
			pq.Array(&p.TechStack), &p.Link, &p.Github, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Images = model.NormalizeArray(p.Images)
		p.TechStack = model.NormalizeArray(p.TechStack)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// GetProject возвращает полную запись проекта по id, включая галерею images
func (r *ContentRepository) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	query := `SELECT id, title, COALESCE(description,''), COALESCE(image,''), images, tech_stack,
		COALESCE(link,''), COALESCE(github,''), updated_at FROM projects WHERE id=$1`
	var p model.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.Image,
		pq.Array(&p.Images), pq.Array(&p.TechStack), &p.Link, &p.Github, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	p.Images = model.NormalizeArray(p.Images)
	p.TechStack = model.NormalizeArray(p.TechStack)
	return &p, nil
}

// UpsertProject вставляет или полностью заменяет проект по первичному ключу id
// updated_at обновляется сервером, один upsert — один атомарный оператор
func (r *ContentRepository) UpsertProject(ctx context.Context, p *model.Project) error {
	p.Normalize()
	query := `INSERT INTO projects (id, title, description, image, images, tech_stack, link, github)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			images = EXCLUDED.images,
			tech_stack = EXCLUDED.tech_stack,
			link = EXCLUDED.link,
			github = EXCLUDED.github,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Title, p.Description, p.Image,
		pq.Array(p.Images), pq.Array(p.TechStack), p.Link, p.Github).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert project: %w", err)
	}
	return nil
}

// DeleteProject удаляет проект по id
// Удаление отсутствующей записи не является ошибкой
func (r *ContentRepository) DeleteProject(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ReplaceProjects полностью заменяет коллекцию проектов в одной транзакции:
// удаляет все строки и вставляет переданный список
func (r *ContentRepository) ReplaceProjects(ctx context.Context, items []model.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}
	insert := `INSERT INTO projects (id, title, description, image, images, tech_stack, link, github)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range items {
		p := &items[i]
		p.Normalize()
		if _, err := tx.ExecContext(ctx, insert, p.ID, p.Title, p.Description, p.Image,
			pq.Array(p.Images), pq.Array(p.TechStack), p.Link, p.Github); err != nil {
			return fmt.Errorf("failed to insert project %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ------------------------------------------------------------------ events

// ListEvents возвращает все события по возрастанию id без галереи images
func (r *ContentRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	query := `SELECT id, title, COALESCE(description,''), COALESCE(date,''), COALESCE(year,''),
		COALESCE(type,''), COALESCE(award,''), COALESCE(icon,''), COALESCE(image,''), updated_at
		FROM events ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Year,
			&e.Type, &e.Award, &e.Icon, &e.Image, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Images = model.NormalizeArray(e.Images)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// GetEvent возвращает полную запись события по id
func (r *ContentRepository) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT id, title, COALESCE(description,''), COALESCE(date,''), COALESCE(year,''),
		COALESCE(type,''), COALESCE(award,''), COALESCE(icon,''), COALESCE(image,''), images, updated_at
		FROM events WHERE id=$1`
	var e model.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Title, &e.Description, &e.Date,
		&e.Year, &e.Type, &e.Award, &e.Icon, &e.Image, pq.Array(&e.Images), &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	e.Images = model.NormalizeArray(e.Images)
	return &e, nil
}

// UpsertEvent вставляет или полностью заменяет событие по первичному ключу id
func (r *ContentRepository) UpsertEvent(ctx context.Context, e *model.Event) error {
	e.Normalize()
	query := `INSERT INTO events (id, title, description, date, year, type, award, icon, image, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			date = EXCLUDED.date,
			year = EXCLUDED.year,
			type = EXCLUDED.type,
			award = EXCLUDED.award,
			icon = EXCLUDED.icon,
			image = EXCLUDED.image,
			images = EXCLUDED.images,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.Title, e.Description, e.Date, e.Year,
		e.Type, e.Award, e.Icon, e.Image, pq.Array(e.Images)).Scan(&e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}
	return nil
}

// DeleteEvent удаляет событие по id, отсутствие записи не считается ошибкой
func (r *ContentRepository) DeleteEvent(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ReplaceEvents полностью заменяет коллекцию событий в одной транзакции
func (r *ContentRepository) ReplaceEvents(ctx context.Context, items []model.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	insert := `INSERT INTO events (id, title, description, date, year, type, award, icon, image, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i := range items {
		e := &items[i]
		e.Normalize()
		if _, err := tx.ExecContext(ctx, insert, e.ID, e.Title, e.Description, e.Date, e.Year,
			e.Type, e.Award, e.Icon, e.Image, pq.Array(e.Images)); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ------------------------------------------------------------------ skills

// ListSkills возвращает все навыки по возрастанию id
// Крупных полей у навыка нет, поэтому список совпадает с полной записью
func (r *ContentRepository) ListSkills(ctx context.Context) ([]model.Skill, error) {
	query := `SELECT id, name, COALESCE(category,''), COALESCE(icon,''), updated_at
		FROM skills ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select skills: %w", err)
	}
	defer rows.Close()
	skills := make([]model.Skill, 0)
	for rows.Next() {
		var s model.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Icon, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skills: %w", err)
	}
	return skills, nil
}

// GetSkill возвращает навык по id
func (r *ContentRepository) GetSkill(ctx context.Context, id int64) (*model.Skill, error) {
	query := `SELECT id, name, COALESCE(category,''), COALESCE(icon,''), updated_at
		FROM skills WHERE id=$1`
	var s model.Skill
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Category, &s.Icon, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return &s, nil
}

// UpsertSkill вставляет или полностью заменяет навык по первичному ключу id
func (r *ContentRepository) UpsertSkill(ctx context.Context, s *model.Skill) error {
	query := `INSERT INTO skills (id, name, category, icon)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			icon = EXCLUDED.icon,
			updated_at = CURRENT_TIMESTAMP
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, s.ID, s.Name, s.Category, s.Icon).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert skill: %w", err)
	}
	return nil
}

// DeleteSkill удаляет навык по id, отсутствие записи не считается ошибкой
func (r *ContentRepository) DeleteSkill(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id=$1`, id); err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	return nil
}

// ReplaceSkills полностью заменяет коллекцию навыков в одной транзакции
func (r *ContentRepository) ReplaceSkills(ctx context.Context, items []model.Skill) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM skills`); err != nil {
		return fmt.Errorf("failed to clear skills: %w", err)
	}
	insert := `INSERT INTO skills (id, name, category, icon) VALUES ($1, $2, $3, $4)`
	for i := range items {
		s := &items[i]
		if _, err := tx.ExecContext(ctx, insert, s.ID, s.Name, s.Category, s.Icon); err != nil {
			return fmt.Errorf("failed to insert skill %d: %w", s.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
