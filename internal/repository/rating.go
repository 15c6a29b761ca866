package repository

import (
	"context"
	"database/sql"
	"time"

	"helios_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type Project struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Location      string    `db:"location"`
	Certification string    `db:"certification"`
	CreatedAt     time.Time `db:"created_at"`
}

type Rating struct {
	ID         int64     `db:"id"`
	ProjectID  int64     `db:"project_id"`
	TelegramID int64     `db:"telegram_id"`
	Score      int       `db:"rating"`
	Comment    string    `db:"comment"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

const (
	projectColumns = "id, name, description, location, certification, created_at"
	ratingColumns  = "id, project_id, telegram_id, rating, comment, created_at, updated_at"
)

func (p *Project) toModel() *model.Project {
	return &model.Project{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Location:      p.Location,
		Certification: p.Certification,
		CreatedAt:     p.CreatedAt,
	}
}

func (rt *Rating) toModel() *model.Rating {
	return &model.Rating{
		ID:         rt.ID,
		ProjectID:  rt.ProjectID,
		TelegramID: rt.TelegramID,
		Score:      rt.Score,
		Comment:    rt.Comment,
		CreatedAt:  rt.CreatedAt,
		UpdatedAt:  rt.UpdatedAt,
	}
}

func (r *Repository) CreateProject(ctx context.Context, project *model.Project) error {
	query, args, err := psql().
		Insert("projects").
		Columns("name", "description", "location", "certification").
		Values(project.Name, project.Description, project.Location, project.Certification).
		Suffix("RETURNING " + projectColumns).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build project insert query")
	}

	var row Project
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to insert project")
	}

	*project = *row.toModel()
	return nil
}

func (r *Repository) ListProjects(ctx context.Context) ([]*model.Project, error) {
	query, args, err := psql().
		Select(projectColumns).
		From("projects").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build project list query")
	}

	var rows []*Project
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}

	out := make([]*model.Project, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}

func (r *Repository) GetRating(ctx context.Context, projectID, telegramID int64) (*model.Rating, error) {
	query, args, err := psql().
		Select(ratingColumns).
		From("ratings").
		Where(squirrel.Eq{"project_id": projectID, "telegram_id": telegramID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rating select query")
	}

	var row Rating
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get rating")
	}

	return row.toModel(), nil
}

func (r *Repository) InsertRating(ctx context.Context, rating *model.Rating) error {
	query, args, err := psql().
		Insert("ratings").
		Columns("project_id", "telegram_id", "rating", "comment").
		Values(rating.ProjectID, rating.TelegramID, rating.Score, rating.Comment).
		Suffix("RETURNING " + ratingColumns).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build rating insert query")
	}

	var row Rating
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		if isMissingParent(err) {
			return ErrNoParent
		}
		return errors.Wrap(err, "failed to insert rating")
	}

	*rating = *row.toModel()
	return nil
}

// UpdateRating rewrites score and comment of the row identified by rating.ID.
func (r *Repository) UpdateRating(ctx context.Context, rating *model.Rating) error {
	query, args, err := psql().
		Update("ratings").
		SetMap(map[string]interface{}{
			"rating":     rating.Score,
			"comment":    rating.Comment,
			"updated_at": squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": rating.ID}).
		Suffix("RETURNING " + ratingColumns).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build rating update query")
	}

	var row Rating
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return errors.Wrap(err, "failed to update rating")
	}

	*rating = *row.toModel()
	return nil
}

func (r *Repository) ListProjectRatings(ctx context.Context, projectID int64) ([]*model.Rating, error) {
	query, args, err := psql().
		Select(ratingColumns).
		From("ratings").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build ratings list query")
	}

	var rows []*Rating
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings")
	}

	out := make([]*model.Rating, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}

	return out, nil
}
