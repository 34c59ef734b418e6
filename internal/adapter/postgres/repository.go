package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
)

// DBTX is the subset of *pgxpool.Pool and pgx.Tx used by the repository.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const dateLayout = "2006-01-02"

// conditionsData is the JSONB payload of an activity_history row.
type conditionsData struct {
	Variables []domain.OceanVariable  `json:"variables"`
	Weather   *domain.WeatherSnapshot `json:"weather,omitempty"`
	Tide      *domain.TideSnapshot    `json:"tide,omitempty"`
	Safety    []string                `json:"safety"`
	Overrides []string                `json:"overrides,omitempty"`
}

// Repository reads and writes activity_history rows. It implements
// pipeline.BatchLoader.
type Repository struct {
	db DBTX
}

func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

const insertCondition = `
	INSERT INTO activity_history
		(id, activity_type, location, latitude, longitude, date, score, overall_status, details, conditions_data, evaluated_at)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)
	ON CONFLICT (id) DO NOTHING`

// SaveCondition inserts c. Saving an id that already exists is a no-op, so
// redelivered pipeline messages do not fail.
func (r *Repository) SaveCondition(ctx context.Context, c domain.ActivityCondition) error {
	date, err := time.Parse(dateLayout, c.Date)
	if err != nil {
		return fmt.Errorf("save condition %s: parse date: %w", c.ID, err)
	}
	data, err := json.Marshal(conditionsData{
		Variables: c.Variables,
		Weather:   c.Weather,
		Tide:      c.Tide,
		Safety:    c.Safety,
		Overrides: c.Overrides,
	})
	if err != nil {
		return fmt.Errorf("save condition %s: marshal conditions: %w", c.ID, err)
	}

	_, err = r.db.Exec(ctx, insertCondition,
		c.ID, string(c.Activity), c.Location, c.Latitude, c.Longitude, date,
		c.Score, string(c.Overall), c.Details, string(data), c.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert condition %s: %w", c.ID, err)
	}
	return nil
}

const conditionColumns = `id, activity_type, location, latitude, longitude, date, score, overall_status, details, conditions_data, evaluated_at`

const selectCondition = `
	SELECT ` + conditionColumns + `
	FROM activity_history
	WHERE id = $1`

// GetCondition loads the condition with the given id. It returns
// domain.ErrNotFound when no row matches.
func (r *Repository) GetCondition(ctx context.Context, id string) (domain.ActivityCondition, error) {
	c, err := scanCondition(r.db.QueryRow(ctx, selectCondition, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ActivityCondition{}, fmt.Errorf("get condition %s: %w", id, domain.ErrNotFound)
		}
		return domain.ActivityCondition{}, fmt.Errorf("get condition %s: %w", id, err)
	}
	return c, nil
}

const listConditions = `
	SELECT ` + conditionColumns + `
	FROM activity_history
	WHERE ($1 = '' OR activity_type = $1)
	  AND ($2::date IS NULL OR date >= $2::date)
	  AND ($3::date IS NULL OR date <= $3::date)
	ORDER BY date DESC, evaluated_at DESC
	LIMIT $4`

// ListConditions returns past conditions matching f, newest date first.
func (r *Repository) ListConditions(ctx context.Context, f domain.ConditionFilter) ([]domain.ActivityCondition, error) {
	limit := f.PageLimit()
	rows, err := r.db.Query(ctx, listConditions, string(f.Activity), optionalDate(f.From), optionalDate(f.To), limit)
	if err != nil {
		return nil, fmt.Errorf("query conditions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ActivityCondition, 0, min(limit, 16))
	for rows.Next() {
		c, err := scanCondition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan condition: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conditions: %w", err)
	}
	return out, nil
}

// optionalDate maps the zero time to SQL NULL.
func optionalDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// scanCondition reads one row selected with conditionColumns.
func scanCondition(row pgx.Row) (domain.ActivityCondition, error) {
	var (
		c        domain.ActivityCondition
		activity string
		overall  string
		date     time.Time
		raw      []byte
	)
	err := row.Scan(
		&c.ID, &activity, &c.Location, &c.Latitude, &c.Longitude, &date,
		&c.Score, &overall, &c.Details, &raw, &c.EvaluatedAt,
	)
	if err != nil {
		return domain.ActivityCondition{}, err
	}

	var data conditionsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.ActivityCondition{}, fmt.Errorf("decode conditions of %s: %w", c.ID, err)
	}

	c.Activity = domain.Activity(activity)
	c.Overall = domain.Category(overall)
	c.Date = date.Format(dateLayout)
	c.EvaluatedAt = c.EvaluatedAt.UTC()
	c.Variables = data.Variables
	c.Weather = data.Weather
	c.Tide = data.Tide
	c.Safety = data.Safety
	c.Overrides = data.Overrides
	return c, nil
}

// LoadBatch persists the conditions carried by a pipeline batch.
func (r *Repository) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for _, e := range events {
		if err := r.SaveCondition(ctx, e.Condition); err != nil {
			return err
		}
	}
	return nil
}
