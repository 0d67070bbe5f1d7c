package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/verdora-group/footprint-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS assessments (
	id                    TEXT PRIMARY KEY,
	product_name          TEXT NOT NULL,
	functional_unit       REAL NOT NULL DEFAULT 1,
	functional_unit_label TEXT NOT NULL DEFAULT '',
	status                TEXT NOT NULL DEFAULT 'pending',
	inputs                TEXT,
	result                TEXT,
	created_at            DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_assessments_status ON assessments(status);
CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAssessment(ctx context.Context, a NewAssessment) (*model.Assessment, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	fu := a.FunctionalUnit
	if fu <= 0 {
		fu = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, a.ProductName, fu, a.FunctionalUnitLabel, string(model.AssessmentPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert assessment")
	}

	return &model.Assessment{
		ID:                  id,
		ProductName:         a.ProductName,
		FunctionalUnit:      fu,
		FunctionalUnitLabel: a.FunctionalUnitLabel,
		Status:              model.AssessmentPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func (s *SQLiteStore) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at
		 FROM assessments WHERE id = ?`,
		id,
	)
	return scanAssessment(row, id)
}

func (s *SQLiteStore) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]model.Assessment, error) {
	query := `SELECT id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at
	          FROM assessments WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list assessments")
	}
	defer rows.Close()

	var assessments []model.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows, "")
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, *a)
	}
	return assessments, eris.Wrap(rows.Err(), "sqlite: list assessments iterate")
}

func (s *SQLiteStore) UpdateAssessmentStatus(ctx context.Context, id string, status model.AssessmentStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE assessments SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update assessment status %s", id)
	}
	return checkRowsAffected(res, "assessment", id)
}

func (s *SQLiteStore) SaveInputs(ctx context.Context, id string, inputs *model.AssessmentInputs) error {
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal inputs")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE assessments SET inputs = ?, updated_at = ? WHERE id = ?`,
		string(inputsJSON), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save inputs %s", id)
	}
	return checkRowsAffected(res, "assessment", id)
}

func (s *SQLiteStore) GetInputs(ctx context.Context, id string) (*model.AssessmentInputs, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT inputs FROM assessments WHERE id = ?`, id,
	)

	var inputsJSON sql.NullString
	err := row.Scan(&inputsJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: assessment %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get inputs %s", id)
	}
	if !inputsJSON.Valid {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: inputs for assessment %s", id)
	}

	var inputs model.AssessmentInputs
	if err := json.Unmarshal([]byte(inputsJSON.String), &inputs); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal inputs")
	}
	return &inputs, nil
}

// SaveResult stores the computed result and flips the assessment to
// completed in the same statement.
func (s *SQLiteStore) SaveResult(ctx context.Context, id string, result *model.AggregatedImpactResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE assessments SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(model.AssessmentCompleted), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save result %s", id)
	}
	return checkRowsAffected(res, "assessment", id)
}

func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*model.AggregatedImpactResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result FROM assessments WHERE id = ?`, id,
	)

	var resultJSON sql.NullString
	err := row.Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: assessment %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get result %s", id)
	}
	if !resultJSON.Valid {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: result for assessment %s", id)
	}

	var result model.AggregatedImpactResult
	if err := json.Unmarshal([]byte(resultJSON.String), &result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &result, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAssessment(row scannable, id string) (*model.Assessment, error) {
	var a model.Assessment

	err := row.Scan(&a.ID, &a.ProductName, &a.FunctionalUnit, &a.FunctionalUnitLabel,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: assessment %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan assessment")
	}
	return &a, nil
}
