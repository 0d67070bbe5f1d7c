package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/verdora-group/footprint-cli/internal/db"
	"github.com/verdora-group/footprint-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_assessment": `INSERT INTO assessments (id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"update_status":     `UPDATE assessments SET status = $1, updated_at = $2 WHERE id = $3`,
	"save_inputs":       `UPDATE assessments SET inputs = $1, updated_at = $2 WHERE id = $3`,
	"save_result":       `UPDATE assessments SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"get_assessment":    `SELECT id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at FROM assessments WHERE id = $1`,
	"get_inputs":        `SELECT inputs FROM assessments WHERE id = $1`,
	"get_result":        `SELECT result FROM assessments WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

// The materials table mirrors the inputs JSON as flat rows so the inventory
// stays queryable with plain SQL alongside the document column.
const postgresMigration = `
CREATE TABLE IF NOT EXISTS assessments (
	id                    TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	product_name          TEXT NOT NULL,
	functional_unit       DOUBLE PRECISION NOT NULL DEFAULT 1,
	functional_unit_label TEXT NOT NULL DEFAULT '',
	status                TEXT NOT NULL DEFAULT 'pending',
	inputs                JSONB,
	result                JSONB,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_assessments_status ON assessments(status);
CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments(created_at DESC);

CREATE TABLE IF NOT EXISTS materials (
	assessment_id TEXT NOT NULL REFERENCES assessments(id),
	name          TEXT NOT NULL,
	category      TEXT NOT NULL DEFAULT '',
	quantity      DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit          TEXT NOT NULL DEFAULT '',
	climate       DOUBLE PRECISION NOT NULL DEFAULT 0,
	tier          INTEGER NOT NULL DEFAULT 3,
	source        TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (assessment_id, name)
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateAssessment(ctx context.Context, a NewAssessment) (*model.Assessment, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	fu := a.FunctionalUnit
	if fu <= 0 {
		fu = 1
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO assessments (id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, a.ProductName, fu, a.FunctionalUnitLabel, string(model.AssessmentPending), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert assessment")
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

func (s *PostgresStore) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	var a model.Assessment
	err := s.pool.QueryRow(ctx,
		`SELECT id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at FROM assessments WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.ProductName, &a.FunctionalUnit, &a.FunctionalUnitLabel, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: assessment %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get assessment %s", id)
	}
	return &a, nil
}

func (s *PostgresStore) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]model.Assessment, error) {
	query := `SELECT id, product_name, functional_unit, functional_unit_label, status, created_at, updated_at FROM assessments WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list assessments")
	}
	defer rows.Close()

	var assessments []model.Assessment
	for rows.Next() {
		var a model.Assessment
		if err := rows.Scan(&a.ID, &a.ProductName, &a.FunctionalUnit, &a.FunctionalUnitLabel, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan assessment")
		}
		assessments = append(assessments, a)
	}
	return assessments, eris.Wrap(rows.Err(), "postgres: list assessments iterate")
}

func (s *PostgresStore) UpdateAssessmentStatus(ctx context.Context, id string, status model.AssessmentStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE assessments SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update assessment status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "assessment %s", id)
	}
	return nil
}

func (s *PostgresStore) SaveInputs(ctx context.Context, id string, inputs *model.AssessmentInputs) error {
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal inputs")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE assessments SET inputs = $1, updated_at = $2 WHERE id = $3`,
		inputsJSON, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save inputs %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "assessment %s", id)
	}

	if inputs != nil && len(inputs.Materials) > 0 {
		if err := s.mirrorMaterials(ctx, id, inputs.Materials); err != nil {
			return err
		}
	}
	return nil
}

// mirrorMaterials upserts the material inventory into the flat materials
// table, keyed on (assessment_id, name) so re-imports replace rather than
// duplicate.
func (s *PostgresStore) mirrorMaterials(ctx context.Context, id string, materials []model.MaterialRecord) error {
	rows := make([][]any, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, []any{
			id, m.Name, m.Category, m.Quantity, m.Unit, m.Impacts.Climate, int(m.Tier), m.Source,
		})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "materials",
		Columns:      []string{"assessment_id", "name", "category", "quantity", "unit", "climate", "tier", "source"},
		ConflictKeys: []string{"assessment_id", "name"},
	}, rows)
	return eris.Wrapf(err, "postgres: mirror materials %s", id)
}

func (s *PostgresStore) GetInputs(ctx context.Context, id string) (*model.AssessmentInputs, error) {
	var inputsJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT inputs FROM assessments WHERE id = $1`, id,
	).Scan(&inputsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: assessment %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get inputs %s", id)
	}
	if len(inputsJSON) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "postgres: inputs for assessment %s", id)
	}

	var inputs model.AssessmentInputs
	if err := json.Unmarshal(inputsJSON, &inputs); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal inputs")
	}
	return &inputs, nil
}

// SaveResult stores the computed result and flips the assessment to
// completed in the same statement.
func (s *PostgresStore) SaveResult(ctx context.Context, id string, result *model.AggregatedImpactResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE assessments SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.AssessmentCompleted), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save result %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "assessment %s", id)
	}
	return nil
}

func (s *PostgresStore) GetResult(ctx context.Context, id string) (*model.AggregatedImpactResult, error) {
	var resultJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT result FROM assessments WHERE id = $1`, id,
	).Scan(&resultJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: assessment %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get result %s", id)
	}
	if len(resultJSON) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "postgres: result for assessment %s", id)
	}

	var result model.AggregatedImpactResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &result, nil
}
