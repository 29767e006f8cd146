package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kurihiro0119/metrics-dashboard/internal/domain"
	apperrors "github.com/kurihiro0119/metrics-dashboard/internal/errors"
	"github.com/kurihiro0119/metrics-dashboard/internal/store"
)

// postgresStore implements store.Store for PostgreSQL. Entities are stored
// as JSONB documents with the columns needed for lookups broken out.
type postgresStore struct {
	db         *sql.DB
	metrics    *metricStore
	dashboards *dashboardStore
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists
func NewPostgresStore(connURL string) (store.Store, error) {
	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	s := &postgresStore{
		db:         db,
		metrics:    &metricStore{db: db},
		dashboards: &dashboardStore{db: db},
	}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *postgresStore) Metrics() store.MetricStore       { return s.metrics }
func (s *postgresStore) Dashboards() store.DashboardStore { return s.dashboards }
func (s *postgresStore) Close() error                     { return s.db.Close() }

func (s *postgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS metrics (
		id TEXT PRIMARY KEY,
		metric_key TEXT NOT NULL,
		type TEXT NOT NULL,
		period TEXT NOT NULL,
		data JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_key ON metrics(metric_key);
	CREATE INDEX IF NOT EXISTS idx_metrics_type ON metrics(type);

	CREATE TABLE IF NOT EXISTS dashboards (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		data JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_dashboards_owner ON dashboards(owner);

	CREATE TABLE IF NOT EXISTS default_dashboards (
		user_id TEXT PRIMARY KEY,
		dashboard_id TEXT NOT NULL
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

type metricStore struct {
	db *sql.DB
}

func (s *metricStore) Get(ctx context.Context, id string) (*domain.Metric, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM metrics WHERE id = $1`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("Metric", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metric: %w", err)
	}

	var metric domain.Metric
	if err := json.Unmarshal(data, &metric); err != nil {
		return nil, fmt.Errorf("failed to decode metric %s: %w", id, err)
	}
	return &metric, nil
}

func (s *metricStore) GetAll(ctx context.Context, filter *domain.MetricFilter) ([]*domain.Metric, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM metrics`)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	result := []*domain.Metric{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var metric domain.Metric
		if err := json.Unmarshal(data, &metric); err != nil {
			return nil, fmt.Errorf("failed to decode metric: %w", err)
		}
		if filter == nil || filter.Matches(&metric) {
			m := metric
			result = append(result, &m)
		}
	}
	return result, rows.Err()
}

func (s *metricStore) Save(ctx context.Context, metric *domain.Metric) error {
	data, err := json.Marshal(metric)
	if err != nil {
		return fmt.Errorf("failed to encode metric: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO metrics (id, metric_key, type, period, data)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			metric_key = EXCLUDED.metric_key,
			type = EXCLUDED.type,
			period = EXCLUDED.period,
			data = EXCLUDED.data
	`, metric.ID, metric.Key, string(metric.Type), string(metric.Period), data)
	if err != nil {
		return fmt.Errorf("failed to save metric: %w", err)
	}
	return nil
}

func (s *metricStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM metrics WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete metric: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type dashboardStore struct {
	db *sql.DB
}

func (s *dashboardStore) Get(ctx context.Context, id string) (*domain.Dashboard, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM dashboards WHERE id = $1`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("Dashboard", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard %s: %w", id, err)
	}
	return &dashboard, nil
}

func (s *dashboardStore) GetAll(ctx context.Context, filter *domain.DashboardFilter) ([]*domain.Dashboard, error) {
	query := `SELECT data FROM dashboards`
	var args []interface{}
	if filter != nil && filter.Owner != "" {
		query += ` WHERE owner = $1`
		args = append(args, filter.Owner)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer rows.Close()

	result := []*domain.Dashboard{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var dashboard domain.Dashboard
		if err := json.Unmarshal(data, &dashboard); err != nil {
			return nil, fmt.Errorf("failed to decode dashboard: %w", err)
		}
		if filter == nil || filter.Matches(&dashboard) {
			d := dashboard
			result = append(result, &d)
		}
	}
	return result, rows.Err()
}

func (s *dashboardStore) Save(ctx context.Context, dashboard *domain.Dashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dashboards (id, owner, is_default, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			is_default = EXCLUDED.is_default,
			data = EXCLUDED.data
	`, dashboard.ID, dashboard.Owner, dashboard.IsDefault, data)
	if err != nil {
		return fmt.Errorf("failed to save dashboard: %w", err)
	}
	return nil
}

func (s *dashboardStore) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM default_dashboards WHERE dashboard_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to clear default assignments: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM dashboards WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete dashboard: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *dashboardStore) SetDefault(ctx context.Context, dashboardID, userID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM dashboards WHERE id = $1`, dashboardID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check dashboard: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO default_dashboards (user_id, dashboard_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET dashboard_id = EXCLUDED.dashboard_id
	`, userID, dashboardID)
	if err != nil {
		return false, fmt.Errorf("failed to set default dashboard: %w", err)
	}
	return true, nil
}
