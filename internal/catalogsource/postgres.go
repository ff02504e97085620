package catalogsource

import (
	"context"
	"fmt"
	"regexp"

	"hoopsight/internal/featurespec"
	"hoopsight/pkg/database"
)

// DefaultTable is the stat-catalog table name used when the config leaves
// it unset.
const DefaultTable = "stat_catalog"

// tableNameRe gates the configured table name; the name is interpolated
// into the query text, so only plain identifiers are accepted.
var tableNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresSource reads stat specs from a table whose columns mirror the
// StatSpec fields, with the restriction lists as text arrays.
type PostgresSource struct {
	db    *database.DB
	table string
}

// NewPostgresSource binds a source to a catalog table.
func NewPostgresSource(db *database.DB, table string) (*PostgresSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid catalog table name %q", table)
	}
	return &PostgresSource{db: db, table: table}, nil
}

func (s *PostgresSource) Name() string { return "postgres:" + s.table }

func (s *PostgresSource) Specs(ctx context.Context) ([]featurespec.StatSpec, error) {
	query := fmt.Sprintf(`
		SELECT name,
		       category,
		       COALESCE(description, ''),
		       COALESCE(valid_time_periods, '{}'),
		       COALESCE(valid_calc_weights, '{}'),
		       COALESCE(valid_perspectives, '{}'),
		       supports_side_split,
		       supports_net,
		       requires_aggregation,
		       db_field
		FROM %s
		ORDER BY name`, s.table)

	rows, err := s.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var specs []featurespec.StatSpec
	for rows.Next() {
		var (
			spec     featurespec.StatSpec
			category string
		)
		if err := rows.Scan(
			&spec.Name,
			&category,
			&spec.Description,
			&spec.TimePeriods,
			&spec.CalcWeights,
			&spec.Perspectives,
			&spec.SupportsSideSplit,
			&spec.SupportsNet,
			&spec.RequiresAggregation,
			&spec.DBField,
		); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		spec.Category = featurespec.Category(category)
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.table, err)
	}
	return specs, nil
}
