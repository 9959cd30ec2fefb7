package store

import (
	"context"
	"database/sql"
	"fmt"

	"mapcover/internal/outcome"
)

// GetRun retrieves a single archived run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mapping, schema_sha, mode, workers, total, valid_count, invalid_count, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id)

	return scanRun(row.Scan)
}

// ListRuns returns all archived runs, newest first, with the run ID as
// tiebreak for identical start times.
//
// Returns an empty slice (not nil) when the archive holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mapping, schema_sha, mode, workers, total, valid_count, invalid_count, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	// Return empty slice instead of nil
	if runs == nil {
		runs = []RunRecord{}
	}

	return runs, nil
}

// ListOutcomes returns a run's archived outcomes in stored order:
// valid rows first, then invalid rows, seq ascending throughout.
// A non-empty tag restricts the listing to one bucket.
//
// Returns an empty slice (not nil) when no rows match.
func (s *Store) ListOutcomes(ctx context.Context, runID, tag string) ([]OutcomeRecord, error) {
	query := `
		SELECT run_id, seq, combination_id, tag, combination, model_ids, error, trace
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`
	args := []any{runID}
	if tag != "" {
		query = `
			SELECT run_id, seq, combination_id, tag, combination, model_ids, error, trace
			FROM outcomes
			WHERE run_id = ? AND tag = ?
			ORDER BY seq ASC
		`
		args = append(args, tag)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []OutcomeRecord
	for rows.Next() {
		rec, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}

	// Return empty slice instead of nil
	if outcomes == nil {
		outcomes = []OutcomeRecord{}
	}

	return outcomes, nil
}

// LoadResultSet rebuilds a run's result set from its archived outcomes.
// The rebuilt set equals the one SaveRun was handed, bucket order included.
func (s *Store) LoadResultSet(ctx context.Context, runID string) (outcome.ResultSet, error) {
	recs, err := s.ListOutcomes(ctx, runID, "")
	if err != nil {
		return outcome.ResultSet{}, fmt.Errorf("load result set: %w", err)
	}

	rs := outcome.ResultSet{
		Valid:   []outcome.Valid{},
		Invalid: []outcome.Invalid{},
	}
	for _, rec := range recs {
		switch rec.Tag {
		case TagValid:
			rs.Valid = append(rs.Valid, outcome.Valid{
				Combination: rec.Combination,
				ModelIDs:    rec.ModelIDs,
			})
		case TagInvalid:
			rs.Invalid = append(rs.Invalid, outcome.Invalid{
				Combination: rec.Combination,
				Error:       rec.Error,
				Trace:       rec.Trace,
			})
		default:
			return outcome.ResultSet{}, fmt.Errorf("load result set: unknown tag %q at seq %d", rec.Tag, rec.Seq)
		}
	}

	return rs, nil
}

// scanRun scans one runs row through the given Scan function, shared
// between the single-row and multi-row query paths.
func scanRun(scan func(dest ...any) error) (RunRecord, error) {
	var rec RunRecord
	var startedAt, finishedAt string

	if err := scan(
		&rec.ID, &rec.Mapping, &rec.SchemaSHA, &rec.Mode, &rec.Workers,
		&rec.Total, &rec.ValidCount, &rec.InvalidCount, &startedAt, &finishedAt,
	); err != nil {
		return RunRecord{}, err
	}

	var err error
	if rec.StartedAt, err = parseTime(startedAt); err != nil {
		return RunRecord{}, fmt.Errorf("started_at: %w", err)
	}
	if rec.FinishedAt, err = parseTime(finishedAt); err != nil {
		return RunRecord{}, fmt.Errorf("finished_at: %w", err)
	}

	return rec, nil
}

// scanOutcome scans one outcomes row into an OutcomeRecord.
func scanOutcome(rows *sql.Rows) (OutcomeRecord, error) {
	var rec OutcomeRecord
	var combJSON string
	var modelIDs, errMsg, trace sql.NullString

	if err := rows.Scan(
		&rec.RunID, &rec.Seq, &rec.CombinationID, &rec.Tag,
		&combJSON, &modelIDs, &errMsg, &trace,
	); err != nil {
		return OutcomeRecord{}, fmt.Errorf("scan outcome: %w", err)
	}

	comb, err := unmarshalCombination(combJSON)
	if err != nil {
		return OutcomeRecord{}, err
	}
	rec.Combination = comb

	if modelIDs.Valid {
		ids, err := unmarshalModelIDs(modelIDs.String)
		if err != nil {
			return OutcomeRecord{}, err
		}
		rec.ModelIDs = ids
	}
	rec.Error = errMsg.String
	rec.Trace = trace.String

	return rec, nil
}
