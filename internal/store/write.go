package store

import (
	"context"
	"database/sql"
	"fmt"

	"mapcover/internal/outcome"
	"mapcover/internal/schema"
)

// SaveRun archives a coverage run and every outcome in its result set
// in a single transaction.
//
// Uses ON CONFLICT DO NOTHING for idempotency - saving a run whose ID
// already exists leaves the archive unchanged. The stored counts come
// from the result set, not from the record.
//
// Outcome rows are sequenced in result set order: valid entries first,
// then invalid entries. ListOutcomes reads them back in that order.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord, rs outcome.ResultSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, mapping, schema_sha, mode, workers, total, valid_count, invalid_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Mapping,
		rec.SchemaSHA,
		rec.Mode,
		rec.Workers,
		rs.Total(),
		len(rs.Valid),
		len(rs.Invalid),
		formatTime(rec.StartedAt),
		formatTime(rec.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("save run: insert run: %w", err)
	}

	seq := int64(0)
	for _, v := range rs.Valid {
		modelIDs, err := marshalModelIDs(v.ModelIDs)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if err := insertOutcome(ctx, tx, rec.ID, seq, TagValid, v.Combination, modelIDs, nil, nil); err != nil {
			return err
		}
		seq++
	}
	for _, iv := range rs.Invalid {
		if err := insertOutcome(ctx, tx, rec.ID, seq, TagInvalid, iv.Combination, nil, iv.Error, iv.Trace); err != nil {
			return err
		}
		seq++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit: %w", err)
	}

	return nil
}

// insertOutcome writes one outcome row inside the save transaction.
// modelIDs, errMsg, and trace are nullable: nil archives as SQL NULL.
func insertOutcome(ctx context.Context, tx *sql.Tx, runID string, seq int64, tag string, comb schema.Combination, modelIDs, errMsg, trace any) error {
	combJSON, err := marshalCombination(comb)
	if err != nil {
		return fmt.Errorf("save run: outcome %d: %w", seq, err)
	}

	combID, err := schema.CombinationID(comb)
	if err != nil {
		return fmt.Errorf("save run: outcome %d: combination id: %w", seq, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outcomes
		(run_id, seq, combination_id, tag, combination, model_ids, error, trace)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		runID,
		seq,
		combID,
		tag,
		combJSON,
		modelIDs,
		errMsg,
		trace,
	)
	if err != nil {
		return fmt.Errorf("save run: insert outcome %d: %w", seq, err)
	}

	return nil
}
