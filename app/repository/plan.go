package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vibast-solutions/ms-go-plans/app/entity"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository keeps a local mirror of provider plans in the `plans` table.
type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Upsert(ctx context.Context, plan *entity.Plan, syncedAt time.Time) error {
	query := `
		INSERT INTO plans (
			id, amount, currency, billing_interval, interval_count,
			livemode, metadata, name, statement_descriptor, trial_period_days,
			provider_created_at, synced_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			amount = VALUES(amount),
			currency = VALUES(currency),
			billing_interval = VALUES(billing_interval),
			interval_count = VALUES(interval_count),
			livemode = VALUES(livemode),
			metadata = VALUES(metadata),
			name = VALUES(name),
			statement_descriptor = VALUES(statement_descriptor),
			trial_period_days = VALUES(trial_period_days),
			provider_created_at = VALUES(provider_created_at),
			synced_at = VALUES(synced_at)
	`

	metadata, err := encodeMetadata(plan.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		plan.ID,
		plan.Amount,
		plan.Currency,
		plan.Interval,
		plan.IntervalCount,
		plan.Livemode,
		metadata,
		plan.Name,
		nullableStringValue(plan.StatementDescriptor),
		nullableInt64Value(plan.TrialPeriodDays),
		time.Unix(plan.Created, 0).UTC(),
		syncedAt,
	)
	return err
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*entity.MirroredPlan, error) {
	query := `
		SELECT id, amount, currency, billing_interval, interval_count,
		       livemode, metadata, name, statement_descriptor, trial_period_days,
		       provider_created_at, synced_at
		FROM plans
		WHERE id = ?
	`

	item := &entity.MirroredPlan{}
	if err := scanPlan(r.db.QueryRowContext(ctx, query, id), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]*entity.MirroredPlan, error) {
	query := `
		SELECT id, amount, currency, billing_interval, interval_count,
		       livemode, metadata, name, statement_descriptor, trial_period_days,
		       provider_created_at, synced_at
		FROM plans
		ORDER BY provider_created_at DESC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.MirroredPlan, 0)
	for rows.Next() {
		item := &entity.MirroredPlan{}
		if err := scanPlan(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPlanNotFound
	}

	return nil
}

func scanPlan(scanner rowScanner, item *entity.MirroredPlan) error {
	var metadata sql.NullString
	var statementDescriptor sql.NullString
	var trialPeriodDays sql.NullInt64
	var createdAt time.Time

	err := scanner.Scan(
		&item.ID,
		&item.Amount,
		&item.Currency,
		&item.Interval,
		&item.IntervalCount,
		&item.Livemode,
		&metadata,
		&item.Name,
		&statementDescriptor,
		&trialPeriodDays,
		&createdAt,
		&item.SyncedAt,
	)
	if err != nil {
		return err
	}

	item.Object = entity.ObjectPlan
	item.Created = createdAt.Unix()
	if statementDescriptor.Valid {
		item.StatementDescriptor = &statementDescriptor.String
	} else {
		item.StatementDescriptor = nil
	}
	if trialPeriodDays.Valid {
		item.TrialPeriodDays = &trialPeriodDays.Int64
	} else {
		item.TrialPeriodDays = nil
	}

	item.Metadata = map[string]string{}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &item.Metadata); err != nil {
			return fmt.Errorf("decode metadata for plan %s: %w", item.ID, err)
		}
	}

	return nil
}

func encodeMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(raw), nil
}
