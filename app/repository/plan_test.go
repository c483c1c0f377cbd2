package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/vibast-solutions/ms-go-plans/app/entity"
)

var planColumns = []string{
	"id", "amount", "currency", "billing_interval", "interval_count",
	"livemode", "metadata", "name", "statement_descriptor", "trial_period_days",
	"provider_created_at", "synced_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func TestUpsertSendsAllColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	descriptor := " GOLD PLAN "
	trial := int64(14)
	syncedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec("INSERT INTO plans").
		WithArgs(
			"gold", int64(2000), "usd", "month", int64(1), false,
			`{"tier":"gold"}`, "Gold", "GOLD PLAN", int64(14),
			time.Unix(1700000000, 0).UTC(), syncedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &entity.Plan{
		ID:                  "gold",
		Amount:              2000,
		Currency:            "usd",
		Interval:            "month",
		IntervalCount:       1,
		Metadata:            map[string]string{"tier": "gold"},
		Name:                "Gold",
		StatementDescriptor: &descriptor,
		TrialPeriodDays:     &trial,
		Created:             1700000000,
	}, syncedAt)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertNullableColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	mock.ExpectExec("INSERT INTO plans").
		WithArgs("basic", int64(0), "eur", "year", int64(1), true, "{}", "Basic", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &entity.Plan{
		ID: "basic", Currency: "eur", Interval: "year", IntervalCount: 1, Livemode: true, Name: "Basic",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	created := time.Unix(1700000000, 0).UTC()
	synced := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM plans WHERE id = ?").
		WithArgs("gold").
		WillReturnRows(sqlmock.NewRows(planColumns).AddRow(
			"gold", int64(2000), "usd", "month", int64(1), false,
			`{"tier":"gold"}`, "Gold", "GOLD", int64(7), created, synced,
		))

	item, err := repo.FindByID(context.Background(), "gold")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item == nil || item.ID != "gold" || item.Object != entity.ObjectPlan || item.Created != 1700000000 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Metadata["tier"] != "gold" {
		t.Fatalf("expected metadata to be decoded, got %+v", item.Metadata)
	}
	if item.StatementDescriptor == nil || *item.StatementDescriptor != "GOLD" {
		t.Fatalf("unexpected statement descriptor: %v", item.StatementDescriptor)
	}
	if item.TrialPeriodDays == nil || *item.TrialPeriodDays != 7 {
		t.Fatalf("unexpected trial period: %v", item.TrialPeriodDays)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM plans WHERE id = ?").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(planColumns))

	item, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil item, got %+v", item)
	}
}

func TestListScansNullColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM plans ORDER BY").
		WillReturnRows(sqlmock.NewRows(planColumns).
			AddRow("gold", int64(2000), "usd", "month", int64(1), false, `{}`, "Gold", nil, nil, now, now).
			AddRow("silver", int64(1000), "usd", "month", int64(1), false, nil, "Silver", nil, nil, now, now))

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].StatementDescriptor != nil || items[1].TrialPeriodDays != nil {
		t.Fatalf("expected nil optional fields, got %+v", items[1])
	}
	if items[1].Metadata == nil {
		t.Fatal("expected empty metadata map")
	}
}

func TestListBadMetadata(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM plans").
		WillReturnRows(sqlmock.NewRows(planColumns).
			AddRow("gold", int64(2000), "usd", "month", int64(1), false, `{bad`, "Gold", nil, nil, now, now))

	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected metadata decode error")
	}
}

func TestDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPlanRepository(db)

	mock.ExpectExec("DELETE FROM plans WHERE id = ?").WithArgs("gold").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM plans WHERE id = ?").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "gold"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestNullableHelpers(t *testing.T) {
	if nullableStringValue(nil) != nil {
		t.Fatal("expected nil for nil string")
	}
	s := "  GOLD  "
	if got := nullableStringValue(&s); got != "GOLD" {
		t.Fatalf("expected trimmed value, got %#v", got)
	}
	if nullableInt64Value(nil) != nil {
		t.Fatal("expected nil for nil int")
	}
	n := int64(3)
	if got := nullableInt64Value(&n); got != int64(3) {
		t.Fatalf("expected 3, got %#v", got)
	}
}
