package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"testing"

	"atrium/infras/otel/mocks"
	"atrium/shared/dto"
)

type captureExecer struct {
	query string
	args  map[string]any
	rows  int64
}

func (c *captureExecer) NamedExecContext(_ context.Context, query string, arg interface{}) (sql.Result, error) {
	c.query = query
	c.args, _ = arg.(map[string]any)

	return driver.RowsAffected(c.rows), nil
}

type guardedRow struct {
	ID     string `db:"id"`
	Status string `db:"status"`
}

func guardedFilter(id, status string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: id, Table: "room_bookings"},
			dto.Filter{ArgName: "guard_status", Field: "status", Operator: dto.FilterOperatorEq, Value: status, Table: "room_bookings"},
		},
	}
}

// A filter guarding on a column that the SET clause also binds must keep its
// own named arg; otherwise maps.Copy overwrites the guard value with the new
// one and the WHERE clause can never match.
func TestUpdate_GuardArgSurvivesSetClause(t *testing.T) {
	repo := NewRepository[guardedRow]("booking", "room_bookings", "id", nil, mocks.NewOtel())

	exec := &captureExecer{rows: 1}

	affected, err := repo.update(context.Background(), exec, map[string]any{"status": "completed"}, guardedFilter("b-1", "approved"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if affected != 1 {
		t.Errorf("expected 1 affected row, got %d", affected)
	}

	if !strings.Contains(exec.query, "status = :guard_status") {
		t.Errorf("expected the guard to bind its own arg, got query %q", exec.query)
	}

	if exec.args["guard_status"] != "approved" {
		t.Errorf("expected guard arg to stay 'approved', got %v", exec.args["guard_status"])
	}

	if exec.args["status"] != "completed" {
		t.Errorf("expected set arg to be 'completed', got %v", exec.args["status"])
	}
}

func TestUpdate_ReportsZeroMatchedRows(t *testing.T) {
	repo := NewRepository[guardedRow]("booking", "room_bookings", "id", nil, mocks.NewOtel())

	exec := &captureExecer{rows: 0}

	affected, err := repo.update(context.Background(), exec, map[string]any{"status": "completed"}, guardedFilter("b-1", "approved"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if affected != 0 {
		t.Errorf("expected 0 affected rows, got %d", affected)
	}
}
