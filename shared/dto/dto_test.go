package dto_test

import (
	"testing"
	"time"

	"atrium/shared/constant"
	"atrium/shared/dto"
	"atrium/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	if metadata.CreatedAt != createdAt.Format(constant.DateFormat) {
		t.Errorf("expected CreatedAt to be %s, got %s", createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		expected string
		argName  string
		argValue any
	}{
		{
			name: "eq with table",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorEq,
				Value:    "pending",
				Table:    "room_bookings",
			},
			expected: "room_bookings.status = :status",
			argName:  "status",
			argValue: "pending",
		},
		{
			name: "less with explicit arg name",
			filter: dto.Filter{
				ArgName:  "requested_end",
				Field:    "start_time",
				Operator: dto.FilterOperatorLess,
				Value:    "2026-03-02T10:00:00Z",
				Table:    "room_bookings",
			},
			expected: "room_bookings.start_time < :requested_end",
			argName:  "requested_end",
			argValue: "2026-03-02T10:00:00Z",
		},
		{
			name: "greater with explicit arg name",
			filter: dto.Filter{
				ArgName:  "requested_start",
				Field:    "end_time",
				Operator: dto.FilterOperatorGreater,
				Value:    "2026-03-02T09:00:00Z",
				Table:    "room_bookings",
			},
			expected: "room_bookings.end_time > :requested_start",
			argName:  "requested_start",
			argValue: "2026-03-02T09:00:00Z",
		},
		{
			name: "not eq",
			filter: dto.Filter{
				ArgName:  "exclude_id",
				Field:    "id",
				Operator: dto.FilterOperatorNotEq,
				Value:    "b-1",
			},
			expected: "id != :exclude_id",
			argName:  "exclude_id",
			argValue: "b-1",
		},
		{
			name: "less eq",
			filter: dto.Filter{
				ArgName:  "sweep_now",
				Field:    "end_time",
				Operator: dto.FilterOperatorLessEq,
				Value:    "2026-03-02T10:00:00Z",
			},
			expected: "end_time <= :sweep_now",
			argName:  "sweep_now",
			argValue: "2026-03-02T10:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.expected {
				t.Errorf("expected where clause %q, got %q", tt.expected, where)
			}

			if args[tt.argName] != tt.argValue {
				t.Errorf("expected arg %s to be %v, got %v", tt.argName, tt.argValue, args[tt.argName])
			}
		})
	}
}

func TestFilter_GetWhereClause_In(t *testing.T) {
	filter := dto.Filter{
		Field:    "status",
		Operator: dto.FilterOperatorIn,
		Value:    []string{"pending", "approved"},
	}

	where, args := filter.GetWhereClause()

	if where != "status IN (:status_0, :status_1) " {
		t.Errorf("unexpected where clause %q", where)
	}

	if args["status_0"] != "pending" || args["status_1"] != "approved" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "r-1"},
			dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorIn,
				Value:    []string{"pending", "approved"},
			},
		},
	}

	where, args := group.GetWhereClause()

	expected := "(room_id = :room_id AND status IN (:status_0, :status_1) )"
	if where != expected {
		t.Errorf("expected where clause %q, got %q", expected, where)
	}

	if len(args) != 3 {
		t.Errorf("expected 3 args, got %d", len(args))
	}
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	if where != "" {
		t.Errorf("expected empty where clause, got %q", where)
	}

	if len(args) != 0 {
		t.Errorf("expected no args, got %d", len(args))
	}
}
