package repository

import (
	"context"
	"fmt"

	"atrium/infras/otel"
	"atrium/infras/postgres"
	"atrium/internal/domains/room/model"
	"atrium/shared"
	"atrium/shared/constant"
	"atrium/shared/logger"
	gRepo "atrium/shared/repository"
)

type Availability interface {
	GetAllForRoom(ctx context.Context, roomID string) ([]model.Availability, error)
	ReplaceForRoom(ctx context.Context, roomID string, entries []model.Availability) error
}

type availabilityImpl struct {
	gRepo.Repository[model.Availability]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAvailability(db *postgres.Connection, otel otel.Otel) Availability {
	return &availabilityImpl{
		Repository: gRepo.NewRepository[model.Availability](model.AvailabilityEntityName, model.AvailabilityTableName, model.FieldAvailabilityID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *availabilityImpl) GetAllForRoom(ctx context.Context, roomID string) ([]model.Availability, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_availability.GetAllForRoom")
	defer scope.End()

	filter := shared.FilterByID(roomID, model.FieldAvailabilityRoomID, model.AvailabilityTableName)

	return repo.GetAll(ctx, noPaging, filter) //nolint:wrapcheck
}

// ReplaceForRoom swaps the room's whole weekly schedule in one
// transaction so readers never observe a half-written schedule.
func (repo *availabilityImpl) ReplaceForRoom(ctx context.Context, roomID string, entries []model.Availability) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_availability.ReplaceForRoom")
	defer scope.End()

	tx, err := repo.Beginx()
	if err != nil {
		return err //nolint:wrapcheck
	}

	filter := shared.FilterByID(roomID, model.FieldAvailabilityRoomID, model.AvailabilityTableName)

	if err := repo.DeleteTx(ctx, tx, filter); err != nil {
		_ = tx.Rollback()

		return err //nolint:wrapcheck
	}

	if len(entries) > 0 {
		if err := repo.InsertBulkTx(ctx, tx, entries); err != nil {
			_ = tx.Rollback()

			return err //nolint:wrapcheck
		}
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to commit schedule replace (%s): %w", model.AvailabilityEntityName, err)
	}

	return nil
}
