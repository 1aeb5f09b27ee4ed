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

type AllowedOrg interface {
	GetAllForRoom(ctx context.Context, roomID string) ([]model.AllowedOrg, error)
	ReplaceForRoom(ctx context.Context, roomID string, entries []model.AllowedOrg) error
}

type allowedOrgImpl struct {
	gRepo.Repository[model.AllowedOrg]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAllowedOrg(db *postgres.Connection, otel otel.Otel) AllowedOrg {
	return &allowedOrgImpl{
		Repository: gRepo.NewRepository[model.AllowedOrg](model.AllowedOrgEntityName, model.AllowedOrgTableName, model.FieldAllowedOrgID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *allowedOrgImpl) GetAllForRoom(ctx context.Context, roomID string) ([]model.AllowedOrg, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_allowed_org.GetAllForRoom")
	defer scope.End()

	filter := shared.FilterByID(roomID, model.FieldAllowedOrgRoomID, model.AllowedOrgTableName)

	return repo.GetAll(ctx, noPaging, filter) //nolint:wrapcheck
}

func (repo *allowedOrgImpl) ReplaceForRoom(ctx context.Context, roomID string, entries []model.AllowedOrg) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_allowed_org.ReplaceForRoom")
	defer scope.End()

	tx, err := repo.Beginx()
	if err != nil {
		return err //nolint:wrapcheck
	}

	filter := shared.FilterByID(roomID, model.FieldAllowedOrgRoomID, model.AllowedOrgTableName)

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

		return fmt.Errorf("failed to commit allowlist replace (%s): %w", model.AllowedOrgEntityName, err)
	}

	return nil
}
