package service

import (
	"context"
	"fmt"

	"atrium/infras/otel"
	"atrium/internal/domains/audit/model"
	"atrium/internal/domains/audit/model/dto"
	"atrium/internal/domains/audit/repository"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
	"atrium/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Audit interface {
	Record(ctx context.Context, action, entity, entityID, detail string)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetEntriesResponse, error)
}

type serviceImpl struct {
	repo repository.Audit
	otel otel.Otel
}

func New(repo repository.Audit, otel otel.Otel) Audit {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// Record writes an audit entry for the acting user. Failures are logged
// and swallowed so the audited operation itself never rolls back.
func (s *serviceImpl) Record(ctx context.Context, action, entity, entityID, detail string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Record")
	defer scope.End()

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	entry := model.Entry{
		ID:        uuid.NewString(),
		ActorID:   actor,
		ActorRole: role,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: timezone.Now(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("action", action).
			Str("entity", entity).
			Str("entityID", entityID).
			Msg("failed to write audit entry")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetEntriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return res, failure.ForbiddenError
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit entries")

		return res, fmt.Errorf("failed to count audit entries: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit entries")

		return res, fmt.Errorf("failed to get audit entries: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}
