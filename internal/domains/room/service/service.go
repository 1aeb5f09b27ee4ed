package service

import (
	"context"
	"fmt"

	"atrium/config"
	"atrium/infras/otel"
	auditModel "atrium/internal/domains/audit/model"
	auditService "atrium/internal/domains/audit/service"
	"atrium/internal/domains/room/model"
	"atrium/internal/domains/room/model/dto"
	"atrium/internal/domains/room/repository"
	"atrium/internal/engine"
	"atrium/shared"
	"atrium/shared/cache"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
	"atrium/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	SetAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) error
	SetAllowedOrgs(ctx context.Context, id string, req dto.SetAllowedOrgsRequest) error
	Deactivate(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Room
	availRepo   repository.Availability
	allowedRepo repository.AllowedOrg
	audit       auditService.Audit
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Room,
	availRepo repository.Availability,
	allowedRepo repository.AllowedOrg,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Room {
	return &serviceImpl{
		repo:        repo,
		availRepo:   availRepo,
		allowedRepo: allowedRepo,
		audit:       audit,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	orgIDCtx, _ := ctx.Value(constant.ContextKeyOrgID).(string)
	if err = authorizeManage(ctx, orgIDCtx); err != nil {
		return err
	}

	level := req.AccessLevel
	if level == "" {
		level = string(engine.AccessLevelPrivate)
	}

	if len(req.AllowedOrgIDs) > 0 && level != string(engine.AccessLevelOrgOnly) {
		return failure.Validation("allowed organizations require an org_only room") // nolint:wrapcheck
	}

	entries, err := toAvailabilityModels(req.Availability, "")
	if err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)

	room := req.ToModel(orgID, user)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return fmt.Errorf("failed to create room: %w", err)
	}

	for i := range entries {
		entries[i].RoomID = room.ID
	}

	if len(entries) > 0 {
		if err = s.availRepo.ReplaceForRoom(ctx, room.ID, entries); err != nil {
			log.Error().Err(err).Msg("failed to set room availability")

			return fmt.Errorf("failed to set room availability: %w", err)
		}
	}

	if len(req.AllowedOrgIDs) > 0 {
		if err = s.allowedRepo.ReplaceForRoom(ctx, room.ID, toAllowedOrgModels(room.ID, req.AllowedOrgIDs)); err != nil {
			log.Error().Err(err).Msg("failed to set room allowlist")

			return fmt.Errorf("failed to set room allowlist: %w", err)
		}
	}

	s.audit.Record(ctx, auditModel.ActionCreate, auditModel.EntityRoom, room.ID, "room created")
	s.invalidateListings(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.room(ctx, id)
	if err != nil {
		return res, err
	}

	entries, err := s.availRepo.GetAllForRoom(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room availability")

		return res, fmt.Errorf("failed to get room availability: %w", err)
	}

	allowed, err := s.allowedRepo.GetAllForRoom(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room allowlist")

		return res, fmt.Errorf("failed to get room allowlist: %w", err)
	}

	res.FromModel(room)
	res.WithRelations(entries, allowed)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateRoomRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	room, err := s.room(ctx, id)
	if err != nil {
		return err
	}

	if err = authorizeManage(ctx, room.OrgID); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return fmt.Errorf("failed to update room: %w", err)
	}

	// Leaving org_only invalidates the allowlist; clear it so the
	// allowlist-implies-org_only invariant keeps holding.
	if req.AccessLevel != nil &&
		room.AccessLevel == string(engine.AccessLevelOrgOnly) &&
		*req.AccessLevel != string(engine.AccessLevelOrgOnly) {
		if err := s.allowedRepo.ReplaceForRoom(ctx, id, nil); err != nil {
			log.Error().Err(err).Msg("failed to clear room allowlist")

			return fmt.Errorf("failed to clear room allowlist: %w", err)
		}
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetAvailability(ctx context.Context, id string, req dto.SetAvailabilityRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.SetAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.room(ctx, id)
	if err != nil {
		return err
	}

	if err = authorizeManage(ctx, room.OrgID); err != nil {
		return err
	}

	entries, err := toAvailabilityModels(req.Entries, id)
	if err != nil {
		return err
	}

	if err = s.availRepo.ReplaceForRoom(ctx, id, entries); err != nil {
		log.Error().Err(err).Msg("failed to set room availability")

		return fmt.Errorf("failed to set room availability: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) SetAllowedOrgs(ctx context.Context, id string, req dto.SetAllowedOrgsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.SetAllowedOrgs")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.room(ctx, id)
	if err != nil {
		return err
	}

	if err = authorizeManage(ctx, room.OrgID); err != nil {
		return err
	}

	if len(req.OrgIDs) > 0 && room.AccessLevel != string(engine.AccessLevelOrgOnly) {
		return failure.Validation("allowed organizations require an org_only room") // nolint:wrapcheck
	}

	if err = s.allowedRepo.ReplaceForRoom(ctx, id, toAllowedOrgModels(id, req.OrgIDs)); err != nil {
		log.Error().Err(err).Msg("failed to set room allowlist")

		return fmt.Errorf("failed to set room allowlist: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Deactivate retires the room without touching its booking history.
// Rooms are never hard-deleted.
func (s *serviceImpl) Deactivate(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Deactivate")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, err := s.room(ctx, id)
	if err != nil {
		return err
	}

	if err = authorizeManage(ctx, room.OrgID); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	updated := map[string]any{
		model.FieldActive:        false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updated, filter); err != nil {
		log.Error().Err(err).Msg("failed to deactivate room")

		return fmt.Errorf("failed to deactivate room: %w", err)
	}

	s.audit.Record(ctx, auditModel.ActionDeactivate, auditModel.EntityRoom, id, "room deactivated")
	s.invalidate(ctx, id)

	return nil
}

// authorizeManage restricts room management to admins of the owning
// organization; superadmins manage anywhere.
func authorizeManage(ctx context.Context, roomOrgID string) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleSuperAdmin {
		return nil
	}

	if role != constant.RoleAdmin {
		return failure.Forbidden("only admins may manage rooms") // nolint:wrapcheck
	}

	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)
	if roomOrgID != orgID {
		return failure.Forbidden("room belongs to another organization") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) room(ctx context.Context, id string) (model.Room, error) {
	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return room, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

func toAvailabilityModels(entries []dto.AvailabilityEntry, roomID string) ([]model.Availability, error) {
	models := make([]model.Availability, 0, len(entries))

	for i := range entries {
		entry := entries[i].ToModel(roomID)

		window, err := entry.Window()
		if err != nil {
			return nil, failure.Validation(err.Error()) // nolint:wrapcheck
		}

		if !window.Valid() {
			return nil, failure.Validation("start_time must be before end_time") // nolint:wrapcheck
		}

		models = append(models, entry)
	}

	return models, nil
}

func toAllowedOrgModels(roomID string, orgIDs []string) []model.AllowedOrg {
	models := make([]model.AllowedOrg, 0, len(orgIDs))

	for _, orgID := range orgIDs {
		models = append(models, model.AllowedOrg{
			ID:     uuid.NewString(),
			RoomID: roomID,
			OrgID:  orgID,
		})
	}

	return models
}
