package service

import (
	"context"
	"fmt"

	"atrium/config"
	"atrium/infras/kafka"
	"atrium/infras/lock"
	"atrium/infras/otel"
	auditModel "atrium/internal/domains/audit/model"
	auditService "atrium/internal/domains/audit/service"
	"atrium/internal/domains/booking/model"
	"atrium/internal/domains/booking/model/dto"
	"atrium/internal/domains/booking/repository"
	roomModel "atrium/internal/domains/room/model"
	roomRepo "atrium/internal/domains/room/repository"
	"atrium/internal/engine"
	"atrium/shared"
	"atrium/shared/cache"
	"atrium/shared/clock"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
	"atrium/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	lockPrefixRoom = "lock:room"

	eventBookingCreated   = "booking.created"
	eventBookingApproved  = "booking.approved"
	eventBookingRejected  = "booking.rejected"
	eventBookingCancelled = "booking.cancelled"
	eventBookingExtended  = "booking.extended"
	eventBookingCompleted = "booking.completed"
)

type Booking interface {
	Check(ctx context.Context, req dto.CheckBookingRequest) (dto.CheckResponse, error)
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string, req dto.RejectBookingRequest) error
	Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) error
	Extend(ctx context.Context, id string, req dto.ExtendBookingRequest) error
	CompletionSweep(ctx context.Context) (int, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMyBookings(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	roomRepo    roomRepo.Room
	availRepo   roomRepo.Availability
	allowedRepo roomRepo.AllowedOrg
	audit       auditService.Audit
	cfg         *config.Config
	cache       cache.RedisCache
	kafka       kafka.Client
	locks       lock.Provider
	clock       clock.Clock
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	roomRepository roomRepo.Room,
	availRepo roomRepo.Availability,
	allowedRepo roomRepo.AllowedOrg,
	audit auditService.Audit,
	cfg *config.Config,
	cache cache.RedisCache,
	kafkaClient kafka.Client,
	locks lock.Provider,
	clk clock.Clock,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepository,
		availRepo:   availRepo,
		allowedRepo: allowedRepo,
		audit:       audit,
		cfg:         cfg,
		cache:       cache,
		kafka:       kafkaClient,
		locks:       locks,
		clock:       clk,
		otel:        otel,
	}
}

// Check runs the admission pipeline without reserving anything. A denial
// is a normal response here, not an error; the caller sees the same
// decision a Create would produce at this instant.
func (s *serviceImpl) Check(ctx context.Context, req dto.CheckBookingRequest) (res dto.CheckResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Check")
	defer scope.End()
	defer scope.TraceIfError(err)

	ival, err := req.Interval()
	if err != nil {
		return res, failure.Validation(fmt.Sprintf("invalid date/time format: %v", err)) // nolint:wrapcheck
	}

	if err = s.validateInterval(ival); err != nil {
		return res, err
	}

	decision, err := s.evaluate(ctx, req.RoomID, ival, constant.Empty)
	if err != nil {
		return res, err
	}

	res.FromDecision(decision)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	ival, err := req.Interval()
	if err != nil {
		return res, failure.Validation(fmt.Sprintf("invalid date/time format: %v", err)) // nolint:wrapcheck
	}

	if err = s.validateInterval(ival); err != nil {
		return res, err
	}

	lease, err := s.acquireRoomLock(ctx, req.RoomID)
	if err != nil {
		return res, err
	}
	defer s.releaseRoomLock(ctx, lease)

	decision, err := s.evaluate(ctx, req.RoomID, ival, constant.Empty)
	if err != nil {
		return res, err
	}

	if !decision.Allowed {
		return res, decisionFailure(decision)
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)

	booking := req.ToModel(userID, orgID, ival)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.audit.Record(ctx, auditModel.ActionCreate, auditModel.EntityBooking, booking.ID, "booking requested")
	s.publishEvent(ctx, eventBookingCreated, booking)
	s.invalidateListings(ctx)

	res.FromModel(booking)

	return res, nil
}

// Approve re-runs the full admission check before committing. The room,
// its schedule or competing bookings may all have changed since the
// request went pending.
func (s *serviceImpl) Approve(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.booking(ctx, id)
	if err != nil {
		return err
	}

	next, ok := engine.Next(engine.Status(booking.Status), engine.EventApprove)
	if !ok {
		return failure.InvalidStateTransition(booking.Status, string(engine.EventApprove)) // nolint:wrapcheck
	}

	if err = s.authorizeDecision(ctx, booking.RoomID); err != nil {
		return err
	}

	lease, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer s.releaseRoomLock(ctx, lease)

	decision, err := s.evaluateFor(ctx, booking.RoomID, booking.OrgID, booking.Interval(), booking.ID)
	if err != nil {
		return err
	}

	if !decision.Allowed {
		return decisionFailure(decision)
	}

	approver, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()

	updated := map[string]any{
		model.FieldStatus:        string(next),
		"approver_id":            approver,
		"decided_at":             now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: approver,
	}

	affected, err := s.repo.UpdateAffected(ctx, updated, statusGuard(id, booking.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to approve booking")

		return fmt.Errorf("failed to approve booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	booking.Status = string(next)

	s.audit.Record(ctx, auditModel.ActionApprove, auditModel.EntityBooking, id, "booking approved")
	s.publishEvent(ctx, eventBookingApproved, booking)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.booking(ctx, id)
	if err != nil {
		return err
	}

	next, ok := engine.Next(engine.Status(booking.Status), engine.EventReject)
	if !ok {
		return failure.InvalidStateTransition(booking.Status, string(engine.EventReject)) // nolint:wrapcheck
	}

	if err = s.authorizeDecision(ctx, booking.RoomID); err != nil {
		return err
	}

	approver, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := s.clock.Now()

	updated := map[string]any{
		model.FieldStatus:        string(next),
		"approver_id":            approver,
		"decided_at":             now,
		"decision_reason":        req.Reason,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: approver,
	}

	affected, err := s.repo.UpdateAffected(ctx, updated, statusGuard(id, booking.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to reject booking")

		return fmt.Errorf("failed to reject booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	booking.Status = string(next)

	s.audit.Record(ctx, auditModel.ActionReject, auditModel.EntityBooking, id, req.Reason)
	s.publishEvent(ctx, eventBookingRejected, booking)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.booking(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if booking.UserID != userID && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return failure.Forbidden("only the booking owner or an admin may cancel") // nolint:wrapcheck
	}

	next, ok := engine.Next(engine.Status(booking.Status), engine.EventCancel)
	if !ok {
		return failure.InvalidStateTransition(booking.Status, string(engine.EventCancel)) // nolint:wrapcheck
	}

	now := s.clock.Now()

	updated := map[string]any{
		model.FieldStatus:        string(next),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	if req.Reason != constant.Empty {
		updated["decision_reason"] = req.Reason
	}

	affected, err := s.repo.UpdateAffected(ctx, updated, statusGuard(id, booking.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	booking.Status = string(next)

	s.audit.Record(ctx, auditModel.ActionCancel, auditModel.EntityBooking, id, req.Reason)
	s.publishEvent(ctx, eventBookingCancelled, booking)
	s.invalidate(ctx, id)

	return nil
}

// Extend pushes the end time of an approved booking forward. On any
// denial the booking keeps its original interval.
func (s *serviceImpl) Extend(ctx context.Context, id string, req dto.ExtendBookingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Extend")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.booking(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if booking.UserID != userID && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return failure.Forbidden("only the booking owner or an admin may extend") // nolint:wrapcheck
	}

	if _, ok := engine.Next(engine.Status(booking.Status), engine.EventExtend); !ok {
		return failure.InvalidStateTransition(booking.Status, string(engine.EventExtend)) // nolint:wrapcheck
	}

	newEnd, err := timezone.Parse(constant.DateFormat, req.NewEndTime)
	if err != nil {
		return failure.Validation(fmt.Sprintf("invalid date/time format: %v", err)) // nolint:wrapcheck
	}

	if !newEnd.After(booking.EndTime) {
		return failure.Validation("new_end_time must be after the current end time") // nolint:wrapcheck
	}

	extended := engine.Interval{Start: booking.StartTime, End: newEnd}

	lease, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	defer s.releaseRoomLock(ctx, lease)

	decision, err := s.evaluateFor(ctx, booking.RoomID, booking.OrgID, extended, booking.ID)
	if err != nil {
		return err
	}

	if !decision.Allowed {
		if decision.Reason == engine.ReasonConflict {
			return failure.ExtensionConflict(decision.ConflictingBookingIDs) // nolint:wrapcheck
		}

		return decisionFailure(decision)
	}

	now := s.clock.Now()

	updated := map[string]any{
		model.FieldEndTime:       newEnd,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: userID,
	}

	affected, err := s.repo.UpdateAffected(ctx, updated, statusGuard(id, booking.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to extend booking")

		return fmt.Errorf("failed to extend booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified concurrently") // nolint:wrapcheck
	}

	booking.EndTime = newEnd

	s.audit.Record(ctx, auditModel.ActionExtend, auditModel.EntityBooking, id, "booking extended to "+req.NewEndTime)
	s.publishEvent(ctx, eventBookingExtended, booking)
	s.invalidate(ctx, id)

	return nil
}

// CompletionSweep marks approved bookings whose end time has passed as
// completed. It is meant to run from an external scheduler and returns
// the number of bookings it completed.
func (s *serviceImpl) CompletionSweep(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelSweepScopeName, constant.OtelSweepScopeName+".CompletionSweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := s.clock.Now()

	expired, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to find expired bookings")

		return 0, fmt.Errorf("failed to find expired bookings: %w", err)
	}

	for _, booking := range expired {
		next, ok := engine.Next(engine.Status(booking.Status), engine.EventComplete)
		if !ok {
			continue
		}

		// Same lock as Create/Approve/Extend; a booking skipped on
		// contention is picked up by the next run.
		lease, err := s.acquireRoomLock(ctx, booking.RoomID)
		if err != nil {
			continue
		}

		updated := map[string]any{
			model.FieldStatus:        string(next),
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: "sweeper",
		}

		affected, err := s.repo.UpdateAffected(ctx, updated, statusGuard(booking.ID, booking.Status))
		s.releaseRoomLock(ctx, lease)

		if err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to complete booking")

			continue
		}

		if affected == 0 {
			// Lost to a concurrent cancel; nothing to complete.
			continue
		}

		booking.Status = string(next)

		s.publishEvent(ctx, eventBookingCompleted, booking)
		count++
	}

	if count > 0 {
		s.invalidateListings(ctx)
	}

	log.Info().Int("completed", count).Msg("completion sweep finished")

	return count, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.booking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMyBookings(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMyBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("missing user identity") // nolint:wrapcheck
	}

	filter := shared.FilterByID(userID, model.FieldUserID, model.TableName)

	return s.GetAll(ctx, req, filter)
}

// evaluate runs the admission pipeline for the requester in context.
func (s *serviceImpl) evaluate(ctx context.Context, roomID string, ival engine.Interval, excludeID string) (engine.Decision, error) {
	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)

	return s.evaluateFor(ctx, roomID, orgID, ival, excludeID)
}

func (s *serviceImpl) evaluateFor(ctx context.Context, roomID, requesterOrgID string, ival engine.Interval, excludeID string) (engine.Decision, error) {
	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return engine.Decision{}, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return engine.Decision{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	entries, err := s.availRepo.GetAllForRoom(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room availability")

		return engine.Decision{}, fmt.Errorf("failed to get room availability: %w", err)
	}

	windows, err := roomModel.Windows(entries)
	if err != nil {
		log.Error().Err(err).Msg("room schedule contains a malformed entry")

		return engine.Decision{}, fmt.Errorf("room schedule contains a malformed entry: %w", err)
	}

	allowed, err := s.allowedRepo.GetAllForRoom(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room allowlist")

		return engine.Decision{}, fmt.Errorf("failed to get room allowlist: %w", err)
	}

	blocking, err := s.repo.FindBlocking(ctx, roomID, ival, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to find blocking bookings")

		return engine.Decision{}, fmt.Errorf("failed to find blocking bookings: %w", err)
	}

	decision := engine.CheckRequest(
		room.Access(roomModel.OrgIDs(allowed)),
		requesterOrgID,
		windows,
		model.Slots(blocking),
		ival,
		excludeID,
	)

	return decision, nil
}

func (s *serviceImpl) validateInterval(ival engine.Interval) error {
	if !ival.Valid() {
		return failure.Validation("start_time must be before end_time") // nolint:wrapcheck
	}

	if ival.Start.Before(s.clock.Now()) {
		return failure.Validation("start_time must not be in the past") // nolint:wrapcheck
	}

	return nil
}

// authorizeDecision restricts approve/reject to admins of the room's
// owning organization; superadmins decide anywhere.
func (s *serviceImpl) authorizeDecision(ctx context.Context, roomID string) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleSuperAdmin {
		return nil
	}

	if role != constant.RoleAdmin {
		return failure.Forbidden("only admins may decide booking requests") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	orgID, _ := ctx.Value(constant.ContextKeyOrgID).(string)
	if room.OrgID != orgID {
		return failure.Forbidden("room belongs to another organization") // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) booking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

// statusGuard filters by id plus the status the caller read, so a transition
// raced by another writer matches zero rows instead of clobbering it. The
// guard carries its own arg name because the SET clause already binds :status.
func statusGuard(id, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
			gDto.Filter{ArgName: "guard_status", Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: status, Table: model.TableName},
		},
	}
}

func (s *serviceImpl) acquireRoomLock(ctx context.Context, roomID string) (lock.Lease, error) {
	lease, err := s.locks.Acquire(ctx, shared.BuildCacheKey(lockPrefixRoom, roomID))
	if err != nil {
		log.Warn().Err(err).Str("roomID", roomID).Msg("failed to acquire room lock")

		return nil, err //nolint:wrapcheck
	}

	return lease, nil
}

func (s *serviceImpl) releaseRoomLock(ctx context.Context, lease lock.Lease) {
	if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("failed to release room lock")
	}
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	event := dto.BookingEvent{
		EventType:  eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		UserID:     booking.UserID,
		OrgID:      booking.OrgID,
		Status:     booking.Status,
		StartTime:  timezone.Format(booking.StartTime, constant.DateFormat),
		EndTime:    timezone.Format(booking.EndTime, constant.DateFormat),
		OccurredAt: timezone.Format(s.clock.Now(), constant.DateFormat),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topic.BookingEvents, kafka.Message{Key: booking.ID, Value: event}); err != nil {
			log.Error().Err(err).Str("eventType", eventType).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func (s *serviceImpl) invalidateListings(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

// decisionFailure maps an engine denial onto the structured failure the
// transport layer serializes.
func decisionFailure(decision engine.Decision) error {
	switch decision.Reason {
	case engine.ReasonNotSameOrg:
		return failure.AccessDenied(string(decision.Reason), "room is restricted to its owning organization") // nolint:wrapcheck
	case engine.ReasonNotInAllowlist:
		return failure.AccessDenied(string(decision.Reason), "requester's organization is not on the room's allowlist") // nolint:wrapcheck
	case engine.ReasonRoomInactive:
		return failure.Unavailable(string(decision.Reason), "room is not active") // nolint:wrapcheck
	case engine.ReasonNoSchedule:
		return failure.Unavailable(string(decision.Reason), "room has no availability on the requested day") // nolint:wrapcheck
	case engine.ReasonOutsideWindow:
		return failure.Unavailable(string(decision.Reason), "requested interval falls outside the room's availability") // nolint:wrapcheck
	case engine.ReasonBlackoutOverride:
		return failure.Unavailable(string(decision.Reason), "requested interval overlaps a blackout window") // nolint:wrapcheck
	case engine.ReasonConflict:
		return failure.BookingConflict(decision.ConflictingBookingIDs) // nolint:wrapcheck
	default:
		return failure.Validation("booking request denied") // nolint:wrapcheck
	}
}
