package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"atrium/config"
	kafkaMocks "atrium/infras/kafka/mocks"
	"atrium/infras/lock"
	lockMocks "atrium/infras/lock/mocks"
	"atrium/infras/otel/mocks"
	auditMocks "atrium/internal/domains/audit/mocks"
	auditService "atrium/internal/domains/audit/service"
	bookingMocks "atrium/internal/domains/booking/mocks"
	"atrium/internal/domains/booking/model"
	"atrium/internal/domains/booking/model/dto"
	"atrium/internal/domains/booking/service"
	roomMocks "atrium/internal/domains/room/mocks"
	roomModel "atrium/internal/domains/room/model"
	"atrium/internal/engine"
	cacheMocks "atrium/shared/cache/mocks"
	clockMocks "atrium/shared/clock/mocks"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
)

// fixedNow is a Sunday; bookings in the tests land on the following Monday.
var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	repo        *bookingMocks.MockBooking
	roomRepo    *roomMocks.MockRoom
	availRepo   *roomMocks.MockAvailability
	allowedRepo *roomMocks.MockAllowedOrg
	auditRepo   *auditMocks.MockAudit
	cache       *cacheMocks.MockRedisCache
	kafka       *kafkaMocks.MockClient
	locks       *lockMocks.MockProvider
	clock       *clockMocks.MockClock
	svc         service.Booking
}

func newFixture(ctrl *gomock.Controller) *fixture {
	f := &fixture{
		repo:        bookingMocks.NewMockBooking(ctrl),
		roomRepo:    roomMocks.NewMockRoom(ctrl),
		availRepo:   roomMocks.NewMockAvailability(ctrl),
		allowedRepo: roomMocks.NewMockAllowedOrg(ctrl),
		auditRepo:   auditMocks.NewMockAudit(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		kafka:       kafkaMocks.NewMockClient(ctrl),
		locks:       lockMocks.NewMockProvider(ctrl),
		clock:       clockMocks.NewMockClock(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topic.BookingEvents = "test.booking-events"

	mockOtel := mocks.NewOtel()

	f.svc = service.New(
		f.repo,
		f.roomRepo,
		f.availRepo,
		f.allowedRepo,
		auditService.New(f.auditRepo, mockOtel),
		cfg,
		f.cache,
		f.kafka,
		f.locks,
		f.clock,
		mockOtel,
	)

	f.clock.EXPECT().Now().Return(fixedNow).AnyTimes()

	// Audit writes, events and cache invalidation are fire-and-forget.
	f.auditRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func (f *fixture) expectLockAcquired(ctrl *gomock.Controller) {
	lease := lockMocks.NewMockLease(ctrl)
	lease.EXPECT().Release(gomock.Any()).Return(nil).AnyTimes()

	f.locks.EXPECT().
		Acquire(gomock.Any(), gomock.Any()).
		Return(lease, nil)
}

func openRoom() roomModel.Room {
	return roomModel.Room{
		ID:          "c0a80121-7ac0-4e1c-8a44-89c9cbbf4a11",
		OrgID:       "org-1",
		Name:        "Boardroom",
		AccessLevel: string(engine.AccessLevelPublic),
		Active:      true,
	}
}

func mondaySchedule() []roomModel.Availability {
	return []roomModel.Availability{
		{ID: "av-1", DayOfWeek: 1, StartTime: "08:00", EndTime: "18:00", Available: true},
	}
}

func (f *fixture) expectEvaluation(room roomModel.Room, schedule []roomModel.Availability, blocking []model.Booking) {
	f.roomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(room, nil)
	f.availRepo.EXPECT().
		GetAllForRoom(gomock.Any(), room.ID).
		Return(schedule, nil)
	f.allowedRepo.EXPECT().
		GetAllForRoom(gomock.Any(), room.ID).
		Return(nil, nil)
	f.repo.EXPECT().
		FindBlocking(gomock.Any(), room.ID, gomock.Any(), gomock.Any()).
		Return(blocking, nil)
}

func requesterCtx(role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return context.WithValue(ctx, constant.ContextKeyOrgID, "org-1")
}

// assertStatusGuard checks that a transition update filters on the status the
// service read, under an arg name that cannot collide with the SET clause.
func assertStatusGuard(t *testing.T, filter gDto.FilterGroup, status string) {
	t.Helper()

	for _, raw := range filter.Filters {
		f, ok := raw.(gDto.Filter)
		if !ok || f.Field != model.FieldStatus {
			continue
		}

		assert.Equal(t, "guard_status", f.ArgName)
		assert.Equal(t, status, f.Value)

		return
	}

	t.Error("expected a status guard in the update filter")
}

func TestBookingService_Create(t *testing.T) {
	room := openRoom()

	req := dto.CreateBookingRequest{
		RoomID:    room.ID,
		StartTime: "2026-03-02T09:00:00Z",
		EndTime:   "2026-03-02T10:00:00Z",
		Purpose:   "weekly sync",
		Attendees: 4,
	}

	t.Run("successful creation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(requesterCtx(constant.RoleUser), req)

		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, string(engine.StatusPending), res.Status)
		assert.Equal(t, "user-1", res.UserID)
	})

	t.Run("overlapping booking denies with conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		blocking := []model.Booking{
			{
				ID:        "existing-1",
				RoomID:    room.ID,
				StartTime: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
				Status:    string(engine.StatusApproved),
			},
		}

		f := newFixture(ctrl)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), blocking)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))

		var fail *failure.Failure
		require.ErrorAs(t, err, &fail)
		assert.Equal(t, []string{"existing-1"}, fail.ConflictingBookingIDs)
	})

	t.Run("touching bookings do not conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// Ends exactly when the request starts; half-open intervals
		// make back-to-back bookings legal.
		blocking := []model.Booking{
			{
				ID:        "existing-1",
				RoomID:    room.ID,
				StartTime: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				Status:    string(engine.StatusApproved),
			},
		}

		f := newFixture(ctrl)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), blocking)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), req)

		assert.NoError(t, err)
	})

	t.Run("private room denies other organizations", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		private := openRoom()
		private.OrgID = "org-2"
		private.AccessLevel = string(engine.AccessLevelPrivate)

		f := newFixture(ctrl)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(private, mondaySchedule(), nil)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, failure.KindAccessDenied, failure.GetKind(err))
	})

	t.Run("request outside availability window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		late := req
		late.StartTime = "2026-03-02T19:00:00Z"
		late.EndTime = "2026-03-02T20:00:00Z"

		f := newFixture(ctrl)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), nil)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), late)

		require.Error(t, err)
		assert.Equal(t, failure.KindUnavailable, failure.GetKind(err))
	})

	t.Run("room without schedule denies by default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, nil, nil)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, failure.KindUnavailable, failure.GetKind(err))
	})

	t.Run("end before start is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		backwards := req
		backwards.StartTime = "2026-03-02T10:00:00Z"
		backwards.EndTime = "2026-03-02T09:00:00Z"

		f := newFixture(ctrl)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), backwards)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidationError, failure.GetKind(err))
	})

	t.Run("start in the past is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		past := req
		past.StartTime = "2026-02-28T09:00:00Z"
		past.EndTime = "2026-02-28T10:00:00Z"

		f := newFixture(ctrl)

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), past)

		require.Error(t, err)
		assert.Equal(t, failure.KindValidationError, failure.GetKind(err))
	})

	t.Run("lock timeout is retryable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.locks.EXPECT().
			Acquire(gomock.Any(), gomock.Any()).
			Return(nil, failure.LockTimeout("lock:room:"+room.ID))

		_, err := f.svc.Create(requesterCtx(constant.RoleUser), req)

		require.Error(t, err)
		assert.Equal(t, failure.KindLockTimeout, failure.GetKind(err))
		assert.True(t, failure.IsRetryable(err))
	})
}

func TestBookingService_Check(t *testing.T) {
	room := openRoom()

	req := dto.CheckBookingRequest{
		RoomID:    room.ID,
		StartTime: "2026-03-02T09:00:00Z",
		EndTime:   "2026-03-02T10:00:00Z",
	}

	t.Run("allowed request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.expectEvaluation(room, mondaySchedule(), nil)

		res, err := f.svc.Check(requesterCtx(constant.RoleUser), req)

		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("denial is a response, not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		blocking := []model.Booking{
			{
				ID:        "existing-1",
				RoomID:    room.ID,
				StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
				Status:    string(engine.StatusPending),
			},
		}

		f := newFixture(ctrl)
		f.expectEvaluation(room, mondaySchedule(), blocking)

		res, err := f.svc.Check(requesterCtx(constant.RoleUser), req)

		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, string(engine.ReasonConflict), res.Reason)
		assert.Equal(t, []string{"existing-1"}, res.ConflictingBookingIDs)
	})
}

func pendingBooking(room roomModel.Room) model.Booking {
	return model.Booking{
		ID:        "b1a80121-7ac0-4e1c-8a44-89c9cbbf4a22",
		RoomID:    room.ID,
		UserID:    "user-1",
		OrgID:     "org-1",
		StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Purpose:   "weekly sync",
		Status:    string(engine.StatusPending),
	}
}

func TestBookingService_Approve(t *testing.T) {
	room := openRoom()

	t.Run("successful approval re-validates and commits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		// Once to authorize the approver, once inside the re-check.
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)

		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), nil)

		f.repo.EXPECT().
			UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updated map[string]any, filter gDto.FilterGroup) (int64, error) {
				assert.Equal(t, string(engine.StatusApproved), updated[model.FieldStatus])
				assert.Equal(t, "admin-1", updated["approver_id"])
				assertStatusGuard(t, filter, string(engine.StatusPending))

				return 1, nil
			})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
		ctx = context.WithValue(ctx, constant.ContextKeyOrgID, "org-1")

		assert.NoError(t, f.svc.Approve(ctx, booking.ID))
	})

	t.Run("conflict that appeared while pending blocks approval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		rival := model.Booking{
			ID:        "rival-1",
			RoomID:    room.ID,
			StartTime: booking.StartTime,
			EndTime:   booking.EndTime,
			Status:    string(engine.StatusApproved),
		}

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), []model.Booking{rival})

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
		ctx = context.WithValue(ctx, constant.ContextKeyOrgID, "org-1")

		err := f.svc.Approve(ctx, booking.ID)

		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})

	t.Run("approving an approved booking is an invalid transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		booking.Status = string(engine.StatusApproved)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleAdmin)

		err := f.svc.Approve(ctx, booking.ID)

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidStateTransition, failure.GetKind(err))
	})

	t.Run("regular users may not approve", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.Approve(requesterCtx(constant.RoleUser), booking.ID)

		assert.Error(t, err)
	})

	t.Run("approval raced by a cancel is a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), nil)

		// The status guard matched nothing: the row changed after the read.
		f.repo.EXPECT().
			UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
		ctx = context.WithValue(ctx, constant.ContextKeyOrgID, "org-1")

		err := f.svc.Approve(ctx, booking.ID)

		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})
}

func TestBookingService_Extend(t *testing.T) {
	room := openRoom()

	t.Run("successful extension", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		booking.Status = string(engine.StatusApproved)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), nil)

		f.repo.EXPECT().
			UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updated map[string]any, _ gDto.FilterGroup) (int64, error) {
				assert.Contains(t, updated, model.FieldEndTime)

				return 1, nil
			})

		err := f.svc.Extend(requesterCtx(constant.RoleUser), booking.ID, dto.ExtendBookingRequest{
			NewEndTime: "2026-03-02T11:00:00Z",
		})

		assert.NoError(t, err)
	})

	t.Run("conflicting extension keeps the original interval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		booking.Status = string(engine.StatusApproved)

		rival := model.Booking{
			ID:        "rival-1",
			RoomID:    room.ID,
			StartTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			Status:    string(engine.StatusApproved),
		}

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.expectLockAcquired(ctrl)
		f.expectEvaluation(room, mondaySchedule(), []model.Booking{rival})

		err := f.svc.Extend(requesterCtx(constant.RoleUser), booking.ID, dto.ExtendBookingRequest{
			NewEndTime: "2026-03-02T11:00:00Z",
		})

		require.Error(t, err)
		assert.Equal(t, failure.KindExtensionConflict, failure.GetKind(err))

		var fail *failure.Failure
		require.ErrorAs(t, err, &fail)
		assert.Equal(t, []string{"rival-1"}, fail.ConflictingBookingIDs)
	})

	t.Run("new end must be after the current end", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		booking.Status = string(engine.StatusApproved)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.Extend(requesterCtx(constant.RoleUser), booking.ID, dto.ExtendBookingRequest{
			NewEndTime: "2026-03-02T09:30:00Z",
		})

		require.Error(t, err)
		assert.Equal(t, failure.KindValidationError, failure.GetKind(err))
	})

	t.Run("pending bookings cannot be extended", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.Extend(requesterCtx(constant.RoleUser), booking.ID, dto.ExtendBookingRequest{
			NewEndTime: "2026-03-02T11:00:00Z",
		})

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidStateTransition, failure.GetKind(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	room := openRoom()

	t.Run("owner cancels a pending booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		f.repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

		assert.NoError(t, f.svc.Cancel(requesterCtx(constant.RoleUser), booking.ID, dto.CancelBookingRequest{}))
	})

	t.Run("strangers may not cancel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		booking.UserID = "someone-else"

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.Cancel(requesterCtx(constant.RoleUser), booking.ID, dto.CancelBookingRequest{})

		assert.Error(t, err)
	})

	t.Run("completed bookings cannot be cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		booking := pendingBooking(room)
		booking.Status = string(engine.StatusCompleted)

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := f.svc.Cancel(requesterCtx(constant.RoleUser), booking.ID, dto.CancelBookingRequest{})

		require.Error(t, err)
		assert.Equal(t, failure.KindInvalidStateTransition, failure.GetKind(err))
	})
}

func TestBookingService_CompletionSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	room := openRoom()

	first := pendingBooking(room)
	first.ID = "expired-1"
	first.Status = string(engine.StatusApproved)

	second := pendingBooking(room)
	second.ID = "expired-2"
	second.Status = string(engine.StatusApproved)

	// Should never come back from FindExpired, but the state machine
	// guard has to hold even if it does.
	stray := pendingBooking(room)
	stray.ID = "stray-1"
	stray.Status = string(engine.StatusCancelled)

	f := newFixture(ctrl)
	f.expectLockAcquired(ctrl)
	f.expectLockAcquired(ctrl)
	f.repo.EXPECT().
		FindExpired(gomock.Any(), fixedNow).
		Return([]model.Booking{first, second, stray}, nil)
	f.repo.EXPECT().
		UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, filter gDto.FilterGroup) (int64, error) {
			assert.Equal(t, string(engine.StatusCompleted), updated[model.FieldStatus])
			assertStatusGuard(t, filter, string(engine.StatusApproved))

			return 1, nil
		}).
		Times(2)

	count, err := f.svc.CompletionSweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

// A booking cancelled between the expiry scan and the guarded update matches
// zero rows and must not be counted or announced as completed.
func TestBookingService_CompletionSweep_RacedCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	room := openRoom()

	expired := pendingBooking(room)
	expired.ID = "expired-1"
	expired.Status = string(engine.StatusApproved)

	f := newFixture(ctrl)
	f.expectLockAcquired(ctrl)
	f.repo.EXPECT().
		FindExpired(gomock.Any(), fixedNow).
		Return([]model.Booking{expired}, nil)
	f.repo.EXPECT().
		UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)

	count, err := f.svc.CompletionSweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

// TestBookingService_ConcurrentCreate drives two identical requests through
// the service with a real in-memory lock and a stateful repository. Exactly
// one must win; the loser must see the winner as a conflict.
func TestBookingService_ConcurrentCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	room := openRoom()

	repo := bookingMocks.NewMockBooking(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)
	availRepo := roomMocks.NewMockAvailability(ctrl)
	allowedRepo := roomMocks.NewMockAllowedOrg(ctrl)
	auditRepo := auditMocks.NewMockAudit(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockClock := clockMocks.NewMockClock(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topic.BookingEvents = "test.booking-events"

	mockClock.EXPECT().Now().Return(fixedNow).AnyTimes()
	auditRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(room, nil).AnyTimes()
	availRepo.EXPECT().GetAllForRoom(gomock.Any(), room.ID).Return(mondaySchedule(), nil).AnyTimes()
	allowedRepo.EXPECT().GetAllForRoom(gomock.Any(), room.ID).Return(nil, nil).AnyTimes()

	var (
		mu     sync.Mutex
		stored []model.Booking
	)

	repo.EXPECT().
		FindBlocking(gomock.Any(), room.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, engine.Interval, string) ([]model.Booking, error) {
			mu.Lock()
			defer mu.Unlock()

			return append([]model.Booking(nil), stored...), nil
		}).
		AnyTimes()

	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking) error {
			mu.Lock()
			defer mu.Unlock()

			stored = append(stored, booking)

			return nil
		}).
		AnyTimes()

	svc := service.New(
		repo,
		roomRepo,
		availRepo,
		allowedRepo,
		auditService.New(auditRepo, mockOtel),
		cfg,
		mockCache,
		mockKafka,
		lock.NewMemory(time.Second),
		mockClock,
		mockOtel,
	)

	req := dto.CreateBookingRequest{
		RoomID:    room.ID,
		StartTime: "2026-03-02T09:00:00Z",
		EndTime:   "2026-03-02T10:00:00Z",
		Purpose:   "weekly sync",
	}

	results := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(requesterCtx(constant.RoleUser), req)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++

			continue
		}

		if failure.GetKind(err) == failure.KindConflict {
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, stored, 1)
}
