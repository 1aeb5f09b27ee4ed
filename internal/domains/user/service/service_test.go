package service_test

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"atrium/config"
	kafkaMocks "atrium/infras/kafka/mocks"
	"atrium/infras/otel/mocks"
	auditMocks "atrium/internal/domains/audit/mocks"
	auditService "atrium/internal/domains/audit/service"
	userMocks "atrium/internal/domains/user/mocks"
	"atrium/internal/domains/user/model"
	"atrium/internal/domains/user/model/dto"
	"atrium/internal/domains/user/service"
	cacheMocks "atrium/shared/cache/mocks"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/shared/failure"
	"atrium/shared/password"
)

type fixture struct {
	repo *userMocks.MockUser
	svc  service.User
}

func newFixture(ctrl *gomock.Controller) *fixture {
	f := &fixture{
		repo: userMocks.NewMockUser(ctrl),
	}

	auditRepo := auditMocks.NewMockAudit(ctrl)
	auditRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	mockKafka := kafkaMocks.NewMockClient(ctrl)
	mockKafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topic.UserEvents = "test.user-events"

	mockOtel := mocks.NewOtel()

	f.svc = service.New(
		f.repo,
		auditService.New(auditRepo, mockOtel),
		cfg,
		mockCache,
		mockKafka,
		mockOtel,
	)

	return f
}

func adminCtx(orgID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

	return context.WithValue(ctx, constant.ContextKeyOrgID, orgID)
}

func pendingUser() model.User {
	return model.User{
		ID:       "f0a80121-7ac0-4e1c-8a44-89c9cbbf4a55",
		OrgID:    "org-1",
		Email:    "new@example.com",
		FullName: "New User",
		Role:     constant.RoleUser,
		Status:   model.StatusPending,
	}
}

func TestUserService_Register(t *testing.T) {
	req := dto.RegisterUserRequest{
		OrgID:    "a0a80121-7ac0-4e1c-8a44-89c9cbbf4a66",
		Email:    "new@example.com",
		Password: "secret-password",
		FullName: "New User",
	}

	t.Run("registration starts out pending", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user model.User) error {
				assert.Equal(t, model.StatusPending, user.Status)
				assert.Equal(t, constant.RoleUser, user.Role)
				assert.NoError(t, password.Verify(req.Password, user.Password))

				return nil
			})

		assert.NoError(t, f.svc.Register(context.Background(), req))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})

		err := f.svc.Register(context.Background(), req)

		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})

	t.Run("unknown organization is a bad request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newFixture(ctrl)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeFkViolation)})

		assert.Error(t, f.svc.Register(context.Background(), req))
	})
}

func TestUserService_Approve(t *testing.T) {
	t.Run("admin of the same organization approves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		user := pendingUser()

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, updated map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusActive, updated[model.FieldStatus])
				assert.Equal(t, "admin-1", updated["approved_by"])

				return nil
			})

		assert.NoError(t, f.svc.Approve(adminCtx("org-1"), user.ID))
	})

	t.Run("admin of another organization is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		user := pendingUser()

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		assert.Error(t, f.svc.Approve(adminCtx("org-2"), user.ID))
	})

	t.Run("regular users may not approve", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		user := pendingUser()

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleUser)

		assert.Error(t, f.svc.Approve(ctx, user.ID))
	})

	t.Run("decided registration cannot be re-decided", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		user := pendingUser()
		user.Status = model.StatusActive

		f := newFixture(ctrl)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

		err := f.svc.Approve(adminCtx("org-1"), user.ID)

		require.Error(t, err)
		assert.Equal(t, failure.KindConflict, failure.GetKind(err))
	})
}

func TestUserService_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := pendingUser()

	f := newFixture(ctrl)
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, updated map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusRejected, updated[model.FieldStatus])
			assert.Equal(t, "no longer with the company", updated["decision_reason"])

			return nil
		})

	err := f.svc.Reject(adminCtx("org-1"), user.ID, dto.RejectUserRequest{Reason: "no longer with the company"})

	assert.NoError(t, err)
}
