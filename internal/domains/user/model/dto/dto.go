package dto

import (
	"atrium/internal/domains/user/model"
	"atrium/shared"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	gModel "atrium/shared/model"
	"atrium/shared/timezone"

	"github.com/google/uuid"
)

type RegisterUserRequest struct {
	OrgID    string `json:"org_id"    validate:"required,uuid4"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=150"`
}

// Registrations always start out pending. An org admin promotes or
// rejects them afterwards.
func (r *RegisterUserRequest) ToModel(hashedPassword string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		OrgID:    r.OrgID,
		Email:    r.Email,
		Password: hashedPassword,
		FullName: r.FullName,
		Role:     constant.RoleUser,
		Status:   model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  r.Email,
			ModifiedBy: r.Email,
		},
	}
}

type RejectUserRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type UpdateUserRequest struct {
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=150"`
	Role     *string `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=superadmin admin user"`
}

type UserResponse struct {
	ID             string  `json:"id"`
	OrgID          string  `json:"org_id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	Status         string  `json:"status"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	DecisionReason *string `json:"decision_reason,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.OrgID = model.OrgID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Role = model.Role
	r.Status = model.Status
	r.ApprovedBy = model.ApprovedBy
	r.DecisionReason = model.DecisionReason

	if model.DecidedAt != nil {
		decidedAt := timezone.Format(*model.DecidedAt, constant.DateFormat)
		r.DecidedAt = &decidedAt
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UserEvent struct {
	EventType  string `json:"event_type"`
	UserID     string `json:"user_id"`
	OrgID      string `json:"org_id"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}
