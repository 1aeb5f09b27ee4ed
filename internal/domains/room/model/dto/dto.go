package dto

import (
	"atrium/internal/domains/room/model"
	"atrium/internal/engine"
	"atrium/shared"
	gDto "atrium/shared/dto"
	gModel "atrium/shared/model"
	"atrium/shared/timezone"

	"github.com/google/uuid"
)

type AvailabilityEntry struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time"  validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time"    validate:"required,datetime=15:04"`
	Available *bool  `json:"available,omitempty"`
}

func (a *AvailabilityEntry) ToModel(roomID string) model.Availability {
	available := true
	if a.Available != nil {
		available = *a.Available
	}

	return model.Availability{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		DayOfWeek: a.DayOfWeek,
		StartTime: a.StartTime,
		EndTime:   a.EndTime,
		Available: available,
	}
}

type CreateRoomRequest struct {
	Name          string              `json:"name"                     validate:"required,max=150"`
	Location      string              `json:"location"                 validate:"omitempty,max=250"`
	Capacity      int                 `json:"capacity"                 validate:"required,min=1"`
	AccessLevel   string              `json:"access_level"             validate:"omitempty,oneof=private public org_only"`
	AllowedOrgIDs []string            `json:"allowed_org_ids"          validate:"omitempty,dive,uuid4"`
	Availability  []AvailabilityEntry `json:"availability,omitempty"   validate:"omitempty,dive"`
}

func (c *CreateRoomRequest) ToModel(orgID, user string) model.Room {
	level := c.AccessLevel
	if level == "" {
		level = string(engine.AccessLevelPrivate)
	}

	return model.Room{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Name:        c.Name,
		Location:    c.Location,
		Capacity:    c.Capacity,
		AccessLevel: level,
		Active:      true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name        *string `db:"name"         json:"name,omitempty"         validate:"omitempty,max=150"`
	Location    *string `db:"location"     json:"location,omitempty"     validate:"omitempty,max=250"`
	Capacity    *int    `db:"capacity"     json:"capacity,omitempty"     validate:"omitempty,min=1"`
	AccessLevel *string `db:"access_level" json:"access_level,omitempty" validate:"omitempty,oneof=private public org_only"`
}

type SetAvailabilityRequest struct {
	Entries []AvailabilityEntry `json:"entries" validate:"dive"`
}

type SetAllowedOrgsRequest struct {
	OrgIDs []string `json:"org_ids" validate:"dive,uuid4"`
}

type AvailabilityResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type RoomResponse struct {
	ID            string                 `json:"id"`
	OrgID         string                 `json:"org_id"`
	Name          string                 `json:"name"`
	Location      string                 `json:"location"`
	Capacity      int                    `json:"capacity"`
	AccessLevel   string                 `json:"access_level"`
	Active        bool                   `json:"active"`
	AllowedOrgIDs []string               `json:"allowed_org_ids,omitempty"`
	Availability  []AvailabilityResponse `json:"availability,omitempty"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.OrgID = model.OrgID
	r.Name = model.Name
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.AccessLevel = model.AccessLevel
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

func (r *RoomResponse) WithRelations(entries []model.Availability, allowed []model.AllowedOrg) {
	r.AllowedOrgIDs = model.OrgIDs(allowed)

	r.Availability = make([]AvailabilityResponse, len(entries))
	for i, entry := range entries {
		r.Availability[i] = AvailabilityResponse{
			DayOfWeek: entry.DayOfWeek,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Available: entry.Available,
		}
	}
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
