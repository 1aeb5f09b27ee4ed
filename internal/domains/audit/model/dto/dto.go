package dto

import (
	"atrium/internal/domains/audit/model"
	"atrium/shared"
	"atrium/shared/constant"
	"atrium/shared/timezone"
)

type EntryResponse struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	ActorRole string `json:"actor_role"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entity_id"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

func (r *EntryResponse) FromModel(model model.Entry) {
	r.ID = model.ID
	r.ActorID = model.ActorID
	r.ActorRole = model.ActorRole
	r.Action = model.Action
	r.Entity = model.Entity
	r.EntityID = model.EntityID
	r.Detail = model.Detail
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEntriesResponse) FromModels(models []model.Entry, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Entries = make([]EntryResponse, len(models))
	for i, mod := range models {
		r.Entries[i].FromModel(mod)
	}
}
