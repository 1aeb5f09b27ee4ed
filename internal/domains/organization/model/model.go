package model

import "atrium/shared/model"

const (
	TableName  = "organizations"
	EntityName = "organization"

	FieldID   = "id"
	FieldName = "name"
	FieldCode = "code"
)

type Organization struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	Code string `db:"code"`
	model.Metadata
}
