package models

import (
	"time"

	"gorm.io/gorm"
)

// UserAction is the audit envelope embedded in every mutable business entity.
// CreatedBy/UpdatedBy carry the acting username; mutating operations receive
// the actor explicitly rather than reading it from request-scoped state.
type UserAction struct {
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	CreatedBy string         `gorm:"column:created_by" json:"created_by"`
	UpdatedBy string         `gorm:"column:updated_by" json:"updated_by"`
}

// Touch stamps the actor on a new or existing record.
func (ua *UserAction) Touch(actor string, isNew bool) {
	if isNew {
		ua.CreatedBy = actor
	}
	ua.UpdatedBy = actor
}
