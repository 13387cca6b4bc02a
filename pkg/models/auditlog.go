package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID           int64                  `json:"id" db:"id"`
	ResourceID   int64                  `json:"resource_id" db:"resource_id"`
	ResourceType string                 `json:"resource_type" db:"resource_type"`
	Action       string                 `json:"action" db:"action"` // upload, purge, transfer, undo
	DataRaw      string                 `json:"-" db:"data"`        // JSON as string
	Data         map[string]interface{} `json:"data" db:"-"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
	User         string                 `json:"user,omitempty" db:"user_name"`
}

func (a *AuditLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
