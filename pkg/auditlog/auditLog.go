package auditlog

import (
	"context"

	"leltar/pkg/models"

	"go.uber.org/zap"
)

type Repository interface {
	PersistLog(ctx context.Context, auditlog models.AuditLog, auditLogData interface{}) error
}

type Auditlog struct {
	r      Repository
	logger *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records action against item. Failures are logged and swallowed: the
// audit trail never blocks the operation it describes.
func (a *Auditlog) Log(ctx context.Context, action, user string, data interface{}, item Auditable) {
	if a == nil {
		return
	}
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.User = user

	err := a.r.PersistLog(ctx, auditLog, data)

	if err != nil {
		a.logger.Warn("Unable to create AuditLog entry",
			zap.String("resource_type", auditLog.ResourceType),
			zap.Int64("resource_id", auditLog.ResourceID),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("Created AuditLog entry",
		zap.String("resource_type", auditLog.ResourceType),
		zap.Int64("resource_id", auditLog.ResourceID),
		zap.String("action", action),
	)
}

func NewAuditLog(repository Repository, logger *zap.Logger) *Auditlog {
	a := Auditlog{r: repository, logger: logger}

	return &a
}
