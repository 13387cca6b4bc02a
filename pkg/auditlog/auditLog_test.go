package auditlog

import (
	"context"
	"errors"
	"testing"

	"leltar/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) PersistLog(ctx context.Context, auditlog models.AuditLog, data interface{}) error {
	args := m.Called(auditlog, data)
	return args.Error(0)
}

func TestLogPersistsView(t *testing.T) {
	repo := new(MockAuditRepository)
	a := NewAuditLog(repo, zap.NewNop())
	transfer := &models.Transfer{ID: 12}
	data := map[string]interface{}{"qty": "10"}

	repo.On("PersistLog", models.AuditLog{
		ResourceID:   12,
		ResourceType: "transfer",
		Action:       "undo",
		User:         "admin",
	}, data).Return(nil).Once()

	a.Log(context.Background(), "undo", "admin", data, transfer)

	repo.AssertExpectations(t)
}

func TestLogSwallowsErrors(t *testing.T) {
	repo := new(MockAuditRepository)
	a := NewAuditLog(repo, zap.NewNop())
	repo.On("PersistLog", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		a.Log(context.Background(), "purge", "admin", nil, &models.Transfer{ID: 1})
	})
	repo.AssertExpectations(t)
}

func TestNilAuditlogIsNoop(t *testing.T) {
	var a *Auditlog
	assert.NotPanics(t, func() {
		a.Log(context.Background(), "upload", "admin", nil, &models.Transfer{})
	})
}
