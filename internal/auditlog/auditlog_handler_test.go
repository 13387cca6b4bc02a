package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"leltar/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLogReader struct {
	mock.Mock
}

func (m *MockLogReader) GetResourceLog(ctx context.Context, id int64, resourceType string) ([]models.AuditLog, error) {
	args := m.Called(id, resourceType)
	logs, _ := args.Get(0).([]models.AuditLog)
	return logs, args.Error(1)
}

func newRouter(reader LogReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHistoryHandler(reader, zap.NewNop()).RegisterRoutes(router)
	return router
}

func TestGetMonthHistory(t *testing.T) {
	reader := new(MockLogReader)
	reader.On("GetResourceLog", int64(202405), "stock_month").
		Return([]models.AuditLog{{ID: 1, ResourceID: 202405, ResourceType: "stock_month", Action: "upload", User: "admin"}}, nil)

	w := httptest.NewRecorder()
	newRouter(reader).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/months/2024-05", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "upload", logs[0].Action)
	reader.AssertExpectations(t)
}

func TestGetTransferHistory(t *testing.T) {
	reader := new(MockLogReader)
	reader.On("GetResourceLog", int64(12), "transfer").Return(nil, errors.New("db down"))

	router := newRouter(reader)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/transfers/12", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history/transfers/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reader.AssertExpectations(t)
}
