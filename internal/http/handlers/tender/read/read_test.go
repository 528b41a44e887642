package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/tender-procurement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, actor models.Actor, id int64) (*models.Tender, error) {
	args := m.Called(ctx, actor, id)
	tender, _ := args.Get(0).(*models.Tender)
	return tender, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tender := &models.Tender{
		ID:       10,
		Title:    "Поставка серверов",
		Status:   models.TenderBidding,
		Budget:   100000,
		Deadline: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		urlID          string
		withActor      bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное чтение тендера",
			urlID:     "10",
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, mock.AnythingOfType("models.Actor"), int64(10)).
					Return(tender, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Поставка серверов"`,
		},
		{
			name:           "некорректный id в url",
			urlID:          "abc",
			withActor:      true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode id from url"}`,
		},
		{
			name:      "тендер не найден",
			urlID:     "99",
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, mock.Anything, int64(99)).
					Return(nil, models.ErrTenderNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"tender not found"}`,
		},
		{
			name:      "черновик недоступен постороннему",
			urlID:     "10",
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, mock.Anything, int64(10)).
					Return(nil, models.ErrAccessDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"access denied"}`,
		},
		{
			name:           "отсутствует авторизация",
			urlID:          "10",
			withActor:      false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:      "ошибка сервиса",
			urlID:     "10",
			withActor: true,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, mock.Anything, int64(10)).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read tender"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/tenders/"+tt.urlID, nil)

			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			if tt.withActor {
				ctx = context.WithValue(ctx, middlewarectx.UserID, int64(42))
				ctx = context.WithValue(ctx, middlewarectx.Role, "user")
			}
			req = req.WithContext(ctx)

			// Устанавливаем URL параметр id для chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
