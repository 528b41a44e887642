package login

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	args := m.Called(ctx, email, rawPassword)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

// MockGate реализует интерфейс login.LicenseGate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) CheckAccess(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := Request{Email: "ivanov@example.com", Password: "secret123"}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupGate      func(*MockGate)
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная авторизация",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivanov@example.com", "secret123").
					Return("jwt-token", &models.User{ID: 7, Email: "ivanov@example.com", Role: "user", IsActive: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name:        "лицензия недействительна",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).
					Return(fmt.Errorf("%w: license expired", models.ErrLicenseInvalid))
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `license expired`,
		},
		{
			name:        "сбой хранилища при проверке лицензии",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).
					Return(fmt.Errorf("storage.GetSystemConfigValue: connection refused"))
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal error`,
		},
		{
			name:        "некорректный JSON",
			requestBody: "not a json",
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:        "ошибка валидации",
			requestBody: Request{Email: "not-an-email", Password: "123"},
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "неверные учетные данные",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivanov@example.com", "secret123").
					Return("", nil, models.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"incorrect email or password"}`,
		},
		{
			name:        "учетная запись деактивирована",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ivanov@example.com", "secret123").
					Return("", nil, models.ErrInactiveUser)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"inactive user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockGate := new(MockGate)
			tt.setupMock(mockService)
			tt.setupGate(mockGate)

			handler := New(logger, mockService, mockGate)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
			mockGate.AssertExpectations(t)
		})
	}
}
