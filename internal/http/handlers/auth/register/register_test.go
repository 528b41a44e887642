package register

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

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, rawPassword, fullName string, company *string) (*models.User, error) {
	args := m.Called(ctx, email, rawPassword, fullName, company)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// MockGate реализует интерфейс register.LicenseGate
type MockGate struct {
	mock.Mock
}

func (m *MockGate) CheckAccess(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := Request{Email: "ivanov@example.com", Password: "secret123", FullName: "Иванов Иван"}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupGate      func(*MockGate)
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная регистрация",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "ivanov@example.com", "secret123", "Иванов Иван", (*string)(nil)).
					Return(&models.User{
						ID:       1,
						Email:    "ivanov@example.com",
						FullName: "Иванов Иван",
						Role:     models.RoleUser,
						IsActive: true,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"ivanov@example.com"`,
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
			expectedBody:   `invalid request body`,
		},
		{
			name:        "ошибка валидации",
			requestBody: Request{Email: "not-an-email", Password: "123", FullName: ""},
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "email уже зарегистрирован",
			requestBody: validBody,
			setupGate: func(g *MockGate) {
				g.On("CheckAccess", mock.Anything).Return(nil)
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "ivanov@example.com", "secret123", "Иванов Иван", (*string)(nil)).
					Return(nil, models.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `email already registered`,
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

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
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
