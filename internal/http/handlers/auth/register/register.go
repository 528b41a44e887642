// Package register реализует HTTP-обработчик регистрации новых пользователей.
//
// Перед регистрацией проверяется лицензия системы: при недействительной
// лицензии запрос отклоняется. Валидные данные передаются в сервис
// аутентификации, который создает учетную запись с ролью "user".
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Request — структура входных данных для регистрации.
//
// Email должен быть корректным адресом, пароль — минимум 6 символов.
type Request struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required,min=1,max=255"`
	Company  *string `json:"company"`
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики регистрации
	gate     LicenseGate         // Проверка лицензии перед регистрацией
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, email, rawPassword, fullName string, company *string) (*models.User, error)
}

// LicenseGate решает, допустима ли регистрация при текущем состоянии лицензии.
type LicenseGate interface {
	CheckAccess(ctx context.Context) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, gate LicenseGate) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		gate:     gate,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает новую учетную запись с ролью user. Требует действительной лицензии системы.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Лицензия недействительна"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.gate.CheckAccess(r.Context()); err != nil {
		if errors.Is(err, models.ErrLicenseInvalid) {
			log.Error("license check rejected registration", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("license check failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.FullName, req.Company)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			log.Error("email already registered", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(models.ErrEmailTaken.Error()))
			return
		}
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	log.Info("user registered", slog.String("email", user.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user.Public(),
	}))
}
