// Package adminregister реализует HTTP-обработчик создания административных
// учетных записей. Доступен только действующим администраторам.
package adminregister

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

// Request — структура входных данных для создания администратора.
type Request struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required,min=1,max=255"`
	Company  *string `json:"company"`
}

// Handler обрабатывает запросы на создание администраторов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания администратора.
type Service interface {
	RegisterAdmin(ctx context.Context, email, rawPassword, fullName string, company *string) (*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание администратора
// @Description Создает учетную запись с ролью admin. Доступно только администраторам.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового администратора"
// @Success 200 {object} map[string]any "Администратор создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /auth/admin/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.adminregister"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	user, err := h.service.RegisterAdmin(r.Context(), req.Email, req.Password, req.FullName, req.Company)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			log.Error("email already registered", slog.String("email", req.Email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(models.ErrEmailTaken.Error()))
			return
		}
		log.Error("failed to register admin", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register admin"))
		return
	}

	log.Info("admin registered", slog.String("email", user.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user.Public(),
	}))
}
