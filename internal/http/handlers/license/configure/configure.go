// Package configure реализует HTTP-обработчик настройки лицензионного ключа.
//
// Ключ сначала проверяется у лицензионного сервера и сохраняется только
// при успешной проверке. Недействительный ключ возвращается с сообщением
// проверки и не записывается в системные настройки.
package configure

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
	"github.com/magabrotheeeer/tender-procurement/internal/services/license"
)

// Request — структура входных данных для настройки лицензии.
type Request struct {
	LicenseKey string `json:"license_key" validate:"required"`
}

// Handler обрабатывает запросы на настройку лицензионного ключа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики настройки лицензии.
type Service interface {
	Configure(ctx context.Context, licenseKey string) (*license.Status, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Настроить лицензионный ключ
// @Description Проверяет ключ у лицензионного сервера и сохраняет его при успехе.
// @Tags License
// @Accept  json
// @Produce  json
// @Param request body Request true "Лицензионный ключ"
// @Success 200 {object} map[string]any "Ключ проверен и сохранён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ключ не прошёл проверку"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /license/configure [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.license.configure"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
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

	status, err := h.service.Configure(r.Context(), req.LicenseKey)
	if err != nil {
		if errors.Is(err, models.ErrLicenseKeyRequired) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(models.ErrLicenseKeyRequired.Error()))
			return
		}
		log.Error("failed to configure license", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not configure license"))
		return
	}

	if !status.Configured {
		log.Error("license key rejected", slog.String("message", status.Result.Message))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(status.Result.Message))
		return
	}

	log.Info("license key configured")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"configured":   status.Configured,
		"valid":        status.Result.Valid,
		"message":      status.Result.Message,
		"product_name": status.Result.ProductName,
		"expires_at":   status.Result.ExpiresAt,
	}))
}
