// Package status реализует HTTP-обработчик состояния лицензии
// для административной панели.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/services/license"
)

// Handler обрабатывает запросы на получение состояния лицензии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики состояния лицензии.
type Service interface {
	GetStatus(ctx context.Context) (*license.Status, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние лицензии
// @Description Возвращает состояние лицензии системы: настроен ли ключ и результат проверки.
// @Tags License
// @Produce  json
// @Success 200 {object} map[string]any "Состояние лицензии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /license/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.license.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status, err := h.service.GetStatus(r.Context())
	if err != nil {
		log.Error("failed to read license status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read license status"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"configured":            status.Configured,
		"valid":                 status.Result.Valid,
		"message":               status.Result.Message,
		"product_name":          status.Result.ProductName,
		"expires_at":            status.Result.ExpiresAt,
		"activations_remaining": status.Result.ActivationsRemaining,
	}))
}
