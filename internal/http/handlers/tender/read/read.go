// Package read реализует HTTP-обработчик для получения конкретного тендера по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения тендера
// и возвращает его карточку в JSON-формате. Черновики видны только создателю
// и администраторам.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tender-procurement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Handler обрабатывает запросы на получение тендера по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения тендера по ID
}

// Service описывает интерфейс бизнес-логики чтения тендера.
type Service interface {
	Get(ctx context.Context, actor models.Actor, id int64) (*models.Tender, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тендер по ID
// @Description Возвращает карточку тендера с актуальным числом предложений.
// @Tags Tenders
// @Produce  json
// @Param id path int true "ID тендера"
// @Success 200 {object} map[string]any "Карточка тендера"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Черновик недоступен"
// @Failure 404 {object} response.ErrorResponse "Тендер не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /tenders/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	tender, err := h.service.Get(r.Context(), *actor, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTenderNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrTenderNotFound.Error()))
		case errors.Is(err, models.ErrAccessDenied):
			log.Error("draft access denied", slog.Int64("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(models.ErrAccessDenied.Error()))
		default:
			log.Error("failed to read tender", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read tender"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tender": tender,
	}))
}
