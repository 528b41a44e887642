// Package publish реализует HTTP-обработчик публикации тендера:
// перевод в статус bidding с открытием приёма предложений.
package publish

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Handler обрабатывает запросы на публикацию тендера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики публикации тендера.
type Service interface {
	Publish(ctx context.Context, id int64) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Опубликовать тендер
// @Description Переводит тендер в статус bidding и открывает приём предложений.
// @Tags Tenders
// @Produce  json
// @Param id path int true "ID тендера"
// @Success 200 {object} map[string]any "Тендер опубликован"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Тендер не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /tenders/{id}/publish [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.publish"

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

	if err := h.service.Publish(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrTenderNotFound.Error()))
			return
		}
		log.Error("failed to publish tender", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not publish tender"))
		return
	}

	log.Info("tender published", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"status": models.TenderBidding,
	}))
}
