// Package listbytender реализует HTTP-обработчик административного списка
// предложений по тендеру. Предложения возвращаются по возрастанию суммы
// вместе с публичными профилями участников.
package listbytender

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

// Handler обрабатывает запросы на получение предложений по тендеру.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки предложений по тендеру.
type Service interface {
	ListByTender(ctx context.Context, tenderID int64) ([]*models.BidWithBidder, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Предложения по тендеру
// @Description Возвращает предложения по тендеру по возрастанию суммы с профилями участников.
// @Tags Bids
// @Produce  json
// @Param id path int true "ID тендера"
// @Success 200 {object} map[string]any "Список предложений"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Тендер не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /bids/tender/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bid.listbytender"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tenderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	bids, err := h.service.ListByTender(r.Context(), tenderID)
	if err != nil {
		if errors.Is(err, models.ErrTenderNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrTenderNotFound.Error()))
			return
		}
		log.Error("failed to list bids", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bids"))
		return
	}

	log.Info("success to list bids", slog.Int("count", len(bids)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bids": bids,
	}))
}
