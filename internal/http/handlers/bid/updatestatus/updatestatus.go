// Package updatestatus реализует HTTP-обработчик решения администратора
// по предложению: принять или отклонить. Принятие предложения присуждает
// тендер и закрывает его жизненный цикл.
package updatestatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Handler обрабатывает запросы на изменение статуса предложения.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики решений по предложениям
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики решения по предложению.
type Service interface {
	UpdateStatus(ctx context.Context, id int64, status models.BidStatus) (*models.Bid, error)
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
// @Summary Решение по предложению
// @Description Принимает или отклоняет предложение. Принятие присуждает тендер.
// @Tags Bids
// @Accept  json
// @Produce  json
// @Param id path int true "ID предложения"
// @Param request body models.UpdateBidStatusRequest true "Решение: accepted или rejected"
// @Success 200 {object} map[string]any "Обновлённое предложение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Предложение не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /bids/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bid.updatestatus"

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

	var req models.UpdateBidStatusRequest
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

	bid, err := h.service.UpdateStatus(r.Context(), id, models.BidStatus(req.Status))
	if err != nil {
		if errors.Is(err, models.ErrBidNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrBidNotFound.Error()))
			return
		}
		log.Error("failed to update bid status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update bid status"))
		return
	}

	log.Info("bid status updated", slog.Int64("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bid": bid,
	}))
}
