// Package submit реализует HTTP-обработчик подачи ценового предложения по тендеру.
//
// Handler валидирует предложение и делегирует проверки допуска бизнес-логике:
// тендер должен существовать и принимать предложения, участник не должен иметь
// по нему другого предложения, сумма не должна превышать бюджет.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tender-procurement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Handler управляет HTTP-запросами на подачу предложений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики подачи предложений
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подачи предложения.
type Service interface {
	Submit(ctx context.Context, actor models.Actor, req models.SubmitBidRequest) (*models.Bid, error)
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
// @Summary Подать предложение
// @Description Подает ценовое предложение по тендеру в фазе приёма предложений.
// @Tags Bids
// @Accept  json
// @Produce  json
// @Param request body models.SubmitBidRequest true "Данные предложения"
// @Success 200 {object} map[string]any "Поданное предложение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Тендер не найден"
// @Failure 409 {object} response.ErrorResponse "Приём закрыт или предложение уже подано"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или превышение бюджета"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /bids [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bid.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubmitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bid, err := h.service.Submit(r.Context(), *actor, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTenderNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrTenderNotFound.Error()))
		case errors.Is(err, models.ErrTenderNotAcceptingBids):
			log.Error("tender is not accepting bids", slog.Int64("tender_id", req.TenderID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(models.ErrTenderNotAcceptingBids.Error()))
		case errors.Is(err, models.ErrDuplicateBid):
			log.Error("duplicate bid", slog.Int64("tender_id", req.TenderID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(models.ErrDuplicateBid.Error()))
		case errors.Is(err, models.ErrBidExceedsBudget):
			log.Error("bid exceeds budget", slog.Int64("tender_id", req.TenderID))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(models.ErrBidExceedsBudget.Error()))
		default:
			log.Error("failed to submit bid", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not submit bid"))
		}
		return
	}

	log.Info("bid submitted", slog.Int64("id", bid.ID), slog.Int64("tender_id", bid.TenderID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bid": bid,
	}))
}
