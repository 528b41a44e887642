// Package listmy реализует HTTP-обработчик списка предложений текущего участника.
// Предложения возвращаются от новых к старым.
package listmy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tender-procurement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Handler обрабатывает запросы на получение предложений текущего участника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки предложений участника.
type Service interface {
	ListMine(ctx context.Context, actor models.Actor) ([]*models.Bid, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мои предложения
// @Description Возвращает предложения текущего участника от новых к старым.
// @Tags Bids
// @Produce  json
// @Success 200 {object} map[string]any "Список предложений"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /bids/my [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bid.listmy"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bids, err := h.service.ListMine(r.Context(), *actor)
	if err != nil {
		log.Error("failed to list bids", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bids"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bids": bids,
	}))
}
