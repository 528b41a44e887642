// Package create реализует HTTP-обработчик для создания новых тендеров.
//
// Handler принимает JSON-запрос с данными тендера, валидирует их, извлекает
// инициатора из контекста, вызывает бизнес-логику создания тендера через сервис
// и возвращает созданный тендер в JSON-формате. Новый тендер всегда начинает
// жизненный цикл в статусе черновика.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

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

// Handler управляет HTTP-запросами на создание новых тендеров.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания тендеров
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания тендера.
type Service interface {
	Create(ctx context.Context, actor models.Actor, req models.CreateTenderRequest) (*models.Tender, error)
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
// @Summary Создать новый тендер
// @Description Создает тендер в статусе draft. Доступно только администраторам.
// @Tags Tenders
// @Accept  json
// @Produce  json
// @Param request body models.CreateTenderRequest true "Данные нового тендера"
// @Success 200 {object} map[string]any "Созданный тендер"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании тендера"
// @Security BearerAuth
// @Router /tenders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateTenderRequest
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

	tender, err := h.service.Create(r.Context(), *actor, req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDeadline) {
			log.Error("invalid deadline", slog.String("deadline", req.Deadline))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(models.ErrInvalidDeadline.Error()))
			return
		}
		log.Error("failed to create tender", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create tender"))
		return
	}

	log.Info("tender created", slog.Int64("id", tender.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tender": tender,
	}))
}
