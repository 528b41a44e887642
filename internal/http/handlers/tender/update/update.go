// Package update реализует HTTP-обработчик частичного обновления тендера.
//
// Handler принимает JSON с изменяемыми полями: указанные поля заменяются,
// отсутствующие остаются без изменений. Статус проверяется по перечню
// допустимых значений жизненного цикла.
package update

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

// Handler обрабатывает запросы на частичное обновление тендера.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики обновления тендера
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления тендера.
type Service interface {
	Update(ctx context.Context, id int64, req models.UpdateTenderRequest) (*models.Tender, error)
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
// @Summary Обновить тендер
// @Description Частично обновляет поля тендера. Доступно только администраторам.
// @Tags Tenders
// @Accept  json
// @Produce  json
// @Param id path int true "ID тендера"
// @Param request body models.UpdateTenderRequest true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённый тендер"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ID или дата"
// @Failure 404 {object} response.ErrorResponse "Тендер не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /tenders/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.update"

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

	var req models.UpdateTenderRequest
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

	tender, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTenderNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(models.ErrTenderNotFound.Error()))
		case errors.Is(err, models.ErrInvalidDeadline):
			log.Error("invalid deadline")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(models.ErrInvalidDeadline.Error()))
		default:
			log.Error("failed to update tender", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update tender"))
		}
		return
	}

	log.Info("tender updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tender": tender,
	}))
}
