// Package list реализует HTTP-обработчик для получения списка тендеров.
//
// Handler разбирает параметры фильтрации из строки запроса и возвращает
// страницу тендеров. Черновики включаются в выборку только по явному
// запросу администратора.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tender-procurement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tender-procurement/internal/http/response"
	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Handler обрабатывает запросы на получение списка тендеров.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для выборки тендеров
}

// Service описывает интерфейс бизнес-логики выборки тендеров.
type Service interface {
	List(ctx context.Context, actor models.Actor, filter models.TenderFilter) ([]*models.Tender, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список тендеров
// @Description Возвращает страницу тендеров с фильтрацией по статусу и категории.
// @Tags Tenders
// @Produce  json
// @Param status query string false "Фильтр по статусу"
// @Param category query string false "Фильтр по категории"
// @Param include_drafts query bool false "Включить черновики (только администраторы)"
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список тендеров"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /tenders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.tender.list"

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

	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	includeDrafts, _ := strconv.ParseBool(query.Get("include_drafts"))

	filter := models.TenderFilter{
		Status:        query.Get("status"),
		Category:      query.Get("category"),
		IncludeDrafts: includeDrafts,
		Limit:         limit,
		Offset:        offset,
	}

	tenders, err := h.service.List(r.Context(), *actor, filter)
	if err != nil {
		log.Error("failed to list tenders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tenders"))
		return
	}

	log.Info("success to list tenders", slog.Int("count", len(tenders)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tenders": tenders,
	}))
}
