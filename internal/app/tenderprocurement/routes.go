// Package tenderprocurement предоставляет маршруты для основного приложения.
package tenderprocurement

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/tender-procurement/internal/http/handlers/auth/adminregister"
	"github.com/magabrotheeeer/tender-procurement/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/tender-procurement/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/tender-procurement/internal/http/handlers/auth/register"
	bidlistbytender "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/bid/listbytender"
	bidlistmy "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/bid/listmy"
	bidsubmit "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/bid/submit"
	bidupdatestatus "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/bid/updatestatus"
	"github.com/magabrotheeeer/tender-procurement/internal/http/handlers/health"
	licenseconfigure "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/license/configure"
	licensestatus "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/license/status"
	tendercreate "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/tender/create"
	tenderlist "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/tender/list"
	tenderpublish "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/tender/publish"
	tenderread "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/tender/read"
	tenderremove "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/tender/remove"
	tenderupdate "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/tender/update"
	userlist "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/user/list"
	userupdate "github.com/magabrotheeeer/tender-procurement/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/tender-procurement/internal/http/middlewarectx"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
	authservice "github.com/magabrotheeeer/tender-procurement/internal/services/auth"
	bidservice "github.com/magabrotheeeer/tender-procurement/internal/services/bid"
	licenseservice "github.com/magabrotheeeer/tender-procurement/internal/services/license"
	tenderservice "github.com/magabrotheeeer/tender-procurement/internal/services/tender"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	tenderService *tenderservice.Service,
	bidService *bidservice.Service,
	licenseService *licenseservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(50, 100)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService, licenseService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService, licenseService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)
			r.Get("/tenders", tenderlist.New(logger, tenderService).ServeHTTP)
			r.Get("/tenders/{id}", tenderread.New(logger, tenderService).ServeHTTP)
			r.Post("/bids", bidsubmit.New(logger, bidService).ServeHTTP)
			r.Get("/bids/my", bidlistmy.New(logger, bidService).ServeHTTP)

			// Административные конечные точки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))

				r.Post("/auth/admin/register", adminregister.New(logger, authService).ServeHTTP)
				r.Post("/tenders", tendercreate.New(logger, tenderService).ServeHTTP)
				r.Patch("/tenders/{id}", tenderupdate.New(logger, tenderService).ServeHTTP)
				r.Post("/tenders/{id}/publish", tenderpublish.New(logger, tenderService).ServeHTTP)
				r.Delete("/tenders/{id}", tenderremove.New(logger, tenderService).ServeHTTP)
				r.Get("/bids/tender/{id}", bidlistbytender.New(logger, bidService).ServeHTTP)
				r.Patch("/bids/{id}/status", bidupdatestatus.New(logger, bidService).ServeHTTP)
				r.Get("/users", userlist.New(logger, authService).ServeHTTP)
				r.Patch("/users/{id}", userupdate.New(logger, authService).ServeHTTP)
				r.Get("/license/status", licensestatus.New(logger, licenseService).ServeHTTP)
				r.Post("/license/configure", licenseconfigure.New(logger, licenseService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
