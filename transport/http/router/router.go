package router

import (
	"net/http"

	"atrium/config"
	"atrium/internal/handlers/audit"
	"atrium/internal/handlers/booking"
	"atrium/internal/handlers/organization"
	"atrium/internal/handlers/room"
	"atrium/internal/handlers/user"
	"atrium/transport/http/middleware"
	"atrium/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type DomainHandlers struct {
	Organization organization.Handler
	User         user.Handler
	Room         room.Handler
	Booking      booking.Handler
	Audit        audit.Handler
}

type Router struct {
	Config         *config.Config
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	Identity       middleware.Identity
}

func New(cfg *config.Config, domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, identity middleware.Identity) Router {
	return Router{
		Config:         cfg,
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		Identity:       identity,
	}
}

func (r *Router) SetupRoutes(router chi.Router) {
	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.AppMiddleware.Tracing)

	if r.Config.App.RateLimiter.Enable {
		router.Use(r.AppMiddleware.RateLimit())
	}

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusOK, "OK")
	})

	router.Route("/v1", func(routerGroup chi.Router) {
		// Registration happens before an identity exists, so it sits
		// outside the identity-resolving group.
		routerGroup.Post("/users/register", r.DomainHandlers.User.RegisterUser)

		routerGroup.Group(func(identified chi.Router) {
			identified.Use(r.Identity.Resolve)

			r.DomainHandlers.Organization.Router(identified)
			r.DomainHandlers.User.Router(identified)
			r.DomainHandlers.Room.Router(identified)
			r.DomainHandlers.Booking.Router(identified)
			r.DomainHandlers.Audit.Router(identified)
		})
	})
}
