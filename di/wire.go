//go:build wireinject
// +build wireinject

package di

import (
	"atrium/config"
	"atrium/infras/kafka"
	"atrium/infras/lock"
	"atrium/infras/otel"
	"atrium/infras/postgres"
	"atrium/infras/redis"
	"atrium/shared/cache"
	"atrium/shared/clock"
	"atrium/transport/http"
	"atrium/transport/http/middleware"
	"atrium/transport/http/router"

	auditHandler "atrium/internal/handlers/audit"
	bookingHandler "atrium/internal/handlers/booking"
	organizationHandler "atrium/internal/handlers/organization"
	roomHandler "atrium/internal/handlers/room"
	userHandler "atrium/internal/handlers/user"

	auditRepository "atrium/internal/domains/audit/repository"
	auditService "atrium/internal/domains/audit/service"
	bookingRepository "atrium/internal/domains/booking/repository"
	bookingService "atrium/internal/domains/booking/service"
	organizationRepository "atrium/internal/domains/organization/repository"
	organizationService "atrium/internal/domains/organization/service"
	roomRepository "atrium/internal/domains/room/repository"
	roomService "atrium/internal/domains/room/service"
	userRepository "atrium/internal/domains/user/repository"
	userService "atrium/internal/domains/user/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	lock.NewRedis,
	clock.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewIdentity,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var organizationDomain = wire.NewSet(
	organizationRepository.New,
	organizationService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var roomRepositories = wire.NewSet(
	roomRepository.New,
	roomRepository.NewAvailability,
	roomRepository.NewAllowedOrg,
)

var roomDomain = wire.NewSet(
	roomRepositories,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	auditDomain,
	organizationDomain,
	userDomain,
	roomDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	organizationHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	auditHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeSweeper builds just the booking service for the one-shot
// completion sweep binary. It shares the service wiring with the API so
// the sweep and the API can never disagree on state-machine rules.
func InitializeSweeper() bookingService.Booking {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		auditDomain,
		roomRepositories,
		bookingDomain,
	)

	return nil
}
