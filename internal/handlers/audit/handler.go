package audit

import (
	"net/http"

	"atrium/infras/otel"
	"atrium/internal/domains/audit/model"
	"atrium/internal/domains/audit/service"
	"atrium/shared/constant"
	gDto "atrium/shared/dto"
	"atrium/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Audit
	otel    otel.Otel
}

func New(service service.Audit, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/audit", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetEntries)
	})
}

func (handler *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetEntries")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if entity := r.URL.Query().Get(model.FieldEntity); entity != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldEntity,
			Operator: gDto.FilterOperatorEq,
			Value:    entity,
			Table:    model.TableName,
		})
	}

	if entityID := r.URL.Query().Get(model.FieldEntityID); entityID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldEntityID,
			Operator: gDto.FilterOperatorEq,
			Value:    entityID,
			Table:    model.TableName,
		})
	}

	if actorID := r.URL.Query().Get(model.FieldActorID); actorID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActorID,
			Operator: gDto.FilterOperatorEq,
			Value:    actorID,
			Table:    model.TableName,
		})
	}

	entries, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get audit entries")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Audit entries retrieved successfully")

	response.WithJSON(w, http.StatusOK, entries)
}
