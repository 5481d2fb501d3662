package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/announcement"
)

type announcementApi struct {
	store       *announcement.Store
	broadcaster *announcement.Broadcaster
	logger      core.Logger
}

func registerAnnouncementAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	limit echo.MiddlewareFunc,
	store *announcement.Store,
	broadcaster *announcement.Broadcaster,
	logger core.Logger,
) {
	api := announcementApi{store: store, broadcaster: broadcaster, logger: logger}

	ag := g.Group("/announcements", jwt)
	ag.GET("", api.query)
	ag.POST("", api.create, canPostMiddleware(), limit)
}

type NewAnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Handlers

func (api *announcementApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.List(ctx.Request().Context()))
}

func (api *announcementApi) create(ctx echo.Context) error {
	var data NewAnnouncementRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncementRequest")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ann, err := api.store.Create(ctx.Request().Context(), claims.Identity(), data.Title, data.Body)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}

	if api.broadcaster != nil {
		// the announcement is stored; a failed broadcast is only reported
		if err = api.broadcaster.Broadcast(ctx.Request().Context(), ann); err != nil {
			api.logger.Error(fmt.Sprintf("broadcasting announcement %s: %v", ann.ID, err), err, claims.Identity())
		}
	}
	return ctx.JSON(http.StatusCreated, ann)
}
