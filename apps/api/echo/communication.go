package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
)

type communicationApi struct {
	store *chat.Store
	vm    *comms.ViewModel
}

func registerCommunicationAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	limit echo.MiddlewareFunc,
	store *chat.Store,
	vm *comms.ViewModel,
) {
	api := communicationApi{store: store, vm: vm}

	cg := g.Group("/communication")

	// remote message contract: consumed by portal clients, gated in the UI only
	cg.GET("/messages", api.listMessages)
	cg.POST("/messages", api.appendMessage, limit)

	cg.GET("/feed", api.feed, jwt)
}

// Handlers

func (api *communicationApi) listMessages(ctx echo.Context) error {
	msgs := api.store.List(ctx.Request().Context())

	wire := make([]chat.WireMessage, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, m.Wire())
	}
	return ctx.JSON(http.StatusOK, wire)
}

func (api *communicationApi) appendMessage(ctx echo.Context) error {
	var data chat.WireNewMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to WireNewMessage")
	}

	nm := data.NewMessage()
	msg, err := api.store.Append(ctx.Request().Context(), nm.Sender, nm.Text, nm.Attachment, nm.To)
	if err != nil {
		return errors.Wrap(err, "appending message")
	}
	return ctx.JSON(http.StatusCreated, msg.Wire())
}

func (api *communicationApi) feed(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var query FeedQuery
	if err = query.Bind(ctx, claims.Subject); err != nil {
		return err
	}

	view, err := api.vm.Build(ctx.Request().Context(), query.Query)
	if err != nil {
		return errors.Wrap(err, "building communication view")
	}
	return ctx.JSON(http.StatusOK, view)
}
