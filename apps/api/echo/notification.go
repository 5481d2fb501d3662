package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/aula/core/notification"
)

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, feed *notification.Feed) {
	g.GET("/notifications", func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		return ctx.JSON(http.StatusOK, feed.Fetch(claims.Role))
	}, jwt)
}
