package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/comms"
)

var (
	channelParam = "channel"
	searchParam  = "search"
	toMeParam    = "to_me"
)

// FeedQuery reads the communication feed filters from the query string.
type FeedQuery struct {
	comms.Query
}

func (fq *FeedQuery) Bind(ctx echo.Context, viewerID string) error {
	fq.ViewerID = viewerID

	data := ctx.QueryParams()
	if len(data) == 0 {
		return nil
	}

	ch, err := comms.ParseChannel(data.Get(channelParam))
	if err != nil {
		return err
	}
	fq.Channel = ch
	fq.Search = data.Get(searchParam)

	if val := data.Get(toMeParam); val != "" {
		toMe, err := strconv.ParseBool(val)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: toMeParam, Error: "must be a boolean"})
		}
		fq.OnlyToMe = toMe
	}
	return nil
}
