package comms

import (
	"fmt"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
)

// Channel partitions messages by the role of their recipient.
type Channel string

const (
	ChannelGeneral        Channel = "general"
	ChannelTeacher        Channel = user.RoleTeacher
	ChannelAdministrative Channel = user.RoleAdministrative
	ChannelExecutive      Channel = user.RoleExecutive
)

var Channels = []Channel{ChannelGeneral, ChannelTeacher, ChannelAdministrative, ChannelExecutive}

// ParseChannel accepts a channel name case-insensitively; empty means general.
func ParseChannel(s string) (Channel, error) {
	s = core.CleanString(s, true /* lower */)
	if s == "" {
		return ChannelGeneral, nil
	}
	for _, ch := range Channels {
		if string(ch) == s {
			return ch, nil
		}
	}
	return "", core.NewValidationError(nil, core.FieldError{Field: "channel", Error: fmt.Sprintf("unknown channel %q", s)})
}

func (c Channel) IsGeneral() bool { return c == "" || c == ChannelGeneral }
