package announcement

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
)

// Users lists the directory members an announcement is mailed to.
type Users interface {
	QueryAll(ctx context.Context) ([]user.User, error)
}

// Broadcaster mails announcements to every active user having an email.
type Broadcaster struct {
	users   Users
	mailSvc core.EmailService
	logger  core.Logger
}

func NewBroadcaster(users Users, mailSvc core.EmailService, logger core.Logger) *Broadcaster {
	return &Broadcaster{users: users, mailSvc: mailSvc, logger: logger}
}

// Broadcast sends one message with every recipient in Bcc; delivery is asynchronous.
func (b *Broadcaster) Broadcast(ctx context.Context, ann Announcement) error {
	users, err := b.users.QueryAll(ctx)
	if err != nil {
		return err
	}

	bcc := make([]mail.Address, 0, len(users))
	for _, usr := range users {
		if usr.IsActive && usr.Email != "" {
			bcc = append(bcc, mail.Address{Name: usr.Name, Address: usr.Email})
		}
	}
	if len(bcc) == 0 {
		b.logger.Info(fmt.Sprintf("announcement %s: no recipients", ann.ID))
		return nil
	}

	b.mailSvc.SendMessages(&core.EmailMessage{
		Bcc:     bcc,
		Subject: ann.Title,
		BodyStr: fmt.Sprintf("%s\n\n%s", ann.Body, ann.Author),
	})
	return nil
}
