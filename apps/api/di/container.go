package di

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/aula/apps/api/echo"
	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/announcement"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
	"github.com/trezcool/aula/core/notification"
	"github.com/trezcool/aula/core/user"
	emailsvc "github.com/trezcool/aula/services/email"
	logsvc "github.com/trezcool/aula/services/logger"
	"github.com/trezcool/aula/storage/blob"
	blobrepos "github.com/trezcool/aula/storage/database/blobrepo"
)

type StorageLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storageLogger"`
}

type serverParams struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	UserSvc       *user.Service
	Validate      *validator.Validate
	Translator    ut.Translator
	Messages      *chat.Store
	ViewModel     *comms.ViewModel
	Announcements *announcement.Store
	Broadcaster   *announcement.Broadcaster
	Feed          *notification.Feed
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewZapLogger(conf, "api"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorageLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewZapLogger(conf, "storage"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newBlobStore(conf *core.Config, loggerParam StorageLoggerParam) core.BlobStore {
	store, err := blob.Open(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	return store
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.Email.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newMessageStore(conf *core.Config, blobs core.BlobStore, usrSvc *user.Service, loggerParam StorageLoggerParam) *chat.Store {
	backend := chat.NewDefaultBackend(conf, blobs, loggerParam.Logger)
	return chat.NewStore(backend, usrSvc, conf.Location, loggerParam.Logger)
}

func newViewModel(messages *chat.Store, usrSvc *user.Service, logger core.Logger) *comms.ViewModel {
	return comms.NewViewModel(messages, usrSvc, logger)
}

func newBroadcaster(usrSvc *user.Service, mailSvc core.EmailService, logger core.Logger) *announcement.Broadcaster {
	return announcement.NewBroadcaster(usrSvc, mailSvc, logger)
}

func newAnnouncementStore(blobs core.BlobStore, loggerParam StorageLoggerParam) *announcement.Store {
	return announcement.NewStore(blobs, loggerParam.Logger)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          p.Conf,
			Logger:        p.Logger,
			UserSvc:       p.UserSvc,
			Validate:      p.Validate,
			Translator:    p.Translator,
			Messages:      p.Messages,
			ViewModel:     p.ViewModel,
			Announcements: p.Announcements,
			Broadcaster:   p.Broadcaster,
			Feed:          p.Feed,
		},
	)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStorageLogger, dig.Name("storageLogger")))
	must(c.Provide(newBlobStore))
	must(c.Provide(newEmailService))
	must(c.Provide(blobrepos.NewUserRepository))
	must(c.Provide(user.NewService))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newMessageStore))
	must(c.Provide(newViewModel))
	must(c.Provide(newAnnouncementStore))
	must(c.Provide(newBroadcaster))
	must(c.Provide(notification.NewDefaultFeed))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
