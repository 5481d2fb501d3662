package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/announcement"
	"github.com/trezcool/aula/core/attachment"
	"github.com/trezcool/aula/core/chat"
	"github.com/trezcool/aula/core/comms"
	"github.com/trezcool/aula/core/notification"
	"github.com/trezcool/aula/core/session"
	"github.com/trezcool/aula/core/user"
	logsvc "github.com/trezcool/aula/services/logger"
	"github.com/trezcool/aula/storage/blob"
	blobrepos "github.com/trezcool/aula/storage/database/blobrepo"
)

func main() {
	ctx := context.Background()

	conf := core.NewConfig()
	zl := logsvc.NewZapLogger(conf, "portal")
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug)

	// set up storage
	blobs, err := blob.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}

	// set up services
	usrSvc := user.NewService(blobrepos.NewUserRepository(blobs))
	messages := chat.NewStore(chat.NewDefaultBackend(conf, blobs, logger), usrSvc, conf.Location, logger)

	// start CLI
	cli := commandLine{
		usrSvc:        usrSvc,
		session:       session.New(blobs, logger),
		messages:      messages,
		viewModel:     comms.NewViewModel(messages, usrSvc, logger),
		announcements: announcement.NewStore(blobs, logger),
		feed:          notification.NewDefaultFeed(),
		stager:        attachment.NewStager(attachment.DefaultMaxSize),
		logger:        logger,
		loc:           conf.Location,
		out:           os.Stdout,
	}
	err = cli.run(ctx, os.Args)

	_ = logger.Sync()
	if cErr := blobs.Close(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
