package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
	logsvc "github.com/trezcool/aula/services/logger"
	"github.com/trezcool/aula/storage/blob"
	blobrepos "github.com/trezcool/aula/storage/database/blobrepo"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewZapLogger(conf, "admin"), conf)
	logger.Enable(!conf.Debug)

	// set up storage
	blobs, err := blob.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}

	// set up validation
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	user.LoadCommonPasswords(logger)

	// start CLI
	cli := commandLine{
		usrSvc:   user.NewService(blobrepos.NewUserRepository(blobs)),
		validate: validate,
		out:      os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := blobs.Close(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			printError(err, translator)
		}
		os.Exit(1)
	}
}

// printError prints validation failures field by field.
func printError(err error, translator ut.Translator) {
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, fErr := range vErr {
			fmt.Fprintf(os.Stderr, "error: %s: %s\n", fErr.Field(), fErr.Translate(translator))
		}
	case *core.ValidationError:
		for _, fErr := range vErr.Fields {
			fmt.Fprintf(os.Stderr, "error: %s: %s\n", fErr.Field, fErr.Error)
		}
		if len(vErr.Fields) == 0 {
			fmt.Fprintf(os.Stderr, "error: %s\n", vErr)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
}
