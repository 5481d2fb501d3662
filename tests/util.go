package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trezcool/aula/core"
	"github.com/trezcool/aula/core/user"
	logsvc "github.com/trezcool/aula/services/logger"
	inmemblob "github.com/trezcool/aula/storage/blob/inmem"
)

// NewConfig returns a TEST config backed by in-memory storage.
func NewConfig() *core.Config {
	return &core.Config{
		Env:                       "TEST",
		Build:                     "test",
		AppName:                   "Aula",
		Debug:                     false,
		TestMode:                  true,
		SecretKey:                 "t3st-s3cr3t",
		Location:                  time.UTC,
		JWTExpirationDelta:        time.Hour,
		JWTRefreshExpirationDelta: time.Hour,
		Server: core.ServerConfig{
			Host:           "localhost",
			DisableReqLogs: true,
			RateLimit:      1000,
			RateBurst:      1000,
		},
		Storage: core.StorageConfig{Engine: "memory"},
		Email: core.EmailConfig{
			DefaultFrom: mail.Address{Name: "Aula", Address: "noreply@aula.test"},
		},
	}
}

// NewLogger returns a logger that discards everything and never reports to Rollbar.
func NewLogger(conf *core.Config) *logsvc.RollbarLogger {
	logger := logsvc.NewRollbarLogger(zap.NewNop(), conf)
	logger.Enable(false)
	return logger
}

func NewBlobStore() core.BlobStore {
	return inmemblob.New()
}

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	id, name, uname, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        id,
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}
