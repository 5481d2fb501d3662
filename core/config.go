package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
		RateLimit       float64 // requests per second per client on write endpoints
		RateBurst       int
	}

	StorageConfig struct {
		Engine string // memory | sqlite | postgres | pebble | mongo
		DSN    string // file path, directory or connection URI depending on Engine
	}

	RemoteConfig struct {
		BaseURL string // empty disables the remote message backend
		Timeout time.Duration
	}

	EmailConfig struct {
		DefaultFrom    mail.Address
		SendgridAPIKey string
	}

	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		SecretKey    string
		Location     *time.Location // viewer locale used to format message times
		RollbarToken string

		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration

		Server  ServerConfig
		Storage StorageConfig
		Remote  RemoteConfig
		Email   EmailConfig
	}
)

func newViper() (*viper.Viper, string) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Aula")
	v.SetDefault("secretKey", "l0c4l-s3cr3t_k3y+f0r(d3v)0nly#aula=portal")
	v.SetDefault("timezone", "America/Lima")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.rateLimit", 5.0)
	v.SetDefault("server.rateBurst", 10)

	v.SetDefault("storage.engine", "sqlite")
	v.SetDefault("storage.dsn", "aula.db")

	v.SetDefault("remote.baseURL", "")
	v.SetDefault("remote.timeout", 5*time.Second)

	v.SetDefault("email.defaultFrom", "noreply@localhost")
	v.SetDefault("email.sendgridApiKey", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()
	return v, env
}

// NewConfig reads the configuration from defaults, the optional config/.env.<env> file
// and the environment (prefixed by the upper-cased env name, e.g. DEV_STORAGE_ENGINE).
func NewConfig() *Config {
	v, env := newViper()

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		log.Printf("config: unknown timezone %q, falling back to UTC", v.GetString("timezone"))
		loc = time.UTC
	}

	from, err := mail.ParseAddress(v.GetString("email.defaultFrom"))
	if err != nil {
		from = &mail.Address{Address: "noreply@localhost"}
	}
	if from.Name == "" {
		from.Name = v.GetString("appName")
	}

	return &Config{
		Env:                       env,
		Build:                     v.GetString("build"),
		AppName:                   v.GetString("appName"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		SecretKey:                 v.GetString("secretKey"),
		Location:                  loc,
		RollbarToken:              v.GetString("rollbarToken"),
		JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
		JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
			RateLimit:       v.GetFloat64("server.rateLimit"),
			RateBurst:       v.GetInt("server.rateBurst"),
		},
		Storage: StorageConfig{
			Engine: strings.ToLower(v.GetString("storage.engine")),
			DSN:    v.GetString("storage.dsn"),
		},
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(v.GetString("remote.baseURL"), "/"),
			Timeout: v.GetDuration("remote.timeout"),
		},
		Email: EmailConfig{
			DefaultFrom:    *from,
			SendgridAPIKey: v.GetString("email.sendgridApiKey"),
		},
	}
}
