package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the client settings. Values come from defaults, an optional
// config/.env.<env> file and environment variables prefixed with the env name
// (eg. DEV_APIURL).
type Config struct {
	Env      string
	AppName  string
	Build    string
	Debug    bool
	TestMode bool

	// APIURL is the base of every backend route (the "/api" root).
	APIURL string
	// AppURL is the public root used to build display URLs for stored files.
	AppURL         string
	RequestTimeout time.Duration

	StoragePath   string
	StorageSecret string

	RollbarToken string
}

// LoadConfig reads the configuration for the environment named by $ENV
// (DEV by default, TEST, QA, PROD).
func LoadConfig() (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "UCMS")
	conf.SetDefault("build", "dev")
	conf.SetDefault("apiURL", "http://localhost:8000/api")
	conf.SetDefault("appURL", "http://localhost:8000")
	conf.SetDefault("requestTimeout", 15*time.Second)
	conf.SetDefault("storagePath", "ucms.db")
	conf.SetDefault("storageSecret", "")
	conf.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:            env,
		AppName:        conf.GetString("appName"),
		Build:          conf.GetString("build"),
		Debug:          conf.GetBool("debug"),
		TestMode:       conf.GetBool("testMode"),
		APIURL:         strings.TrimRight(conf.GetString("apiURL"), "/"),
		AppURL:         strings.TrimRight(conf.GetString("appURL"), "/"),
		RequestTimeout: conf.GetDuration("requestTimeout"),
		StoragePath:    conf.GetString("storagePath"),
		StorageSecret:  conf.GetString("storageSecret"),
		RollbarToken:   conf.GetString("rollbarToken"),
	}, nil
}
