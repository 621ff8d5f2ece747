package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug     bool
		TestMode  bool
		Env       string // DEV (local; default), TEST, QA, PROD
		Build     string
		AppName   string
		SecretKey string

		RollbarToken string

		Server       ServerConfig
		Database     DatabaseConfig
		DefaultAdmin DefaultAdminConfig
	}

	ServerConfig struct {
		Host                   string
		Port                   string
		ReadTimeout            time.Duration
		WriteTimeout           time.Duration
		ShutdownTimeout        time.Duration
		SessionExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		// Path is the sqlite database file; created on first open.
		Path string
	}

	// DefaultAdminConfig is the credential pair seeded by `admin initdb`
	// when no user exists yet.
	DefaultAdminConfig struct {
		Username string
		Password string
	}
)

func (sc ServerConfig) Address() string {
	return sc.Host + ":" + sc.Port
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "w#ujde0^77t=$!b1dzsn(o5+hy2&4hx6k@)qro73_r$amx4e+u")
	conf.SetDefault("serverHost", "")
	conf.SetDefault("serverPort", "8080")
	conf.SetDefault("serverReadTimeout", 5*time.Second)
	conf.SetDefault("serverWriteTimeout", 10*time.Second)
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("sessionExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("databasePath", filepath.Join(Getwd(), "darasa.db"))
	conf.SetDefault("defaultAdminUsername", "admin")
	conf.SetDefault("defaultAdminPassword", "admin123")
	conf.SetDefault("rollbarToken", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		Env:          env,
		Build:        conf.GetString("build"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                   conf.GetString("serverHost"),
			Port:                   conf.GetString("serverPort"),
			ReadTimeout:            conf.GetDuration("serverReadTimeout"),
			WriteTimeout:           conf.GetDuration("serverWriteTimeout"),
			ShutdownTimeout:        conf.GetDuration("serverShutdownTimeout"),
			SessionExpirationDelta: conf.GetDuration("sessionExpirationDelta"),
		},
		Database: DatabaseConfig{
			Path: conf.GetString("databasePath"),
		},
		DefaultAdmin: DefaultAdminConfig{
			Username: conf.GetString("defaultAdminUsername"),
			Password: conf.GetString("defaultAdminPassword"),
		},
	}
}
