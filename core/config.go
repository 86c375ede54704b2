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
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		WorkDir  string

		AppName          string
		SecretKey        []byte
		FrontendBaseURL  string
		FlagshipGoal     string // pinned first in goal listings
		DefaultFromEmail mail.Address

		SendgridAPIKey string
		RollbarToken   string

		Server   ServerConfig
		Database DatabaseConfig
		Admin    AdminConfig
	}

	ServerConfig struct {
		Host                 string
		Addr                 string
		DebugAddr            string
		ShutdownTimeout      time.Duration
		JWTExpirationDelta   time.Duration // user session
		AdminJWTExpiration   time.Duration // admin session
		PasswordResetTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// AdminConfig holds the single admin record seeded at startup.
	AdminConfig struct {
		Email    string
		Password string
	}
)

func (c DatabaseConfig) Address() string { return c.Host + ":" + c.Port }

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Vaani")
	v.SetDefault("secretKey", "+aw$vp0k3q(h@p&e#mzw1r!d9^y7u24g_s%x8c5j6n)b*f-t(v")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("flagshipGoal", "CEE")
	v.SetDefault("defaultFromEmail", "noreply@vaani.app")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugAddr", ":8001")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 30*24*time.Hour)
	v.SetDefault("adminJwtExpirationDelta", 24*time.Hour)
	v.SetDefault("passwordResetTimeoutDelta", time.Hour)

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "vaani")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseUser", "vaani")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseDisableTls", true)

	v.SetDefault("adminEmail", "admin@vaani.app")
	v.SetDefault("adminPassword", "")

	var testMode bool
	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load config/.env.<env> if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		Build:            v.GetString("build"),
		WorkDir:          wd,
		AppName:          v.GetString("appName"),
		SecretKey:        []byte(v.GetString("secretKey")),
		FrontendBaseURL:  v.GetString("frontendBaseUrl"),
		FlagshipGoal:     v.GetString("flagshipGoal"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                 v.GetString("serverHost"),
			Addr:                 v.GetString("serverAddr"),
			DebugAddr:            v.GetString("serverDebugAddr"),
			ShutdownTimeout:      v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:   v.GetDuration("jwtExpirationDelta"),
			AdminJWTExpiration:   v.GetDuration("adminJwtExpirationDelta"),
			PasswordResetTimeout: v.GetDuration("passwordResetTimeoutDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("databaseEngine"),
			Name:          v.GetString("databaseName"),
			Host:          v.GetString("databaseHost"),
			Port:          v.GetString("databasePort"),
			User:          v.GetString("databaseUser"),
			Password:      v.GetString("databasePassword"),
			AdminUser:     v.GetString("databaseAdminUser"),
			AdminPassword: v.GetString("databaseAdminPassword"),
			DisableTLS:    v.GetBool("databaseDisableTls"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("adminEmail"),
			Password: v.GetString("adminPassword"),
		},
	}
}
