package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"nasa/pkg/consts"
	"nasa/pkg/normalizer"
	repo "nasa/pkg/repository"

	"github.com/sirupsen/logrus"
)

// Config is read once on startup and passed by value afterwards.
type Config struct {
	ApiKey   string
	Port     string
	NasaURL  string
	EpicURL  string
	LogLevel logrus.Level

	NeoLookup     normalizer.Lookup
	ClientTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	ArchiveSchedule string
	DB              repo.Config
}

// ArchiveEnabled reports whether a database was configured.
func (c Config) ArchiveEnabled() bool {
	return c.DB.Host != ""
}

// Load builds the configuration from the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {

	c := Config{
		ApiKey:          getenv(consts.EnvApiKey),
		Port:            orDefault(getenv(consts.EnvAppPort), consts.DefaultPort),
		NasaURL:         orDefault(getenv(consts.EnvNasaURL), consts.DefaultNasaURL),
		EpicURL:         orDefault(getenv(consts.EnvEpicURL), consts.DefaultEpicURL),
		ArchiveSchedule: getenv(consts.EnvArchiveSchedule),
		DB: repo.Config{
			Host:     getenv(consts.EnvDBHost),
			Port:     getenv(consts.EnvDBPort),
			Username: getenv(consts.EnvDBUsername),
			Password: getenv(consts.EnvDBPassword),
			DBName:   getenv(consts.EnvDBName),
			SSLMode:  orDefault(getenv(consts.EnvDBSSLMode), "disable"),
		},
	}

	// старое имя переменной из первой версии сервиса
	if c.ApiKey == "" {
		c.ApiKey = getenv(consts.Token)
	}
	if c.ApiKey == "" {
		return Config{}, errors.New("NASA_API_KEY is not set")
	}

	var err error

	if c.LogLevel, err = logrus.ParseLevel(orDefault(getenv(consts.EnvLogLevel), "info")); err != nil {
		return Config{}, err
	}

	if c.NeoLookup, err = normalizer.ParseLookup(getenv(consts.EnvNeoLookup)); err != nil {
		return Config{}, err
	}

	if v := getenv(consts.EnvClientTimeout); v != "" {
		if c.ClientTimeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", consts.EnvClientTimeout, err)
		}
	}

	if v := getenv(consts.EnvRateLimitRPS); v != "" {
		if c.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil || c.RateLimitRPS < 0 {
			return Config{}, fmt.Errorf("%s: invalid value %q", consts.EnvRateLimitRPS, v)
		}
	}

	c.RateLimitBurst = 1
	if v := getenv(consts.EnvRateLimitBurst); v != "" {
		if c.RateLimitBurst, err = strconv.Atoi(v); err != nil || c.RateLimitBurst < 1 {
			return Config{}, fmt.Errorf("%s: invalid value %q", consts.EnvRateLimitBurst, v)
		}
	}

	if c.ArchiveSchedule != "" && !c.ArchiveEnabled() {
		return Config{}, fmt.Errorf("%s requires %s", consts.EnvArchiveSchedule, consts.EnvDBHost)
	}

	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
