package config

import (
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
)

// BaseConfig is the application configuration root. It is loaded by the
// go-config container from config files and environment overrides.
type BaseConfig struct {
	App         App         `json:"app" koanf:"app"`
	Server      Server      `json:"server" koanf:"server"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
	Metrics     Metrics     `json:"metrics" koanf:"metrics"`
}

type App struct {
	Name  string `json:"name" koanf:"name"`
	Debug bool   `json:"debug" koanf:"debug"`
}

type Server struct {
	Address string `json:"address" koanf:"address"`
}

type Auth struct {
	SigningKey      string `json:"signing_key" koanf:"signing_key"`
	SigningMethod   string `json:"signing_method" koanf:"signing_method"`
	ContextKey      string `json:"context_key" koanf:"context_key"`
	TokenExpiration int    `json:"token_expiration" koanf:"token_expiration"`
	TokenLookup     string `json:"token_lookup" koanf:"token_lookup"`
	AuthScheme      string `json:"auth_scheme" koanf:"auth_scheme"`
	Issuer          string `json:"issuer" koanf:"issuer"`
}

type Persistence struct {
	Driver                string `json:"driver" koanf:"driver"`
	DSN                   string `json:"dsn" koanf:"dsn"`
	Debug                 bool   `json:"debug" koanf:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" koanf:"ping_timeout"`
}

type Metrics struct {
	Enabled bool   `json:"enabled" koanf:"enabled"`
	Path    string `json:"path" koanf:"path"`
}

func (a *BaseConfig) Validate() error {
	if a.GetAuth().GetSigningKey() == "" {
		return errors.New("auth.signing_key is required", errors.CategoryValidation)
	}
	return nil
}

func (a *BaseConfig) GetApp() App                 { return a.App }
func (a *BaseConfig) GetServer() Server           { return a.Server }
func (a *BaseConfig) GetAuth() Auth               { return a.Auth }
func (a *BaseConfig) GetPersistence() Persistence { return a.Persistence }
func (a *BaseConfig) GetMetrics() Metrics         { return a.Metrics }

func (a App) GetName() string {
	if a.Name == "" {
		return "claims-api"
	}
	return a.Name
}

func (a App) GetDebug() bool { return a.Debug }

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":3000"
	}
	return s.Address
}

func (a Auth) GetSigningKey() string { return a.SigningKey }

func (a Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "session"
	}
	return a.ContextKey
}

// GetTokenExpiration is the token lifetime in hours
func (a Auth) GetTokenExpiration() int {
	if a.TokenExpiration == 0 {
		return 1
	}
	return a.TokenExpiration
}

func (a Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:Authorization"
	}
	return a.TokenLookup
}

func (a Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a Auth) GetIssuer() string { return a.Issuer }

func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file::memory:?cache=shared"
	}
	return p.DSN
}

func (p Persistence) GetDebug() bool { return p.Debug }

func (p Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

func (m Metrics) GetEnabled() bool { return m.Enabled }

func (m Metrics) GetPath() string {
	if m.Path == "" {
		return "/metrics"
	}
	return m.Path
}
