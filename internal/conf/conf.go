// Package conf holds the bootstrap configuration scanned from configs/config.yaml.
package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the configuration tree.
type Bootstrap struct {
	Server   *Server   `json:"server"`
	Data     *Data     `json:"data"`
	Auth     *Auth     `json:"auth"`
	Metadata *Metadata `json:"metadata"`
}

type Server struct {
	HTTP *Server_HTTP `json:"http"`
}

type Server_HTTP struct {
	Network string    `json:"network"`
	Addr    string    `json:"addr"`
	Timeout *Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

// Data_Database selects the gorm dialector. Driver is one of postgres, mysql or sqlite.
type Data_Database struct {
	Driver      string `json:"driver"`
	Source      string `json:"source"`
	AutoMigrate bool   `json:"auto_migrate"`
}

type Data_Redis struct {
	Addr         string    `json:"addr"`
	Password     string    `json:"password"`
	DB           int       `json:"db"`
	ReadTimeout  *Duration `json:"read_timeout"`
	WriteTimeout *Duration `json:"write_timeout"`
	CacheTTL     *Duration `json:"cache_ttl"`
}

type Auth struct {
	// AdminToken guards the /v1/admin operations.
	AdminToken string `json:"admin_token"`
	// JWTSecret signs user tokens (HS256).
	JWTSecret string    `json:"jwt_secret"`
	TokenTTL  *Duration `json:"token_ttl"`
}

// Metadata configures the OMDb-compatible lookup used to enrich new movies.
// An empty URL disables enrichment.
type Metadata struct {
	URL        string    `json:"url"`
	APIKey     string    `json:"api_key"`
	Timeout    *Duration `json:"timeout"`
	MaxRetries int32     `json:"max_retries"`
}

// Duration accepts either a Go duration string ("1.5s") or a number of seconds.
type Duration struct {
	time.Duration
}

// NewDuration wraps d.
func NewDuration(d time.Duration) *Duration {
	return &Duration{Duration: d}
}

// AsDuration returns the wrapped duration, zero for a nil receiver.
func (d *Duration) AsDuration() time.Duration {
	if d == nil {
		return 0
	}
	return d.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
