package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the shape accepted from
// a JSON file. Secrets are accepted here too so a single file can hold a
// full deployment configuration.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey     string   `json:"token_sign_key"`
		TokenIssuer      string   `json:"token_issuer"`
		TokenDuration    Duration `json:"token_duration"`
		PasswordResetTTL Duration `json:"password_reset_ttl"`
		PasswordResetURL string   `json:"password_reset_url"`
		Version          string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Cache struct {
			RedisAddress  string   `json:"redis_address"`
			RedisPassword string   `json:"redis_password"`
			RedisDB       int      `json:"redis_db"`
			TTL           Duration `json:"ttl"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
		AuthRateLimit  int      `json:"auth_rate_limit"`
		TrustedProxies []string `json:"trusted_proxies"`
	} `json:"server,omitempty"`

	Adapter struct {
		Facebook struct {
			AppID     string   `json:"app_id"`
			AppSecret string   `json:"app_secret"`
			GraphURL  string   `json:"graph_url"`
			Timeout   Duration `json:"timeout"`
		} `json:"facebook,omitempty"`

		Mail struct {
			SendGridAPIKey string `json:"sendgrid_api_key"`
			FromAddress    string `json:"from_address"`
			FromName       string `json:"from_name"`
		} `json:"mail,omitempty"`

		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:     jsonCfg.App.TokenSignKey,
			TokenIssuer:      jsonCfg.App.TokenIssuer,
			TokenDuration:    time.Duration(jsonCfg.App.TokenDuration),
			PasswordResetTTL: time.Duration(jsonCfg.App.PasswordResetTTL),
			PasswordResetURL: jsonCfg.App.PasswordResetURL,
			Version:          jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Cache: Cache{
				RedisAddress:  jsonCfg.Storage.Cache.RedisAddress,
				RedisPassword: jsonCfg.Storage.Cache.RedisPassword,
				RedisDB:       jsonCfg.Storage.Cache.RedisDB,
				TTL:           time.Duration(jsonCfg.Storage.Cache.TTL),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
			AuthRateLimit:  jsonCfg.Server.AuthRateLimit,
			TrustedProxies: jsonCfg.Server.TrustedProxies,
		},
		Adapter: Adapter{
			Facebook: Facebook{
				AppID:     jsonCfg.Adapter.Facebook.AppID,
				AppSecret: jsonCfg.Adapter.Facebook.AppSecret,
				GraphURL:  jsonCfg.Adapter.Facebook.GraphURL,
				Timeout:   time.Duration(jsonCfg.Adapter.Facebook.Timeout),
			},
			Mail: Mail{
				SendGridAPIKey: jsonCfg.Adapter.Mail.SendGridAPIKey,
				FromAddress:    jsonCfg.Adapter.Mail.FromAddress,
				FromName:       jsonCfg.Adapter.Mail.FromName,
			},
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
