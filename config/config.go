// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of a restx client from the
// environment, and from viper for the restx command.
package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gogama/restx"
	"github.com/gogama/restx/request"
	"github.com/gogama/restx/timeout"
	"github.com/gogama/restx/transport"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Prefix is the prefix of every environment variable read by Load.
const Prefix = "RESTX"

// Transport names.
const (
	TransportHTTP     = "http"
	TransportResty    = "resty"
	TransportFastHTTP = "fasthttp"
)

// Config is the configuration of a restx client. The envconfig tags
// name the environment variables read by Load, after Prefix; the
// mapstructure tags name the keys read from viper.
type Config struct {
	// BaseURL is the base URL of the API.
	BaseURL string `envconfig:"BASE_URL" mapstructure:"base_url"`
	// TrailingSlash makes resource URLs end in a slash.
	TrailingSlash bool `envconfig:"TRAILING_SLASH" default:"false" mapstructure:"trailing_slash"`
	// Transport is one of "http", "resty" or "fasthttp".
	Transport string `envconfig:"TRANSPORT" default:"http" mapstructure:"transport"`
	// Timeout bounds every request which has no Timeout option of its
	// own. Zero means no timeout.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s" mapstructure:"timeout"`
	// Username and Password, if Username is set, are sent with every
	// request using HTTP Basic Authentication.
	Username string `envconfig:"USERNAME" mapstructure:"username"`
	Password string `envconfig:"PASSWORD" mapstructure:"password"`
	// Headers are sent with every request. In the environment they are
	// written as "Key1:Value1,Key2:Value2".
	Headers map[string]string `envconfig:"HEADERS" mapstructure:"headers"`
	// PlanCache enables the plan cache.
	PlanCache bool `envconfig:"PLAN_CACHE" default:"false" mapstructure:"plan_cache"`
	// LogLevel is the zap level name to log at.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn" mapstructure:"log_level"`
	// LogDevelopment selects console instead of JSON log output.
	LogDevelopment bool `envconfig:"LOG_DEV" default:"false" mapstructure:"log_development"`
}

// Default returns the configuration Load produces from an empty
// environment.
func Default() *Config {
	return &Config{
		Transport: TransportHTTP,
		Timeout:   30 * time.Second,
		LogLevel:  "warn",
	}
}

// Load reads the configuration from RESTX_* environment variables and
// validates it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromViper reads the configuration from the environment with Load and
// then overlays every key that v has a value for, from a config file or
// a changed flag.
func FromViper(v *viper.Viper) (*Config, error) {
	c, err := Load()
	if err != nil {
		return nil, err
	}
	c.SetDefaults(v)
	if err = v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDefaults registers the values of c as the defaults of v, so that
// they apply wherever v has no value of its own.
func (c *Config) SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", c.BaseURL)
	v.SetDefault("trailing_slash", c.TrailingSlash)
	v.SetDefault("transport", c.Transport)
	v.SetDefault("timeout", c.Timeout)
	v.SetDefault("username", c.Username)
	v.SetDefault("password", c.Password)
	v.SetDefault("headers", c.Headers)
	v.SetDefault("plan_cache", c.PlanCache)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_development", c.LogDevelopment)
}

// Validate reports the first problem with c, if any.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Transport) {
	case "", TransportHTTP, TransportResty, TransportFastHTTP:
	default:
		return errors.Errorf("unknown transport %q", c.Transport)
	}
	if c.Timeout < 0 {
		return errors.Errorf("negative timeout %s", c.Timeout)
	}
	return nil
}

// Defaults returns the default request options described by c.
func (c *Config) Defaults() *request.Options {
	o := &request.Options{}
	if len(c.Headers) > 0 {
		o.Header = make(http.Header, len(c.Headers))
		for k, v := range c.Headers {
			o.Header.Set(k, v)
		}
	}
	if c.Username != "" {
		o.Auth = &request.Credentials{Username: c.Username, Password: c.Password}
	}
	return o
}

// TimeoutPolicy returns the timeout policy described by c.
func (c *Config) TimeoutPolicy() timeout.Policy {
	if c.Timeout <= 0 {
		return timeout.DefaultPolicy
	}
	return timeout.PlanOr(c.Timeout)
}

// NewTransport returns a new transport of the configured kind.
func (c *Config) NewTransport() (restx.Transport, error) {
	policy := c.TimeoutPolicy()
	switch strings.ToLower(c.Transport) {
	case "", TransportHTTP:
		return &transport.HTTP{Doer: &http.Client{}, TimeoutPolicy: policy}, nil
	case TransportResty:
		return &transport.Resty{Client: resty.New(), TimeoutPolicy: policy}, nil
	case TransportFastHTTP:
		return &transport.FastHTTP{Client: &fasthttp.Client{}, TimeoutPolicy: policy}, nil
	default:
		return nil, errors.Errorf("unknown transport %q", c.Transport)
	}
}

// ClientOptions returns the restx options described by c. If logger is
// non-nil, the client logs to it.
func (c *Config) ClientOptions(logger *zap.Logger) ([]restx.Option, error) {
	t, err := c.NewTransport()
	if err != nil {
		return nil, err
	}

	opts := []restx.Option{
		restx.WithTransport(t),
		restx.WithDefaults(c.Defaults()),
	}
	if c.TrailingSlash {
		opts = append(opts, restx.WithTrailingSlash())
	}
	if c.PlanCache {
		opts = append(opts, restx.WithPlanCache())
	}
	if logger != nil {
		opts = append(opts, restx.WithLogger(logger))
	}
	return opts, nil
}

// NewClient returns a client for the configured base URL.
func (c *Config) NewClient(logger *zap.Logger) (*restx.Client, error) {
	opts, err := c.ClientOptions(logger)
	if err != nil {
		return nil, err
	}
	return restx.New(c.BaseURL, opts...), nil
}
