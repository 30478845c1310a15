// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gogama/restx"
	"github.com/gogama/restx/config"
	"github.com/gogama/restx/internal/logging"
	"github.com/gogama/restx/request"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errNoBase = errors.New("no base URL: set --base, base_url in the config file, or RESTX_BASE_URL")

func newVerbCommand(s *settings, m restx.Method) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(m.Name()) + " [PATH]",
		Short: "send a " + m.Name() + " request to the resource at PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return s.run(cmd, m, path)
		},
	}
}

func (s *settings) run(cmd *cobra.Command, m restx.Method, path string) error {
	cfg, err := config.FromViper(s.v)
	if err != nil {
		return err
	}
	if cfg.BaseURL == "" {
		return errNoBase
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	defer func() { _ = logger.Sync() }()

	client, err := cfg.NewClient(logger)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	o, err := s.options(cfg)
	if err != nil {
		return err
	}

	x, err := client.Do(cmd.Context(), m, path, o)
	if err != nil {
		return err
	}
	return s.print(cmd.OutOrStdout(), cmd.ErrOrStderr(), x.(*request.Response))
}

// options builds the per-call request options from the flags. Because
// a call's Header replaces the configured one, headers given with -H
// are added to a copy of the configured headers.
func (s *settings) options(cfg *config.Config) (*request.Options, error) {
	o := &request.Options{}

	if len(s.headers) > 0 || s.requestID || s.data != "" {
		o.Header = cfg.Defaults().Header
		if o.Header == nil {
			o.Header = make(http.Header)
		}
	}
	for _, h := range s.headers {
		k, v, err := splitPair(h, ":", "header")
		if err != nil {
			return nil, err
		}
		o.Header.Add(k, strings.TrimSpace(v))
	}
	if s.requestID {
		o.Header.Set("X-Request-Id", uuid.NewString())
	}

	for _, q := range s.params {
		k, v, err := splitPair(q, "=", "query parameter")
		if err != nil {
			return nil, err
		}
		if o.Params == nil {
			o.Params = make(url.Values)
		}
		o.Params.Add(k, v)
	}

	if s.user != "" {
		username, password, _ := strings.Cut(s.user, ":")
		o.Auth = &request.Credentials{Username: username, Password: password}
	}

	if s.data != "" {
		b, err := readData(s.data)
		if err != nil {
			return nil, err
		}
		o.Body = b
		if o.Header.Get("Content-Type") == "" && sonic.Valid(b) {
			o.Header.Set("Content-Type", "application/json")
		}
	}

	return o, nil
}

// splitPair splits a "key<sep>value" flag value.
func splitPair(s, sep, what string) (string, string, error) {
	k, v, ok := strings.Cut(s, sep)
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", errors.Errorf("invalid %s %q: want key%svalue", what, s, sep)
	}
	return k, v, nil
}

// readData returns the body named by a --data value: the contents of a
// file for "@name", otherwise the value itself.
func readData(data string) ([]byte, error) {
	if !strings.HasPrefix(data, "@") {
		return []byte(data), nil
	}
	b, err := os.ReadFile(data[1:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}
	return b, nil
}
