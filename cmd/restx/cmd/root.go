// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gogama/restx"
	"github.com/gogama/restx/config"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// settings holds the flag values of one restx command tree.
type settings struct {
	cfgFile   string
	headers   []string
	params    []string
	data      string
	user      string
	requestID bool
	include   bool
	pretty    bool

	v *viper.Viper
}

// Execute runs the restx command against the process arguments. It is
// called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cobra.CheckErr(NewRootCommand().ExecuteContext(ctx))
}

// NewRootCommand returns the root of a new restx command tree with one
// subcommand per HTTP method.
func NewRootCommand() *cobra.Command {
	s := &settings{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "restx",
		Short: "restx sends a request to a REST API",
		Long: `restx sends one request to a resource of a REST API and
prints the response body, optionally with its status and headers`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.initConfig()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&s.cfgFile, "config", "", "config file (default is $HOME/.restx.yaml)")
	pf.StringP("base", "b", "", "base URL of the API")
	pf.StringP("verbose", "v", "warn", "level of logging verbosity. can be debug,info,warn,error")
	pf.Bool("log-dev", false, "log human-readable console output instead of JSON")
	pf.String("transport", config.TransportHTTP, "transport to send with. can be http,resty,fasthttp")
	pf.Duration("timeout", 30*time.Second, "request timeout, 0 for none")
	pf.Bool("trailing-slash", false, "end resource URLs with a slash")
	pf.StringArrayVarP(&s.headers, "header", "H", nil, "request header as key:value, repeatable")
	pf.StringArrayVarP(&s.params, "query", "q", nil, "query parameter as key=value, repeatable")
	pf.StringVarP(&s.data, "data", "d", "", "request body, or @file to read it from a file")
	pf.StringVarP(&s.user, "user", "u", "", "basic authentication credentials as user:password")
	pf.BoolVar(&s.requestID, "request-id", false, "send a random X-Request-Id header")
	pf.BoolVarP(&s.include, "include", "i", false, "print the response status and headers")
	pf.BoolVar(&s.pretty, "json", false, "pretty-print a JSON response body")

	s.bind(pf, "base_url", "base")
	s.bind(pf, "log_level", "verbose")
	s.bind(pf, "log_development", "log-dev")
	s.bind(pf, "transport", "transport")
	s.bind(pf, "timeout", "timeout")
	s.bind(pf, "trailing_slash", "trailing-slash")

	for _, m := range restx.Methods() {
		rootCmd.AddCommand(newVerbCommand(s, m))
	}

	return rootCmd
}

// bind makes a changed flag override the config key. BindPFlag only
// fails on a nil flag.
func (s *settings) bind(fs *pflag.FlagSet, key, flag string) {
	_ = s.v.BindPFlag(key, fs.Lookup(flag))
}

// initConfig reads in the config file, if there is one.
func (s *settings) initConfig() error {
	if s.cfgFile != "" {
		s.v.SetConfigFile(s.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return errors.Wrap(err, "failed to find home directory")
		}
		s.v.AddConfigPath(home)
		s.v.SetConfigName(".restx")
	}

	err := s.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (s.cfgFile != "" || !errors.As(err, &notFound)) {
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}
