// Copyright 2021 The restx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package cmd implements the restx command, which sends one request to a
REST API through a restx client and prints the response.

Each HTTP method is a subcommand taking an optional resource path:

	restx get --base https://api.example.com/v1 users/42
	restx post -b https://api.example.com/v1 users -d '{"name":"ham"}'
	restx delete -b https://api.example.com/v1 -u admin:secret users/42

Settings are resolved in the following order, with the first match
winning: command-line flags, the config file (/root/.restx.yaml unless
--config names another), RESTX_* environment variables, and built-in
defaults.
*/
package cmd
