// Copyright (c) 2025-present deep.rent GmbH (https://www.deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/deep-rent/courier/internal/client"
	"github.com/deep-rent/courier/internal/config"
	"github.com/deep-rent/courier/internal/intercept"
	"github.com/deep-rent/courier/internal/logger"
	"github.com/deep-rent/courier/internal/probe"
	"github.com/deep-rent/courier/internal/stamper"
	"github.com/deep-rent/nexus/app"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// flags holds command line overrides. Empty values leave the loaded
// configuration untouched.
type flags struct {
	config   string
	baseURL  string
	path     string
	logLevel string
	debug    bool
}

func newCommand() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "courier",
		Short:        "Call the API gateway with the client headers attached",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, cfg); err != nil {
				return err
			}

			log := logger.New(cfg.Level())
			runnable := func(ctx context.Context) error {
				return run(ctx, cfg, log, cmd.OutOrStdout())
			}
			if err := app.Run(runnable, app.WithLogger(log)); err != nil {
				log.Error("Application failed", "error", err)
				return err
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "path to a YAML configuration file")
	fs.StringVar(&f.baseURL, "base-url", "", "gateway base URL (overrides COURIER_BASE_URL)")
	fs.StringVar(&f.path, "path", "", "endpoint path resolved against the base URL")
	fs.StringVarP(&f.logLevel, "log-level", "L", "", "log level (debug, info, warn, error, silent)")
	fs.BoolVar(&f.debug, "debug", false, "log every HTTP exchange at debug level")

	return cmd
}

// apply overlays explicitly set flags onto cfg and revalidates it.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if fs.Changed("path") {
		cfg.Path = f.path
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("debug") {
		cfg.Debug = f.debug
	}
	return errors.WithMessage(cfg.Validate(), "invalid flags")
}

// run performs a single probe call and writes its report to out.
func run(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	out io.Writer,
) error {
	base, err := cfg.URL()
	if err != nil {
		return err
	}

	cli := client.New(&client.Config{
		ConnectTimeout: cfg.Connect(),
		ReadTimeout:    cfg.Read(),
		WriteTimeout:   cfg.Write(),
		Interceptors: []intercept.Interceptor{
			stamper.New(),
		},
		Debug:  cfg.Debug,
		Logger: log,
	})

	p := probe.New(&probe.Config{
		BaseURL: base,
		Path:    cfg.Path,
		Client:  cli,
		Logger:  log,
	})

	rep, callErr := p.Call(ctx)
	if _, err := rep.WriteTo(out); err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	return errors.WithMessage(callErr, "probe failed")
}
