package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kunall-01/crowdspark-frontend/internal/adapters/httpbackend"
	"github.com/kunall-01/crowdspark-frontend/internal/adapters/wspush"
	"github.com/kunall-01/crowdspark-frontend/internal/app/client"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/config"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/logging"
)

// readyTimeout bounds the startup session check.
const readyTimeout = 15 * time.Second

// runtime is one started client plus the resources it owns.
type runtime struct {
	app  *client.App
	api  *httpbackend.Client
	push *wspush.Client
	log  logr.Logger
	zl   *zap.Logger
}

func (r *runtime) Close() {
	r.app.Stop()
	_ = r.push.Close()
	_ = r.zl.Sync()
}

// start loads configuration, connects, waits for the session check and logs in when asked.
func start(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log, zl := logging.New(cfg.LogLevel)

	api, err := httpbackend.New(cfg.BackendURL, httpbackend.Options{Log: log.WithName("backend")})
	if err != nil {
		return nil, err
	}
	wsURL, origin, err := wspush.Endpoints(api.BaseURL(), cfg.PushPath)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	push, err := wspush.Connect(ctx, wspush.Options{
		URL:     wsURL,
		Origin:  origin,
		Cookies: api.Cookies,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	app := client.New(client.Deps{Backend: api, Push: push, Log: log})
	rt := &runtime{app: app, api: api, push: push, log: log, zl: zl}
	app.Start(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	if err := app.WaitReady(waitCtx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("session check: %w", err)
	}

	if opts.email != "" {
		res, err := app.Auth.Login(ctx, opts.email, opts.password)
		if err != nil {
			rt.Close()
			return nil, err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	}
	return rt, nil
}

func loadConfig(opts *rootOptions) (config.Client, error) {
	return config.LoadClient(map[string]string{
		"CROWDSPARK_BACKEND":   opts.backend,
		"CROWDSPARK_LOG_LEVEL": opts.logLevel,
	})
}
