package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kailas-cloud/dataapi"
	"github.com/kailas-cloud/dataapi/internal/config"
	"github.com/kailas-cloud/dataapi/internal/version"
)

// withDatabase loads the client config, builds a namespace-bound database
// handle and passes it to fn.
func withDatabase(g *globalFlags, fn func(*dataapi.Database) error) error {
	cfg, err := loadClientConfig(g.configPath)
	if err != nil {
		return err
	}

	ns := cfg.Client.Namespace
	if g.namespace != "" {
		ns = g.namespace
	}

	caller := "dataapi-cli"
	if cfg.Client.Caller != "" {
		caller = cfg.Client.Caller
	}

	opts := []dataapi.Option{
		dataapi.WithNamespace(ns),
		dataapi.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Client.TimeoutSec) * time.Second}),
		dataapi.WithCaller(caller, version.Version),
	}
	if cfg.Client.APIPath != "" {
		opts = append(opts, dataapi.WithAPIPath(cfg.Client.APIPath))
	}

	client, err := dataapi.New(cfg.Client.Endpoint, cfg.Client.Token, opts...)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	return fn(client.Database())
}

func loadClientConfig(path string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(config.GetEnv())
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateClient(); err != nil {
		return config.Config{}, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}
