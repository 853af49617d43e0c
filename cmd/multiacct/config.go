package main

import (
	"io"

	"github.com/caarlos0/env/v6"
	"github.com/iov-one/quorum/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is read from the environment. Command line flags take precedence
// where a command offers one.
type Config struct {
	// Home holds the tendermint configuration and the application
	// database.
	Home     string `env:"MULTIACCT_HOME" envDefault:"${HOME}/.multiacct" envExpand:"true"`
	KeyPath  string `env:"MULTIACCT_PRIV_KEY" envDefault:"${HOME}/.multiacct.priv.key" envExpand:"true"`
	LogLevel string `env:"MULTIACCT_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"MULTIACCT_DEBUG"`
}

func loadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, errors.Wrap(errors.ErrInput, err.Error())
	}
	return c, nil
}

// newLogger returns a logger writing to w that drops entries below the
// configured level.
func newLogger(c Config, w io.Writer) (log.Logger, error) {
	lvl, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(w)).With("module", "multiacct")
	return log.NewFilter(logger, lvl), nil
}
