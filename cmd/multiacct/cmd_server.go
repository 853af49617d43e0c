package main

import (
	"io"
	"os"

	multiacct "github.com/iov-one/quorum/cmd/multiacct/app"
	"github.com/iov-one/quorum/commands/server"
)

// cmdInit creates the tendermint files in the home directory and writes the
// application state to the genesis. Arguments are passed to the app state
// generator, for example -owner and -max_signatories.
func cmdInit(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(conf, output)
	if err != nil {
		return err
	}
	return server.InitCmd(multiacct.GenInitOptions, logger, conf.Home, args)
}

// cmdStart serves the application to a tendermint node over the ABCI
// socket. It blocks until the process is terminated.
func cmdStart(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(conf, os.Stderr)
	if err != nil {
		return err
	}
	if conf.Debug {
		args = append([]string{"-debug"}, args...)
	}
	return server.StartCmd(multiacct.GenerateApp, logger, conf.Home, args)
}

// cmdValidate checks that the app_state of every given genesis file
// initializes the application.
func cmdValidate(input io.Reader, output io.Writer, args []string) error {
	return server.ValidateGenesis(multiacct.Initializers(), args)
}
