package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/quorum/errors"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd creates the tendermint validator key and genesis file in home,
// unless they exist, and sets the app_state of the genesis to the options
// produced by gen.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	config := cfg.DefaultConfig().SetRoot(home)
	if err := initTendermintFiles(config, logger); err != nil {
		return err
	}

	// no app_state, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(config.GenesisFile(), options)
}

func initTendermintFiles(config *cfg.Config, logger log.Logger) error {
	keyFile := config.PrivValidatorKeyFile()
	stateFile := config.PrivValidatorStateFile()
	for _, f := range []string{keyFile, stateFile, config.GenesisFile()} {
		if err := cmn.EnsureDir(filepath.Dir(f), 0700); err != nil {
			return errors.Wrap(err, "cannot create config directory")
		}
	}

	var pv *privval.FilePV
	if cmn.FileExists(keyFile) {
		pv = privval.LoadFilePV(keyFile, stateFile)
		logger.Info("Found private validator", "path", keyFile)
	} else {
		pv = privval.GenFilePV(keyFile, stateFile)
		pv.Save()
		logger.Info("Generated private validator", "path", keyFile)
	}

	genFile := config.GenesisFile()
	if cmn.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}
	genDoc := tmtypes.GenesisDoc{
		ChainID:         fmt.Sprintf("test-chain-%v", cmn.RandStr(6)),
		GenesisTime:     tmtime.Now(),
		ConsensusParams: tmtypes.DefaultConsensusParams(),
	}
	key := pv.GetPubKey()
	genDoc.Validators = []tmtypes.GenesisValidator{{
		Address: key.Address(),
		PubKey:  key,
		Power:   10,
	}}
	if err := genDoc.SaveAs(genFile); err != nil {
		return errors.Wrap(err, "cannot save genesis")
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
