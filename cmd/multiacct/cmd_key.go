package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.KeyPath,
			"Path to the private key file. You can use MULTIACCT_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Do not allow to overwrite already existing private key. User
		// must manually delete it first.
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	key, err := crypto.GenKeyPair()
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(err, "cannot create private key file")
	}
	defer fd.Close()

	if _, err := fd.Write(key.Private); err != nil {
		return errors.Wrap(err, "cannot write private key")
	}
	if err := fd.Close(); err != nil {
		return errors.Wrap(err, "cannot close private key file")
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.KeyPath,
			"Path to the private key file. You can use MULTIACCT_PRIV_KEY environment variable to set it.")
		bechFl = fl.Bool("bech32", false, "Print the bech32 representation.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	if *bechFl {
		enc, err := key.Address().Bech32String()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, enc)
		return err
	}
	_, err = fmt.Fprintln(output, key.Address())
	return err
}

// readKey loads the private key written by keygen.
func readKey(path string) (*crypto.KeyPair, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read private key file")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(raw))
	}
	key, err := crypto.KeyPairFromSeed(raw[:ed25519.SeedSize])
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(key.Public, raw[ed25519.SeedSize:]) {
		return nil, errors.Wrap(errors.ErrInput, "corrupted private key file")
	}
	return key, nil
}
