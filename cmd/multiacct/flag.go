package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *quorum.Address {
	var a flagAddress
	if defaultVal != "" {
		if err := a.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return (*quorum.Address)(&a)
}

type flagAddress quorum.Address

func (a flagAddress) String() string {
	if len(a) == 0 {
		return ""
	}
	return quorum.Address(a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := quorum.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}

// flAddresses declares a flag accepting a comma separated list of
// addresses.
func flAddresses(fl *flag.FlagSet, name, usage string) *[]quorum.Address {
	var l flagAddresses
	fl.Var(&l, name, usage)
	return (*[]quorum.Address)(&l)
}

type flagAddresses []quorum.Address

func (l flagAddresses) String() string {
	enc := make([]string, len(l))
	for i, a := range l {
		enc[i] = a.String()
	}
	return strings.Join(enc, ",")
}

func (l *flagAddresses) Set(raw string) error {
	var res []quorum.Address
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		a, err := quorum.ParseAddress(s)
		if err != nil {
			return errors.Wrapf(err, "address %q", s)
		}
		res = append(res, a)
	}
	*l = res
	return nil
}

// flHex declares a flag holding hex encoded binary data.
func flHex(fl *flag.FlagSet, name, usage string) *[]byte {
	var b flagbyte
	fl.Var(&b, name, usage)
	return (*[]byte)(&b)
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}
