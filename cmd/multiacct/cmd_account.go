package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/iov-one/quorum"
	multiacct "github.com/iov-one/quorum/cmd/multiacct/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/multiaccount"
	"github.com/iov-one/quorum/x/sigs"
)

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the identifier of an account derived from its signatories and threshold.
The signatories can be given in any order.
`)
		fl.PrintDefaults()
	}
	var (
		signatoriesFl = flAddresses(fl, "signatories", "Comma separated addresses of all signatories.")
		thresholdFl   = fl.Uint("threshold", 2, "Number of approvals required to execute a call.")
	)
	fl.Parse(args)

	s := multiaccount.Signatories(append([]quorum.Address(nil), *signatoriesFl...))
	sort.Slice(s, func(i, j int) bool { return s[i].Compare(s[j]) < 0 })
	acc := multiaccount.Account{Signatories: s, Threshold: uint32(*thresholdFl)}
	if err := acc.Validate(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(output, multiaccount.DeriveAccountID(s, uint16(*thresholdFl)))
	return err
}

func cmdRegister(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Register a multi-account of the signer and the other signatories. When
successful the account identifier is printed.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl   = fl.String("key", conf.KeyPath, "Path to the private key file the transaction is signed with.")
		encodeFl    = fl.Bool("encode", false, "Write the encoded message instead of submitting it.")
		idFl        = flAddress(fl, "id", "", "Account identifier. Derived from the signatories when not set.")
		othersFl    = flAddresses(fl, "others", "Comma separated, ascending addresses of the other signatories.")
		thresholdFl = fl.Uint("threshold", 2, "Number of approvals required to execute a call.")
	)
	fl.Parse(args)

	msg := &multiaccount.RegisterAccountMsg{
		ID:               *idFl,
		OtherSignatories: *othersFl,
		Threshold:        uint32(*thresholdFl),
	}
	res, err := submitOrEncode(conf, output, *keyPathFl, *encodeFl, msg)
	if err != nil || res == nil {
		return err
	}
	_, err = fmt.Fprintln(output, quorum.Address(res.Data))
	return err
}

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Propose a call of a multi-account or approve it if it is already pending. The
encoded call is read from the input unless the -call flag is given. The call
hash and the approval status are printed.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.KeyPath, "Path to the private key file the transaction is signed with.")
		encodeFl  = fl.Bool("encode", false, "Write the encoded message instead of submitting it.")
		accountFl = flAddress(fl, "account", "", "Multi-account executing the call.")
		callFl    = flHex(fl, "call", "Hex encoded call. Read from the input when not set.")
	)
	fl.Parse(args)

	call := *callFl
	if len(call) == 0 {
		raw, err := ioutil.ReadAll(input)
		if err != nil {
			return errors.Wrap(err, "cannot read call")
		}
		call = raw
	}
	msg := &multiaccount.ProposeCallMsg{AccountID: *accountFl, Call: call}
	res, err := submitOrEncode(conf, output, *keyPathFl, *encodeFl, msg)
	if err != nil || res == nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%X\n%s\n", res.Data, res.Log)
	return err
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Withdraw your approval of a pending call.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.KeyPath, "Path to the private key file the transaction is signed with.")
		encodeFl  = fl.Bool("encode", false, "Write the encoded message instead of submitting it.")
		accountFl = flAddress(fl, "account", "", "Multi-account of the pending call.")
		hashFl    = flHex(fl, "hash", "Hex encoded hash of the call.")
	)
	fl.Parse(args)

	msg := &multiaccount.CancelApprovalMsg{AccountID: *accountFl, CallHash: *hashFl}
	res, err := submitOrEncode(conf, output, *keyPathFl, *encodeFl, msg)
	if err != nil || res == nil {
		return err
	}
	_, err = fmt.Fprintln(output, res.Log)
	return err
}

func cmdConfigure(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Update the multiaccount configuration. Only the fields given are changed. The
transaction must be signed by the configuration owner.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.KeyPath, "Path to the private key file the transaction is signed with.")
		encodeFl  = fl.Bool("encode", false, "Write the encoded message instead of submitting it.")
		ownerFl   = flAddress(fl, "owner", "", "New owner of the configuration.")
		maxFl     = fl.Uint("max_signatories", 0, "Maximum number of signatories of an account.")
	)
	fl.Parse(args)

	msg := &multiaccount.UpdateConfigurationMsg{
		Patch: &multiaccount.Configuration{
			Owner:          *ownerFl,
			MaxSignatories: uint32(*maxFl),
		},
	}
	res, err := submitOrEncode(conf, output, *keyPathFl, *encodeFl, msg)
	if err != nil || res == nil {
		return err
	}
	_, err = fmt.Fprintln(output, "configuration updated")
	return err
}

// submitOrEncode writes the encoded message to the output when encode is
// set. Otherwise the message is signed and executed and the result is
// returned.
func submitOrEncode(conf Config, output io.Writer, keyPath string, encode bool, msg quorum.Msg) (*deliverResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	if encode {
		raw, err := multiacct.Codec().EncodeMsg(msg)
		if err != nil {
			return nil, err
		}
		_, err = output.Write(raw)
		return nil, err
	}

	key, err := readKey(keyPath)
	if err != nil {
		return nil, err
	}
	l, err := openLedger(conf, os.Stderr)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	res, err := l.Submit(key, msg)
	if err != nil {
		return nil, err
	}
	return &deliverResult{Data: res.Data, Log: res.Log}, nil
}

type deliverResult struct {
	Data []byte
	Log  string
}

func cmdAccount(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the signatories and the threshold of a multi-account, and the address
its approved calls are executed as. Use that address to make the account a
signatory of another one.
`)
		fl.PrintDefaults()
	}
	var (
		idFl = flAddress(fl, "id", "", "Account identifier.")
	)
	fl.Parse(args)

	l, err := openLedger(conf, ioutil.Discard)
	if err != nil {
		return err
	}
	defer l.Close()

	acc, err := multiaccount.NewRegistry(nil).Account(l.State(), *idFl)
	if err != nil {
		return err
	}
	return printJSON(output, struct {
		Address     quorum.Address   `json:"address"`
		Signatories []quorum.Address `json:"signatories"`
		Threshold   uint32           `json:"threshold"`
	}{multiaccount.AccountCondition(*idFl).Address(), acc.Signatories, acc.Threshold})
}

func cmdAccounts(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List identifiers of all multi-accounts the address is a signatory of. When no
address is given, the address of the private key is used.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl   = fl.String("key", conf.KeyPath, "Path to the private key file.")
		signatoryFl = flAddress(fl, "signatory", "", "Address of the signatory.")
	)
	fl.Parse(args)

	addr := *signatoryFl
	if len(addr) == 0 {
		key, err := readKey(*keyPathFl)
		if err != nil {
			return err
		}
		addr = key.Address()
	}

	l, err := openLedger(conf, ioutil.Discard)
	if err != nil {
		return err
	}
	defer l.Close()

	ids, err := multiaccount.NewRegistry(nil).AccountsOf(l.State(), addr)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(output, id); err != nil {
			return err
		}
	}
	return nil
}

func cmdPending(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List calls of a multi-account waiting for approvals.
`)
		fl.PrintDefaults()
	}
	var (
		accountFl = flAddress(fl, "account", "", "Multi-account identifier.")
	)
	fl.Parse(args)

	l, err := openLedger(conf, ioutil.Discard)
	if err != nil {
		return err
	}
	defer l.Close()

	calls, err := multiaccount.NewApprovalBucket().Pending(l.State(), *accountFl)
	if err != nil {
		return err
	}
	type pendingCall struct {
		Hash      string           `json:"hash"`
		Approvals []quorum.Address `json:"approvals"`
	}
	res := make([]pendingCall, 0, len(calls))
	for _, c := range calls {
		res = append(res, pendingCall{Hash: c.Hash.String(), Approvals: c.Approvals})
	}
	return printJSON(output, res)
}

func cmdExecuted(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the account and the height a call was executed at.
`)
		fl.PrintDefaults()
	}
	var (
		hashFl = flHex(fl, "hash", "Hex encoded hash of the call.")
	)
	fl.Parse(args)

	hash, err := multiaccount.ParseCallHash(*hashFl)
	if err != nil {
		return err
	}

	l, err := openLedger(conf, ioutil.Discard)
	if err != nil {
		return err
	}
	defer l.Close()

	e, err := multiaccount.NewExecutedBucket().GetExecuted(l.State(), hash)
	if err != nil {
		return err
	}
	if e == nil {
		return errors.Wrapf(errors.ErrNotFound, "call %s not executed", hash)
	}
	return printJSON(output, struct {
		Account quorum.Address `json:"account"`
		Height  int64          `json:"height"`
	}{e.Account, e.Height})
}

func cmdSequence(input io.Reader, output io.Writer, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the sequence the next transaction signed with the key must use.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", conf.KeyPath, "Path to the private key file.")
	)
	fl.Parse(args)

	key, err := readKey(*keyPathFl)
	if err != nil {
		return err
	}
	l, err := openLedger(conf, ioutil.Discard)
	if err != nil {
		return err
	}
	defer l.Close()

	seq, err := sigs.NextSequence(l.State(), key.Public)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, seq)
	return err
}

func printJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
