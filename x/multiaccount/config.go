package multiaccount

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
)

const packageName = "multiaccount"

// Configuration is stored under the multiaccount package key. It is created
// from the genesis and updated by its owner.
type Configuration struct {
	Owner          quorum.Address `json:"owner"`
	MaxSignatories uint32         `json:"max_signatories"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() quorum.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal(new(configurationPB).fromModel(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	var m configurationPB
	if err := proto.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = *m.toModel()
	return nil
}

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	if c.MaxSignatories < 2 {
		return errors.Field("MaxSignatories", errors.ErrInput, "must allow at least two signatories")
	}
	return nil
}

// loadConf returns the stored configuration, or the defaults when the
// genesis did not provide one.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var c Configuration
	switch err := gconf.Load(db, packageName, &c); {
	case err == nil:
		return &c, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{MaxSignatories: DefaultMaxSignatories}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
