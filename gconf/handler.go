package gconf

import (
	"reflect"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x"
)

// OwnedConfig must declare an owner. A configuration update message must be
// signed by the owner in order to be authorized to apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() quorum.Address
}

// PatchMsg is implemented by configuration update messages. The returned
// patch must be of the same type as the stored configuration.
type PatchMsg interface {
	quorum.Msg
	GetPatch() OwnedConfig
}

// UpdateConfigurationHandler applies a configuration patch, signed by the
// current configuration owner.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ quorum.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message. Only configurations created with the genesis
// can be updated, because the owner of a missing configuration is unknown.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if err := h.applyTx(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	if err := h.applyTx(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) error {
	switch err := Load(db, h.pkg, h.config); {
	case err == nil:
		owner := h.config.GetOwner()
		if owner == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration has no owner")
		}
		if !h.auth.HasAddress(ctx, owner) {
			return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
		}
	case errors.ErrNotFound.Is(err):
		return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
	default:
		return errors.Wrap(err, "load current configuration")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(h.config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(db, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies every non zero field of payload into config.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrMsg, "patch of type %T does not match %T", payload, config)
	}
	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

func patchPayload(tx quorum.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	pm, ok := msg.(PatchMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "not a configuration patch: %T", msg)
	}
	payload := pm.GetPatch()
	if payload == nil || reflect.ValueOf(payload).IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, "patch is required")
	}
	return payload, nil
}
