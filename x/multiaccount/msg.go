package multiaccount

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
)

const (
	pathRegisterAccountMsg     = "multiaccount/register"
	pathProposeCallMsg         = "multiaccount/propose"
	pathCancelApprovalMsg      = "multiaccount/cancel"
	pathUpdateConfigurationMsg = "multiaccount/update_configuration"
)

// RegisterAccountMsg registers an account controlled by the sender and the
// other signatories. When ID is empty the identifier is derived from the
// signatories and the threshold.
type RegisterAccountMsg struct {
	ID quorum.Address
	// OtherSignatories must be strictly ascending and must not contain
	// the sender.
	OtherSignatories []quorum.Address
	Threshold        uint32
}

var _ quorum.Msg = (*RegisterAccountMsg)(nil)

func (RegisterAccountMsg) Path() string {
	return pathRegisterAccountMsg
}

func (m *RegisterAccountMsg) Validate() error {
	if len(m.ID) != 0 {
		if err := m.ID.Validate(); err != nil {
			return errors.Field("ID", err, "invalid account id")
		}
	}
	if m.Threshold < 2 {
		return errors.Wrapf(ErrMinimumThreshold, "got %d", m.Threshold)
	}
	if m.Threshold > math.MaxUint16 {
		return errors.Field("Threshold", errors.ErrInput, "does not fit 16 bits")
	}
	// The sender completes the set.
	if int(m.Threshold) > len(m.OtherSignatories)+1 {
		return errors.Wrapf(ErrTooFewSignatories, "threshold %d with %d signatories", m.Threshold, len(m.OtherSignatories)+1)
	}
	for i, a := range m.OtherSignatories {
		if err := a.Validate(); err != nil {
			return errors.Field("OtherSignatories", err, "signatory %d", i)
		}
	}
	return nil
}

func (m *RegisterAccountMsg) Marshal() ([]byte, error) {
	return proto.Marshal(&registerAccountMsgPB{
		ID:               m.ID,
		OtherSignatories: rawAddresses(m.OtherSignatories),
		Threshold:        m.Threshold,
	})
}

func (m *RegisterAccountMsg) Unmarshal(raw []byte) error {
	var pb registerAccountMsgPB
	if err := proto.Unmarshal(raw, &pb); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*m = RegisterAccountMsg{
		ID:               pb.ID,
		OtherSignatories: addresses(pb.OtherSignatories),
		Threshold:        pb.Threshold,
	}
	return nil
}

// ProposeCallMsg proposes a call of the account, or approves it when it
// is already pending.
type ProposeCallMsg struct {
	AccountID quorum.Address
	// Call is the serialized message executed on behalf of the account.
	Call []byte
}

var _ quorum.Msg = (*ProposeCallMsg)(nil)

func (ProposeCallMsg) Path() string {
	return pathProposeCallMsg
}

func (m *ProposeCallMsg) Validate() error {
	if err := m.AccountID.Validate(); err != nil {
		return errors.Field("AccountID", err, "invalid account id")
	}
	if len(m.Call) == 0 {
		return errors.Field("Call", errors.ErrEmpty, "call is required")
	}
	return nil
}

func (m *ProposeCallMsg) Marshal() ([]byte, error) {
	return proto.Marshal(&proposeCallMsgPB{AccountID: m.AccountID, Call: m.Call})
}

func (m *ProposeCallMsg) Unmarshal(raw []byte) error {
	var pb proposeCallMsgPB
	if err := proto.Unmarshal(raw, &pb); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*m = ProposeCallMsg{AccountID: pb.AccountID, Call: pb.Call}
	return nil
}

// CancelApprovalMsg withdraws the sender's approval of a pending call.
type CancelApprovalMsg struct {
	AccountID quorum.Address
	CallHash  []byte
}

var _ quorum.Msg = (*CancelApprovalMsg)(nil)

func (CancelApprovalMsg) Path() string {
	return pathCancelApprovalMsg
}

func (m *CancelApprovalMsg) Validate() error {
	if err := m.AccountID.Validate(); err != nil {
		return errors.Field("AccountID", err, "invalid account id")
	}
	if _, err := ParseCallHash(m.CallHash); err != nil {
		return errors.Field("CallHash", err, "invalid call hash")
	}
	return nil
}

func (m *CancelApprovalMsg) Marshal() ([]byte, error) {
	return proto.Marshal(&cancelApprovalMsgPB{AccountID: m.AccountID, CallHash: m.CallHash})
}

func (m *CancelApprovalMsg) Unmarshal(raw []byte) error {
	var pb cancelApprovalMsgPB
	if err := proto.Unmarshal(raw, &pb); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*m = CancelApprovalMsg{AccountID: pb.AccountID, CallHash: pb.CallHash}
	return nil
}

// UpdateConfigurationMsg changes the non zero fields of the configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ gconf.PatchMsg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) GetPatch() gconf.OwnedConfig {
	if m.Patch == nil {
		return nil
	}
	return m.Patch
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch is required")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Field("Patch", err, "invalid owner")
		}
	}
	if m.Patch.MaxSignatories == 1 {
		return errors.Field("Patch", errors.ErrInput, "must allow at least two signatories")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	var pb updateConfigurationMsgPB
	if m.Patch != nil {
		pb.Patch = new(configurationPB).fromModel(m.Patch)
	}
	return proto.Marshal(&pb)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	var pb updateConfigurationMsgPB
	if err := proto.Unmarshal(raw, &pb); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*m = UpdateConfigurationMsg{}
	if pb.Patch != nil {
		m.Patch = pb.Patch.toModel()
	}
	return nil
}
