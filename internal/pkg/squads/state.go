package squads

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Member is a multisig member and its permission mask
type Member struct {
	Key         solana.PublicKey
	Permissions uint8
}

// Permission bits
const (
	PermissionPropose uint8 = 1 << 0
	PermissionVote    uint8 = 1 << 1
	PermissionExecute uint8 = 1 << 2
	PermissionFull          = PermissionPropose | PermissionVote | PermissionExecute
)

// MultisigAccount is the decoded on-chain multisig configuration account
type MultisigAccount struct {
	CreateKey             solana.PublicKey
	ConfigAuthority       solana.PublicKey
	Threshold             uint16
	TimeLock              uint32
	TransactionIndex      uint64
	StaleTransactionIndex uint64
	RentCollector         *solana.PublicKey `bin:"optional"`
	Bump                  uint8
	Members               []Member
}

// accountDiscriminatorLen is the Anchor account discriminator prefix
const accountDiscriminatorLen = 8

// DecodeMultisigAccount decodes the multisig configuration account data
func DecodeMultisigAccount(data []byte) (*MultisigAccount, error) {
	if len(data) <= accountDiscriminatorLen {
		return nil, fmt.Errorf("multisig account data too short: %d bytes", len(data))
	}

	var account MultisigAccount
	if err := bin.NewBorshDecoder(data[accountDiscriminatorLen:]).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode multisig account: %w", err)
	}
	return &account, nil
}

// HasMember reports whether the key is a member with the given permission
func (m *MultisigAccount) HasMember(key solana.PublicKey, permission uint8) bool {
	for _, member := range m.Members {
		if member.Key.Equals(key) {
			return member.Permissions&permission != 0
		}
	}
	return false
}
