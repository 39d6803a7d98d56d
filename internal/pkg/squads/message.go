package squads

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// VaultTransactionMessage is the multisig program's stored transaction
// message. Account ordering is positional: writable signers first, then
// readonly signers, then writable non-signers, then readonly non-signers.
type VaultTransactionMessage struct {
	NumSigners            uint8
	NumWritableSigners    uint8
	NumWritableNonSigners uint8
	AccountKeys           []solana.PublicKey
	Instructions          []CompiledInstruction
	AddressTableLookups   []AddressTableLookup
}

// CompiledInstruction is one instruction inside a vault transaction
type CompiledInstruction struct {
	ProgramIDIndex uint8
	AccountIndexes []uint8
	Data           []byte
}

// AddressTableLookup references accounts loaded from an on-chain address
// lookup table by index
type AddressTableLookup struct {
	AccountKey      solana.PublicKey
	WritableIndexes []uint8
	ReadonlyIndexes []uint8
}

// DecodeVaultTransactionMessage borsh-decodes a stored message
func DecodeVaultTransactionMessage(data []byte) (*VaultTransactionMessage, error) {
	var msg VaultTransactionMessage
	if err := bin.NewBorshDecoder(data).Decode(&msg); err != nil {
		return nil, fmt.Errorf("failed to decode vault transaction message: %w", err)
	}
	return &msg, nil
}

// IsSignerIndex reports whether the account at index signs the message
func (m *VaultTransactionMessage) IsSignerIndex(index int) bool {
	return index < int(m.NumSigners)
}

// IsWritableIndex reports whether the account at index is writable. Writable
// accounts occupy the writable-signer prefix and the writable-non-signer
// range immediately after the signers.
func (m *VaultTransactionMessage) IsWritableIndex(index int) bool {
	if index < int(m.NumWritableSigners) {
		return true
	}
	if index >= int(m.NumSigners) && index < int(m.NumSigners)+int(m.NumWritableNonSigners) {
		return true
	}
	return false
}
