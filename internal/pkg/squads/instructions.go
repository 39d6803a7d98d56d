package squads

import (
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// anchorDiscriminator computes the 8-byte Anchor instruction discriminator
func anchorDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("global:" + name))
	return sum[:8]
}

var (
	discVaultTransactionCreate  = anchorDiscriminator("vault_transaction_create")
	discVaultTransactionExecute = anchorDiscriminator("vault_transaction_execute")
	discProposalCreate          = anchorDiscriminator("proposal_create")
	discProposalApprove         = anchorDiscriminator("proposal_approve")
)

// vaultTransactionCreateArgs are the borsh-encoded args for creating a
// vault transaction
type vaultTransactionCreateArgs struct {
	VaultIndex         uint8
	EphemeralSigners   uint8
	TransactionMessage []byte
	Memo               *string `bin:"optional"`
}

type proposalCreateArgs struct {
	TransactionIndex uint64
	Draft            bool
}

type proposalApproveArgs struct {
	Memo *string `bin:"optional"`
}

func encodeArgs(discriminator []byte, args interface{}) ([]byte, error) {
	body, err := bin.MarshalBorsh(args)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, discriminator...), body...), nil
}

// BuildVaultTransactionCreateInstruction builds the instruction that stores
// a transaction message under the multisig for later approval and execution
func BuildVaultTransactionCreateInstruction(
	multisigPda solana.PublicKey,
	transactionIndex uint64,
	creator solana.PublicKey,
	feePayer solana.PublicKey,
	ephemeralSigners uint8,
	transactionMessage []byte,
) (solana.Instruction, error) {
	transactionPda, err := DeriveTransactionPDA(multisigPda, transactionIndex)
	if err != nil {
		return nil, err
	}

	data, err := encodeArgs(discVaultTransactionCreate, vaultTransactionCreateArgs{
		VaultIndex:         DefaultVaultIndex,
		EphemeralSigners:   ephemeralSigners,
		TransactionMessage: transactionMessage,
	})
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(multisigPda).WRITE(),
		solana.Meta(transactionPda).WRITE(),
		solana.Meta(creator).SIGNER(),
		solana.Meta(feePayer).SIGNER().WRITE(),
		solana.Meta(solana.SystemProgramID),
	}

	return solana.NewInstruction(DefaultProgramID, accounts, data), nil
}

// BuildProposalCreateInstruction builds the instruction that opens voting on
// a stored vault transaction
func BuildProposalCreateInstruction(
	multisigPda solana.PublicKey,
	transactionIndex uint64,
	creator solana.PublicKey,
	feePayer solana.PublicKey,
) (solana.Instruction, error) {
	transactionPda, err := DeriveTransactionPDA(multisigPda, transactionIndex)
	if err != nil {
		return nil, err
	}
	proposalPda, err := DeriveProposalPDA(transactionPda)
	if err != nil {
		return nil, err
	}

	data, err := encodeArgs(discProposalCreate, proposalCreateArgs{
		TransactionIndex: transactionIndex,
	})
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(multisigPda),
		solana.Meta(proposalPda).WRITE(),
		solana.Meta(creator).SIGNER(),
		solana.Meta(feePayer).SIGNER().WRITE(),
		solana.Meta(solana.SystemProgramID),
	}

	return solana.NewInstruction(DefaultProgramID, accounts, data), nil
}

// BuildProposalApproveInstruction builds a member's approval vote
func BuildProposalApproveInstruction(
	multisigPda solana.PublicKey,
	transactionIndex uint64,
	member solana.PublicKey,
) (solana.Instruction, error) {
	transactionPda, err := DeriveTransactionPDA(multisigPda, transactionIndex)
	if err != nil {
		return nil, err
	}
	proposalPda, err := DeriveProposalPDA(transactionPda)
	if err != nil {
		return nil, err
	}

	data, err := encodeArgs(discProposalApprove, proposalApproveArgs{})
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(multisigPda),
		solana.Meta(member).SIGNER(),
		solana.Meta(proposalPda).WRITE(),
	}

	return solana.NewInstruction(DefaultProgramID, accounts, data), nil
}

// BuildExecuteInstruction builds the final execute instruction for an
// approved vault transaction. Idempotent: identical inputs always produce
// an identical instruction.
func BuildExecuteInstruction(
	multisigPda solana.PublicKey,
	transactionIndex uint64,
	member solana.PublicKey,
	executionAccounts *ExecutionAccounts,
) (solana.Instruction, error) {
	transactionPda, err := DeriveTransactionPDA(multisigPda, transactionIndex)
	if err != nil {
		return nil, err
	}
	proposalPda, err := DeriveProposalPDA(transactionPda)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(multisigPda),
		solana.Meta(proposalPda).WRITE(),
		solana.Meta(transactionPda),
		solana.Meta(member).SIGNER(),
	}
	accounts = append(accounts, executionAccounts.Metas...)

	data := append([]byte{}, discVaultTransactionExecute...)
	return solana.NewInstruction(DefaultProgramID, accounts, data), nil
}
