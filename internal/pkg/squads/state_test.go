package squads

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAccount(t *testing.T, account *MultisigAccount) []byte {
	t.Helper()
	body, err := bin.MarshalBorsh(account)
	require.NoError(t, err)
	return append(make([]byte, accountDiscriminatorLen), body...)
}

func TestDecodeMultisigAccount_RoundTrip(t *testing.T) {
	proposer := solana.NewWallet().PublicKey()
	voter := solana.NewWallet().PublicKey()
	rent := solana.NewWallet().PublicKey()
	account := &MultisigAccount{
		CreateKey:             solana.NewWallet().PublicKey(),
		ConfigAuthority:       solana.PublicKey{},
		Threshold:             2,
		TimeLock:              0,
		TransactionIndex:      17,
		StaleTransactionIndex: 3,
		RentCollector:         &rent,
		Bump:                  254,
		Members: []Member{
			{Key: proposer, Permissions: PermissionPropose},
			{Key: voter, Permissions: PermissionFull},
		},
	}

	decoded, err := DecodeMultisigAccount(encodeAccount(t, account))

	require.NoError(t, err)
	assert.Equal(t, account.CreateKey, decoded.CreateKey)
	assert.Equal(t, uint16(2), decoded.Threshold)
	assert.Equal(t, uint64(17), decoded.TransactionIndex)
	require.NotNil(t, decoded.RentCollector)
	assert.Equal(t, rent, *decoded.RentCollector)
	require.Len(t, decoded.Members, 2)
	assert.Equal(t, proposer, decoded.Members[0].Key)
}

func TestDecodeMultisigAccount_NoRentCollector(t *testing.T) {
	account := &MultisigAccount{
		CreateKey: solana.NewWallet().PublicKey(),
		Threshold: 1,
		Members:   []Member{{Key: solana.NewWallet().PublicKey(), Permissions: PermissionFull}},
	}

	decoded, err := DecodeMultisigAccount(encodeAccount(t, account))

	require.NoError(t, err)
	assert.Nil(t, decoded.RentCollector)
}

func TestDecodeMultisigAccount_TooShort(t *testing.T) {
	_, err := DecodeMultisigAccount(make([]byte, accountDiscriminatorLen))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestHasMember(t *testing.T) {
	proposer := solana.NewWallet().PublicKey()
	executor := solana.NewWallet().PublicKey()
	account := &MultisigAccount{Members: []Member{
		{Key: proposer, Permissions: PermissionPropose},
		{Key: executor, Permissions: PermissionExecute},
	}}

	assert.True(t, account.HasMember(proposer, PermissionPropose))
	assert.False(t, account.HasMember(proposer, PermissionVote))
	assert.True(t, account.HasMember(executor, PermissionExecute))
	assert.False(t, account.HasMember(solana.NewWallet().PublicKey(), PermissionPropose))
}

func TestDecodeVaultTransactionMessage_RoundTrip(t *testing.T) {
	table := solana.NewWallet().PublicKey()
	msg := &VaultTransactionMessage{
		NumSigners:            2,
		NumWritableSigners:    1,
		NumWritableNonSigners: 1,
		AccountKeys: []solana.PublicKey{
			solana.NewWallet().PublicKey(),
			solana.NewWallet().PublicKey(),
			solana.NewWallet().PublicKey(),
		},
		Instructions: []CompiledInstruction{
			{ProgramIDIndex: 2, AccountIndexes: []uint8{0, 1}, Data: []byte{9, 9}},
		},
		AddressTableLookups: []AddressTableLookup{
			{AccountKey: table, WritableIndexes: []uint8{0}, ReadonlyIndexes: []uint8{1, 2}},
		},
	}
	raw, err := bin.MarshalBorsh(msg)
	require.NoError(t, err)

	decoded, err := DecodeVaultTransactionMessage(raw)

	require.NoError(t, err)
	assert.Equal(t, msg.AccountKeys, decoded.AccountKeys)
	require.Len(t, decoded.Instructions, 1)
	assert.Equal(t, uint8(2), decoded.Instructions[0].ProgramIDIndex)
	require.Len(t, decoded.AddressTableLookups, 1)
	assert.Equal(t, table, decoded.AddressTableLookups[0].AccountKey)
}
