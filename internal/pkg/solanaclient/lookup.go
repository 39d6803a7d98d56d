package solanaclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"

	"github.com/stablehq/treasury/internal/pkg/squads"
)

// GetLookupTableAddresses fetches and decodes an on-chain address lookup
// table. A missing table is a fatal build error for the caller: the table
// must exist before the referencing transaction can be assembled.
func (c *Client) GetLookupTableAddresses(ctx context.Context, table solana.PublicKey) ([]solana.PublicKey, error) {
	info, err := c.rpc.GetAccountInfo(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lookup table %s: %w", table, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("lookup table %s does not exist", table)
	}

	state, err := addresslookuptable.DecodeAddressLookupTableState(info.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to decode lookup table %s: %w", table, err)
	}

	return state.Addresses, nil
}

// GetMultisigAccount fetches and decodes the multisig configuration
// account. A missing multisig is fatal: the organization's vault has not
// been initialized on-chain.
func (c *Client) GetMultisigAccount(ctx context.Context, multisigPda solana.PublicKey) (*squads.MultisigAccount, error) {
	info, err := c.rpc.GetAccountInfo(ctx, multisigPda)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch multisig account %s: %w", multisigPda, err)
	}
	if info == nil || info.Value == nil {
		return nil, fmt.Errorf("multisig account %s does not exist", multisigPda)
	}
	return squads.DecodeMultisigAccount(info.Value.Data.GetBinary())
}

// TokenAccountBalance reads the UI balance of a token account. A missing
// account yields a zero balance: vault token accounts are created lazily on
// first funding.
func (c *Client) TokenAccountBalance(ctx context.Context, account solana.PublicKey) (float64, error) {
	out, err := c.rpc.GetTokenAccountBalance(ctx, account, c.commitment)
	if err != nil {
		if isMissingAccountError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch token balance for %s: %w", account, err)
	}
	if out == nil || out.Value == nil || out.Value.UiAmount == nil {
		return 0, nil
	}
	return *out.Value.UiAmount, nil
}

func isMissingAccountError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "could not find account") || strings.Contains(msg, "Invalid param")
}
