package solanaclient

import (
	"context"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/stablehq/treasury/internal/pkg/logger"
)

// SubmitResult reports a submitted transaction and its observed status.
// Status is nil when confirmation did not land inside the bound; the
// transaction is then pending, not failed.
type SubmitResult struct {
	Signature solana.Signature
	Status    *rpc.SignatureStatusesResult
}

// DeserializeTransaction decodes wire bytes into a transaction
func DeserializeTransaction(raw []byte) (*solana.Transaction, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return tx, nil
}

// SubmitSigned submits an already-signed transaction and waits for
// confirmation. When direct submission fails on a transaction-format
// mismatch, the transaction is re-encoded and submitted through the raw
// path before giving up.
func (c *Client) SubmitSigned(ctx context.Context, tx *solana.Transaction) (*SubmitResult, error) {
	opts := rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.commitment,
	}

	var sig solana.Signature
	err := c.retrier.Execute(ctx, func(ctx context.Context) error {
		var sendErr error
		sig, sendErr = c.rpc.SendTransactionWithOpts(ctx, tx, opts)
		return sendErr
	})
	if err != nil {
		if !isEncodingError(err) {
			return nil, fmt.Errorf("transaction submission failed: %w", err)
		}

		c.logger.Warn("Direct submission failed on transaction format, retrying via raw path",
			logger.Err(err))

		raw, mErr := tx.MarshalBinary()
		if mErr != nil {
			return nil, fmt.Errorf("failed to re-encode transaction: %w", mErr)
		}
		err = c.retrier.Execute(ctx, func(ctx context.Context) error {
			var sendErr error
			sig, sendErr = c.rpc.SendRawTransactionWithOpts(ctx, raw, opts)
			return sendErr
		})
		if err != nil {
			return nil, fmt.Errorf("raw transaction submission failed: %w", err)
		}
	}

	c.logger.Info("Transaction submitted",
		logger.String("signature", sig.String()))

	status, err := c.ConfirmWithRetry(ctx, sig, c.commitment, 0, 0)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{Signature: sig, Status: status}, nil
}

// isEncodingError classifies submission failures caused by transaction
// format incompatibilities (versioned vs legacy encoding)
func isEncodingError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unsupported transaction version") ||
		strings.Contains(msg, "failed to deserialize") ||
		strings.Contains(msg, "invalid transaction format") ||
		strings.Contains(msg, "invalid base64")
}

// VerifySignatures checks that every required signature on the transaction
// is present and valid for the message
func VerifySignatures(tx *solana.Transaction) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	signers := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < signers {
		return fmt.Errorf("transaction has %d of %d required signatures", len(tx.Signatures), signers)
	}

	for i := 0; i < signers; i++ {
		if tx.Signatures[i].IsZero() {
			return fmt.Errorf("missing signature for signer %d", i)
		}
		if !tx.Signatures[i].Verify(tx.Message.AccountKeys[i], msg) {
			return fmt.Errorf("invalid signature for signer %s", tx.Message.AccountKeys[i])
		}
	}
	return nil
}
