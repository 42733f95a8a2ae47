package voucher

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/providers/chain"
	"github.com/BrickVest/BrickVest-Backend/providers/kyc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/services/resilience"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store is the slice of the query layer the authority needs: nonce
// consumption and chain-nonce bookkeeping.
type Store interface {
	InsertConsumedNonce(ctx context.Context, arg db.InsertConsumedNonceParams) (db.ConsumedNonce, error)
	IncrementWalletAccountNonce(ctx context.Context, id uuid.UUID) (int64, error)
}

// VoucherService issues and validates signed redemption vouchers for
// off-platform withdrawals. Issued vouchers are stateless; replay
// protection lives entirely in the consumed_nonces table.
type VoucherService struct {
	key     *ecdsa.PrivateKey
	addr    common.Address
	ttl     time.Duration
	store   Store
	kyc     kyc.Verifier
	oracle  chain.Oracle
	breaker *resilience.Breaker
	retrier *resilience.Retrier
	logger  *logging.Logger
}

func NewVoucherService(
	config *utils.Config,
	store Store,
	verifier kyc.Verifier,
	oracle chain.Oracle,
	breaker *resilience.Breaker,
	retrier *resilience.Retrier,
	logger *logging.Logger,
) (*VoucherService, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(config.CustodialKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid custodial signing key: %w", err)
	}

	return &VoucherService{
		key:     key,
		addr:    crypto.PubkeyToAddress(key.PublicKey),
		ttl:     time.Duration(config.VoucherTTLHours) * time.Hour,
		store:   store,
		kyc:     verifier,
		oracle:  oracle,
		breaker: breaker,
		retrier: retrier,
		logger:  logger,
	}, nil
}

// AuthorityAddress is the address vouchers must recover to.
func (s *VoucherService) AuthorityAddress() string {
	return s.addr.Hex()
}

// Generate issues a signed voucher authorizing recipient to redeem
// amount of tokenAddress out of the account's custodial holdings.
// Nothing is persisted; the voucher only becomes load-bearing once
// Verify consumes its nonce.
func (s *VoucherService) Generate(ctx context.Context, account db.WalletAccount, recipient string, amount decimal.Decimal, tokenAddress string) (*Voucher, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if account.VerificationStatus != db.VerificationStatusVerified {
		verified, err := s.kyc.IsVerified(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check verification status: %w", err)
		}
		if !verified {
			return nil, ErrKycRequired
		}
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate voucher nonce: %w", err)
	}

	payload := Payload{
		SourceAddress: account.ChainAddress,
		Recipient:     recipient,
		Amount:        amount,
		TokenAddress:  tokenAddress,
		IssuedAt:      time.Now().Unix(),
		Nonce:         nonce,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize voucher payload: %w", err)
	}

	sig, err := crypto.Sign(crypto.Keccak256(raw), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign voucher: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"source":    payload.SourceAddress,
		"recipient": payload.Recipient,
		"amount":    payload.Amount,
	}).Info("voucher issued")

	return &Voucher{
		Payload:   raw,
		Signature: "0x" + hex.EncodeToString(sig),
	}, nil
}

// Verify validates v and, when it passes every check, consumes its
// nonce so the same voucher can never be redeemed twice. Checks run in
// a fixed order: shape, expiry, signature, replay.
func (s *VoucherService) Verify(ctx context.Context, v Voucher) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(v.Payload, &payload); err != nil {
		return nil, ErrMalformed
	}
	if payload.SourceAddress == "" || payload.Recipient == "" || payload.Nonce == "" ||
		payload.IssuedAt <= 0 || !payload.Amount.IsPositive() {
		return nil, ErrMalformed
	}

	if time.Since(time.Unix(payload.IssuedAt, 0)) > s.ttl {
		return nil, ErrExpired
	}

	sig, err := decodeSignature(v.Signature)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	pub, err := crypto.SigToPub(crypto.Keccak256(v.Payload), sig)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if crypto.PubkeyToAddress(*pub) != s.addr {
		return nil, ErrInvalidSignature
	}

	// The nonce row's primary key makes consumption atomic, the first
	// redeemer wins and everyone else sees a unique violation.
	_, err = s.store.InsertConsumedNonce(ctx, db.InsertConsumedNonceParams{
		Nonce:         payload.Nonce,
		SourceAddress: payload.SourceAddress,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrReplayedVoucher
		}
		return nil, fmt.Errorf("failed to consume voucher nonce: %w", err)
	}

	return &payload, nil
}

// Execute verifies v and submits it to the chain gateway, with the
// submission wrapped in the circuit breaker and retry policy.
func (s *VoucherService) Execute(ctx context.Context, account db.WalletAccount, v Voucher) (string, error) {
	payload, err := s.Verify(ctx, v)
	if err != nil {
		return "", err
	}

	sig, err := decodeSignature(v.Signature)
	if err != nil {
		return "", ErrInvalidSignature
	}

	var txHash string
	err = s.retrier.WithRetry(ctx, "chain", "submit_voucher", func(ctx context.Context) error {
		return s.breaker.Execute(ctx, func(ctx context.Context) error {
			hash, err := s.oracle.SubmitVoucher(ctx, v.Payload, sig)
			if err != nil {
				return err
			}
			txHash = hash
			return nil
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to submit voucher on-chain: %w", err)
	}

	if _, err := s.store.IncrementWalletAccountNonce(ctx, account.ID); err != nil {
		// Bookkeeping only, the redemption itself already succeeded.
		s.logger.WithError(err).Warn("failed to advance account chain nonce")
	}

	s.logger.WithFields(logrus.Fields{
		"source":  payload.SourceAddress,
		"amount":  payload.Amount,
		"tx_hash": txHash,
	}).Info("voucher executed on-chain")

	return txHash, nil
}

func newNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}

func decodeSignature(sig string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	if err != nil {
		return nil, err
	}
	if len(raw) != crypto.SignatureLength {
		return nil, fmt.Errorf("signature must be %d bytes", crypto.SignatureLength)
	}
	return raw, nil
}
