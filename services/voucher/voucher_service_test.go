package voucher

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/services/resilience"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVoucherStore struct {
	nonces map[string]bool
	bumps  int
}

func newFakeVoucherStore() *fakeVoucherStore {
	return &fakeVoucherStore{nonces: make(map[string]bool)}
}

func (f *fakeVoucherStore) InsertConsumedNonce(ctx context.Context, arg db.InsertConsumedNonceParams) (db.ConsumedNonce, error) {
	if f.nonces[arg.Nonce] {
		return db.ConsumedNonce{}, &pq.Error{Code: db.DuplicateEntry}
	}
	f.nonces[arg.Nonce] = true
	return db.ConsumedNonce{
		Nonce:         arg.Nonce,
		SourceAddress: arg.SourceAddress,
		ConsumedAt:    time.Now(),
	}, nil
}

func (f *fakeVoucherStore) IncrementWalletAccountNonce(ctx context.Context, id uuid.UUID) (int64, error) {
	f.bumps++
	return int64(f.bumps), nil
}

type fakeVerifier struct {
	verified bool
}

func (f *fakeVerifier) IsVerified(ctx context.Context, userID int64) (bool, error) {
	return f.verified, nil
}

type fakeOracle struct {
	hash    string
	err     error
	submits int
}

func (f *fakeOracle) TokenBalance(ctx context.Context, tokenAddress, holderAddress string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *fakeOracle) SubmitVoucher(ctx context.Context, payload, signature []byte) (string, error) {
	f.submits++
	if f.err != nil {
		return "", f.err
	}
	return f.hash, nil
}

type fakeErrorLogger struct{}

func (fakeErrorLogger) CreateErrorLog(ctx context.Context, arg db.CreateErrorLogParams) (db.ErrorLog, error) {
	return db.ErrorLog{}, nil
}

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: logrus.New()}
}

func newTestService(t *testing.T, store *fakeVoucherStore, verifier *fakeVerifier, oracle *fakeOracle) *VoucherService {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	logger := testLogger()
	return &VoucherService{
		key:     key,
		addr:    crypto.PubkeyToAddress(key.PublicKey),
		ttl:     24 * time.Hour,
		store:   store,
		kyc:     verifier,
		oracle:  oracle,
		breaker: resilience.NewBreaker(resilience.BreakerConfig{Name: "chain"}),
		retrier: resilience.NewRetrier(fakeErrorLogger{}, logger, 3, time.Millisecond),
		logger:  logger,
	}
}

func verifiedAccount() db.WalletAccount {
	return db.WalletAccount{
		ID:                 uuid.New(),
		UserID:             7,
		ChainAddress:       "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		Balance:            decimal.RequireFromString("1000.00"),
		VerificationStatus: db.VerificationStatusVerified,
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	store := newFakeVoucherStore()
	svc := newTestService(t, store, &fakeVerifier{}, &fakeOracle{})
	account := verifiedAccount()

	v, err := svc.Generate(context.Background(), account, "0xRecipient", decimal.RequireFromString("42.50"), "0xToken")
	require.NoError(t, err)

	payload, err := svc.Verify(context.Background(), *v)
	require.NoError(t, err)
	assert.Equal(t, account.ChainAddress, payload.SourceAddress)
	assert.Equal(t, "0xRecipient", payload.Recipient)
	assert.True(t, payload.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.True(t, store.nonces[payload.Nonce])
}

func TestVerifyRejectsReplayedVoucher(t *testing.T) {
	svc := newTestService(t, newFakeVoucherStore(), &fakeVerifier{}, &fakeOracle{})

	v, err := svc.Generate(context.Background(), verifiedAccount(), "0xRecipient", decimal.NewFromInt(10), "0xToken")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), *v)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), *v)
	assert.ErrorIs(t, err, ErrReplayedVoucher)
}

func TestVerifyRejectsExpiredVoucher(t *testing.T) {
	svc := newTestService(t, newFakeVoucherStore(), &fakeVerifier{}, &fakeOracle{})

	payload := Payload{
		SourceAddress: "0xSource",
		Recipient:     "0xRecipient",
		Amount:        decimal.NewFromInt(5),
		TokenAddress:  "0xToken",
		IssuedAt:      time.Now().Add(-25 * time.Hour).Unix(),
		Nonce:         "0x01",
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	sig, err := crypto.Sign(crypto.Keccak256(raw), svc.key)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), Voucher{Payload: raw, Signature: "0x" + hex.EncodeToString(sig)})
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	store := newFakeVoucherStore()
	svc := newTestService(t, store, &fakeVerifier{}, &fakeOracle{})

	v, err := svc.Generate(context.Background(), verifiedAccount(), "0xRecipient", decimal.NewFromInt(10), "0xToken")
	require.NoError(t, err)

	// Re-sign the same payload with a key that is not the authority's.
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := crypto.Sign(crypto.Keccak256(v.Payload), otherKey)
	require.NoError(t, err)
	v.Signature = "0x" + hex.EncodeToString(sig)

	_, err = svc.Verify(context.Background(), *v)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, store.nonces)
}

func TestVerifyRejectsMalformedPayload(t *testing.T) {
	svc := newTestService(t, newFakeVoucherStore(), &fakeVerifier{}, &fakeOracle{})

	cases := []json.RawMessage{
		json.RawMessage(`not json at all`),
		json.RawMessage(`{}`),
		json.RawMessage(`{"source_address":"0xa","recipient":"0xb","amount":"-1","token_address":"0xc","issued_at":1700000000,"nonce":"0x01"}`),
	}
	for _, raw := range cases {
		_, err := svc.Verify(context.Background(), Voucher{Payload: raw, Signature: "0x00"})
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestGenerateRequiresIdentityVerification(t *testing.T) {
	account := verifiedAccount()
	account.VerificationStatus = db.VerificationStatusPending

	svc := newTestService(t, newFakeVoucherStore(), &fakeVerifier{verified: false}, &fakeOracle{})
	_, err := svc.Generate(context.Background(), account, "0xRecipient", decimal.NewFromInt(10), "0xToken")
	assert.ErrorIs(t, err, ErrKycRequired)

	svc = newTestService(t, newFakeVoucherStore(), &fakeVerifier{verified: true}, &fakeOracle{})
	_, err = svc.Generate(context.Background(), account, "0xRecipient", decimal.NewFromInt(10), "0xToken")
	assert.NoError(t, err)
}

func TestExecuteSubmitsVoucher(t *testing.T) {
	store := newFakeVoucherStore()
	oracle := &fakeOracle{hash: "0xdeadbeef"}
	svc := newTestService(t, store, &fakeVerifier{}, oracle)
	account := verifiedAccount()

	v, err := svc.Generate(context.Background(), account, "0xRecipient", decimal.NewFromInt(10), "0xToken")
	require.NoError(t, err)

	txHash, err := svc.Execute(context.Background(), account, *v)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", txHash)
	assert.Equal(t, 1, oracle.submits)
	assert.Equal(t, 1, store.bumps)
}

func TestExecuteDoesNotSubmitReplayedVoucher(t *testing.T) {
	oracle := &fakeOracle{hash: "0xdeadbeef"}
	svc := newTestService(t, newFakeVoucherStore(), &fakeVerifier{}, oracle)
	account := verifiedAccount()

	v, err := svc.Generate(context.Background(), account, "0xRecipient", decimal.NewFromInt(10), "0xToken")
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), account, *v)
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), account, *v)
	assert.ErrorIs(t, err, ErrReplayedVoucher)
	assert.Equal(t, 1, oracle.submits)
}
