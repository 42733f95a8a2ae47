package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/BrickVest/BrickVest-Backend/providers"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/shopspring/decimal"
)

// Oracle is the on-chain gateway the engine talks to. Implementations
// submit signed redemption vouchers and read token balances.
type Oracle interface {
	TokenBalance(ctx context.Context, tokenAddress, holderAddress string) (decimal.Decimal, error)
	SubmitVoucher(ctx context.Context, payload, signature []byte) (txHash string, err error)
}

type ChainService struct {
	config *utils.Config
	client *providers.BaseProvider
	logger *logging.Logger
}

func NewChainService(config *utils.Config, logger *logging.Logger) *ChainService {
	return &ChainService{
		config: config,
		client: &providers.BaseProvider{
			Name:    providers.Chain,
			BaseURL: config.ChainRPCURL,
			APIKey:  config.ChainRPCKey,
			Client:  &http.Client{Timeout: 30 * time.Second},
		},
		logger: logger,
	}
}

// Provider exposes the underlying HTTP provider for registration.
func (s *ChainService) Provider() *providers.BaseProvider {
	return s.client
}

func (s *ChainService) TokenBalance(ctx context.Context, tokenAddress, holderAddress string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/tokens/%s/balances/%s", s.client.BaseURL, tokenAddress, holderAddress)

	resp, err := s.client.MakeRequest(http.MethodGet, url, nil, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch token balance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected status code from chain gateway: %d", resp.StatusCode)
	}

	var balance BalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode balance response: %w", err)
	}

	return balance.Data.Balance, nil
}

func (s *ChainService) SubmitVoucher(ctx context.Context, payload, signature []byte) (string, error) {
	url := fmt.Sprintf("%s/vouchers/submit", s.client.BaseURL)

	request := SubmitVoucherRequest{
		Payload:   string(payload),
		Signature: "0x" + hex.EncodeToString(signature),
	}

	resp, err := s.client.MakeRequest(http.MethodPost, url, request, nil)
	if err != nil {
		return "", fmt.Errorf("failed to submit voucher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from chain gateway: %d", resp.StatusCode)
	}

	var submit SubmitVoucherResponse
	if err := json.NewDecoder(resp.Body).Decode(&submit); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}

	s.logger.WithField("tx_hash", submit.Data.TxHash).Info("voucher submitted on-chain")
	return submit.Data.TxHash, nil
}
