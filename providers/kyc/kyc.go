package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/BrickVest/BrickVest-Backend/providers"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/patrickmn/go-cache"
)

// Verifier reports whether a user has passed identity checks.
type Verifier interface {
	IsVerified(ctx context.Context, userID int64) (bool, error)
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		UserID   int64  `json:"user_id"`
		Verified bool   `json:"verified"`
		Tier     string `json:"tier"`
	} `json:"data"`
}

type KYCService struct {
	config *utils.Config
	client *providers.BaseProvider
	cache  *cache.Cache
	logger *logging.Logger
}

func NewKYCService(config *utils.Config, logger *logging.Logger) *KYCService {
	return &KYCService{
		config: config,
		client: &providers.BaseProvider{
			Name:    providers.KYC,
			BaseURL: config.KycBaseUrl,
			APIKey:  config.KycApiKey,
			Client:  &http.Client{Timeout: 15 * time.Second},
		},
		// Verification outcomes are near-immutable, a short TTL keeps
		// revocations from going unnoticed for too long.
		cache:  cache.New(10*time.Minute, 30*time.Minute),
		logger: logger,
	}
}

// Provider exposes the underlying HTTP provider for registration.
func (s *KYCService) Provider() *providers.BaseProvider {
	return s.client
}

func (s *KYCService) IsVerified(ctx context.Context, userID int64) (bool, error) {
	key := fmt.Sprintf("kyc:%d", userID)
	if v, found := s.cache.Get(key); found {
		return v.(bool), nil
	}

	url := fmt.Sprintf("%s/users/%d/status", s.client.BaseURL, userID)

	resp, err := s.client.MakeRequest(http.MethodGet, url, nil, nil)
	if err != nil {
		return false, fmt.Errorf("failed to fetch verification status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status code from verification provider: %d", resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("failed to decode verification response: %w", err)
	}

	// Only cache positive outcomes so that a freshly verified user is
	// not locked out by a stale negative entry.
	if status.Data.Verified {
		s.cache.Set(key, true, cache.DefaultExpiration)
	}

	return status.Data.Verified, nil
}
