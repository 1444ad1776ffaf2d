package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a pharmacy's subscription tier, controlling the monthly
// estimate-call quota
type Plan string

const (
	PlanBasic        Plan = "basic"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

// MonthlyEstimateQuota returns the metered estimate-call allowance for the
// plan; nil means unlimited
func (p Plan) MonthlyEstimateQuota() *int {
	var n int
	switch p {
	case PlanBasic:
		n = 500
	case PlanProfessional:
		n = 5000
	case PlanEnterprise:
		return nil
	default:
		n = 500
	}
	return &n
}

// Pharmacy represents a pharmacy account using the returns API
type Pharmacy struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	NCPDPNumber      *string   `json:"ncpdp_number,omitempty" db:"ncpdp_number"`
	Email            *string   `json:"email,omitempty" db:"email"`
	APIKeyHash       string    `json:"-" db:"api_key_hash"`
	OAuthClientID    *string   `json:"oauth_client_id,omitempty" db:"oauth_client_id"`
	OAuthSecretHash  *string   `json:"-" db:"oauth_secret_hash"`
	Plan             Plan      `json:"plan" db:"plan"`
	RateLimitDaily   int       `json:"rate_limit_daily" db:"rate_limit_daily"`
	RateLimitMonthly int       `json:"rate_limit_monthly" db:"rate_limit_monthly"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	IsActive         bool      `json:"is_active" db:"is_active"`
}

// OAuthTokenRequest represents an OAuth token request
type OAuthTokenRequest struct {
	GrantType    string `json:"grant_type" validate:"required,eq=client_credentials"`
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
}

// OAuthTokenResponse represents an OAuth token response
type OAuthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
