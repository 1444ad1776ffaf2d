package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/repository"
)

// AuthService handles pharmacy authentication
type AuthService struct {
	pharmacyRepo *repository.PharmacyRepository
	jwtSecret    []byte
}

// NewAuthService creates a new auth service
func NewAuthService(pharmacyRepo *repository.PharmacyRepository, jwtSecret string) *AuthService {
	return &AuthService{
		pharmacyRepo: pharmacyRepo,
		jwtSecret:    []byte(jwtSecret),
	}
}

// ValidateAPIKey validates an API key and returns the associated pharmacy
func (s *AuthService) ValidateAPIKey(ctx context.Context, apiKey string) (*domain.Pharmacy, error) {
	// Get all active pharmacies and check the API key against each hash
	pharmacies, err := s.pharmacyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	apiKeyBytes := []byte(apiKey)

	for _, pharmacy := range pharmacies {
		if !pharmacy.IsActive {
			continue
		}

		if err := bcrypt.CompareHashAndPassword([]byte(pharmacy.APIKeyHash), apiKeyBytes); err == nil {
			return pharmacy, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// ValidateOAuthCredentials validates OAuth client credentials and returns
// the associated pharmacy
func (s *AuthService) ValidateOAuthCredentials(ctx context.Context, clientID, clientSecret string) (*domain.Pharmacy, error) {
	pharmacy, err := s.pharmacyRepo.FindByOAuthClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil || pharmacy.OAuthSecretHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !pharmacy.IsActive {
		return nil, ErrPharmacyNotActive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*pharmacy.OAuthSecretHash), []byte(clientSecret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return pharmacy, nil
}

// GenerateToken generates a JWT token for the given pharmacy
func (s *AuthService) GenerateToken(pharmacy *domain.Pharmacy) (*domain.OAuthTokenResponse, error) {
	expiresIn := 3600 // 1 hour
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)

	claims := jwt.MapClaims{
		"pharmacy_id":   pharmacy.ID.String(),
		"pharmacy_name": pharmacy.Name,
		"exp":           expiresAt.Unix(),
		"iat":           time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &domain.OAuthTokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}

// ValidateToken validates a JWT token and returns the pharmacy ID
func (s *AuthService) ValidateToken(tokenString string) (*uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return s.jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	idStr, ok := claims["pharmacy_id"].(string)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return &id, nil
}

// GenerateAPIKey produces a new random API key and its bcrypt hash
func GenerateAPIKey() (key string, hash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}

	key = "rxr_" + base64.RawURLEncoding.EncodeToString(raw)

	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	return key, string(hashed), nil
}
