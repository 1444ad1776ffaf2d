package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/repository"
)

// UsageService handles metered-call tracking and plan quota checks
type UsageService struct {
	usageRepo    *repository.UsageRepository
	pharmacyRepo *repository.PharmacyRepository
}

// NewUsageService creates a new usage service
func NewUsageService(usageRepo *repository.UsageRepository, pharmacyRepo *repository.PharmacyRepository) *UsageService {
	return &UsageService{
		usageRepo:    usageRepo,
		pharmacyRepo: pharmacyRepo,
	}
}

// CheckQuota returns a structured quota error when the pharmacy's monthly
// estimate quota is exhausted, nil otherwise
func (s *UsageService) CheckQuota(ctx context.Context, pharmacyID uuid.UUID) (*domain.QuotaExceededError, error) {
	pharmacy, err := s.pharmacyRepo.FindByID(ctx, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pharmacy: %w", err)
	}
	if pharmacy == nil {
		return nil, ErrNotFound
	}

	quota := pharmacy.Plan.MonthlyEstimateQuota()
	if quota == nil {
		return nil, nil
	}

	usage, err := s.usageRepo.GetCurrentUsage(ctx, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current usage: %w", err)
	}

	if usage.EstimateCount >= *quota {
		return &domain.QuotaExceededError{
			Error:        "quota_exceeded",
			Message:      fmt.Sprintf("Monthly estimate quota exceeded (%d/%d). Upgrade your plan for higher limits.", usage.EstimateCount, *quota),
			QuotaType:    string(domain.UsageTypeEstimate),
			CurrentUsage: usage.EstimateCount,
			Limit:        *quota,
			ResetsAt:     usage.PeriodEnd,
		}, nil
	}

	return nil, nil
}

// RecordUsage counts one metered estimate call
func (s *UsageService) RecordUsage(ctx context.Context, pharmacyID uuid.UUID) error {
	return s.usageRepo.IncrementEstimate(ctx, pharmacyID)
}

// GetStats returns the pharmacy's current usage against its plan
func (s *UsageService) GetStats(ctx context.Context, pharmacyID uuid.UUID) (*domain.UsageStats, error) {
	pharmacy, err := s.pharmacyRepo.FindByID(ctx, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pharmacy: %w", err)
	}
	if pharmacy == nil {
		return nil, ErrNotFound
	}

	usage, err := s.usageRepo.GetCurrentUsage(ctx, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current usage: %w", err)
	}

	return &domain.UsageStats{
		Plan:             pharmacy.Plan,
		MonthlyEstimates: usage.EstimateCount,
		MonthlyQuota:     pharmacy.Plan.MonthlyEstimateQuota(),
		PeriodResetsAt:   usage.PeriodEnd,
	}, nil
}
