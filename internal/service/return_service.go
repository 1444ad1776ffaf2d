package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/repository"
)

// BatchValidationError is returned when a return order cannot be created
// because one or more line items failed validation
type BatchValidationError struct {
	Lines []domain.LineError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("%d line item(s) failed validation", len(e.Lines))
}

// ReturnService manages the return order lifecycle
type ReturnService struct {
	returnRepo *repository.ReturnRepository
	estimator  *EstimateService
}

// NewReturnService creates a new return service
func NewReturnService(returnRepo *repository.ReturnRepository, estimator *EstimateService) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		estimator:  estimator,
	}
}

// Create estimates the given line items and persists a draft return order
// with the estimate snapshot frozen in. Unlike ad-hoc estimation, order
// creation requires every line to validate and resolve in the catalog.
func (s *ReturnService) Create(ctx context.Context, pharmacyID uuid.UUID, items []domain.ReturnLineItem) (*domain.ReturnOrder, error) {
	resp, err := s.estimator.EstimateBatch(ctx, items)
	if err != nil {
		return nil, err
	}

	var lineErrors []domain.LineError
	for _, result := range resp.Results {
		if result.Error != nil {
			lineErrors = append(lineErrors, *result.Error)
			continue
		}
		if result.Estimate.NotFound {
			lineErrors = append(lineErrors, domain.LineError{
				NDC:     result.Estimate.NDC,
				Code:    domain.LineErrorValidation,
				Message: "NDC not found in catalog",
			})
		}
	}
	if len(lineErrors) > 0 {
		return nil, &BatchValidationError{Lines: lineErrors}
	}

	now := time.Now().UTC()
	order := &domain.ReturnOrder{
		ID:                   uuid.New(),
		PharmacyID:           pharmacyID,
		Status:               domain.ReturnStatusDraft,
		TotalEstimatedCredit: resp.Summary.TotalEstimatedCredit,
		ServiceFees:          resp.Summary.ServiceFees,
		TransportationFees:   resp.Summary.TransportationFees,
		NetCredit:            resp.Summary.NetCredit,
		RequiresDEAForm:      resp.Summary.HasDEAItems,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	for i, result := range resp.Results {
		estimate := result.Estimate
		expiration, err := time.Parse(expirationDateLayout, items[i].ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiration date on validated line: %w", err)
		}

		order.Items = append(order.Items, domain.ReturnOrderItem{
			ID:               uuid.New(),
			ReturnOrderID:    order.ID,
			NDC:              estimate.NDC,
			ProductName:      estimate.ProductName,
			LotNumber:        estimate.LotNumber,
			Quantity:         estimate.Quantity,
			ExpirationDate:   expiration,
			Condition:        items[i].Condition,
			CreditPercentage: estimate.CreditPercentage,
			EstimatedCredit:  estimate.EstimatedCredit,
			Eligible:         estimate.Eligible,
		})
	}

	if err := s.returnRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// Get returns a pharmacy's return order by ID
func (s *ReturnService) Get(ctx context.Context, pharmacyID, orderID uuid.UUID) (*domain.ReturnOrder, error) {
	order, err := s.returnRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.PharmacyID != pharmacyID {
		return nil, ErrForbidden
	}
	return order, nil
}

// List returns a pharmacy's return orders, newest first
func (s *ReturnService) List(ctx context.Context, pharmacyID uuid.UUID, limit int) ([]domain.ReturnOrder, error) {
	return s.returnRepo.ListByPharmacy(ctx, pharmacyID, limit)
}

// UpdateStatus advances a return order through its lifecycle
func (s *ReturnService) UpdateStatus(ctx context.Context, pharmacyID, orderID uuid.UUID, next domain.ReturnStatus) (*domain.ReturnOrder, error) {
	order, err := s.Get(ctx, pharmacyID, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.returnRepo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}

	order.Status = next
	return order, nil
}

// Cancel cancels a return order while it is still draft or submitted
func (s *ReturnService) Cancel(ctx context.Context, pharmacyID, orderID uuid.UUID) (*domain.ReturnOrder, error) {
	return s.UpdateStatus(ctx, pharmacyID, orderID, domain.ReturnStatusCancelled)
}
