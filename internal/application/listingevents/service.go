package listingevents

import (
	"context"
	"encoding/json"
	"errors"

	"yardsale-board/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the audit ledger: listing lifecycle events and completed checkout sessions.
type Service struct {
	DB *gorm.DB
}

func (s *Service) RecordEvent(ctx context.Context, listingID, eventType string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Create(&domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(b),
	}).Error
}

// RecordPayment stores a completed checkout session once. It reports false when the
// session was already recorded (Stripe redelivers events).
func (s *Service) RecordPayment(ctx context.Context, p *domain.Payment) (bool, error) {
	if p == nil || p.StripeSessionID == "" {
		return false, errors.New("stripe session id is required")
	}
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_session_id"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) GetListingEvents(ctx context.Context, listingID string) ([]domain.ListingEvent, error) {
	if listingID == "" {
		return nil, errors.New("listing_id is required")
	}
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order(`"createdAt" ASC`).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListPayments returns recorded payments, newest first, optionally filtered by status.
func (s *Service) ListPayments(ctx context.Context, status string) ([]domain.Payment, error) {
	q := s.DB.WithContext(ctx).Order(`"createdAt" DESC`)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var payments []domain.Payment
	if err := q.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
