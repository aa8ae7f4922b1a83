package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentKindFeature = "feature"
	PaymentKindSponsor = "sponsor"

	PaymentApplied         = "applied"
	PaymentAlreadyFeatured = "already_featured"
	PaymentUnmatched       = "unmatched"
	PaymentFailed          = "failed"
	PaymentRecorded        = "recorded"
)

// Payment is one completed Stripe checkout session as seen by the webhook.
type Payment struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StripeSessionID  string         `gorm:"column:stripe_session_id;uniqueIndex;not null" json:"stripe_session_id"`
	StripeEventID    string         `gorm:"column:stripe_event_id;not null" json:"stripe_event_id"`
	Mode             string         `gorm:"column:mode;type:varchar(20);not null" json:"mode"`
	Kind             string         `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	ListingID        *string        `gorm:"column:listing_id;type:varchar(64)" json:"listing_id"`
	AmountTotalCents int64          `gorm:"column:amount_total_cents;not null" json:"amount_total_cents"`
	Currency         string         `gorm:"column:currency" json:"currency"`
	Status           string         `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	RawSession       datatypes.JSON `gorm:"column:raw_session;type:jsonb" json:"raw_session"`
	CreatedAt        time.Time      `gorm:"column:createdAt" json:"createdAt"`
}

func (Payment) TableName() string {
	return "Payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
