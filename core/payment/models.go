package payment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

// Interval is a payment's recurrence interval.
type Interval string

const (
	IntervalNone    Interval = "NONE"
	IntervalDaily   Interval = "DAILY"
	IntervalWeekly  Interval = "WEEKLY"
	IntervalMonthly Interval = "MONTHLY"
	IntervalYearly  Interval = "YEARLY"
)

var AllIntervals = []Interval{IntervalNone, IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly}

// Payment types
const (
	TypeRent      = "RENT"
	TypeDeposit   = "DEPOSIT"
	TypeUtilities = "UTILITIES"
	TypeOther     = "OTHER"
)

var AllTypes = []string{TypeRent, TypeDeposit, TypeUtilities, TypeOther}

// Reminder lead time bounds (days before a payment occurrence).
const (
	MinDaysBefore = 0
	MaxDaysBefore = 7
)

type (
	Payment struct {
		ID                string    `json:"id"`
		LeaseID           string    `json:"lease_id"`
		Amount            float64   `json:"amount"`
		Name              string    `json:"name"`
		Description       string    `json:"description,omitempty"`
		Type              string    `json:"type"`
		PaymentDate       time.Time `json:"payment_date"` // anchor date, UTC
		RecurringInterval Interval  `json:"recurring_interval"`
		IsDeleted         bool      `json:"-"`
		CreatedAt         time.Time `json:"created_at"` // UTC
		UpdatedAt         time.Time `json:"updated_at"` // UTC

		// joined from the owning lease's property
		LandlordID string `json:"-"`

		// next upcoming occurrence for recurring payments; derived, never stored
		NextPaymentDate *time.Time `json:"next_payment_date,omitempty"`
	}

	Reminder struct {
		ID         string `json:"id"`
		PaymentID  string `json:"payment_id"`
		DaysBefore int    `json:"days_before"`
	}

	// TenantContact is the notification target attached to a due reminder.
	TenantContact struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	// DueReminder is a reminder that has reached its trigger date for a
	// specific payment occurrence, enriched with the active tenants of the
	// owning lease.
	DueReminder struct {
		Payment        Payment         `json:"payment"`
		Reminder       Reminder        `json:"reminder"`
		OccurrenceDate time.Time       `json:"occurrence_date"`
		Tenants        []TenantContact `json:"tenants"`
	}
)

func (p Payment) IsRecurring() bool {
	return p.RecurringInterval != "" && p.RecurringInterval != IntervalNone
}

// NewPayment contains information needed to create a new Payment.
type NewPayment struct {
	Amount            float64   `json:"amount" validate:"gte=0"`
	Name              string    `json:"name" validate:"required,max=25"`
	Description       string    `json:"description" validate:"omitempty,max=255"`
	Type              string    `json:"type" validate:"omitempty,paymenttype"`
	PaymentDate       time.Time `json:"payment_date" validate:"required"`
	RecurringInterval Interval  `json:"recurring_interval" validate:"omitempty,recurringinterval"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)
	if np.Type == "" {
		np.Type = TypeOther
	}
	if np.RecurringInterval == "" {
		np.RecurringInterval = IntervalNone
	}
	return validate.Struct(np)
}

// NewReminder contains information needed to create or update a Reminder.
type NewReminder struct {
	DaysBefore int `json:"days_before" validate:"gte=0,lte=7"`
}

func (nr *NewReminder) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
