package payment

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound         = errors.New("payment not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrReminderExists   = errors.New("a reminder with the same days_before already exists")
)

type (
	Repository interface {
		CreatePayment(ctx context.Context, p Payment) (Payment, error)
		// QueryPaymentsByLease returns the lease's non-deleted payments.
		QueryPaymentsByLease(ctx context.Context, leaseID string) ([]Payment, error)
		// QueryPayments returns every payment, soft-deleted ones included;
		// the scheduling pass filters deletions itself.
		QueryPayments(ctx context.Context) ([]Payment, error)
		GetPayment(ctx context.Context, id string) (Payment, error)
		UpdatePayment(ctx context.Context, p Payment) (Payment, error)

		CreateReminder(ctx context.Context, r Reminder) (Reminder, error)
		QueryRemindersByPayment(ctx context.Context, paymentID string) ([]Reminder, error)
		QueryReminders(ctx context.Context) ([]Reminder, error)
		GetReminder(ctx context.Context, id string) (Reminder, error)
		UpdateReminder(ctx context.Context, r Reminder) (Reminder, error)
		DeleteReminder(ctx context.Context, id string) error

		// QueryActiveTenantContacts returns contact info of the lease's
		// active tenants (active membership, active user account).
		QueryActiveTenantContacts(ctx context.Context, leaseID string) ([]TenantContact, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

func (svc *Service) Create(ctx context.Context, leaseID string, np NewPayment) (Payment, error) {
	now := NowFunc().UTC()
	p := Payment{
		LeaseID:           leaseID,
		Amount:            np.Amount,
		Name:              np.Name,
		Description:       np.Description,
		Type:              np.Type,
		PaymentDate:       np.PaymentDate.UTC(),
		RecurringInterval: np.RecurringInterval,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return svc.repo.CreatePayment(ctx, p)
}

// QueryByLease returns the lease's payments with the next upcoming
// occurrence resolved for recurring ones.
func (svc *Service) QueryByLease(ctx context.Context, leaseID string) ([]Payment, error) {
	payments, err := svc.repo.QueryPaymentsByLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	today := core.UTCDate(NowFunc())
	for i := range payments {
		svc.resolveNextDate(&payments[i], today)
	}
	return payments, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	p, err := svc.repo.GetPayment(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	if p.IsDeleted {
		return Payment{}, ErrNotFound
	}
	svc.resolveNextDate(&p, core.UTCDate(NowFunc()))
	return p, nil
}

func (svc *Service) resolveNextDate(p *Payment, today time.Time) {
	if !p.IsRecurring() {
		return
	}
	if next := NextOccurrence(p.PaymentDate, p.RecurringInterval, today); !next.IsZero() {
		p.NextPaymentDate = &next
	}
}

func (svc *Service) Update(ctx context.Context, id string, np NewPayment) (Payment, error) {
	p, err := svc.repo.GetPayment(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	p.Amount = np.Amount
	p.Name = np.Name
	p.Description = np.Description
	p.Type = np.Type
	p.PaymentDate = np.PaymentDate.UTC()
	p.RecurringInterval = np.RecurringInterval
	p.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdatePayment(ctx, p)
}

// Delete soft-deletes a payment; its reminders stop firing immediately.
func (svc *Service) Delete(ctx context.Context, id string) error {
	p, err := svc.repo.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	p.IsDeleted = true
	p.UpdatedAt = NowFunc().UTC()
	_, err = svc.repo.UpdatePayment(ctx, p)
	return err
}

// CreateReminder adds a reminder to a payment. No two reminders of the same
// payment may share a lead time.
func (svc *Service) CreateReminder(ctx context.Context, paymentID string, nr NewReminder) (Reminder, error) {
	if err := svc.checkReminderUniqueness(ctx, paymentID, nr.DaysBefore, ""); err != nil {
		return Reminder{}, err
	}
	return svc.repo.CreateReminder(ctx, Reminder{
		PaymentID:  paymentID,
		DaysBefore: nr.DaysBefore,
	})
}

func (svc *Service) Reminders(ctx context.Context, paymentID string) ([]Reminder, error) {
	return svc.repo.QueryRemindersByPayment(ctx, paymentID)
}

func (svc *Service) GetReminder(ctx context.Context, id string) (Reminder, error) {
	return svc.repo.GetReminder(ctx, id)
}

func (svc *Service) UpdateReminder(ctx context.Context, id string, nr NewReminder) (Reminder, error) {
	r, err := svc.repo.GetReminder(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	if err := svc.checkReminderUniqueness(ctx, r.PaymentID, nr.DaysBefore, r.ID); err != nil {
		return Reminder{}, err
	}
	r.DaysBefore = nr.DaysBefore
	return svc.repo.UpdateReminder(ctx, r)
}

func (svc *Service) DeleteReminder(ctx context.Context, id string) error {
	return svc.repo.DeleteReminder(ctx, id)
}

func (svc *Service) checkReminderUniqueness(ctx context.Context, paymentID string, daysBefore int, excludeID string) error {
	reminders, err := svc.repo.QueryRemindersByPayment(ctx, paymentID)
	if err != nil {
		return errors.Wrap(err, "querying payment reminders")
	}
	for _, r := range reminders {
		if r.DaysBefore == daysBefore && r.ID != excludeID {
			return core.NewValidationError(ErrReminderExists, core.FieldError{Field: "days_before", Error: ErrReminderExists.Error()})
		}
	}
	return nil
}

// DueReminders computes the reminders due today. The pass is a pure read:
// it re-derives every occurrence on each call and is safe to retry in full.
func (svc *Service) DueReminders(ctx context.Context) ([]DueReminder, error) {
	return svc.dueRemindersOn(ctx, core.UTCDate(NowFunc()))
}

func (svc *Service) dueRemindersOn(ctx context.Context, today time.Time) ([]DueReminder, error) {
	payments, err := svc.repo.QueryPayments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	reminders, err := svc.repo.QueryReminders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying reminders")
	}

	byPayment := make(map[string][]Reminder, len(payments))
	for _, r := range reminders {
		byPayment[r.PaymentID] = append(byPayment[r.PaymentID], r)
	}

	horizonDays := svc.conf.ReminderHorizonDays
	if horizonDays <= 0 {
		horizonDays = 10
	}
	horizon := today.AddDate(0, 0, horizonDays)

	type matchKey struct {
		paymentID  string
		reminderID string
	}
	seen := make(map[matchKey]bool)
	var dues []DueReminder

	for _, p := range payments {
		rs := byPayment[p.ID]
		if len(rs) == 0 {
			continue
		}

		var occurrences []time.Time
		if p.IsRecurring() {
			occurrences = Occurrences(p.PaymentDate, p.RecurringInterval, today, horizon)
		} else {
			// the anchor is the sole occurrence
			occurrences = []time.Time{core.UTCDate(p.PaymentDate)}
		}

		for _, r := range rs {
			if r.DaysBefore < MinDaysBefore || r.DaysBefore > MaxDaysBefore {
				// should have been rejected at creation; skip, don't abort
				svc.logger.Warn("skipping reminder with out-of-range lead time", r.ID, r.DaysBefore)
				continue
			}
			for _, occ := range occurrences {
				if !Matches(occ, r.DaysBefore, today) {
					continue
				}
				k := matchKey{p.ID, r.ID}
				if seen[k] {
					continue
				}
				seen[k] = true
				// deletion is applied after matching; the expansion above
				// runs over every payment regardless of its flag
				if p.IsDeleted {
					continue
				}
				dues = append(dues, DueReminder{
					Payment:        p,
					Reminder:       r,
					OccurrenceDate: occ,
				})
			}
		}
	}

	// enrich with the active tenants of each owning lease
	tenantsByLease := make(map[string][]TenantContact)
	for i := range dues {
		leaseID := dues[i].Payment.LeaseID
		tenants, ok := tenantsByLease[leaseID]
		if !ok {
			tenants, err = svc.repo.QueryActiveTenantContacts(ctx, leaseID)
			if err != nil {
				return nil, errors.Wrap(err, "querying lease tenants")
			}
			tenantsByLease[leaseID] = tenants
		}
		dues[i].Tenants = tenants
	}

	// deterministic output; callers must not rely on it
	sort.Slice(dues, func(i, j int) bool {
		if dues[i].Payment.ID != dues[j].Payment.ID {
			return dues[i].Payment.ID < dues[j].Payment.ID
		}
		return dues[i].Reminder.ID < dues[j].Reminder.ID
	})
	return dues, nil
}
