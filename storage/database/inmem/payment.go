package inmemdb

import (
	"context"
	"sort"

	"github.com/lanten/lanten/core/payment"
)

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil)

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db}
}

// enrich populates the payment's joined landlord ID.
func (repo *paymentRepository) enrich(p payment.Payment) payment.Payment {
	if l, ok := repo.db.leases[p.LeaseID]; ok {
		if prop, ok := repo.db.properties[l.PropertyID]; ok {
			p.LandlordID = prop.LandlordID
		}
	}
	return p
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = newPK()
	repo.db.payments[p.ID] = &p
	return repo.enrich(p), nil
}

func (repo *paymentRepository) QueryPaymentsByLease(ctx context.Context, leaseID string) ([]payment.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var payments []payment.Payment
	for _, p := range repo.db.payments {
		if p.LeaseID == leaseID && !p.IsDeleted {
			payments = append(payments, repo.enrich(*p))
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.Before(payments[j].CreatedAt) })
	return payments, nil
}

func (repo *paymentRepository) QueryPayments(ctx context.Context) ([]payment.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	payments := make([]payment.Payment, 0, len(repo.db.payments))
	for _, p := range repo.db.payments {
		payments = append(payments, repo.enrich(*p))
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.Before(payments[j].CreatedAt) })
	return payments, nil
}

func (repo *paymentRepository) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.payments[id]; ok {
		return repo.enrich(*p), nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) UpdatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.payments[p.ID]; !ok {
		return payment.Payment{}, payment.ErrNotFound
	}
	repo.db.payments[p.ID] = &p
	return repo.enrich(p), nil
}

func (repo *paymentRepository) CreateReminder(ctx context.Context, r payment.Reminder) (payment.Reminder, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	r.ID = newPK()
	repo.db.reminders[r.ID] = &r
	return r, nil
}

func (repo *paymentRepository) QueryRemindersByPayment(ctx context.Context, paymentID string) ([]payment.Reminder, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var reminders []payment.Reminder
	for _, r := range repo.db.reminders {
		if r.PaymentID == paymentID {
			reminders = append(reminders, *r)
		}
	}
	sort.Slice(reminders, func(i, j int) bool { return reminders[i].DaysBefore < reminders[j].DaysBefore })
	return reminders, nil
}

func (repo *paymentRepository) QueryReminders(ctx context.Context) ([]payment.Reminder, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reminders := make([]payment.Reminder, 0, len(repo.db.reminders))
	for _, r := range repo.db.reminders {
		reminders = append(reminders, *r)
	}
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].PaymentID != reminders[j].PaymentID {
			return reminders[i].PaymentID < reminders[j].PaymentID
		}
		return reminders[i].DaysBefore < reminders[j].DaysBefore
	})
	return reminders, nil
}

func (repo *paymentRepository) GetReminder(ctx context.Context, id string) (payment.Reminder, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if r, ok := repo.db.reminders[id]; ok {
		return *r, nil
	}
	return payment.Reminder{}, payment.ErrReminderNotFound
}

func (repo *paymentRepository) UpdateReminder(ctx context.Context, r payment.Reminder) (payment.Reminder, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.reminders[r.ID]; !ok {
		return payment.Reminder{}, payment.ErrReminderNotFound
	}
	repo.db.reminders[r.ID] = &r
	return r, nil
}

func (repo *paymentRepository) DeleteReminder(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.reminders[id]; !ok {
		return payment.ErrReminderNotFound
	}
	delete(repo.db.reminders, id)
	return nil
}

func (repo *paymentRepository) QueryActiveTenantContacts(ctx context.Context, leaseID string) ([]payment.TenantContact, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var contacts []payment.TenantContact
	for _, t := range repo.db.leaseTenants {
		if t.LeaseID != leaseID || t.IsDeleted {
			continue
		}
		if u, ok := repo.db.users[t.TenantID]; ok && u.Active() {
			contacts = append(contacts, payment.TenantContact{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].Name < contacts[j].Name })
	return contacts, nil
}
