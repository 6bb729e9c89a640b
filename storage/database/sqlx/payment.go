package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/payment"
)

type paymentRow struct {
	ID                string    `db:"id"`
	LeaseID           string    `db:"lease_id"`
	Amount            float64   `db:"amount"`
	Name              string    `db:"name"`
	Description       null.String `db:"description"`
	Type              string    `db:"payment_type"`
	PaymentDate       null.Time `db:"payment_date"`
	RecurringInterval string    `db:"recurring_interval"`
	IsDeleted         bool      `db:"is_deleted"`
	CreatedAt         null.Time `db:"created_at"`
	UpdatedAt         null.Time `db:"updated_at"`

	LandlordID null.String `db:"landlord_id"`
}

func (row paymentRow) unmarshal() payment.Payment {
	return payment.Payment{
		ID:                row.ID,
		LeaseID:           row.LeaseID,
		Amount:            row.Amount,
		Name:              row.Name,
		Description:       row.Description.String,
		Type:              row.Type,
		PaymentDate:       row.PaymentDate.Time,
		RecurringInterval: payment.Interval(row.RecurringInterval),
		IsDeleted:         row.IsDeleted,
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
		LandlordID:        row.LandlordID.String,
	}
}

type reminderRow struct {
	ID         string `db:"id"`
	PaymentID  string `db:"payment_id"`
	DaysBefore int    `db:"days_before"`
}

func (row reminderRow) unmarshal() payment.Reminder {
	return payment.Reminder(row)
}

type paymentRepository struct {
	exec core.DBExecutor
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(exec core.DBExecutor) *paymentRepository {
	return &paymentRepository{exec: exec}
}

const paymentSelect = `
	SELECT pm.*, p.landlord_id
	FROM payment pm
	JOIN lease l ON l.id = pm.lease_id
	JOIN property p ON p.id = l.property_id`

func (repo paymentRepository) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	p.ID = uuid.New().String()
	query := `
		INSERT INTO payment (id, lease_id, amount, name, description, payment_type, payment_date, recurring_interval, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := repo.exec.ExecContext(ctx, query,
		p.ID, p.LeaseID, p.Amount, p.Name, null.NewString(p.Description, p.Description != ""),
		p.Type, p.PaymentDate, string(p.RecurringInterval), p.IsDeleted, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return repo.GetPayment(ctx, p.ID)
}

func (repo paymentRepository) QueryPaymentsByLease(ctx context.Context, leaseID string) ([]payment.Payment, error) {
	var rows []paymentRow
	query := paymentSelect + ` WHERE pm.lease_id = $1 AND NOT pm.is_deleted ORDER BY pm.created_at`
	if err := repo.exec.SelectContext(ctx, &rows, query, leaseID); err != nil {
		return nil, errors.Wrap(err, "querying lease payments")
	}
	return unmarshalPayments(rows), nil
}

// QueryPayments returns every payment, soft-deleted ones included.
func (repo paymentRepository) QueryPayments(ctx context.Context) ([]payment.Payment, error) {
	var rows []paymentRow
	query := paymentSelect + ` ORDER BY pm.created_at`
	if err := repo.exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	return unmarshalPayments(rows), nil
}

func unmarshalPayments(rows []paymentRow) []payment.Payment {
	payments := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.unmarshal())
	}
	return payments
}

func (repo paymentRepository) GetPayment(ctx context.Context, id string) (payment.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.Payment{}, payment.ErrNotFound
	}
	var row paymentRow
	query := paymentSelect + ` WHERE pm.id = $1`
	if err := repo.exec.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, errors.Wrap(err, "finding payment")
	}
	return row.unmarshal(), nil
}

func (repo paymentRepository) UpdatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	query := `
		UPDATE payment
		SET amount = $2, name = $3, description = $4, payment_type = $5, payment_date = $6,
		    recurring_interval = $7, is_deleted = $8, updated_at = $9
		WHERE id = $1`
	_, err := repo.exec.ExecContext(ctx, query,
		p.ID, p.Amount, p.Name, null.NewString(p.Description, p.Description != ""),
		p.Type, p.PaymentDate, string(p.RecurringInterval), p.IsDeleted, p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "updating payment")
	}
	return p, nil
}

func (repo paymentRepository) CreateReminder(ctx context.Context, r payment.Reminder) (payment.Reminder, error) {
	r.ID = uuid.New().String()
	query := `INSERT INTO reminder (id, payment_id, days_before) VALUES ($1, $2, $3)`
	if _, err := repo.exec.ExecContext(ctx, query, r.ID, r.PaymentID, r.DaysBefore); err != nil {
		return payment.Reminder{}, errors.Wrap(err, "inserting reminder")
	}
	return r, nil
}

func (repo paymentRepository) QueryRemindersByPayment(ctx context.Context, paymentID string) ([]payment.Reminder, error) {
	var rows []reminderRow
	query := `SELECT * FROM reminder WHERE payment_id = $1 ORDER BY days_before`
	if err := repo.exec.SelectContext(ctx, &rows, query, paymentID); err != nil {
		return nil, errors.Wrap(err, "querying payment reminders")
	}
	return unmarshalReminders(rows), nil
}

func (repo paymentRepository) QueryReminders(ctx context.Context) ([]payment.Reminder, error) {
	var rows []reminderRow
	if err := repo.exec.SelectContext(ctx, &rows, `SELECT * FROM reminder ORDER BY payment_id, days_before`); err != nil {
		return nil, errors.Wrap(err, "querying reminders")
	}
	return unmarshalReminders(rows), nil
}

func unmarshalReminders(rows []reminderRow) []payment.Reminder {
	reminders := make([]payment.Reminder, 0, len(rows))
	for _, row := range rows {
		reminders = append(reminders, row.unmarshal())
	}
	return reminders
}

func (repo paymentRepository) GetReminder(ctx context.Context, id string) (payment.Reminder, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.Reminder{}, payment.ErrReminderNotFound
	}
	var row reminderRow
	if err := repo.exec.GetContext(ctx, &row, `SELECT * FROM reminder WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return payment.Reminder{}, payment.ErrReminderNotFound
		}
		return payment.Reminder{}, errors.Wrap(err, "finding reminder")
	}
	return row.unmarshal(), nil
}

func (repo paymentRepository) UpdateReminder(ctx context.Context, r payment.Reminder) (payment.Reminder, error) {
	query := `UPDATE reminder SET days_before = $2 WHERE id = $1`
	if _, err := repo.exec.ExecContext(ctx, query, r.ID, r.DaysBefore); err != nil {
		return payment.Reminder{}, errors.Wrap(err, "updating reminder")
	}
	return r, nil
}

func (repo paymentRepository) DeleteReminder(ctx context.Context, id string) error {
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM reminder WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting reminder")
	}
	return nil
}

func (repo paymentRepository) QueryActiveTenantContacts(ctx context.Context, leaseID string) ([]payment.TenantContact, error) {
	var contacts []payment.TenantContact
	query := `
		SELECT u.id, u.name, u.email
		FROM lease_tenant lt
		JOIN "user" u ON u.id = lt.tenant_id
		WHERE lt.lease_id = $1 AND NOT lt.is_deleted AND u.is_active
		ORDER BY u.name`
	if err := repo.exec.SelectContext(ctx, &contacts, query, leaseID); err != nil {
		return nil, errors.Wrap(err, "querying lease tenant contacts")
	}
	return contacts, nil
}
