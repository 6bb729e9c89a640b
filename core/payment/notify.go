package payment

import (
	"context"
	"net/mail"
	"sort"

	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
)

// tenantDigest groups one tenant's due reminders for a single email.
type tenantDigest struct {
	Tenant    TenantContact
	Reminders []DueReminder
}

// NotifyDueReminders computes today's due reminders and sends each affected
// tenant a single digest email covering all of their upcoming payments.
// It returns the number of digests sent.
func (svc *Service) NotifyDueReminders(ctx context.Context) (int, error) {
	dues, err := svc.DueReminders(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "computing due reminders")
	}
	if len(dues) == 0 {
		return 0, nil
	}

	digests := make(map[string]*tenantDigest)
	for _, due := range dues {
		for _, t := range due.Tenants {
			d, ok := digests[t.ID]
			if !ok {
				d = &tenantDigest{Tenant: t}
				digests[t.ID] = d
			}
			d.Reminders = append(d.Reminders, due)
		}
	}

	// stable send order for logs and tests
	ids := make([]string, 0, len(digests))
	for id := range digests {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	messages := make([]*core.EmailMessage, 0, len(ids))
	for _, id := range ids {
		d := digests[id]
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: d.Tenant.Name, Address: d.Tenant.Email}},
			Subject:      "Upcoming payment reminders",
			TemplateName: "payment-reminders",
			TemplateData: struct {
				Tenant    TenantContact
				Reminders []DueReminder
			}{d.Tenant, d.Reminders},
		})
	}
	svc.mailSvc.SendMessages(messages...)

	svc.logger.Info("payment reminder digests sent", len(messages), len(dues))
	return len(messages), nil
}
