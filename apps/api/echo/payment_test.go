package echoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lanten/lanten/core/payment"
)

func Test_paymentApi(t *testing.T) {
	app, env := setup(t)

	landlord := createTestUser(t, env, "Jay Landlord", "jay@test.cd", "LANDLORD")
	tenant := createTestUser(t, env, "Tess Tenant", "tess@test.cd", "TENANT")
	outsider := createTestUser(t, env, "Odd One", "odd@test.cd", "TENANT")

	l := createTestLease(t, env, landlord)
	joinTestLease(t, env, l, tenant)

	landlordToken := getToken(t, landlord)
	tenantToken := getToken(t, tenant)
	outsiderToken := getToken(t, outsider)

	checkCode := func(t *testing.T, want int, rec *httptest.ResponseRecorder) {
		t.Helper()
		if rec.Code != want {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, want, rec.Body.String())
		}
	}

	var rent payment.Payment

	t.Run("landlord creates a recurring payment", func(t *testing.T) {
		body := []byte(`{"name": "Rent", "amount": 1200, "type": "RENT", "payment_date": "2026-01-31T00:00:00Z", "recurring_interval": "MONTHLY"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/leases/"+l.ID+"/payments", landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		if err := json.Unmarshal(rec.Body.Bytes(), &rent); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if rent.ID == "" || rent.LeaseID != l.ID || rent.RecurringInterval != payment.IntervalMonthly {
			t.Errorf("unexpected payment %+v", rent)
		}
	})

	t.Run("tenants cannot create payments", func(t *testing.T) {
		body := []byte(`{"name": "Sneaky", "amount": 1, "payment_date": "2026-01-01T00:00:00Z"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/leases/"+l.ID+"/payments", tenantToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusForbidden, rec)
	})

	t.Run("member tenant lists lease payments", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/leases/"+l.ID+"/payments", tenantToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var payments []payment.Payment
		if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(payments) != 1 || payments[0].ID != rent.ID {
			t.Errorf("unexpected payments %+v", payments)
		}
		if payments[0].NextPaymentDate == nil {
			t.Error("expected a derived next payment date")
		}
	})

	t.Run("non-members get not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/payments/"+rent.ID, outsiderToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("unknown interval is rejected", func(t *testing.T) {
		body := []byte(`{"name": "Weird", "amount": 10, "payment_date": "2026-01-01T00:00:00Z", "recurring_interval": "FORTNIGHTLY"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/leases/"+l.ID+"/payments", landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})

	var rem payment.Reminder

	t.Run("landlord adds a reminder", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/"+rent.ID+"/reminders", landlordToken, []byte(`{"days_before": 3}`))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		if err := json.Unmarshal(rec.Body.Bytes(), &rem); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if rem.PaymentID != rent.ID || rem.DaysBefore != 3 {
			t.Errorf("unexpected reminder %+v", rem)
		}
	})

	t.Run("duplicate lead times are rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/"+rent.ID+"/reminders", landlordToken, []byte(`{"days_before": 3}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"days_before": "a reminder with the same days_before already exists"}),
		}, rec)
	})

	t.Run("out-of-range lead times are rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/payments/"+rent.ID+"/reminders", landlordToken, []byte(`{"days_before": 8}`))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})

	t.Run("reminder update and delete", func(t *testing.T) {
		path := "/v1/payments/" + rent.ID + "/reminders/" + rem.ID
		req, rec := newAuthRequest(http.MethodPut, path, landlordToken, []byte(`{"days_before": 5}`))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got payment.Reminder
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.DaysBefore != 5 {
			t.Errorf("unexpected reminder %+v", got)
		}

		req, rec = newAuthRequest(http.MethodDelete, path, landlordToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodGet, "/v1/payments/"+rent.ID+"/reminders", tenantToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
		var reminders []payment.Reminder
		if err := json.Unmarshal(rec.Body.Bytes(), &reminders); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(reminders) != 0 {
			t.Errorf("unexpected reminders %+v", reminders)
		}
	})

	t.Run("payment update and soft delete", func(t *testing.T) {
		deposit := createTestPayment(t, env, l, payment.NewPayment{
			Name:              "Deposit",
			Amount:            2400,
			Type:              payment.TypeDeposit,
			PaymentDate:       time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
			RecurringInterval: payment.IntervalNone,
		})

		body := []byte(`{"name": "Deposit", "amount": 2000, "type": "DEPOSIT", "payment_date": "2026-02-01T00:00:00Z"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/payments/"+deposit.ID, landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got payment.Payment
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.Amount != 2000 {
			t.Errorf("unexpected payment %+v", got)
		}

		req, rec = newAuthRequest(http.MethodDelete, "/v1/payments/"+deposit.ID, landlordToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodGet, "/v1/payments/"+deposit.ID, landlordToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})
}
