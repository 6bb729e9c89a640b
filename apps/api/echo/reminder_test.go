package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lanten/lanten/core/payment"
)

func Test_reminderApi(t *testing.T) {
	app, env := setup(t)

	payment.NowFunc = func() time.Time { return time.Date(2026, time.June, 10, 9, 30, 0, 0, time.UTC) }
	defer func() { payment.NowFunc = time.Now }()

	landlord := createTestUser(t, env, "Jay Landlord", "jay@test.cd", "LANDLORD")
	tenant := createTestUser(t, env, "Tess Tenant", "tess@test.cd", "TENANT")
	l := createTestLease(t, env, landlord)
	joinTestLease(t, env, l, tenant)

	rent := createTestPayment(t, env, l, payment.NewPayment{
		Name:              "Rent",
		Amount:            1200,
		Type:              payment.TypeRent,
		PaymentDate:       time.Date(2026, time.June, 13, 0, 0, 0, 0, time.UTC),
		RecurringInterval: payment.IntervalMonthly,
	})
	rem, err := env.paymentSvc.CreateReminder(context.Background(), rent.ID, payment.NewReminder{DaysBefore: 3})
	if err != nil {
		t.Fatalf("creating reminder: %v", err)
	}

	checkCode := func(t *testing.T, want int, rec *httptest.ResponseRecorder) {
		t.Helper()
		if rec.Code != want {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, want, rec.Body.String())
		}
	}

	t.Run("due requires the API key", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/reminders/due")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid API key"})}, rec)
	})

	t.Run("due rejects a wrong key", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reminders/due", "not-the-key")
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusUnauthorized, rec)
	})

	t.Run("a user JWT is not an API key", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reminders/due", getToken(t, landlord))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusUnauthorized, rec)
	})

	t.Run("due returns the matched reminders", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reminders/due", env.conf.APIKey)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var dues []payment.DueReminder
		if err := json.Unmarshal(rec.Body.Bytes(), &dues); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(dues) != 1 {
			t.Fatalf("dues = %d; want 1", len(dues))
		}
		due := dues[0]
		if due.Payment.ID != rent.ID || due.Reminder.ID != rem.ID {
			t.Errorf("unexpected due reminder %+v", due)
		}
		if want := time.Date(2026, time.June, 13, 0, 0, 0, 0, time.UTC); !due.OccurrenceDate.Equal(want) {
			t.Errorf("occurrence = %v; want %v", due.OccurrenceDate, want)
		}
		if len(due.Tenants) != 1 || due.Tenants[0].Email != tenant.Email {
			t.Errorf("unexpected tenants %+v", due.Tenants)
		}
	})

	t.Run("notify sends one digest per tenant", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/reminders/notify", env.conf.APIKey)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got NotifyResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.DigestsSent != 1 {
			t.Errorf("digests_sent = %d; want 1", got.DigestsSent)
		}
	})

	t.Run("an unconfigured key locks the endpoints", func(t *testing.T) {
		conf := *env.conf
		conf.APIKey = ""

		e := echo.New()
		e.GET("/due", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, preSharedKeyMiddleware(&conf))

		req, rec := newRequest(http.MethodGet, "/due")
		e.ServeHTTP(rec, req)
		checkCode(t, http.StatusUnauthorized, rec)
	})
}
