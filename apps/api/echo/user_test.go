package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lanten/lanten/core/user"
)

func Test_userApi(t *testing.T) {
	app, env := setup(t)

	tenant := createTestUser(t, env, "Tess Tenant", "tess@test.cd", "TENANT")

	deactivated := createTestUser(t, env, "Dea Ctivated", "dea@test.cd", "TENANT")
	inactive := false
	if _, err := env.userSvc.Update(context.Background(), deactivated.ID, user.UpdateUser{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivating user: %v", err)
	}

	checkCode := func(t *testing.T, want int, rec *httptest.ResponseRecorder) {
		t.Helper()
		if rec.Code != want {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, want, rec.Body.String())
		}
	}

	t.Run("register creates a user", func(t *testing.T) {
		body := []byte(`{"name": "New Guy", "email": "new@test.cd", "user_type": "TENANT", ` +
			`"password": "LeTrucSale#77", "password_confirm": "LeTrucSale#77"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		var got user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.ID == "" || got.Email != "new@test.cd" || got.Type != user.TypeTenant {
			t.Errorf("unexpected user %+v", got)
		}
	})

	t.Run("register rejects a taken email", func(t *testing.T) {
		body := []byte(`{"name": "Copy Cat", "email": "tess@test.cd", "user_type": "TENANT", ` +
			`"password": "LeTrucSale#77", "password_confirm": "LeTrucSale#77"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
		app.ServeHTTP(rec, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("register rejects an unknown user type", func(t *testing.T) {
		body := []byte(`{"name": "No Type", "email": "notype@test.cd", "user_type": "ADMIN", ` +
			`"password": "LeTrucSale#77", "password_confirm": "LeTrucSale#77"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("login returns a token", func(t *testing.T) {
		body := []byte(`{"email": "tess@test.cd", "password": "LeTrucSale#77"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("login rejects a bad password", func(t *testing.T) {
		body := []byte(`{"email": "tess@test.cd", "password": "nope"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("login rejects an unknown email", func(t *testing.T) {
		body := []byte(`{"email": "ghost@test.cd", "password": "LeTrucSale#77"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("login rejects a deactivated account", func(t *testing.T) {
		body := []byte(`{"email": "dea@test.cd", "password": "LeTrucSale#77"}`)
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("me requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/me")
		app.ServeHTTP(rec, req)

		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("me returns the authenticated user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", getToken(t, tenant))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.ID != tenant.ID || got.Email != tenant.Email {
			t.Errorf("unexpected user %+v", got)
		}
	})

	t.Run("token refresh returns a fresh token", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, tenant))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if got.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("password reset does not leak account existence", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", []byte(`{"email": "ghost@test.cd"}`))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)
	})
}
