package echoapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lanten/lanten/core/message"
)

func Test_messageApi(t *testing.T) {
	app, env := setup(t)

	landlord := createTestUser(t, env, "Jay Landlord", "jay@test.cd", "LANDLORD")
	rival := createTestUser(t, env, "Riv Al", "riv@test.cd", "LANDLORD")
	tenant := createTestUser(t, env, "Tess Tenant", "tess@test.cd", "TENANT")
	outsider := createTestUser(t, env, "Odd One", "odd@test.cd", "TENANT")
	l := createTestLease(t, env, landlord)
	joinTestLease(t, env, l, tenant)

	landlordToken := getToken(t, landlord)
	tenantToken := getToken(t, tenant)

	checkCode := func(t *testing.T, want int, rec *httptest.ResponseRecorder) {
		t.Helper()
		if rec.Code != want {
			t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, want, rec.Body.String())
		}
	}

	var first, second message.Message

	t.Run("landlord messages their tenant", func(t *testing.T) {
		body := []byte(`{"text": "Hi Tess, rent is due soon."}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/"+tenant.ID, landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if first.SenderID != landlord.ID || first.RecipientID != tenant.ID {
			t.Errorf("unexpected message %+v", first)
		}
	})

	t.Run("tenant replies to their landlord", func(t *testing.T) {
		body := []byte(`{"text": "Noted, thanks!"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/"+landlord.ID, tenantToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
	})

	t.Run("landlords can only message their tenants", func(t *testing.T) {
		body := []byte(`{"text": "Hello stranger"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/"+outsider.ID, landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "you can only message your tenants"}),
		}, rec)
	})

	t.Run("tenants can only message their landlord", func(t *testing.T) {
		body := []byte(`{"text": "Hello stranger"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/"+rival.ID, tenantToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "you can only message your landlord"}),
		}, rec)
	})

	t.Run("messaging yourself is rejected", func(t *testing.T) {
		body := []byte(`{"text": "Dear me"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/"+landlord.ID, landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "you cannot send a message to yourself"}),
		}, rec)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		body := []byte(`{"text": "Anyone there?"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/nope", landlordToken, body)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("a text is required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/messages/"+tenant.ID, landlordToken, []byte(`{}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"text": "this field is required"}),
		}, rec)
	})

	t.Run("conversation lists both sides oldest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages/"+landlord.ID, tenantToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var msgs []message.Message
		if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(msgs) != 2 || msgs[0].ID != first.ID || msgs[1].ID != second.ID {
			t.Errorf("unexpected conversation %+v", msgs)
		}
	})

	t.Run("max trims to the latest messages", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages/"+landlord.ID+"?max=1", tenantToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var msgs []message.Message
		if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(msgs) != 1 || msgs[0].ID != second.ID {
			t.Errorf("unexpected page %+v", msgs)
		}
	})

	t.Run("cursor pages backwards", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages/"+landlord.ID+"?from="+second.ID, tenantToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var msgs []message.Message
		if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(msgs) != 1 || msgs[0].ID != first.ID {
			t.Errorf("unexpected page %+v", msgs)
		}
	})

	t.Run("contacts lists messaged users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/messages", landlordToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallList(t, message.Contact{ID: tenant.ID, Name: tenant.Name, Email: tenant.Email}),
		}, rec)
	})

	t.Run("only the sender can delete a message", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/messages/"+first.ID, tenantToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		}, rec)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/messages/"+first.ID, landlordToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNoContent, rec)

		req, rec = newAuthRequest(http.MethodGet, "/v1/messages/"+landlord.ID, tenantToken)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var msgs []message.Message
		if err := json.Unmarshal(rec.Body.Bytes(), &msgs); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if len(msgs) != 1 || msgs[0].ID != second.ID {
			t.Errorf("unexpected conversation after delete %+v", msgs)
		}
	})
}
