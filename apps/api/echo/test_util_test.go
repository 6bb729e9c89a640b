package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/announcement"
	"github.com/lanten/lanten/core/lease"
	"github.com/lanten/lanten/core/maintenance"
	"github.com/lanten/lanten/core/message"
	"github.com/lanten/lanten/core/payment"
	"github.com/lanten/lanten/core/property"
	"github.com/lanten/lanten/core/user"
	emailsvc "github.com/lanten/lanten/services/email"
	inmemdb "github.com/lanten/lanten/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	conf *core.Config
	db   *inmemdb.DB

	userSvc     *user.Service
	propertySvc *property.Service
	leaseSvc    *lease.Service
	paymentSvc  *payment.Service
}

func setup(t *testing.T) (Server, *testEnv) {
	t.Helper()

	conf := testConfig()
	logger := nopLogger{}

	// set up DB & repos
	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	propRepo := inmemdb.NewPropertyRepository(db)
	leaseRepo := inmemdb.NewLeaseRepository(db)
	payRepo := inmemdb.NewPaymentRepository(db)
	annRepo := inmemdb.NewAnnouncementRepository(db)
	mntRepo := inmemdb.NewMaintenanceRepository(db)
	msgRepo := inmemdb.NewMessageRepository(db)
	db.SeedRequestTypes("Plumbing", "Electrical", "Other")

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	env := &testEnv{
		conf:        conf,
		db:          db,
		userSvc:     user.NewService(usrRepo, mailSvc, conf),
		propertySvc: property.NewService(propRepo),
		leaseSvc:    lease.NewService(leaseRepo, mailSvc, conf),
		paymentSvc:  payment.NewService(payRepo, mailSvc, logger, conf),
	}

	// set up validation & templates
	validate := validator.New()
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)
	maintenance.InitValidators(validate, translator)
	core.ParseEmailTemplates(conf, logger)

	app := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         env.userSvc,
		PropertySvc:     env.propertySvc,
		LeaseSvc:        env.leaseSvc,
		PaymentSvc:      env.paymentSvc,
		AnnouncementSvc: announcement.NewService(annRepo),
		MaintenanceSvc:  maintenance.NewService(mntRepo),
		MessageSvc:      message.NewService(msgRepo),
		Validate:        validate,
		Translator:      translator,
	})
	return app, env
}

func testConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Lanten",
		SecretKey:        "+=secret=+",
		APIKey:           "sched-key",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Lanten", Address: "noreply@localhost"},

		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		InviteExpirationDelta:     7 * 24 * time.Hour,
		ReminderHorizonDays:       10,

		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

// Seed helpers

func createTestUser(t *testing.T, env *testEnv, name, email, userType string) user.User {
	t.Helper()
	usr, err := env.userSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Email:           email,
		Type:            userType,
		Password:        "LeTrucSale#77",
		PasswordConfirm: "LeTrucSale#77",
	})
	if err != nil {
		t.Fatalf("createTestUser(): %v", err)
	}
	return usr
}

func createTestLease(t *testing.T, env *testEnv, landlord user.User) lease.Lease {
	t.Helper()
	prop, err := env.propertySvc.Create(context.Background(), landlord.ID, property.NewProperty{
		Name:    "Green Mansions",
		Address: "12 Oak Street",
	})
	if err != nil {
		t.Fatalf("createTestLease(): %v", err)
	}
	l, err := env.leaseSvc.Create(context.Background(), lease.NewLease{
		PropertyID: prop.ID,
		StartDate:  time.Now().UTC(),
		EndDate:    time.Now().UTC().AddDate(1, 0, 0),
		TotalRent:  1200,
	})
	if err != nil {
		t.Fatalf("createTestLease(): %v", err)
	}
	// GetByID re-reads the lease with its property joins
	if l, err = env.leaseSvc.GetByID(context.Background(), l.ID); err != nil {
		t.Fatalf("createTestLease(): %v", err)
	}
	return l
}

func joinTestLease(t *testing.T, env *testEnv, l lease.Lease, tenant user.User) lease.Tenant {
	t.Helper()
	inv, err := env.leaseSvc.Invite(context.Background(), l, lease.InviteTenant{Email: tenant.Email})
	if err != nil {
		t.Fatalf("joinTestLease(): %v", err)
	}
	mbr, err := env.leaseSvc.AcceptInvite(context.Background(), tenant, lease.AcceptInvite{InviteCode: inv.InviteCode})
	if err != nil {
		t.Fatalf("joinTestLease(): %v", err)
	}
	return mbr
}

func createTestPayment(t *testing.T, env *testEnv, l lease.Lease, np payment.NewPayment) payment.Payment {
	t.Helper()
	p, err := env.paymentSvc.Create(context.Background(), l.ID, np)
	if err != nil {
		t.Fatalf("createTestPayment(): %v", err)
	}
	return p
}

// HTTP helpers

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
