package user

import (
	"testing"
	"time"

	"github.com/lanten/lanten/core"
)

func testConfig() *core.Config {
	return &core.Config{
		SecretKey:                 "sekrit",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
}

func testUser(t *testing.T) User {
	usr := User{
		ID:        "b3c1e6a0-5a4f-4a36-9f50-1a2b3c4d5e6f",
		Name:      "Tim Tenant",
		Email:     "tim@test.tst",
		Type:      TypeTenant,
		LastLogin: time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC),
	}
	if err := usr.SetPassword("g00dPa$$w0rd"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	return usr
}

func TestMakeToken_roundTrip(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	conf := testConfig()
	usr := testUser(t)

	token, err := MakeToken(conf, usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}
	if err = verifyToken(conf, usr, token); err != nil {
		t.Errorf("verifyToken() failed: %v", err)
	}
}

func TestVerifyToken_invalid(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	conf := testConfig()
	usr := testUser(t)

	token, err := MakeToken(conf, usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: errInvalidToken},
		{name: "no separator", token: "garbage", want: errInvalidToken},
		{name: "tampered signature", token: token + "x", want: errInvalidToken},
		{name: "bad timestamp", token: "!!!-" + token, want: errInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(conf, usr, tt.token); err != tt.want {
				t.Errorf("verifyToken() = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestVerifyToken_singleUse(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	conf := testConfig()
	usr := testUser(t)

	token, err := MakeToken(conf, usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	// changing the password invalidates outstanding tokens
	if err = usr.SetPassword("an0therPa$$w0rd"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err = verifyToken(conf, usr, token); err != errInvalidToken {
		t.Errorf("verifyToken() = %v; want %v", err, errInvalidToken)
	}
}

func TestVerifyToken_expired(t *testing.T) {
	defer func() { NowFunc = time.Now }()
	conf := testConfig()
	usr := testUser(t)

	NowFunc = func() time.Time { return time.Now().AddDate(0, 0, -4) }
	token, err := MakeToken(conf, usr)
	if err != nil {
		t.Fatalf("MakeToken() failed: %v", err)
	}

	NowFunc = time.Now
	if err = verifyToken(conf, usr, token); err != errTokenExpired {
		t.Errorf("verifyToken() = %v; want %v", err, errTokenExpired)
	}
}
