package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-jwt-token"

func signed(t *testing.T, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func fakeGoTrue(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("grant_type") != "password" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "right" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"expires_in":   3600,
			"user":         map[string]any{"id": "u1", "email": c.Email},
		})
	})
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Email == "taken@farm.io" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u2"}`))
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoTrue_SignIn(t *testing.T) {
	srv := fakeGoTrue(t, signed(t, "ann@farm.io"))
	g := NewGoTrue(GoTrueOptions{URL: srv.URL, APIKey: "anon", JWTSecret: testSecret})

	id, err := g.SignIn(context.Background(), "ann@farm.io", "right")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if id.Email != "ann@farm.io" || id.Token == "" {
		t.Fatalf("identity = %+v", id)
	}

	if _, err := g.SignIn(context.Background(), "ann@farm.io", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGoTrue_RejectsForeignToken(t *testing.T) {
	// токен выписан на другой email
	srv := fakeGoTrue(t, signed(t, "mallory@farm.io"))
	g := NewGoTrue(GoTrueOptions{URL: srv.URL, APIKey: "anon", JWTSecret: testSecret})

	if _, err := g.SignIn(context.Background(), "ann@farm.io", "right"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGoTrue_SkipsVerificationWithoutSecret(t *testing.T) {
	srv := fakeGoTrue(t, "opaque-token")
	g := NewGoTrue(GoTrueOptions{URL: srv.URL, APIKey: "anon"})

	id, err := g.SignIn(context.Background(), "ann@farm.io", "right")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if id.Token != "opaque-token" {
		t.Fatalf("token = %q", id.Token)
	}
}

func TestGoTrue_SignUpAndSignOut(t *testing.T) {
	srv := fakeGoTrue(t, "x")
	g := NewGoTrue(GoTrueOptions{URL: srv.URL + "/", APIKey: "anon"})
	ctx := context.Background()

	if err := g.SignUp(ctx, "new@farm.io", "pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := g.SignUp(ctx, "taken@farm.io", "pw"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate SignUp: err = %v", err)
	}
	if err := g.SignOut(ctx, "tok"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if err := g.SignOut(ctx, ""); err != nil {
		t.Fatalf("SignOut without token: %v", err)
	}
}
