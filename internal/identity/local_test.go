package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"pigfarm-manager/internal/repository"
	"pigfarm-manager/internal/testutil"
)

func TestLocal_SignUpThenSignIn(t *testing.T) {
	db := testutil.OpenTestDB(t)
	p := NewLocal(repository.NewUsers(db))
	p.cost = bcrypt.MinCost
	ctx := context.Background()

	if err := p.SignUp(ctx, " kim@farm.io ", "pw1"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := p.SignUp(ctx, "kim@farm.io", "other"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second SignUp: err = %v", err)
	}

	id, err := p.SignIn(ctx, "kim@farm.io", "pw1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if id.Email != "kim@farm.io" {
		t.Fatalf("email = %q", id.Email)
	}

	if _, err := p.SignIn(ctx, "kim@farm.io", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := p.SignIn(ctx, "ghost@farm.io", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}
