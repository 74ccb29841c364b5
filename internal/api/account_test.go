package api_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/joestump/animeshelf/internal/api"
)

var aliceReq = api.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter22"}

func TestAccount_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/auth/register", aliceReq)
	expectStatus(t, rec, http.StatusCreated)
	if strings.Contains(rec.Body.String(), aliceReq.Password) {
		t.Error("password leaked in response")
	}
	if u := decode[api.UserResponse](t, rec); u.Email != aliceReq.Email {
		t.Errorf("register = %+v", u)
	}

	expectError(t, env.do(t, "GET", "/me", nil), http.StatusUnauthorized, "unauthorized")

	rec = env.do(t, "POST", "/auth/login", api.LoginRequest{Email: aliceReq.Email, Password: aliceReq.Password})
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, "GET", "/me", nil)
	expectStatus(t, rec, http.StatusOK)
	if u := decode[api.UserResponse](t, rec); u.Username != "alice" || u.DisplayName != "alice" {
		t.Errorf("me = %+v", u)
	}

	expectStatus(t, env.do(t, "POST", "/auth/logout", nil), http.StatusNoContent)
	expectError(t, env.do(t, "GET", "/me", nil), http.StatusUnauthorized, "unauthorized")
}

func TestAccount_RegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	expectStatus(t, env.do(t, "POST", "/auth/register", aliceReq), http.StatusCreated)

	dup := aliceReq
	dup.Username = "other"
	expectError(t, env.do(t, "POST", "/auth/register", dup), http.StatusConflict, "duplicate_email")

	short := api.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "123"}
	expectError(t, env.do(t, "POST", "/auth/register", short), http.StatusBadRequest, "validation")
}

func TestAccount_LoginFailuresMatch(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/auth/register", aliceReq)

	wrong := env.do(t, "POST", "/auth/login", api.LoginRequest{Email: aliceReq.Email, Password: "nope-nope"})
	unknown := env.do(t, "POST", "/auth/login", api.LoginRequest{Email: "ghost@example.com", Password: aliceReq.Password})

	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", wrong.Body.String(), unknown.Body.String())
	}
	expectError(t, wrong, http.StatusUnauthorized, "invalid_credentials")
	expectError(t, unknown, http.StatusUnauthorized, "invalid_credentials")
}

func TestAccount_UpdateMe(t *testing.T) {
	env := newTestEnv(t)

	name := "Alice"
	expectError(t, env.do(t, "PATCH", "/me", api.UpdateProfileRequest{Username: &name}), http.StatusUnauthorized, "unauthorized")

	env.do(t, "POST", "/auth/register", aliceReq)
	env.do(t, "POST", "/auth/register", api.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	env.do(t, "POST", "/auth/login", api.LoginRequest{Email: aliceReq.Email, Password: aliceReq.Password})

	empty := ""
	expectError(t, env.do(t, "PATCH", "/me", api.UpdateProfileRequest{Username: &empty}), http.StatusBadRequest, "validation")

	taken := "bob@example.com"
	expectError(t, env.do(t, "PATCH", "/me", api.UpdateProfileRequest{Email: &taken}), http.StatusConflict, "duplicate_email")

	email := "alice@new.example"
	rec := env.do(t, "PATCH", "/me", api.UpdateProfileRequest{Username: &name, Email: &email})
	expectStatus(t, rec, http.StatusOK)
	if u := decode[api.UserResponse](t, rec); u.Username != name || u.Email != email {
		t.Errorf("updated = %+v", u)
	}

	expectStatus(t, env.do(t, "POST", "/auth/login", api.LoginRequest{Email: email, Password: aliceReq.Password}), http.StatusOK)
}
