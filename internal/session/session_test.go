package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"finboard/internal/roles"
)

func newTestCodec(ttl time.Duration, rev Revoker) *Codec {
	return NewCodec("test-secret-key", ttl, rev, false)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(time.Hour, nil)

	sess := &Session{
		UserID: "u-1",
		Email:  "cfo@example.com",
		Role:   roles.CFO,
		Token:  "remote-bearer-token",
	}

	raw, err := codec.Issue(sess)

	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := codec.Verify(context.Background(), raw)

	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if got.UserID != sess.UserID || got.Email != sess.Email || got.Role != sess.Role || got.Token != sess.Token {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if got.JTI == "" {
		t.Error("expected a jti to be assigned")
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	codec := newTestCodec(time.Hour, nil)

	raw, err := codec.Issue(&Session{UserID: "u-1", Role: roles.Guest, Token: "tok"})

	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewCodec("a-different-secret", time.Hour, nil, false)

	if _, err := other.Verify(context.Background(), raw); err == nil {
		t.Error("expected verification failure for wrong secret")
	}

	if _, err := codec.Verify(context.Background(), raw+"x"); err == nil {
		t.Error("expected verification failure for mangled token")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := newTestCodec(-time.Minute, nil)

	raw, err := codec.Issue(&Session{UserID: "u-1", Role: roles.CEO, Token: "tok"})

	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := codec.Verify(context.Background(), raw); err == nil {
		t.Error("expected verification failure for expired session")
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	codec := newTestCodec(time.Hour, nil)

	raw, err := codec.Issue(&Session{UserID: "u-1", Role: roles.Role("INTERN"), Token: "tok"})

	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := codec.Verify(context.Background(), raw); err == nil {
		t.Error("expected verification failure for role outside the closed set")
	}
}

func TestFromRequestAbsentCookieIsNil(t *testing.T) {
	codec := newTestCodec(time.Hour, nil)

	r := httptest.NewRequest(http.MethodGet, "/customers", nil)

	if sess := codec.FromRequest(r); sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
}

func TestFromRequestValidCookie(t *testing.T) {
	codec := newTestCodec(time.Hour, nil)

	raw, err := codec.Issue(&Session{UserID: "u-9", Email: "guest@example.com", Role: roles.Guest, Token: "tok"})

	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/guest", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: raw})

	sess := codec.FromRequest(r)

	if sess == nil {
		t.Fatal("expected a session")
	}

	if sess.Role != roles.Guest {
		t.Errorf("role = %s, want GUEST", sess.Role)
	}
}

// In-memory revoker fake, same shape as the Redis one.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti], nil
}

func TestLogoutRevokesSession(t *testing.T) {
	rev := &fakeRevoker{}
	codec := newTestCodec(time.Hour, rev)

	sess := &Session{UserID: "u-1", Role: roles.Admin, Token: "tok"}

	raw, err := codec.Issue(sess)

	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := httptest.NewRecorder()

	if err := codec.Logout(context.Background(), w, sess); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// Cookie cleared.
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}

	// Token no longer verifies.
	if _, err := codec.Verify(context.Background(), raw); err == nil {
		t.Error("expected revoked session to fail verification")
	}
}
