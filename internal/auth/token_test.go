package auth

import (
	"testing"
	"time"

	"github.com/yourusername/resep-api/internal/apperr"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer("access-secret-for-tests", "refresh-secret-for-tests",
		15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	return issuer
}

func TestIssueAccessRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	userID, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID = %d, want 42", userID)
	}
}

func TestVerifyAccessIsIdempotent(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.IssueAccess(7)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	first, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("first VerifyAccess returned error: %v", err)
	}
	second, err := issuer.VerifyAccess(token)
	if err != nil {
		t.Fatalf("second VerifyAccess returned error: %v", err)
	}
	if first != second {
		t.Fatalf("VerifyAccess not idempotent: %d != %d", first, second)
	}
}

func TestVerifyAccessExpired(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	// 検証時刻を有効期限より先へ進める
	issuer.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	if _, err := issuer.VerifyAccess(token); err == nil {
		t.Fatal("expected error for expired token")
	} else if !apperr.IsKind(err, apperr.KindInvalidToken) {
		t.Fatalf("expected InvalidToken kind, got: %v", err)
	}
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	issuer := newTestIssuer(t)

	refresh, err := issuer.IssueRefresh(42)
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	if _, err := issuer.VerifyAccess(refresh); err == nil {
		t.Fatal("a refresh token must not verify as an access token")
	}
}

func TestVerifyRefreshRejectsAccessToken(t *testing.T) {
	issuer := newTestIssuer(t)

	access, err := issuer.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	if _, err := issuer.VerifyRefresh(access); err == nil {
		t.Fatal("an access token must not verify as a refresh token")
	}
}

func TestVerifyAccessRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewIssuer("another-access-secret", "another-refresh-secret",
		15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}

	token, err := other.IssueAccess(42)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	if _, err := issuer.VerifyAccess(token); err == nil {
		t.Fatal("a token signed with a different secret must not verify")
	}
}

func TestVerifyAccessGarbage(t *testing.T) {
	issuer := newTestIssuer(t)

	if _, err := issuer.VerifyAccess("token"); err == nil {
		t.Fatal("expected error for garbage token")
	} else if !apperr.IsKind(err, apperr.KindInvalidToken) {
		t.Fatalf("expected InvalidToken kind, got: %v", err)
	}
}

func TestNewIssuerRequiresSecrets(t *testing.T) {
	if _, err := NewIssuer("", "refresh", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty access secret")
	}
	if _, err := NewIssuer("access", "", time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty refresh secret")
	}
	if _, err := NewIssuer("access", "refresh", 0, time.Hour); err == nil {
		t.Fatal("expected error for non-positive TTL")
	}
}
