package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/auth"
	"github.com/kapu/chess-learn-go/internal/domain"
	"github.com/kapu/chess-learn-go/internal/platform"
	"github.com/kapu/chess-learn-go/internal/store"
)

type stubVerifier struct {
	err   error
	calls int
}

func (v *stubVerifier) VerifyAccount(ctx context.Context, username string) (json.RawMessage, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return json.RawMessage(`{"username":"` + username + `"}`), nil
}

func newTestService(t *testing.T, verifier Verifier) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	tokens := auth.NewService("test-secret", 30*time.Minute)
	svc, err := NewService(st, tokens, map[string]Verifier{
		domain.PlatformChessCom: verifier,
		domain.PlatformLichess:  verifier,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, st
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubVerifier{})

	user, err := svc.Register(ctx, "alice", "alice@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("no user id assigned")
	}
	if user.PasswordHash == "Sup3rSecret" {
		t.Fatalf("password stored in the clear")
	}

	token, err := svc.Login(ctx, "alice", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "Sup3rSecret"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubVerifier{})

	if _, err := svc.Register(ctx, "ab", "", "Sup3rSecret"); !errors.Is(err, auth.ErrUsernameTooShort) {
		t.Fatalf("expected ErrUsernameTooShort, got %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "", "short"); !errors.Is(err, auth.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubVerifier{})

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "Alice", "other@example.com", "Sup3rSecret"); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLinkAndUnlink(t *testing.T) {
	ctx := context.Background()
	verifier := &stubVerifier{}
	svc, _ := newTestService(t, verifier)

	user, err := svc.Register(ctx, "alice", "", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	link, err := svc.Link(ctx, user.ID, "Chess.com", "alice_cc")
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if link.Platform != domain.PlatformChessCom || !link.Verified {
		t.Fatalf("link = %+v", link)
	}
	if verifier.calls != 1 {
		t.Fatalf("verifier called %d times", verifier.calls)
	}

	me, err := svc.Me(ctx, user.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Accounts[domain.PlatformChessCom].Username != "alice_cc" {
		t.Fatalf("link not persisted: %+v", me.Accounts)
	}

	if err := svc.Unlink(ctx, user.ID, domain.PlatformChessCom); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if err := svc.Unlink(ctx, user.ID, domain.PlatformChessCom); !errors.Is(err, store.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestLink_UnknownPlatform(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubVerifier{})

	if _, err := svc.Link(ctx, "u1", "chess24", "alice"); !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestLink_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &stubVerifier{err: platform.ErrAccountNotFound})

	user, err := svc.Register(ctx, "alice", "", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Link(ctx, user.ID, domain.PlatformLichess, "ghost"); !errors.Is(err, platform.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	me, _ := svc.Me(ctx, user.ID)
	if len(me.Accounts) != 0 {
		t.Fatalf("failed verification must not store a link")
	}
}
