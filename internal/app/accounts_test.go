package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pethotel/internal/adapters/token"
	"pethotel/internal/app"
	"pethotel/internal/domain"
)

func newAccountService() (*app.AccountService, *fakeUserRepo, *token.Service) {
	users := newFakeUserRepo()
	tokens := token.NewService("test-secret", 15*time.Minute, time.Hour)
	return app.NewAccountService(users, tokens), users, tokens
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, tokens := newAccountService()
	ctx := context.Background()

	u, pair, err := svc.Register(ctx, app.RegisterInput{
		Email:    "sam@example.com",
		Password: "hunter22",
		Name:     "Sam",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("role = %s, want customer by default", u.Role)
	}
	sess, err := tokens.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sess.UserID != u.ID {
		t.Fatalf("session user = %d, want %d", sess.UserID, u.ID)
	}

	if _, _, err := svc.Login(ctx, "sam@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, err := svc.Login(ctx, "sam@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAccountService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, app.RegisterInput{Email: "sam@example.com", Password: "x", Name: "Sam"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Register(ctx, app.RegisterInput{Email: "sam@example.com", Password: "y", Name: "Sam 2"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRefresh(t *testing.T) {
	svc, _, _ := newAccountService()
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, app.RegisterInput{Email: "sam@example.com", Password: "x", Name: "Sam"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.AccessToken); err == nil {
		t.Fatalf("access token must not refresh a session")
	}
}

func TestPetCRUD_OwnershipEnforced(t *testing.T) {
	svc, users, _ := newAccountService()
	ctx := context.Background()

	users.users[1] = domain.User{ID: 1, Email: "sam@example.com", Role: domain.RoleCustomer}
	users.users[2] = domain.User{ID: 2, Email: "eve@example.com", Role: domain.RoleCustomer}
	sam := domain.Session{UserID: 1, Role: domain.RoleCustomer}
	eve := domain.Session{UserID: 2, Role: domain.RoleCustomer}

	p, err := svc.AddPet(ctx, sam, app.PetInput{Name: "Rex", Species: "dog", Breed: "corgi"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.OwnerID != 1 || p.Breed == nil || *p.Breed != "corgi" {
		t.Fatalf("unexpected pet: %+v", p)
	}

	if _, err := svc.UpdatePet(ctx, eve, p.ID, app.PetInput{Name: "Stolen", Species: "dog"}); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := svc.DeletePet(ctx, eve, p.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	got, err := svc.ListPets(ctx, sam)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Rex" {
		t.Fatalf("unexpected pets: %+v", got)
	}

	if err := svc.DeletePet(ctx, sam, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
