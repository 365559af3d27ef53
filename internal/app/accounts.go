package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"pethotel/internal/adapters/token"
	"pethotel/internal/domain"
)

type AccountService struct {
	users  domain.UserRepository
	tokens *token.Service
}

func NewAccountService(users domain.UserRepository, tokens *token.Service) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, token.Pair, error) {
	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return domain.User{}, token.Pair{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, token.Pair{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, token.Pair{}, fmt.Errorf("hash password: %w", err)
	}
	role := in.Role
	if role != domain.RoleOwner {
		role = domain.RoleCustomer
	}
	u := domain.User{Email: in.Email, PasswordHash: string(hash), Name: in.Name, Role: role}
	if in.Phone != "" {
		u.Phone = &in.Phone
	}
	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, token.Pair{}, fmt.Errorf("create user: %w", err)
	}
	u.ID = id

	pair, err := s.tokens.Issue(u)
	if err != nil {
		return domain.User{}, token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return u, pair, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (domain.User, token.Pair, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, token.Pair{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, token.Pair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.User{}, token.Pair{}, domain.ErrInvalidCredentials
	}
	pair, err := s.tokens.Issue(u)
	if err != nil {
		return domain.User{}, token.Pair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return u, pair, nil
}

func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	uid, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return token.Pair{}, err
	}
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return token.Pair{}, err
	}
	return s.tokens.Issue(u)
}

func (s *AccountService) GetProfile(ctx context.Context, sess domain.Session) (domain.User, error) {
	return s.users.GetUser(ctx, sess.UserID)
}

type UpdateProfileInput struct {
	Name  string
	Phone string
}

func (s *AccountService) UpdateProfile(ctx context.Context, sess domain.Session, in UpdateProfileInput) (domain.User, error) {
	u, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		return domain.User{}, err
	}
	u.Name = in.Name
	if in.Phone != "" {
		u.Phone = &in.Phone
	} else {
		u.Phone = nil
	}
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return domain.User{}, err
	}
	return s.users.GetUser(ctx, sess.UserID)
}

// ---- pets ----

type PetInput struct {
	Name     string
	Species  string
	Breed    string
	AgeYears *int
	Notes    string
	PhotoURL string
}

func (s *AccountService) AddPet(ctx context.Context, sess domain.Session, in PetInput) (domain.Pet, error) {
	p := petFromInput(sess.UserID, in)
	id, err := s.users.CreatePet(ctx, p)
	if err != nil {
		return domain.Pet{}, fmt.Errorf("create pet: %w", err)
	}
	return s.users.GetPet(ctx, id)
}

func (s *AccountService) UpdatePet(ctx context.Context, sess domain.Session, id int64, in PetInput) (domain.Pet, error) {
	existing, err := s.users.GetPet(ctx, id)
	if err != nil {
		return domain.Pet{}, err
	}
	if existing.OwnerID != sess.UserID {
		return domain.Pet{}, domain.ErrNotOwner
	}
	p := petFromInput(sess.UserID, in)
	p.ID = id
	if err := s.users.UpdatePet(ctx, p); err != nil {
		return domain.Pet{}, err
	}
	return s.users.GetPet(ctx, id)
}

func (s *AccountService) DeletePet(ctx context.Context, sess domain.Session, id int64) error {
	existing, err := s.users.GetPet(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != sess.UserID {
		return domain.ErrNotOwner
	}
	return s.users.DeletePet(ctx, id, sess.UserID)
}

func (s *AccountService) ListPets(ctx context.Context, sess domain.Session) ([]domain.Pet, error) {
	return s.users.ListPets(ctx, sess.UserID)
}

func petFromInput(ownerID int64, in PetInput) domain.Pet {
	p := domain.Pet{OwnerID: ownerID, Name: in.Name, Species: in.Species, AgeYears: in.AgeYears}
	if in.Breed != "" {
		p.Breed = &in.Breed
	}
	if in.Notes != "" {
		p.Notes = &in.Notes
	}
	if in.PhotoURL != "" {
		p.PhotoURL = &in.PhotoURL
	}
	return p
}
