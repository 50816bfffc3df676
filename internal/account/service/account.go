package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/topup_shop/internal/account/repo"
	"github.com/Skotchmaster/topup_shop/internal/account/transport"
	"github.com/Skotchmaster/topup_shop/internal/apperr"
	"github.com/Skotchmaster/topup_shop/internal/models"
	"github.com/Skotchmaster/topup_shop/pkg/identity"
	"github.com/Skotchmaster/topup_shop/pkg/util"
)

const (
	AdminPageSize = 20
	adminMaxPage  = 100
)

type AccountService struct {
	Repo *repo.GormRepo
}

// Provision returns the profile for tok, creating a USER profile from the
// token claims on first sight.
func (s *AccountService) Provision(ctx context.Context, tok *identity.Token) (*models.User, error) {
	if tok == nil || tok.UID == "" {
		return nil, apperr.Auth("Invalid authentication token")
	}

	u, err := s.Repo.ByUID(ctx, tok.UID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username, err := s.freeUsername(ctx, tok)
	if err != nil {
		return nil, err
	}
	first, last := SplitName(tok.Name)
	email := tok.Email
	if email == "" {
		email = tok.UID + "@users.invalid"
	}

	u, err = s.Repo.Upsert(ctx, &models.User{
		UID:             tok.UID,
		Email:           email,
		Username:        username,
		FirstName:       first,
		LastName:        last,
		Avatar:          tok.Picture,
		Role:            models.RoleUser,
		IsEmailVerified: tok.EmailVerified,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.Conflict("User with this email or username already exists")
	}
	return u, err
}

// Username derives a handle from the email local part, or from the uid
// when the token carries no email.
func Username(tok *identity.Token) string {
	if local, _, ok := strings.Cut(tok.Email, "@"); ok && local != "" {
		return local
	}
	return "user_" + prefix(tok.UID, 8)
}

// SplitName takes the first word of a display name as the first name and
// the rest as the last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "User", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *AccountService) freeUsername(ctx context.Context, tok *identity.Token) (string, error) {
	name := Username(tok)
	taken, err := s.Repo.UsernameTaken(ctx, name)
	if err != nil {
		return "", err
	}
	if taken {
		name += "_" + prefix(tok.UID, 6)
	}
	return name, nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (s *AccountService) Register(ctx context.Context, tok *identity.Token, req transport.RegisterRequest) (*models.User, error) {
	if !strings.EqualFold(tok.Email, req.Email) {
		return nil, apperr.Validation("Email does not match the signed-in account")
	}

	if _, err := s.Repo.ByUID(ctx, tok.UID); err == nil {
		return nil, apperr.Validation("User already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	taken, err := s.Repo.Taken(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("User with this email or username already exists")
	}

	u := &models.User{
		UID:             tok.UID,
		Email:           req.Email,
		Username:        req.Username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            models.RoleUser,
		IsEmailVerified: tok.EmailVerified,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("User with this email or username already exists")
		}
		return nil, err
	}
	return u, nil
}

// Login provisions the caller's profile. A body email, when given, must
// match the token.
func (s *AccountService) Login(ctx context.Context, tok *identity.Token, req transport.LoginRequest) (*models.User, error) {
	if req.Email != "" && !strings.EqualFold(tok.Email, req.Email) {
		return nil, apperr.Auth("Email mismatch")
	}
	return s.Provision(ctx, tok)
}

// GoogleSignIn provisions the caller like Login and refreshes the stored
// avatar when the account's photo changed.
func (s *AccountService) GoogleSignIn(ctx context.Context, tok *identity.Token, req transport.GoogleSignInRequest) (*models.User, error) {
	if tok == nil || tok.UID != req.UID || !strings.EqualFold(tok.Email, req.Email) {
		return nil, apperr.Validation("Token mismatch")
	}

	signIn := *tok
	signIn.EmailVerified = true
	if req.DisplayName != "" {
		signIn.Name = req.DisplayName
	}
	if req.PhotoURL != "" {
		signIn.Picture = req.PhotoURL
	}

	u, err := s.Provision(ctx, &signIn)
	if err != nil {
		return nil, err
	}
	if req.PhotoURL == "" || u.Avatar == req.PhotoURL {
		return u, nil
	}

	if err := s.Repo.Update(ctx, u.ID, map[string]any{"avatar": req.PhotoURL}); err != nil {
		return nil, err
	}
	return s.Repo.ByID(ctx, u.ID)
}

func (s *AccountService) Me(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.Repo.ByUID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	return u, err
}

func (s *AccountService) UpdateMe(ctx context.Context, uid string, req transport.UpdateMeRequest) (*models.User, error) {
	u, err := s.Me(ctx, uid)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if len(fields) == 0 {
		return u, nil
	}

	if err := s.Repo.Update(ctx, u.ID, fields); err != nil {
		return nil, err
	}
	return s.Repo.ByID(ctx, u.ID)
}

func (s *AccountService) ListUsers(ctx context.Context, page, size int, search string) (*transport.UserList, error) {
	page, offset, limit := util.Calculate(page, size, AdminPageSize, adminMaxPage)
	total, users, err := s.Repo.List(ctx, repo.UserFilter{Search: search, Offset: offset, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &transport.UserList{Users: users, Pagination: util.Meta(page, limit, total)}, nil
}

// SetRole changes the stored role only. Route guards read the role claim
// on the ID token, so the change takes effect once the provider's claim
// is updated too.
func (s *AccountService) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	r := models.Role(role)
	if r != models.RoleUser && r != models.RoleAdmin {
		return nil, apperr.Validation("Invalid role")
	}

	err := s.Repo.Update(ctx, id, map[string]any{"role": string(r)})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return s.Repo.ByID(ctx, id)
}

// MakeAdmin promotes the profile with the given uid.
func (s *AccountService) MakeAdmin(ctx context.Context, uid string) (*models.User, error) {
	u, err := s.Me(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.SetRole(ctx, u.ID, string(models.RoleAdmin))
}
