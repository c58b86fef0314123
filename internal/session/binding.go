// Package session binds authenticated callers to user records in the entity store.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	userdomain "github.com/tair/storefront/internal/user/domain"
	"github.com/tair/storefront/pkg/apperr"
	"github.com/tair/storefront/pkg/auth"
	"github.com/tair/storefront/pkg/logger"
)

var tracer = otel.Tracer("session-binding")

// Result is returned by a successful login, registration or resume
type Result struct {
	Token     string                `json:"token"`
	User      userdomain.PublicUser `json:"user"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// RegisterCommand represents the command to create a customer account
type RegisterCommand struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,max=72"`
}

// Binding implements login, registration, logout and session resume
type Binding struct {
	users    userdomain.UserRepository
	creds    CredentialStore
	tokens   *auth.TokenManager
	holders  HolderStore
	validate *validator.Validate
	nowFn    func() time.Time
}

// NewBinding creates a session binding
func NewBinding(users userdomain.UserRepository, creds CredentialStore, tokens *auth.TokenManager, holders HolderStore) *Binding {
	return &Binding{
		users:    users,
		creds:    creds,
		tokens:   tokens,
		holders:  holders,
		validate: validator.New(),
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// Login checks the credentials of email and opens a session.
// Unknown emails and wrong passwords both yield apperr.ErrAuthFailure.
func (b *Binding) Login(ctx context.Context, email, password string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "session.Login",
		trace.WithAttributes(attribute.String("user.email", email)),
	)
	defer span.End()

	user, err := b.users.FindUserByEmail(email)
	if err != nil || !b.creds.Verify(user.Email, password) {
		logger.Warn(ctx).Str("email", email).Msg("Login failed")
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, apperr.ErrAuthFailure
	}

	now := b.nowFn()
	if err := b.users.UpdateUser(user.ID, userdomain.UserPatch{LastLogin: &now}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res, err := b.open(ctx, user.Public())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	logger.Info(ctx).Int64("user_id", user.ID).Str("role", user.Role).Msg("User logged in")
	return res, nil
}

// Register creates a customer account, records its credential and opens a session
func (b *Binding) Register(ctx context.Context, cmd RegisterCommand) (*Result, error) {
	ctx, span := tracer.Start(ctx, "session.Register",
		trace.WithAttributes(attribute.String("user.email", cmd.Email)),
	)
	defer span.End()

	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = strings.TrimSpace(cmd.Email)
	if err := b.validate.Struct(cmd); err != nil {
		err = apperr.FromValidation(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		err = apperr.Invalid("password: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	id, err := b.users.AddUser(userdomain.NewUser{
		Name:  cmd.Name,
		Email: cmd.Email,
		Role:  userdomain.RoleCustomer,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := b.creds.SetHash(cmd.Email, hash); err != nil {
		logger.Error(ctx).Err(err).Int64("user_id", id).Msg("Failed to record credential")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	user, err := b.users.FindUser(id)
	if err != nil {
		return nil, err
	}

	res, err := b.open(ctx, user.Public())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", id))
	logger.Info(ctx).Int64("user_id", id).Str("email", user.Email).Msg("User registered")
	return res, nil
}

// Logout forgets the session held for token. The entity store is not touched.
func (b *Binding) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := b.holders.Delete(ctx, token); err != nil {
		logger.Error(ctx).Err(err).Msg("Failed to clear session")
		return err
	}
	return nil
}

// Resume restores the session held for token. Customers get their last login refreshed.
func (b *Binding) Resume(ctx context.Context, token string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "session.Resume")
	defer span.End()

	claims, err := b.tokens.Validate(token)
	if err != nil {
		span.SetStatus(codes.Error, "invalid token")
		return nil, apperr.ErrAuthFailure
	}

	held, ok, err := b.holders.Load(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !ok {
		span.SetStatus(codes.Error, "session not found")
		return nil, apperr.ErrAuthFailure
	}

	user, err := b.users.FindUser(claims.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrAuthFailure
	}
	if err != nil {
		return nil, err
	}

	if user.IsCustomer() {
		now := b.nowFn()
		if err := b.users.UpdateUser(user.ID, userdomain.UserPatch{LastLogin: &now}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return &Result{Token: token, User: user.Public(), ExpiresAt: held.ExpiresAt}, nil
}

// Authenticate validates token and returns the caller's current identity.
// The role is read from the store so role changes apply to open sessions.
func (b *Binding) Authenticate(ctx context.Context, token string) (userdomain.PublicUser, error) {
	if _, err := b.tokens.Validate(token); err != nil {
		return userdomain.PublicUser{}, apperr.ErrAuthFailure
	}
	held, ok, err := b.holders.Load(ctx, token)
	if err != nil {
		return userdomain.PublicUser{}, err
	}
	if !ok {
		return userdomain.PublicUser{}, apperr.ErrAuthFailure
	}

	user, err := b.users.FindUser(held.User.ID)
	if errors.Is(err, apperr.ErrNotFound) {
		return userdomain.PublicUser{}, apperr.ErrAuthFailure
	}
	if err != nil {
		return userdomain.PublicUser{}, err
	}
	return user.Public(), nil
}

func (b *Binding) open(ctx context.Context, user userdomain.PublicUser) (*Result, error) {
	token, err := b.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	s := Session{
		Token:     token,
		User:      user,
		ExpiresAt: b.nowFn().Add(b.tokens.TTL()),
	}
	if err := b.holders.Save(ctx, s, b.tokens.TTL()); err != nil {
		return nil, err
	}
	return &Result{Token: s.Token, User: s.User, ExpiresAt: s.ExpiresAt}, nil
}
