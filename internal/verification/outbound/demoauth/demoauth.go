// Package demoauth is an in-process stand-in for the auth service, used when
// no SMS or email transport exists. Every issued code is handed back to the
// client for display. It is demo scaffolding and never a production backend.
package demoauth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/hash"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/jwt"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/otp"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/uid"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
)

type clocker interface {
	Now() time.Time
}

type Dependency struct {
	OTP   otp.OTP
	Hash  hash.Hash
	JWT   jwt.JWT
	UID   uid.NumberID
	Clock clocker
}

type account struct {
	id         int64
	username   string
	contact    string
	password   string
	isVerified bool
	isAdmin    bool
}

func (a *account) user() session.User {
	u := session.User{
		ID:         strconv.FormatInt(a.id, 10),
		Username:   a.username,
		IsVerified: a.isVerified,
		IsAdmin:    a.isAdmin,
	}
	if strings.Contains(a.contact, "@") {
		u.Email = a.contact
	}
	return u
}

type Backend struct {
	dep Dependency

	mu         sync.Mutex
	byName     map[string]*account
	byContact  map[string]*account
	challenges map[string]string // contact -> TOTP secret
}

func New(dep Dependency) *Backend {
	return &Backend{
		dep:        dep,
		byName:     make(map[string]*account),
		byContact:  make(map[string]*account),
		challenges: make(map[string]string),
	}
}

// challengeLocked replaces any outstanding challenge for acc with a new one.
func (b *Backend) challengeLocked(ctx context.Context, acc *account) (entity.Delivery, error) {
	secret, err := b.dep.OTP.NewSecret(acc.contact)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create otp secret", "user_id", acc.id, "error", err)
		return entity.Delivery{}, goerror.NewServer(err, "Failed to send code. Please try again.")
	}

	code, err := b.dep.OTP.Code(secret, b.dep.Clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "user_id", acc.id, "error", err)
		return entity.Delivery{}, goerror.NewServer(err, "Failed to send code. Please try again.")
	}

	b.challenges[acc.contact] = secret

	return entity.DemoDisplay(code), nil
}

func (b *Backend) tokenLocked(ctx context.Context, acc *account) (session.Session, error) {
	token, err := b.dep.JWT.Generate(jwt.Subject{
		UserID:     acc.id,
		Username:   acc.username,
		IsVerified: acc.isVerified,
		IsAdmin:    acc.isAdmin,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate jwt", "user_id", acc.id, "error", err)
		return session.Session{}, goerror.NewServer(err, "")
	}

	return session.Session{Token: token, User: acc.user()}, nil
}

func (b *Backend) hasAdminLocked() bool {
	for _, acc := range b.byName {
		if acc.isAdmin {
			return true
		}
	}
	return false
}

func (b *Backend) newAccountLocked(ctx context.Context, username, contact, password string) (*account, error) {
	hashed, err := b.dep.Hash.Hash(password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err, "")
	}

	acc := &account{
		id:       b.dep.UID.Generate(),
		username: username,
		contact:  contact,
		password: string(hashed),
		isAdmin:  len(b.byName) == 0,
	}
	b.byName[strings.ToLower(username)] = acc
	if contact != "" {
		b.byContact[strings.ToLower(contact)] = acc
	}

	return acc, nil
}

func (b *Backend) Register(ctx context.Context, in usecase.RegisterRequest) (usecase.RegisterResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byName[strings.ToLower(in.Username)]; ok {
		return usecase.RegisterResult{}, goerror.FromStatus(http.StatusConflict, "Username already exists")
	}
	if _, ok := b.byContact[strings.ToLower(in.Contact)]; ok {
		return usecase.RegisterResult{}, goerror.FromStatus(http.StatusConflict, "Email or mobile already registered")
	}

	acc, err := b.newAccountLocked(ctx, in.Username, in.Contact, in.Password)
	if err != nil {
		return usecase.RegisterResult{}, err
	}

	d, err := b.challengeLocked(ctx, acc)
	if err != nil {
		return usecase.RegisterResult{}, err
	}

	slog.InfoContext(ctx, "demo account registered", "user_id", acc.id, "admin", acc.isAdmin)

	return usecase.RegisterResult{
		UserID:   strconv.FormatInt(acc.id, 10),
		Message:  "Registration successful. Please verify your account.",
		Delivery: d,
	}, nil
}

func (b *Backend) IssueCode(ctx context.Context, contact string) (entity.Delivery, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.byContact[strings.ToLower(contact)]
	if !ok {
		return entity.Delivery{}, goerror.FromStatus(http.StatusNotFound, "User not found")
	}
	if acc.isVerified {
		return entity.Delivery{}, goerror.FromStatus(http.StatusBadRequest, "Account already verified")
	}

	return b.challengeLocked(ctx, acc)
}

func (b *Backend) VerifyCode(ctx context.Context, contact, code string) (session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.byContact[strings.ToLower(contact)]
	if !ok {
		return session.Session{}, goerror.FromStatus(http.StatusNotFound, "User not found")
	}

	secret, ok := b.challenges[acc.contact]
	if !ok || !b.dep.OTP.Validate(code, secret, b.dep.Clock.Now()) {
		slog.WarnContext(ctx, "demo code rejected", "user_id", acc.id)
		return session.Session{}, goerror.FromStatus(http.StatusBadRequest, "Invalid or expired OTP")
	}

	delete(b.challenges, acc.contact)
	acc.isVerified = true

	return b.tokenLocked(ctx, acc)
}

func (b *Backend) Login(ctx context.Context, username, password string) (usecase.LoginResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.byName[strings.ToLower(username)]
	if !ok || !b.dep.Hash.Verify(acc.password, password) {
		return usecase.LoginResult{}, goerror.FromStatus(http.StatusUnauthorized, "Invalid credentials")
	}

	if !acc.isVerified {
		d, err := b.challengeLocked(ctx, acc)
		if err != nil {
			return usecase.LoginResult{}, err
		}
		return usecase.LoginResult{NeedsVerification: true, Contact: acc.contact, Delivery: d}, nil
	}

	sess, err := b.tokenLocked(ctx, acc)
	if err != nil {
		return usecase.LoginResult{}, err
	}

	return usecase.LoginResult{Session: sess}, nil
}

func (b *Backend) VerifyToken(ctx context.Context, token string) (session.User, error) {
	claims, err := b.dep.JWT.Verify(token)
	if err != nil {
		slog.WarnContext(ctx, "demo token rejected", "error", err)
		return session.User{}, goerror.FromStatus(http.StatusUnauthorized, "Invalid token")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.byName[strings.ToLower(claims.Username)]
	if !ok || acc.id != claims.UserID {
		return session.User{}, goerror.FromStatus(http.StatusUnauthorized, "Invalid token")
	}

	return acc.user(), nil
}

func (b *Backend) SetupStatus(context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return !b.hasAdminLocked(), nil
}

func (b *Backend) SetupAdmin(ctx context.Context, username, password string) (session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hasAdminLocked() {
		return session.Session{}, goerror.FromStatus(http.StatusForbidden, "Setup already completed")
	}
	if _, ok := b.byName[strings.ToLower(username)]; ok {
		return session.Session{}, goerror.FromStatus(http.StatusConflict, "Username already exists")
	}

	acc, err := b.newAccountLocked(ctx, username, "", password)
	if err != nil {
		return session.Session{}, err
	}
	acc.isAdmin = true
	acc.isVerified = true

	return b.tokenLocked(ctx, acc)
}
