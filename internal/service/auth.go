package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// MinPasswordLength is the shortest password accepted on sign-up.
const MinPasswordLength = 6

// pageFeed is the identity of one page together with its subscribers.
type pageFeed struct {
	identity    *model.Identity
	version     uint64
	subscribers map[uint64]func(*model.Identity)
}

// Auth is the identity provider. It owns user accounts, binds pages to users
// and notifies page subscribers about identity changes.
type Auth struct {
	users      model.UserStore
	sessions   model.SessionStore
	tokens     model.TokenManager
	sessionTTL time.Duration
	hashCost   int
	logger     *logger.Logger

	// mu guards pages and nextID. Subscriber callbacks run while it is held
	// and must not call back into Auth.
	mu     sync.Mutex
	pages  map[string]*pageFeed
	nextID uint64
}

// NewAuth creates the identity provider.
func NewAuth(
	users model.UserStore,
	sessions model.SessionStore,
	tokens model.TokenManager,
	sessionTTL time.Duration,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		hashCost:   bcrypt.DefaultCost,
		logger:     logger,
		pages:      make(map[string]*pageFeed),
	}
}

// Register creates an account without signing any page in.
func (a *Auth) Register(ctx context.Context, email, password string) (model.Identity, error) {
	a.logger.Debug("Auth service: registering user", "email", email)

	if !validEmail(email) {
		return model.Identity{}, model.NewAuthError(model.AuthInvalidEmail, nil)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return model.Identity{}, model.NewAuthError(model.AuthWeakPassword, nil)
	}

	existing, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Identity{}, model.NewAuthError(model.AuthInternal, fmt.Errorf("failed to get user by email: %w", err))
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: email already in use", "email", email)
		return model.Identity{}, model.NewAuthError(model.AuthEmailAlreadyInUse, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return model.Identity{}, model.NewAuthError(model.AuthInternal, fmt.Errorf("failed to hash password: %w", err))
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.Identity{}, model.NewAuthError(model.AuthEmailAlreadyInUse, err)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.Identity{}, model.NewAuthError(model.AuthInternal, fmt.Errorf("failed to create user: %w", err))
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)
	return model.Identity{UserID: user.ID, Email: user.Email}, nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *Auth) Authenticate(ctx context.Context, email, password string) (model.Identity, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, model.NewAuthError(model.AuthInvalidCredential, nil)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Identity{}, model.NewAuthError(model.AuthInternal, fmt.Errorf("failed to get user by email: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch", "user_id", user.ID)
		return model.Identity{}, model.NewAuthError(model.AuthInvalidCredential, nil)
	}

	return model.Identity{UserID: user.ID, Email: user.Email}, nil
}

// IssueToken returns an API access token for identity.
func (a *Auth) IssueToken(identity model.Identity) (string, error) {
	token, err := a.tokens.GenerateAccessToken(identity.UserID, identity.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, nil
}

// SignUp registers a user and signs pageID in as that user.
func (a *Auth) SignUp(ctx context.Context, pageID, email, password string) (model.Identity, error) {
	identity, err := a.Register(ctx, email, password)
	if err != nil {
		return model.Identity{}, err
	}
	if err := a.bind(ctx, pageID, identity); err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}

// SignIn checks credentials and signs pageID in.
func (a *Auth) SignIn(ctx context.Context, pageID, email, password string) (model.Identity, error) {
	identity, err := a.Authenticate(ctx, email, password)
	if err != nil {
		return model.Identity{}, err
	}
	if err := a.bind(ctx, pageID, identity); err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}

// SignOut removes the identity of pageID.
func (a *Auth) SignOut(ctx context.Context, pageID string) error {
	if err := a.sessions.Unbind(ctx, pageID); err != nil {
		a.logger.Error("Auth service: failed to unbind page",
			"page_id", pageID,
			"error", err.Error())
		return fmt.Errorf("failed to unbind page: %w", err)
	}

	a.logger.Info("Auth service: page signed out", "page_id", pageID)
	a.publish(pageID, nil)
	return nil
}

// Subscribe registers fn for identity changes of pageID. fn receives the
// current identity before Subscribe returns and then every change in order.
func (a *Auth) Subscribe(ctx context.Context, pageID string, fn func(*model.Identity)) func() {
	current := a.lookup(ctx, pageID)

	a.mu.Lock()
	feed, ok := a.pages[pageID]
	if !ok {
		feed = &pageFeed{identity: current, subscribers: make(map[uint64]func(*model.Identity))}
		a.pages[pageID] = feed
	}
	a.nextID++
	id := a.nextID
	feed.subscribers[id] = fn
	fn(copyIdentity(feed.identity))
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			feed, ok := a.pages[pageID]
			if !ok {
				return
			}
			delete(feed.subscribers, id)
			if len(feed.subscribers) == 0 {
				delete(a.pages, pageID)
			}
		})
	}
}

// Revalidate signs pageID out for its subscribers once its binding has
// expired. Pages without live subscribers or without an identity are skipped.
func (a *Auth) Revalidate(ctx context.Context, pageID string) {
	a.mu.Lock()
	feed, ok := a.pages[pageID]
	if !ok || feed.identity == nil {
		a.mu.Unlock()
		return
	}
	version := feed.version
	a.mu.Unlock()

	_, err := a.sessions.Lookup(ctx, pageID)
	if err == nil {
		return
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to revalidate page binding",
			"page_id", pageID,
			"error", err.Error())
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	feed, ok = a.pages[pageID]
	if !ok || feed.version != version {
		return
	}
	a.logger.Info("Auth service: page binding expired", "page_id", pageID)
	a.publishLocked(feed, nil)
}

func (a *Auth) lookup(ctx context.Context, pageID string) *model.Identity {
	binding, err := a.sessions.Lookup(ctx, pageID)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		a.logger.Error("Auth service: failed to look up page binding",
			"page_id", pageID,
			"error", err.Error())
		return nil
	}
	return &model.Identity{UserID: binding.UserID, Email: binding.Email}
}

func (a *Auth) bind(ctx context.Context, pageID string, identity model.Identity) error {
	binding := model.PageBinding{
		UserID:    identity.UserID,
		Email:     identity.Email,
		CreatedAt: time.Now(),
	}
	if err := a.sessions.Bind(ctx, pageID, binding, a.sessionTTL); err != nil {
		a.logger.Error("Auth service: failed to bind page",
			"page_id", pageID,
			"user_id", identity.UserID,
			"error", err.Error())
		return fmt.Errorf("failed to bind page: %w", err)
	}

	a.logger.Info("Auth service: page signed in",
		"page_id", pageID,
		"user_id", identity.UserID)
	a.publish(pageID, &identity)
	return nil
}

func (a *Auth) publish(pageID string, identity *model.Identity) {
	a.mu.Lock()
	defer a.mu.Unlock()

	feed, ok := a.pages[pageID]
	if !ok {
		return
	}
	a.publishLocked(feed, identity)
}

func (a *Auth) publishLocked(feed *pageFeed, identity *model.Identity) {
	feed.identity = copyIdentity(identity)
	feed.version++
	for _, fn := range feed.subscribers {
		fn(copyIdentity(identity))
	}
}

func copyIdentity(identity *model.Identity) *model.Identity {
	if identity == nil {
		return nil
	}
	id := *identity
	return &id
}

func validEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}
