package session

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/thedevz43/landrecords/session/snapshot"
	"github.com/thedevz43/landrecords/users"
)

// Store is the single source of truth for the signed-in identity. It is
// constructed once at process start and injected into every consumer; there
// are no package-level singletons.
//
// Concurrency: a single mutex guards the session. Overlapping sign-ins
// resolve last-resolved-wins; the loading flag is a counter, so it reports
// true while at least one operation is outstanding. Callers that navigated
// away discard the Result they no longer care about and can compare Epoch
// values to detect a stale resolution.
type Store struct {
	repos  Repos
	codec  *snapshot.Codec
	logger zerolog.Logger
	newID  func() string

	mu          sync.Mutex
	current     *users.User
	loading     int
	initialized bool
	epoch       uint64
	listeners   []func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger (default: no-op logger).
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator sets the identifier generator used by SignUp (primarily
// for testing; default is a random UUID).
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// New creates a Store. The session starts empty with loading set: it stays
// loading until Initialize has read the persisted snapshot.
func New(repos Repos, codec *snapshot.Codec, options ...Option) (*Store, error) {
	if repos.Directory == nil {
		return nil, errors.New("[session.New] Directory repo is required")
	}
	if repos.Snapshots == nil {
		return nil, errors.New("[session.New] Snapshots repo is required")
	}
	if codec == nil {
		return nil, errors.New("[session.New] snapshot codec is required")
	}

	store := &Store{
		repos:   repos,
		codec:   codec,
		logger:  zerolog.Nop(),
		newID:   func() string { return uuid.New().String() },
		loading: 1, // restore pending until Initialize completes
	}
	for _, opt := range options {
		opt(store)
	}
	return store, nil
}

// Initialize restores the session from the persisted snapshot. It runs once
// at startup; repeated calls are no-ops. Absence or decode failure of the
// snapshot leaves the session empty — Initialize never surfaces an error.
// Loading is cleared when it returns, on every path.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	var restored *users.User
	value, ok, err := s.repos.Snapshots.Get(ctx, snapshot.SessionKey)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("session snapshot unreadable, starting empty")
	case ok:
		user, decodeErr := s.codec.Decode(value)
		if decodeErr != nil {
			s.logger.Warn().Err(decodeErr).Msg("discarding malformed session snapshot")
		} else {
			restored = &user
		}
	}

	s.mu.Lock()
	s.current = restored
	s.loading--
	s.epoch++
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if restored != nil {
		s.logger.Info().Str("email", restored.Email).Str("role", string(restored.Role)).Msg("session restored")
	}
	notify(listeners)
}

// SignIn checks the credentials against the identity directory and, on
// match, populates the session and persists the snapshot. Failures carry a
// generic reason so callers cannot probe which emails are registered.
func (s *Store) SignIn(ctx context.Context, email, secret string) Result {
	s.beginLoading()
	defer s.endLoading()

	// The length check fails before the directory is consulted, so an
	// undersized secret never succeeds regardless of directory contents.
	if err := users.ValidateSecret(secret); err != nil {
		return Result{Reason: ReasonInvalidCredentials}
	}

	entry, err := s.repos.Directory.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, users.ErrUserNotFound) {
			s.logger.Warn().Err(err).Msg("directory lookup failed")
		}
		return Result{Reason: ReasonInvalidCredentials}
	}
	if !users.CheckSecretHash(secret, entry.SecretHash) {
		return Result{Reason: ReasonInvalidCredentials}
	}

	s.setSession(ctx, entry.User)
	s.logger.Info().Str("email", entry.User.Email).Str("role", string(entry.User.Role)).Msg("signed in")
	return Result{OK: true}
}

// SignUp registers a new identity in the directory, signs it in, and
// persists the snapshot. The email must not already exist (compared
// case-insensitively); the role defaults to citizen.
func (s *Store) SignUp(ctx context.Context, reg Registration) Result {
	s.beginLoading()
	defer s.endLoading()

	if err := users.ValidateSecret(reg.Secret); err != nil {
		return Result{Reason: ReasonRegistrationFailed}
	}
	role, err := users.ParseRole(string(reg.Role))
	if err != nil {
		return Result{Reason: ReasonRegistrationFailed}
	}

	if _, err := s.repos.Directory.FindByEmail(ctx, reg.Email); err == nil {
		return Result{Reason: ReasonEmailTaken}
	} else if !errors.Is(err, users.ErrUserNotFound) {
		s.logger.Warn().Err(err).Msg("directory lookup failed")
		return Result{Reason: ReasonRegistrationFailed}
	}

	user := users.User{
		ID:      s.newID(),
		Name:    reg.Name,
		Email:   users.NormalizeEmail(reg.Email),
		Role:    role,
		Aadhaar: reg.Aadhaar,
		Phone:   reg.Phone,
	}
	if err := user.Validate(); err != nil {
		return Result{Reason: ReasonRegistrationFailed}
	}

	secretHash, err := users.HashSecret(reg.Secret)
	if err != nil {
		s.logger.Error().Err(err).Msg("hashing registration secret")
		return Result{Reason: ReasonRegistrationFailed}
	}

	err = s.repos.Directory.Create(ctx, users.DirectoryEntry{User: user, SecretHash: secretHash})
	if errors.Is(err, users.ErrEmailTaken) {
		return Result{Reason: ReasonEmailTaken}
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("directory create failed")
		return Result{Reason: ReasonRegistrationFailed}
	}

	s.setSession(ctx, user)
	s.logger.Info().Str("email", user.Email).Msg("registered")
	return Result{OK: true}
}

// SignOut synchronously empties the session and deletes the persisted
// snapshot. It has no failure mode and is idempotent.
func (s *Store) SignOut() {
	s.mu.Lock()
	changed := s.current != nil
	s.current = nil
	var listeners []func()
	if changed {
		s.epoch++
		listeners = slices.Clone(s.listeners)
	}
	err := s.repos.Snapshots.Delete(context.Background(), snapshot.SessionKey)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("session snapshot not deleted")
	}
	notify(listeners)
}

// UpdateProfile merges the given fields into the current identity and
// re-persists the snapshot. With no current session it is a no-op, not an
// error. ID and role are not expressible in ProfileUpdate and so cannot
// change; present fields win last-write.
func (s *Store) UpdateProfile(update ProfileUpdate) {
	if update.empty() {
		return
	}

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	if update.Name != nil {
		s.current.Name = *update.Name
	}
	if update.Aadhaar != nil {
		s.current.Aadhaar = *update.Aadhaar
	}
	if update.Phone != nil {
		s.current.Phone = *update.Phone
	}
	s.epoch++
	err := s.persistLocked(context.Background())
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("session snapshot not persisted")
	}
	notify(listeners)
}

// Current returns a copy of the signed-in identity, if any.
func (s *Store) Current() (users.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return users.User{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session is populated.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// IsLoading reports whether at least one operation (restore, sign-in or
// sign-up) is outstanding.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Epoch returns a counter that increments on every completed session
// mutation. A caller holding the epoch from before a pending operation can
// tell whether the session changed underneath it.
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// OnChange registers a listener invoked after every completed session
// mutation. Listeners run outside the store lock and must not block.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// setSession installs the identity and persists the snapshot. The in-memory
// session mutates first; a crash between mutation and write loses only
// persistence, never consistency.
func (s *Store) setSession(ctx context.Context, user users.User) {
	s.mu.Lock()
	s.current = &user
	s.epoch++
	err := s.persistLocked(ctx)
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Msg("session snapshot not persisted")
	}
	notify(listeners)
}

func (s *Store) persistLocked(ctx context.Context) error {
	value, err := s.codec.Encode(*s.current)
	if err != nil {
		return errors.Wrap(err, "[Store.persist] encoding snapshot")
	}
	if err := s.repos.Snapshots.Set(ctx, snapshot.SessionKey, value); err != nil {
		return errors.Wrap(err, "[Store.persist] writing snapshot")
	}
	return nil
}

func (s *Store) beginLoading() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *Store) endLoading() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
