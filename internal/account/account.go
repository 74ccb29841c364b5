// Package account registers and authenticates users against a locally
// persisted user list and keeps the current session record.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/kv"
	"github.com/joestump/animeshelf/internal/metrics"
)

// User is a registered account. Email is the unique key and is compared
// exactly as stored.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the logged-in user: a copy of the matching User record.
type Session User

// DisplayName is the username, or the local part of the email when the
// username is empty.
func (s Session) DisplayName() string {
	if s.Username != "" {
		return s.Username
	}
	local, _, _ := strings.Cut(s.Email, "@")
	return local
}

// Candidate is a registration request.
type Candidate struct {
	Username string
	Email    string
	Password string
}

// ProfileUpdate changes the logged-in user. Nil fields are left as they are;
// an empty Password is treated as nil.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// Store owns the registered-users collection (key "users") and the session
// record (key "user"). Operations are serialized; each completes its writes
// before the next reads.
type Store struct {
	kv     kv.Store
	hasher Hasher
	log    *logrus.Logger

	mu sync.Mutex
}

func NewStore(store kv.Store, hasher Hasher, log *logrus.Logger) *Store {
	if hasher == nil {
		hasher = PlainHasher{}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Store{kv: store, hasher: hasher, log: log}
}

// Register appends a new user. It does not log the user in.
func (s *Store) Register(ctx context.Context, c Candidate) (User, error) {
	if err := validateCandidate(c); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == c.Email {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
			return User{}, ErrDuplicateEmail
		}
	}

	stored, err := s.hasher.Hash(c.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := User{Username: c.Username, Email: c.Email, Password: stored}
	if err := s.writeUsers(ctx, append(users, u)); err != nil {
		return User{}, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.log.WithField("email", u.Email).Info("user registered")
	return u, nil
}

// Login matches email and password against the registered users and, on
// success, stores and returns the session.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return Session{}, err
	}

	var match *User
	for i := range users {
		if users[i].Email == email && s.hasher.Compare(users[i].Password, password) {
			match = &users[i]
			break
		}
	}
	if match == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		s.log.Info("login failed")
		return Session{}, ErrInvalidCredentials
	}

	sess := Session(*match)
	if err := s.writeSession(ctx, sess); err != nil {
		return Session{}, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	s.log.WithField("email", sess.Email).Info("user logged in")
	return sess, nil
}

// CurrentUser returns the stored session, or nil when there is none. A
// session that cannot be read or decoded counts as absent.
func (s *Store) CurrentUser(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser(ctx)
}

func (s *Store) currentUser(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.kv.Get(ctx, kv.KeySession)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.WithError(err).Warn("session read failed, treating as logged out")
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Email == "" {
		s.log.WithError(err).Warn("stored session undecodable, treating as logged out")
		return nil, nil
	}
	return &sess, nil
}

// UpdateProfile edits the logged-in user. The users entry is located by the
// session's current email, so an email change moves the record rather than
// creating a new one. Nothing is written when validation fails.
func (s *Store) UpdateProfile(ctx context.Context, upd ProfileUpdate) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.currentUser(ctx)
	if err != nil {
		return Session{}, err
	}
	if cur == nil {
		return Session{}, ErrNotLoggedIn
	}

	next := *cur
	if upd.Username != nil {
		next.Username = strings.TrimSpace(*upd.Username)
	}
	if upd.Email != nil {
		next.Email = strings.TrimSpace(*upd.Email)
	}
	if strings.TrimSpace(next.Username) == "" {
		return Session{}, &ValidationError{Field: "username", Message: "username and email are required"}
	}
	if strings.TrimSpace(next.Email) == "" {
		return Session{}, &ValidationError{Field: "email", Message: "username and email are required"}
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		return Session{}, err
	}
	if next.Email != cur.Email {
		for _, u := range users {
			if u.Email == next.Email {
				return Session{}, ErrDuplicateEmail
			}
		}
	}

	if upd.Password != nil && *upd.Password != "" {
		stored, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return Session{}, fmt.Errorf("hash password: %w", err)
		}
		next.Password = stored
	}

	matched := 0
	for i := range users {
		if users[i].Email == cur.Email {
			users[i].Username = next.Username
			users[i].Email = next.Email
			users[i].Password = next.Password
			matched++
		}
	}
	if matched > 0 {
		if err := s.writeUsers(ctx, users); err != nil {
			return Session{}, err
		}
	} else {
		s.log.WithField("email", cur.Email).Warn("session has no registered user entry, updating session only")
	}

	if err := s.writeSession(ctx, next); err != nil {
		return Session{}, err
	}

	s.log.WithFields(logrus.Fields{"old_email": cur.Email, "email": next.Email}).Info("profile updated")
	return next, nil
}

// Logout clears the session. Registered users are untouched.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, kv.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info("user logged out")
	return nil
}

// Users returns the registered users collection.
func (s *Store) Users(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readUsers(ctx)
}

func (s *Store) readUsers(ctx context.Context) ([]User, error) {
	raw, err := s.kv.Get(ctx, kv.KeyUsers)
	if errors.Is(err, kv.ErrNotFound) {
		return []User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}

	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUsers, err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (s *Store) writeUsers(ctx context.Context, users []User) error {
	b, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeyUsers, string(b)); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (s *Store) writeSession(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, kv.KeySession, string(b)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
