package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/taskflow/internal/model"
)

const serviceName = "taskflow"

// Storage keys. The credential pair and the last-fetched profile are two
// independent entries; the profile is an optional convenience copy and may
// be stale.
const (
	credentialKey = "session"
	profileKey    = "profile"
)

// ErrNoSession is returned by Load when no credential is stored.
var ErrNoSession = errors.New("no session")

// Credential is a username/password pair. It is stored as plain text:
// the backend expects a recomputed Basic header per request, so the pair
// must stay reconstructible. It lives until explicit logout.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Store persists the session credential and user profile in the system
// keyring. There is no expiry; a stored credential is trusted until
// cleared or until the backend rejects it.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the default keyring configuration,
// falling back to an encrypted file under ~/.config/taskflow.
func Open() (*Store, error) {
	return OpenWithConfig(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskflow/session",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskflow-file-key"),
		KeychainTrustApplication: true,
	})
}

// OpenWithConfig returns a Store backed by an explicit keyring
// configuration. Tests use this with a file backend in a temp dir.
func OpenWithConfig(cfg keyring.Config) (*Store, error) {
	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// Save writes the credential and profile, overwriting any prior values.
func (s *Store) Save(cred Credential, profile *model.User) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}
	if err := s.ring.Set(keyring.Item{Key: credentialKey, Data: data}); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	if profile == nil {
		return nil
	}
	data, err = json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	if err := s.ring.Set(keyring.Item{Key: profileKey, Data: data}); err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}
	return nil
}

// Load returns the stored credential, or ErrNoSession when none exists.
func (s *Store) Load() (*Credential, error) {
	item, err := s.ring.Get(credentialKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("loading credential: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(item.Data, &cred); err != nil {
		return nil, fmt.Errorf("unmarshaling credential: %w", err)
	}
	return &cred, nil
}

// Profile returns the stored user profile copy, or ErrNoSession when none
// exists. The copy is whatever login last fetched and may be stale; pages
// that need a fresh profile fetch it from the backend instead.
func (s *Store) Profile() (*model.User, error) {
	item, err := s.ring.Get(profileKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(item.Data, &user); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}
	return &user, nil
}

// Clear removes all stored session data. Missing entries are not an
// error; Clear succeeds regardless of prior state.
func (s *Store) Clear() error {
	if err := s.ring.Remove(credentialKey); err != nil &&
		!errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing credential: %w", err)
	}
	if err := s.ring.Remove(profileKey); err != nil &&
		!errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing profile: %w", err)
	}
	return nil
}
