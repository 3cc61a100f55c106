// Package demodirectory is the simulated identity-directory collaborator. It
// stands in for the real credential service behind the same users.Directory
// contract, backed by a fixed demo catalog and an artificial lookup latency.
package demodirectory

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/thedevz43/landrecords/users"
	"golang.org/x/crypto/bcrypt"
)

var _ users.Directory = (*Directory)(nil)

// DefaultLatency approximates the round trip of the credential service the
// demo replaces.
const DefaultLatency = 800 * time.Millisecond

// DemoSecret is the secret every seeded demo account accepts.
const DemoSecret = "demo"

// Directory is a users.Directory over a fixed in-memory catalog.
type Directory struct {
	mu      sync.RWMutex
	entries map[string]users.DirectoryEntry
	order   []string
	latency time.Duration
}

// Option configures a Directory.
type Option func(*Directory)

// WithLatency overrides the artificial lookup latency (tests pass zero).
func WithLatency(d time.Duration) Option {
	return func(dir *Directory) {
		dir.latency = d
	}
}

// New creates a Directory seeded with the demo catalog.
func New(options ...Option) (*Directory, error) {
	dir := &Directory{
		entries: make(map[string]users.DirectoryEntry),
		latency: DefaultLatency,
	}
	for _, opt := range options {
		opt(dir)
	}

	// MinCost keeps seeding fast; demo credentials protect nothing.
	demoHash, err := bcrypt.GenerateFromPassword([]byte(DemoSecret), bcrypt.MinCost)
	if err != nil {
		return nil, errors.Wrap(err, "[demodirectory.New] hashing demo secret")
	}
	for _, u := range DemoUsers() {
		if err := u.Validate(); err != nil {
			return nil, errors.Wrapf(err, "[demodirectory.New] seeding %s", u.Email)
		}
		key := users.NormalizeEmail(u.Email)
		dir.entries[key] = users.DirectoryEntry{User: u, SecretHash: string(demoHash)}
		dir.order = append(dir.order, key)
	}
	return dir, nil
}

// DemoUsers returns the seeded catalog, one account per role.
func DemoUsers() []users.User {
	return []users.User{
		{
			ID:      "1",
			Name:    "Rajesh Kumar",
			Email:   "rajesh.kumar@example.com",
			Role:    users.RoleCitizen,
			Aadhaar: "XXXX-XXXX-4523",
			Phone:   "9876543210",
		},
		{
			ID:          "2",
			Name:        "Priya Sharma",
			Email:       "priya.sharma@gov.example.com",
			Role:        users.RoleOfficer,
			Phone:       "9123456780",
			Department:  "Revenue Department",
			Designation: "Tahsildar",
		},
		{
			ID:          "3",
			Name:        "Amit Verma",
			Email:       "amit.verma@gov.example.com",
			Role:        users.RoleAdmin,
			Department:  "Land Records Administration",
			Designation: "District Collector",
		},
	}
}

// delay simulates the network round trip, honoring cancellation.
func (d *Directory) delay(ctx context.Context) error {
	if d.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*users.DirectoryEntry, error) {
	if err := d.delay(ctx); err != nil {
		return nil, errors.Wrap(err, "[Directory.FindByEmail] cancelled")
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	entry, ok := d.entries[users.NormalizeEmail(email)]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &entry, nil
}

func (d *Directory) Create(ctx context.Context, entry users.DirectoryEntry) error {
	if err := d.delay(ctx); err != nil {
		return errors.Wrap(err, "[Directory.Create] cancelled")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := users.NormalizeEmail(entry.User.Email)
	if _, ok := d.entries[key]; ok {
		return users.ErrEmailTaken
	}
	d.entries[key] = entry
	d.order = append(d.order, key)
	return nil
}

func (d *Directory) List(ctx context.Context) ([]users.User, error) {
	if err := d.delay(ctx); err != nil {
		return nil, errors.Wrap(err, "[Directory.List] cancelled")
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]users.User, 0, len(d.order))
	for _, key := range d.order {
		list = append(list, d.entries[key].User)
	}
	return list, nil
}
