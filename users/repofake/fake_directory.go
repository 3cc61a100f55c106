package repofake

import (
	"context"
	"sync"

	"github.com/thedevz43/landrecords/users"
)

var _ users.Directory = (*FakeDirectory)(nil)

// FakeDirectory is an in-memory users.Directory for tests.
type FakeDirectory struct {
	mu      sync.RWMutex
	entries map[string]users.DirectoryEntry // normalized email -> entry
	order   []string                        // insertion order of normalized emails
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		entries: make(map[string]users.DirectoryEntry),
	}
}

func (d *FakeDirectory) FindByEmail(_ context.Context, email string) (*users.DirectoryEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entry, ok := d.entries[users.NormalizeEmail(email)]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &entry, nil
}

func (d *FakeDirectory) Create(_ context.Context, entry users.DirectoryEntry) error {
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

func (d *FakeDirectory) List(_ context.Context) ([]users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]users.User, 0, len(d.order))
	for _, key := range d.order {
		list = append(list, d.entries[key].User)
	}
	return list, nil
}
