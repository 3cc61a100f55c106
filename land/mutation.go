package land

import (
	"context"
	"sync"
	"time"
)

// MutationStatus tracks a mutation (ownership-transfer) application through
// the office workflow.
type MutationStatus string

const (
	MutationPending     MutationStatus = "pending"
	MutationUnderReview MutationStatus = "under_review"
	MutationApproved    MutationStatus = "approved"
	MutationRejected    MutationStatus = "rejected"
)

// MutationApplication is a citizen's request to transfer a parcel's
// registered ownership.
type MutationApplication struct {
	ID          string         `json:"id"`
	RecordID    string         `json:"record_id"`
	ApplicantID string         `json:"applicant_id"`
	Status      MutationStatus `json:"status"`
	AppliedAt   time.Time      `json:"applied_at"`
}

// MutationBook holds mutation applications in application order.
type MutationBook struct {
	mu           sync.RWMutex
	applications []MutationApplication
}

func NewMutationBook() *MutationBook {
	return &MutationBook{}
}

// File appends a new application.
func (b *MutationBook) File(app MutationApplication) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applications = append(b.applications, app)
}

// ByApplicant returns the applications filed by the given user.
func (b *MutationBook) ByApplicant(_ context.Context, applicantID string) []MutationApplication {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var filed []MutationApplication
	for _, app := range b.applications {
		if app.ApplicantID == applicantID {
			filed = append(filed, app)
		}
	}
	return filed
}

// ByStatus returns the applications in the given state, oldest first. This
// is the officer's work queue.
func (b *MutationBook) ByStatus(_ context.Context, status MutationStatus) []MutationApplication {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var queue []MutationApplication
	for _, app := range b.applications {
		if app.Status == status {
			queue = append(queue, app)
		}
	}
	return queue
}

// Len returns the number of filed applications.
func (b *MutationBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.applications)
}

// NewDemoMutationBook returns a book seeded with demo applications.
func NewDemoMutationBook() *MutationBook {
	book := NewMutationBook()
	applied := time.Date(2025, time.November, 14, 10, 30, 0, 0, time.UTC)
	book.File(MutationApplication{
		ID:          "MUT-2025-0147",
		RecordID:    "TS-RNG-1034",
		ApplicantID: "1",
		Status:      MutationPending,
		AppliedAt:   applied,
	})
	book.File(MutationApplication{
		ID:          "MUT-2025-0151",
		RecordID:    "KA-MYS-0923",
		ApplicantID: "5",
		Status:      MutationUnderReview,
		AppliedAt:   applied.AddDate(0, 0, 3),
	})
	return book
}
