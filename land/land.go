// Package land holds the portal's land-record data layer: an in-memory
// registry of parcels with literal substring search, plus mutation
// applications and role-scoped dashboard summaries.
package land

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var ErrRecordNotFound = errors.New("land record not found")

// Record is a single land parcel.
type Record struct {
	ID           string  `json:"id"`
	SurveyNumber string  `json:"survey_number"`
	SubDivision  string  `json:"sub_division,omitempty"`
	Owner        string  `json:"owner"`
	OwnerID      string  `json:"owner_id"`
	State        string  `json:"state"`
	District     string  `json:"district"`
	Taluk        string  `json:"taluk"`
	AreaAcres    float64 `json:"area_acres"`
	TaxDueRupees int64   `json:"tax_due_rupees"`
	Details      string  `json:"details,omitempty"`
}

// Registry is an in-memory collection of land records. Search is a literal
// case-insensitive substring match — there is no ranking and no fuzziness.
type Registry struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Add appends a record. Record IDs must be unique.
func (r *Registry) Add(record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		return errors.New("record ID is required")
	}
	if _, ok := r.byID[record.ID]; ok {
		return errors.New("record ID already present")
	}
	r.byID[record.ID] = len(r.records)
	r.records = append(r.records, record)
	return nil
}

// Get returns the record with the given ID, or ErrRecordNotFound.
func (r *Registry) Get(_ context.Context, id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return r.records[idx], nil
}

// Search returns records whose owner, location, or survey number contains
// query as a substring, ignoring case, in insertion order. An empty query
// matches nothing.
func (r *Registry) Search(_ context.Context, query string) []Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Record
	for _, record := range r.records {
		if record.matches(query) {
			matches = append(matches, record)
		}
	}
	return matches
}

func (rec Record) matches(query string) bool {
	for _, field := range []string{
		rec.Owner,
		rec.SurveyNumber,
		rec.State,
		rec.District,
		rec.Taluk,
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// ByOwner returns all records owned by the given user ID, in insertion order.
func (r *Registry) ByOwner(_ context.Context, ownerID string) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var owned []Record
	for _, record := range r.records {
		if record.OwnerID == ownerID {
			owned = append(owned, record)
		}
	}
	return owned
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// NewDemoRegistry returns a registry seeded with the demo parcels.
func NewDemoRegistry() *Registry {
	registry := NewRegistry()
	for _, record := range demoRecords() {
		// Seeds are literals; Add only fails on a duplicate ID.
		if err := registry.Add(record); err != nil {
			panic(err)
		}
	}
	return registry
}

func demoRecords() []Record {
	return []Record{
		{
			ID:           "TS-HYD-2847",
			SurveyNumber: "142",
			SubDivision:  "2A",
			Owner:        "Rajesh Kumar",
			OwnerID:      "1",
			State:        "Telangana",
			District:     "Hyderabad",
			Taluk:        "Secunderabad",
			AreaAcres:    2.5,
			TaxDueRupees: 4850,
			Details:      "Agricultural land, canal irrigated",
		},
		{
			ID:           "TS-RNG-1034",
			SurveyNumber: "88",
			Owner:        "Rajesh Kumar",
			OwnerID:      "1",
			State:        "Telangana",
			District:     "Rangareddy",
			Taluk:        "Shamshabad",
			AreaAcres:    1.2,
			TaxDueRupees: 12300,
			Details:      "Residential plot",
		},
		{
			ID:           "KA-BLR-5621",
			SurveyNumber: "317",
			SubDivision:  "1B",
			Owner:        "Lakshmi Narayan",
			OwnerID:      "4",
			State:        "Karnataka",
			District:     "Bengaluru Urban",
			Taluk:        "Anekal",
			AreaAcres:    4.0,
			TaxDueRupees: 7600,
			Details:      "Dry agricultural land",
		},
		{
			ID:           "KA-MYS-0923",
			SurveyNumber: "56",
			Owner:        "Suresh Gowda",
			OwnerID:      "5",
			State:        "Karnataka",
			District:     "Mysuru",
			Taluk:        "Nanjangud",
			AreaAcres:    3.1,
			Details:      "Paddy field, borewell",
		},
	}
}
