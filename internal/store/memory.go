package store

import (
	"sync"

	"github.com/dcastano/leadboard/internal/models"
)

// MemoryStore holds the two record collections. Each ingestion replaces a
// whole collection atomically; a failed parse never reaches the store, so the
// previous snapshot stays active. Readers get copies and can aggregate
// without holding the lock.
type MemoryStore struct {
	mu        sync.RWMutex
	leads     []models.LeadRecord
	marketing models.MarketingData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ReplaceLeads(rows []models.LeadRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = rows
}

func (s *MemoryStore) ReplaceMarketing(d models.MarketingData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marketing = d
}

// Leads returns a copy of the current lead snapshot.
func (s *MemoryStore) Leads() []models.LeadRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LeadRecord, len(s.leads))
	copy(out, s.leads)
	return out
}

// Marketing returns a copy of the current marketing snapshot.
func (s *MemoryStore) Marketing() models.MarketingData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := models.MarketingData{Schema: s.marketing.Schema}
	d.Events = append(d.Events, s.marketing.Events...)
	d.DailySpend = append(d.DailySpend, s.marketing.DailySpend...)
	d.DailyReach = append(d.DailyReach, s.marketing.DailyReach...)
	d.DailyRegionReach = append(d.DailyRegionReach, s.marketing.DailyRegionReach...)
	return d
}

func (s *MemoryStore) LeadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}
