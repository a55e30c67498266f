package store

import "sort"

// MemoryStore is an in-memory RecordStore used by tests and local runs
// without a database. It mirrors the postgres retrieval semantics: id
// ordering for agents and transactions.
type MemoryStore struct {
	agents       map[int]*Agent
	transactions map[int][]*Transaction // keyed by agent id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		agents:       make(map[int]*Agent),
		transactions: make(map[int][]*Transaction),
	}
}

// AddAgent registers an agent and its transactions.
func (s *MemoryStore) AddAgent(a *Agent, txs ...*Transaction) {
	s.agents[a.ID] = a
	s.transactions[a.ID] = append(s.transactions[a.ID], txs...)
}

// Ping always succeeds.
func (s *MemoryStore) Ping() error { return nil }

// Begin opens a session over the current contents. Commit and Rollback are
// no-ops since nothing is written.
func (s *MemoryStore) Begin() (Session, error) {
	return &memorySession{store: s}, nil
}

type memorySession struct {
	store *MemoryStore
}

func (s *memorySession) AgentsByIDs(ids []int) ([]*Agent, error) {
	var agents []*Agent
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := s.store.agents[id]; ok {
			agents = append(agents, a)
		}
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents, nil
}

func (s *memorySession) TransactionsByAgent(agentID int) ([]*Transaction, error) {
	txs := append([]*Transaction(nil), s.store.transactions[agentID]...)
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs, nil
}

func (s *memorySession) Commit() error   { return nil }
func (s *memorySession) Rollback() error { return nil }
