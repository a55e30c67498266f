package store

// RecordStore is the engine's read-only view of agents and transactions.
type RecordStore interface {
	// Begin opens a session scoped to one validation run.
	Begin() (Session, error)

	// Ping verifies connectivity.
	Ping() error
}

// Session wraps one run's store access in a single scoped transaction:
// acquired at run start, released at run end on every exit path. Commit on
// success, Rollback otherwise; Rollback after Commit is a no-op.
type Session interface {
	// AgentsByIDs fetches the agents whose ids are in the given set, in
	// store order (primary key ascending). Unknown ids are simply absent.
	AgentsByIDs(ids []int) ([]*Agent, error)

	// TransactionsByAgent fetches the agent's transactions in store order.
	TransactionsByAgent(agentID int) ([]*Transaction, error)

	Commit() error
	Rollback() error
}
