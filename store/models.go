// Package store provides read access to agents and their transactions, the
// evaluation context built from a transaction, and demo data seeding. The
// validation engine only ever reads; writes happen through migrations and
// the seeder.
package store

// Agent is an entity whose transactions are validated. Created externally;
// immutable from the engine's point of view.
type Agent struct {
	ID   int
	Name string
}

// Transaction is a money movement recorded for an agent. Field names mirror
// the upstream schema, fee_total is expected (but not enforced here) to be
// the sum of the three fee components.
type Transaction struct {
	ID           int
	AgentID      int
	Origen       string
	Destino      string
	MontoOrigen  float64
	MontoDestino float64
	FeeTotal     float64
	FeeMaxi      float64
	FeeOperacion float64
	FeeProveedor float64
}
