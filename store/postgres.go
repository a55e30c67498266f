package store

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore implements RecordStore backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open database handle. The schema is managed by
// the migrations under migrations/.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Open connects to the database at url and verifies the connection.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	return nil
}

// Begin opens a read-only session for one validation run.
func (s *PostgresStore) Begin() (Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin session: %w", err)
	}
	return &postgresSession{tx: tx}, nil
}

// TableNames lists the tables in the public schema, for connectivity
// diagnostics.
func (s *PostgresStore) TableNames() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

type postgresSession struct {
	tx   *sql.Tx
	done bool
}

func (s *postgresSession) AgentsByIDs(ids []int) ([]*Agent, error) {
	idList := make([]int64, len(ids))
	for i, id := range ids {
		idList[i] = int64(id)
	}

	rows, err := s.tx.Query(`
		SELECT id, name
		FROM agents
		WHERE id = ANY($1)
		ORDER BY id ASC
	`, pq.Int64Array(idList))
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	var agents []*Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}
	return agents, nil
}

func (s *postgresSession) TransactionsByAgent(agentID int) ([]*Transaction, error) {
	rows, err := s.tx.Query(`
		SELECT id, agent_id, origen, destino, monto_origen, monto_destino,
		       fee_total, fee_maxi, fee_operacion, fee_proveedor
		FROM transactions
		WHERE agent_id = $1
		ORDER BY id ASC
	`, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AgentID, &t.Origen, &t.Destino,
			&t.MontoOrigen, &t.MontoDestino,
			&t.FeeTotal, &t.FeeMaxi, &t.FeeOperacion, &t.FeeProveedor); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

func (s *postgresSession) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func (s *postgresSession) Rollback() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to roll back session: %w", err)
	}
	return nil
}
