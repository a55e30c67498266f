package store

import (
	"database/sql"
	"fmt"
	"math/rand"
)

// Seed inserts demo agents and transactions for local development. It is a
// no-op when agents already exist. The fee components are random but always
// sum to fee_total, matching the business invariant the rules check.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM agents`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count agents: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 1; i <= 3; i++ {
		var agentID int
		err := tx.QueryRow(`
			INSERT INTO agents (name) VALUES ($1) RETURNING id
		`, fmt.Sprintf("Agente %d", i)).Scan(&agentID)
		if err != nil {
			return fmt.Errorf("failed to insert agent: %w", err)
		}

		for j := 0; j < 5; j++ {
			feeMaxi := 0.5 + rand.Float64()*1.5
			feeOperacion := 0.2 + rand.Float64()*0.8
			feeProveedor := 0.1 + rand.Float64()*0.4
			feeTotal := feeMaxi + feeOperacion + feeProveedor

			_, err := tx.Exec(`
				INSERT INTO transactions
					(agent_id, origen, destino, monto_origen, monto_destino,
					 fee_total, fee_maxi, fee_operacion, fee_proveedor)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, agentID, "USD", "COP",
				50+rand.Float64()*150, 200000+rand.Float64()*700000,
				feeTotal, feeMaxi, feeOperacion, feeProveedor)
			if err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}
	return nil
}
