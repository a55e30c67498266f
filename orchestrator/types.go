// Package orchestrator drives a validation run: rules are loaded once,
// agents and transactions are fetched inside one scoped store session, and
// every (transaction, rule) pair yields exactly one outcome. Evaluation
// failures are isolated per pair; only rule-source and store failures abort
// a run.
package orchestrator

import "fmt"

// PassMessage is the message recorded for a passing outcome.
const PassMessage = "OK"

// ValidationOutcome is the result of evaluating one rule against one
// transaction.
type ValidationOutcome struct {
	TransactionID int    `json:"transaction_id"`
	RuleID        string `json:"rule_id"`
	OK            bool   `json:"ok"`
	Message       string `json:"message"`
}

// AgentResult groups one agent's outcomes. Validations are ordered
// rule-first: all transactions for rule 1, then all for rule 2, and so on.
type AgentResult struct {
	AgentID     int                 `json:"agent_id"`
	AgentName   string              `json:"agent_name"`
	Validations []ValidationOutcome `json:"validations"`
}

// RunResult is the complete output of one run, one entry per agent that had
// at least one transaction, in store retrieval order.
type RunResult []AgentResult

// FormulaEvaluationError reports that a single rule's formula failed for a
// single transaction. It is recorded as a failed outcome and never aborts
// the run.
type FormulaEvaluationError struct {
	RuleID        string
	TransactionID int
	Cause         error
}

func (e *FormulaEvaluationError) Error() string {
	return fmt.Sprintf("error evaluating rule %s for transaction %d: %v", e.RuleID, e.TransactionID, e.Cause)
}

func (e *FormulaEvaluationError) Unwrap() error { return e.Cause }
