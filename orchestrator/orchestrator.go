package orchestrator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/maxipay/txvalidator/formula"
	"github.com/maxipay/txvalidator/internal/logger"
	"github.com/maxipay/txvalidator/rules"
	"github.com/maxipay/txvalidator/store"
)

// Orchestrator validates agents' transactions against a rule source.
type Orchestrator struct {
	store store.RecordStore
}

// New creates an orchestrator over the given record store.
func New(st store.RecordStore) *Orchestrator {
	return &Orchestrator{store: st}
}

// compiledRule pairs a loaded rule with its parsed formula. A parse failure
// is kept instead of aborting the run: it surfaces later as a failed outcome
// on every transaction the rule touches.
type compiledRule struct {
	rule     rules.Rule
	expr     *formula.Expr
	parseErr error
}

// Run validates the transactions of the requested agents against the rules
// at rulesPath. A malformed rule source or a store failure aborts the whole
// run; per-formula failures degrade into failed outcomes. Requested ids with
// no matching agents yield an empty result, not an error.
func (o *Orchestrator) Run(agentIDs []int, rulesPath string) (RunResult, error) {
	loaded, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger.Info("starting validation run",
		"run_id", runID, "agents_requested", len(agentIDs), "rules", len(loaded))

	compiled := make([]compiledRule, len(loaded))
	for i, r := range loaded {
		expr, err := formula.Parse(r.Formula)
		compiled[i] = compiledRule{rule: r, expr: expr, parseErr: err}
		if err != nil {
			logger.Warn("rule formula does not parse, it will fail every transaction",
				"run_id", runID, "rule_id", r.ID, "error", err)
		}
	}

	sess, err := o.store.Begin()
	if err != nil {
		return nil, err
	}
	// Released on every exit path; a no-op once the session is committed.
	defer sess.Rollback()

	agents, err := sess.AgentsByIDs(agentIDs)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		logger.Warn("no matching agents", "run_id", runID, "requested", agentIDs)
		if err := sess.Commit(); err != nil {
			return nil, err
		}
		return RunResult{}, nil
	}

	result := make(RunResult, 0, len(agents))
	for _, agent := range agents {
		txs, err := sess.TransactionsByAgent(agent.ID)
		if err != nil {
			return nil, err
		}
		if len(txs) == 0 {
			// Agents without transactions are omitted entirely, they do not
			// get an empty AgentResult.
			logger.Warn("agent has no transactions, skipping",
				"run_id", runID, "agent_id", agent.ID, "agent_name", agent.Name)
			continue
		}

		logger.Info("validating agent",
			"run_id", runID, "agent_id", agent.ID, "agent_name", agent.Name, "transactions", len(txs))

		agentResult := AgentResult{
			AgentID:     agent.ID,
			AgentName:   agent.Name,
			Validations: make([]ValidationOutcome, 0, len(compiled)*len(txs)),
		}

		for _, cr := range compiled {
			logger.Debug("applying rule",
				"run_id", runID, "rule_id", cr.rule.ID, "description", cr.rule.Description)
			for _, tx := range txs {
				agentResult.Validations = append(agentResult.Validations, o.validate(cr, tx))
			}
		}

		result = append(result, agentResult)
	}

	if err := sess.Commit(); err != nil {
		return nil, fmt.Errorf("failed to release run session: %w", err)
	}

	logger.Info("validation run complete", "run_id", runID, "agents_validated", len(result))
	return result, nil
}

// validate produces the single outcome for one (transaction, rule) pair.
func (o *Orchestrator) validate(cr compiledRule, tx *store.Transaction) ValidationOutcome {
	outcome := ValidationOutcome{
		TransactionID: tx.ID,
		RuleID:        cr.rule.ID,
	}

	if cr.parseErr != nil {
		evalErr := &FormulaEvaluationError{RuleID: cr.rule.ID, TransactionID: tx.ID, Cause: cr.parseErr}
		outcome.Message = evalErr.Error()
		return outcome
	}

	ctx := store.BuildContext(tx, cr.rule.FieldsRequired)
	ok, err := cr.expr.Eval(ctx)
	if err != nil {
		evalErr := &FormulaEvaluationError{RuleID: cr.rule.ID, TransactionID: tx.ID, Cause: err}
		outcome.Message = evalErr.Error()
		return outcome
	}

	outcome.OK = ok
	if ok {
		outcome.Message = PassMessage
	} else {
		outcome.Message = cr.rule.MessageOnFail
	}
	return outcome
}
