package store

// fieldAccessors is the explicit mapping from rule field names to
// transaction attributes, built once for the schema. Looking up a name not
// listed here deterministically yields null; no reflection is involved.
var fieldAccessors = map[string]func(*Transaction) any{
	"id":            func(tx *Transaction) any { return tx.ID },
	"agent_id":      func(tx *Transaction) any { return tx.AgentID },
	"origen":        func(tx *Transaction) any { return tx.Origen },
	"destino":       func(tx *Transaction) any { return tx.Destino },
	"monto_origen":  func(tx *Transaction) any { return tx.MontoOrigen },
	"monto_destino": func(tx *Transaction) any { return tx.MontoDestino },
	"fee_total":     func(tx *Transaction) any { return tx.FeeTotal },
	"fee_maxi":      func(tx *Transaction) any { return tx.FeeMaxi },
	"fee_operacion": func(tx *Transaction) any { return tx.FeeOperacion },
	"fee_proveedor": func(tx *Transaction) any { return tx.FeeProveedor },
}

// BuildContext maps each required field name to its value on tx. Names the
// transaction schema does not expose map to an explicit nil so that rules
// referencing unavailable fields degrade to evaluating against null instead
// of aborting the rule. The map is fresh per call and never shared.
func BuildContext(tx *Transaction, fields []string) map[string]any {
	ctx := make(map[string]any, len(fields))
	for _, name := range fields {
		if get, ok := fieldAccessors[name]; ok {
			ctx[name] = get(tx)
		} else {
			ctx[name] = nil
		}
	}
	return ctx
}
