// Validator checks agents' transactions against externally-authored
// business rules and reports pass/fail outcomes per transaction per rule.
//
// Usage:
//
//	# Validate agents 1 and 2 and print the results as JSON
//	validator validate --agents 1,2
//
//	# Validate and persist the results to a timestamped JSON file
//	validator validate --agents 1,2 --save --output-dir output
//
//	# Insert demo agents and transactions
//	validator seed
//
//	# Check database connectivity and list tables
//	validator ping
//
//	# Expose validation over HTTP
//	validator serve --listen :8080
package main

func main() {
	Execute()
}
