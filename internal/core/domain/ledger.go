package domain

// LedgerEffect is the source-state mutation that accompanies a successful
// payment execution. Exactly one of Bill, Subscription or Goal is set,
// matching the order's source type; Goal executions also carry a savings log.
// The repository applies the effect, the ledger transaction and the order's
// success update in a single database transaction.
type LedgerEffect struct {
	Bill         *Bill
	Subscription *Subscription
	Goal         *SavingsGoal
	SavingsLog   *SavingsLog
}
