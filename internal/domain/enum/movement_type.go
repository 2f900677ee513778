package enum

// MovementType is the direction of a credit-account movement
type MovementType string

const (
	// MovementDebit increases what the customer owes
	MovementDebit MovementType = "DEBIT"
	// MovementCredit decreases it
	MovementCredit MovementType = "CREDIT"
)
