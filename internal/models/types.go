package models

// Record types for Category.Type and Transaction.Type.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// RecordTypes lists the accepted values for a Type column.
var RecordTypes = []string{TypeIncome, TypeExpense}
