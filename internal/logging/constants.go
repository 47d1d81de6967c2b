package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldStore     = "store"
	FieldCity      = "city"
	FieldRow       = "row"
	FieldRecord    = "record"
	FieldName      = "name"
	FieldAmount    = "amount"
	FieldDueDate   = "due_date"
	FieldStatus    = "status"
	FieldOutcome   = "outcome"
	FieldCount     = "count"
	FieldReason    = "reason"
	FieldRecipient = "recipient"
	FieldComponent = "component"
)
