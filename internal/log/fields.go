package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"

	// Machine fields
	FieldMachine = "machine"
	FieldState   = "state"
	FieldFrom    = "from"
	FieldTo      = "to"
	FieldTick    = "tick"
	FieldAction  = "action"
	FieldGuard   = "guard"

	// Process fields
	FieldTickRate = "tick_rate"
	FieldAddr     = "addr"
	FieldPath     = "path"
)
