package logging

// Standardized field names for structured log output.
const (
	FieldFile      = "file"
	FieldFormat    = "format"
	FieldDelimiter = "delimiter"
	FieldCount     = "count"
	FieldErrors    = "errors"
	FieldUserID    = "user_id"
	FieldMerchant  = "merchant"
	FieldFrequency = "frequency"
	FieldAmount    = "amount"
	FieldReason    = "reason"
)
