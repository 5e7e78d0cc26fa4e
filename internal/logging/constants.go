package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldCategory    = "category"
	FieldStrategy    = "strategy"
	FieldRule        = "rule"
	FieldPattern     = "pattern"
	FieldMethod      = "method"
	FieldConfidence  = "confidence"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldDescription = "description"
	FieldWorkOrder   = "work_order"
)
