package types

// ColumnType represents the kind of a board column as reported by the remote
// service. "status" columns are single-select, "dropdown" columns are
// multi-select; both carry their option labels in the column settings blob.
type ColumnType string

const (
	ColumnTypeStatus   ColumnType = "status"
	ColumnTypeColor    ColumnType = "color" // legacy API name for status columns
	ColumnTypeDropdown ColumnType = "dropdown"
	ColumnTypeText     ColumnType = "text"
	ColumnTypeLongText ColumnType = "long_text"
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeEmail    ColumnType = "email"
	ColumnTypeNumbers  ColumnType = "numbers"
)

// IsChoice reports whether the column has a fixed set of selectable labels.
func (t ColumnType) IsChoice() bool {
	return t == ColumnTypeStatus || t == ColumnTypeColor || t == ColumnTypeDropdown
}

// String returns the string representation of the column type.
func (t ColumnType) String() string {
	return string(t)
}
