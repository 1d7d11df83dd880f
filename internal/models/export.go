package models

// ExportFormat selects the rendered file type for question exports.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportQuestionsRequest asks for a question export. Status narrows the
// exported rows when set.
type ExportQuestionsRequest struct {
	Format ExportFormat    `json:"format" validate:"required"`
	Status *QuestionStatus `json:"status,omitempty"`
}
