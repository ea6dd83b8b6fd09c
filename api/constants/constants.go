package constants

// Common error messages
const (
	ErrMethodNotAllowed = "Method Not Allowed"
	ErrNoFileUploaded   = "No file uploaded"
	ErrOnlyTabularFiles = "Only CSV, XLSX, or XLS files are allowed"
	ErrNoRawData        = "No raw data found. Please upload a CSV file first."
	ErrNoDashboardData  = "No data available. Please upload a booking report first."
)

// Content types
const (
	ContentTypeJSON   = "application/json"
	HeaderContentType = "Content-Type"
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
)
