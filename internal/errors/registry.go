package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (T001-T099)
	// ============================================

	"T001": {
		Category:   CategoryRuntime,
		Message:    "Toast manager missing from context",
		Detail:     "A toast helper was called with a context that carries no *toast.Manager.",
		Suggestion: "Attach the manager with toast.NewContext(ctx, manager) before calling toast helpers",
	},
	"T002": {
		Category: CategoryRuntime,
		Message:  "Toast manager closed",
		Detail:   "The manager has been torn down; the notification was discarded.",
	},

	// ============================================
	// Config Errors (T101-T199)
	// ============================================

	"T101": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Run 'toastd init' to create toast.json",
	},
	"T102": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that toast.json is valid JSON",
	},
	"T103": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
	"T104": {
		Category:   CategoryConfig,
		Message:    "Invalid environment override",
		Suggestion: "Check the TOASTD_* environment variables",
	},

	// ============================================
	// Request Errors (T201-T299)
	// ============================================

	"T201": {
		Category: CategoryValidation,
		Message:  "Invalid toast request",
	},
	"T202": {
		Category: CategoryValidation,
		Message:  "Toast is not dismissible",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
