// Package errors provides structured, coded errors for the toast queue and
// the toastd server.
//
// Every error carries a code from a small registry:
//   - T0xx: runtime errors raised by the queue itself
//   - T1xx: configuration errors
//   - T2xx: request errors from the HTTP surface
//
// # Usage
//
//	err := errors.New("T103").
//	    WithDetail("queue.maxVisible must be at least 1").
//	    WithSuggestion("Set queue.maxVisible in toast.json")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR T103: Invalid configuration value
//	//
//	//   queue.maxVisible must be at least 1
//	//
//	//   Hint: Set queue.maxVisible in toast.json
//
// Errors compare by code, so errors.Is works against a bare template:
//
//	if errors.Is(err, errors.New("T101")) { ... }
package errors
