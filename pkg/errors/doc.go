// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnreachable,
//	    "failed to open management session",
//	    dialErr,
//	    map[string]interface{}{
//	        "device": dev.Name,
//	        "addr": dev.MgmtAddr,
//	    },
//	)
package errors
