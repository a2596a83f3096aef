// Package sql screens user-supplied text for SQL injection patterns.
// Every taskify query is parameterized; screening exists to surface
// hostile input in the security audit log, not to block it.
package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult contains the result of an injection check on an input value.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // Name of the input that failed the check
	ParamValue  string // The value that was checked
}

// CheckForInjection uses libinjection to detect SQL injection patterns in
// value. Returns nil if nothing is detected.
//
// Example:
//
//	result := CheckForInjection("q", "'; DROP TABLE projects--")
//	// result.IsSQLi == true
//	// result.Fingerprint == "s&1c" (or similar)
func CheckForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}

	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  value,
	}
}

// CheckAll screens every named input and returns the ones that matched.
func CheckAll(inputs map[string]string) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	for name, value := range inputs {
		if result := CheckForInjection(name, value); result != nil {
			results = append(results, result)
		}
	}
	return results
}
