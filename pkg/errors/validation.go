package errors

import (
	"strings"
)

// MaxSourceSize bounds a single Verilog source submitted for compilation.
const MaxSourceSize = 1 << 20

// ValidateSource validates a Verilog source text submitted for compilation.
// The field name is used in messages so callers can report which input failed.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only sources
//   - No null bytes (the toolchain reads plain text files)
//   - Maximum size of MaxSourceSize bytes
func ValidateSource(field, src string) error {
	if strings.TrimSpace(src) == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}
	if len(src) > MaxSourceSize {
		return New(ErrCodeInvalidInput, "%s too large (max %d bytes)", field, MaxSourceSize)
	}
	if strings.ContainsRune(src, 0) {
		return New(ErrCodeInvalidInput, "%s contains null bytes", field)
	}
	return nil
}

// ValidateNetlist checks that raw netlist text is plausibly a dump rather than
// binary garbage. Structural validation happens in the parser.
func ValidateNetlist(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "netlist is empty")
	}
	if strings.ContainsRune(raw, 0) {
		return New(ErrCodeInvalidInput, "netlist contains null bytes")
	}
	return nil
}
