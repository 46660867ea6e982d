// Package errors provides structured error types for the bstr library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the offset of the offending byte or code
// unit, the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseTranscode, errors.KindInvalidScalar).
//	    Offset(12).
//	    Value(uint32(0xD800)).
//	    Detail("surrogate code point in UTF-32 input").
//	    Build()
//
// Convenience constructors cover the common cases (InvalidUTF8,
// UnpairedSurrogate, InvalidBase64, ...). Match errors by category with
// errors.Is against a Phase/Kind prototype.
package errors
