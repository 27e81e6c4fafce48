package assembler

import (
	"errors"
	"strconv"
)

type ErrorKind int

const (
	// fatal: the file cannot be assembled at all
	UnknownRegister ErrorKind = iota
	MalformedLabel
	DuplicateLabel
	UnresolvedLabel
	InvalidImmediate

	// per-line: only the offending line is affected
	WrongOperandCount
	MissingBracket
	TrailingTokens
)

func (k ErrorKind) Fatal() bool {
	return k < WrongOperandCount
}

func (k ErrorKind) String() string {
	switch k {
	case UnknownRegister:
		return "unknown register"
	case MalformedLabel:
		return "malformed label"
	case DuplicateLabel:
		return "duplicate label"
	case UnresolvedLabel:
		return "unresolved label"
	case InvalidImmediate:
		return "invalid immediate"
	case WrongOperandCount:
		return "wrong operand count"
	case MissingBracket:
		return "missing bracket"
	case TrailingTokens:
		return "unexpected trailing tokens"
	}
	return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// AssemblyError describes why a line could not be assembled. Line is the
// 0-based source line.
type AssemblyError struct {
	Kind  ErrorKind
	Line  int
	Token string
	Range TextRange
	// Mnemonic and Expected describe the operand syntax for count errors
	Mnemonic string
	Expected string
	// strict is set when a per-line failure was promoted by StrictLines
	strict bool
}

func (e *AssemblyError) Error() string {
	msg := e.Kind.String()
	if e.Token != "" {
		msg += " \"" + e.Token + "\""
	}
	return "line " + strconv.Itoa(e.Line+1) + ": " + msg
}

// Fatal reports whether the error aborts the whole file.
func (e *AssemblyError) Fatal() bool {
	return e.strict || e.Kind.Fatal()
}

// Diagnostic converts the error into the diagnostic reported to editors.
func (e *AssemblyError) Diagnostic() Diagnostic {
	switch e.Kind {
	case UnknownRegister:
		return Errors.InvalidRegister(e.Token, e.Range)
	case MalformedLabel:
		return Errors.InvalidSymbolName(e.Token, "labels must be written as <name>: on a line of their own", e.Range)
	case DuplicateLabel:
		return Errors.DuplicateSymbolName(e.Token, e.Range)
	case UnresolvedLabel:
		return Errors.UnresolvedSymbolName(e.Token, e.Range)
	case InvalidImmediate:
		return Errors.InvalidIntegerLiteral(e.Token, e.Range)
	case MissingBracket:
		return Errors.MissingBracket(e.Token, e.Range)
	case WrongOperandCount, TrailingTokens:
		if e.Expected != "" {
			return Errors.InvalidInstructionFormat(e.Expected, e.Mnemonic, e.Range)
		}
	}
	return Errors.AnonymousError(e.Error(), e.Range)
}

func lineError(kind ErrorKind, line int, tok Token) *AssemblyError {
	return &AssemblyError{Kind: kind, Line: line, Token: tok.Text, Range: tokenRange(line, tok)}
}

func IsFatal(err error) bool {
	var asmErr *AssemblyError
	return errors.As(err, &asmErr) && asmErr.Fatal()
}

func IsUnresolvedLabel(err error) bool {
	return isKind(err, UnresolvedLabel)
}

func IsUnknownRegister(err error) bool {
	return isKind(err, UnknownRegister)
}

func isKind(err error, kind ErrorKind) bool {
	var asmErr *AssemblyError
	return errors.As(err, &asmErr) && asmErr.Kind == kind
}

// Errors
type assemblyError struct{}

var Errors assemblyError

func (assemblyError) InvalidSymbolName(symbolName, context string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Invalid symbol name: \"" + symbolName + "\", " + context,
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) DuplicateSymbolName(symbolName string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Label \"" + symbolName + "\" is already defined",
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) UnresolvedSymbolName(symbolName string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Unresolved symbol name: \"" + symbolName + "\"",
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) InvalidIntegerLiteral(literal string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Expected integer literal, got: \"" + literal + "\"",
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) InvalidRegister(register string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Expected register, got: \"" + register + "\"",
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) MissingBracket(got string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Expected \"(\" or \")\", got: \"" + got + "\"",
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) InvalidInstructionFormat(format string, opcode string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Invalid instruction format for " + opcode + "\nFormat: " + format,
		Source:   "Assembler",
		Severity: Error,
	}
}

func (assemblyError) AnonymousError(message string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  message,
		Source:   "Assembler",
		Severity: Error,
	}
}

// Warnings
type assemblyWarning struct{}

var Warnings assemblyWarning

// ImmediateOverflow reports a value outside the inclusive range [min, max] of
// a field of the given width.
func (assemblyWarning) ImmediateOverflow(value string, bits int, min, max int64, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Immediate value \"" + value + "\" is out of range of " + strconv.Itoa(bits) + " bits [" + strconv.FormatInt(min, 10) + ", " + strconv.FormatInt(max, 10) + "], upper bits are discarded",
		Source:   "Assembler",
		Severity: Warning,
	}
}

func (assemblyWarning) UnalignedOffset(value string, r TextRange) Diagnostic {
	return Diagnostic{
		Range:    r,
		Message:  "Offset \"" + value + "\" is odd, the lowest bit is discarded",
		Source:   "Assembler",
		Severity: Warning,
	}
}
