package assembler

type AssembledResult struct {
	Labels        *LabelTable    // label name to line index, read-only once pass 1 is done
	Lines         []LineResult   // one entry per source line, in source order
	ProgramText   []uint32       // encoded words in emission order
	AddressToLine map[uint32]int // address (relative) to source line number
	Diagnostics   []Diagnostic
	FileName      string // for reflection
	fileContents  []string
	tokens        [][]Token
	classified    []ClassifiedLine
}

// LineResult is the outcome of pass 2 for a single source line. Ok is false for
// blank lines, label definitions and lines that failed to encode; Err is set
// only in the last case.
type LineResult struct {
	Line int
	Word uint32
	Ok   bool
	Err  error
}

// Token is a non-empty fragment of a source line and the column it starts at.
type Token struct {
	Text string
	Char int
}

type LineFailurePolicy string

const (
	// DropFailedLines omits lines with operand errors from the output.
	DropFailedLines LineFailurePolicy = "drop"
	// StrictLines treats operand errors as fatal for the whole file.
	StrictLines LineFailurePolicy = "strict"
)

type AssemblerConfig struct {
	LineFailurePolicy LineFailurePolicy
}

func DefaultConfig() AssemblerConfig {
	return AssemblerConfig{LineFailurePolicy: DropFailedLines}
}

type TextPosition struct {
	Line int `json:"line"`
	Char int `json:"character"`
}

type TextRange struct {
	Start TextPosition `json:"start"`
	End   TextPosition `json:"end"`
}

type CodeDescription struct {
	URL string `json:"href"`
}

type DiagnosticSeverity int

const (
	Error       DiagnosticSeverity = 1
	Warning     DiagnosticSeverity = 2
	Information DiagnosticSeverity = 3
	Hint        DiagnosticSeverity = 4
)

type Diagnostic struct {
	Range           TextRange          `json:"range"`
	Message         string             `json:"message"`
	Source          string             `json:"source,omitempty"`
	CodeDescription *CodeDescription   `json:"codeDescription,omitempty"`
	Severity        DiagnosticSeverity `json:"severity,omitempty"`
}

func tokenRange(line int, tok Token) TextRange {
	return TextRange{
		Start: TextPosition{Line: line, Char: tok.Char},
		End:   TextPosition{Line: line, Char: tok.Char + len(tok.Text)},
	}
}
