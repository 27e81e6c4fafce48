package assembler

import (
	"errors"
	"strings"
)

// Assemble runs both passes over input. The returned result is never nil; on
// a fatal error it holds whatever was assembled before the failure and the
// error is the *AssemblyError that stopped it.
func Assemble(input string, config AssemblerConfig) (*AssembledResult, error) {
	res := &AssembledResult{
		AddressToLine: map[uint32]int{},
		Diagnostics:   []Diagnostic{},
		fileContents:  strings.Split(input, "\n"),
	}

	res.tokens = make([][]Token, len(res.fileContents))
	for i, line := range res.fileContents {
		res.tokens[i] = Tokenize(line)
	}

	classified, labels, err := classifyLines(res.tokens)
	res.classified = classified
	res.Labels = labels
	if err != nil {
		res.report(err)
		return res, err
	}

	if err := res.encodeLines(config); err != nil {
		res.report(err)
		return res, err
	}

	return res, nil
}

// encodeLines is pass 2.
func (a *AssembledResult) encodeLines(config AssemblerConfig) error {
	a.Lines = make([]LineResult, 0, len(a.classified))
	currentAddress := uint32(0)

	for lineNum, line := range a.classified {
		word, warnings, err := encodeLine(line, a.tokens[lineNum], lineNum, a.Labels)
		a.Diagnostics = append(a.Diagnostics, warnings...)

		if err != nil {
			var asmErr *AssemblyError
			if errors.As(err, &asmErr) && !asmErr.Fatal() && config.LineFailurePolicy == StrictLines {
				asmErr.strict = true
			}
			if IsFatal(err) {
				return err
			}
			a.report(err)
			a.Lines = append(a.Lines, LineResult{Line: lineNum, Err: err})
			continue
		}

		if _, ok := line.Format(); !ok {
			a.Lines = append(a.Lines, LineResult{Line: lineNum})
			continue
		}

		a.Lines = append(a.Lines, LineResult{Line: lineNum, Word: word, Ok: true})
		a.ProgramText = append(a.ProgramText, word)
		a.AddressToLine[currentAddress] = lineNum
		currentAddress += 4
	}

	return nil
}

func (a *AssembledResult) report(err error) {
	var asmErr *AssemblyError
	if errors.As(err, &asmErr) {
		a.Diagnostics = append(a.Diagnostics, asmErr.Diagnostic())
		return
	}
	a.Diagnostics = append(a.Diagnostics, Errors.AnonymousError(err.Error(), TextRange{}))
}

// LineErrors returns the per-line failures that were dropped from the output.
func (a *AssembledResult) LineErrors() []error {
	errs := []error{}
	for _, line := range a.Lines {
		if line.Err != nil {
			errs = append(errs, line.Err)
		}
	}
	return errs
}

// Classified returns the pass 1 classification of every source line.
func (a *AssembledResult) Classified() []ClassifiedLine {
	return a.classified
}

// Tokens returns the tokens of every source line.
func (a *AssembledResult) Tokens() [][]Token {
	return a.tokens
}
