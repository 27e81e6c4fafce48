package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/vptvpt/riscv-assembler/assembler"
)

type dumpedLine struct {
	Line   int
	Tokens []string
	Class  assembler.ClassifiedLine
	Word   string
	Error  string
}

// Dump pretty-prints the label table and both passes of res.
func Dump(w io.Writer, res *assembler.AssembledResult, colored bool) {
	printer := pp.New()
	printer.SetOutput(w)
	printer.SetColoringEnabled(colored)

	printer.Fprintf(w, "Labels: %v\n", res.Labels.Map())

	results := map[int]assembler.LineResult{}
	for _, line := range res.Lines {
		results[line.Line] = line
	}

	tokens := res.Tokens()
	for i, class := range res.Classified() {
		if len(tokens[i]) == 0 {
			continue
		}
		line := dumpedLine{Line: i + 1, Class: class}
		for _, tok := range tokens[i] {
			line.Tokens = append(line.Tokens, tok.Text)
		}
		if result, ok := results[i]; ok {
			if result.Ok {
				line.Word = fmt.Sprintf("%08x", result.Word)
			} else if result.Err != nil {
				line.Error = result.Err.Error()
			}
		}
		printer.Fprintf(w, "%v\n", line)
	}

	for _, d := range res.Diagnostics {
		printer.Fprintf(w, "%v\n", d)
	}
}

// DumpFile assembles path without writing any output and dumps the result.
func DumpFile(path string, opts Options, w io.Writer, colored bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	res, err := assembler.Assemble(string(b), opts.Assembler)
	res.FileName = path
	Dump(w, res, colored)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	return nil
}

// DecodeFile disassembles a hex file, one word per line.
func DecodeFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	defer f.Close()

	words, err := assembler.ReadHex(f)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}

	for i, word := range words {
		inst, ok := assembler.Decode(word)
		if !ok {
			fmt.Fprintf(w, "%04x: %08x  <unknown>\n", i*4, word)
			continue
		}
		fmt.Fprintf(w, "%04x: %08x  %s\n", i*4, word, inst)
	}
	return nil
}
