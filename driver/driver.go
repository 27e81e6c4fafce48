package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vptvpt/riscv-assembler/assembler"
	"github.com/vptvpt/riscv-assembler/config"
	"github.com/vptvpt/riscv-assembler/util"
)

type Options struct {
	Assembler       assembler.AssemblerConfig
	SourceExtension string
	HexExtension    string
}

func OptionsFromConfig(conf *config.Config) Options {
	return Options{
		Assembler:       conf.AssemblerConfig(),
		SourceExtension: conf.SourceExtension,
		HexExtension:    conf.HexExtension,
	}
}

func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OutputPath strips a trailing source extension and appends the hex one.
func OutputPath(sourcePath string, opts Options) string {
	return strings.TrimSuffix(sourcePath, opts.SourceExtension) + opts.HexExtension
}

// FileError is a fatal error that stopped one file from being assembled.
// Its message reports the position as 1-based line:column.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	var asmErr *assembler.AssemblyError
	if errors.As(e.Err, &asmErr) {
		d := asmErr.Diagnostic()
		return fmt.Sprintf("%s:%d:%d: %s", filepath.Base(e.Path), d.Range.Start.Line+1, d.Range.Start.Char+1, d.Message)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// AssembleFile assembles the file at path and writes its hex file next to it.
// Nothing is written when assembly fails fatally.
func AssembleFile(path string, opts Options) (*assembler.AssembledResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	res, err := assembler.Assemble(string(b), opts.Assembler)
	res.FileName = path
	if err != nil {
		return res, &FileError{Path: path, Err: err}
	}

	for _, lineErr := range res.LineErrors() {
		util.LogF("%s: dropped %v", path, lineErr)
	}

	outPath := OutputPath(path, opts)
	f, err := os.Create(outPath)
	if err != nil {
		return res, &FileError{Path: outPath, Err: err}
	}
	if err := assembler.WriteHex(f, res.ProgramText); err != nil {
		f.Close()
		return res, &FileError{Path: outPath, Err: err}
	}
	if err := f.Close(); err != nil {
		return res, &FileError{Path: outPath, Err: err}
	}

	util.LogF("%s: wrote %d words to %s", path, len(res.ProgramText), outPath)
	return res, nil
}

// Run assembles each file in order, reporting failures to errOut and moving
// on to the next file. It returns the process exit code.
func Run(paths []string, opts Options, errOut io.Writer) int {
	code := 0
	for _, path := range paths {
		if _, err := AssembleFile(path, opts); err != nil {
			fmt.Fprintln(errOut, err)
			code = 1
		}
	}
	return code
}
