package assembler

import "sort"

// ClassifiedLine is the result of pass 1 for one source line. The set of
// implementations is closed: RLine, ILine, IMemLine, SLine, BLine, ULine,
// JLine and EmptyLine.
type ClassifiedLine interface {
	Format() (Format, bool)
	classified()
}

type RLine struct {
	Func7, Func3 uint32
}

type ILine struct {
	Opcode, Func3 uint32
	Func7         uint32 // upper immediate bits of srai
	Shift         bool
}

// IMemLine covers loads and jalr, written as rd, offset(rs1).
type IMemLine struct {
	Opcode, Func3 uint32
}

type SLine struct {
	Opcode, Func3 uint32
}

// BLine and JLine carry the line index of the instruction itself so pass 2
// can compute label offsets.
type BLine struct {
	Opcode, Func3 uint32
	Index         int
}

type ULine struct {
	Opcode uint32
}

type JLine struct {
	Opcode uint32
	Index  int
}

// EmptyLine is a blank, comment-only or label definition line.
type EmptyLine struct{}

func (RLine) Format() (Format, bool)     { return FormatR, true }
func (ILine) Format() (Format, bool)     { return FormatI, true }
func (IMemLine) Format() (Format, bool)  { return FormatIMem, true }
func (SLine) Format() (Format, bool)     { return FormatS, true }
func (BLine) Format() (Format, bool)     { return FormatB, true }
func (ULine) Format() (Format, bool)     { return FormatU, true }
func (JLine) Format() (Format, bool)     { return FormatJ, true }
func (EmptyLine) Format() (Format, bool) { return 0, false }

func (RLine) classified()     {}
func (ILine) classified()     {}
func (IMemLine) classified()  {}
func (SLine) classified()     {}
func (BLine) classified()     {}
func (ULine) classified()     {}
func (JLine) classified()     {}
func (EmptyLine) classified() {}

// LabelTable maps label names to the line index of the instruction that
// follows the definition. It is only written during pass 1.
type LabelTable struct {
	index map[string]int
	line  map[string]int // source line of the definition
}

func newLabelTable() *LabelTable {
	return &LabelTable{index: map[string]int{}, line: map[string]int{}}
}

func (t *LabelTable) Lookup(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	index, ok := t.index[name]
	return index, ok
}

// DefinitionLine returns the 0-based source line the label is defined on.
func (t *LabelTable) DefinitionLine(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	line, ok := t.line[name]
	return line, ok
}

func (t *LabelTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.index)
}

// Names returns the label names sorted by line index, then by name.
func (t *LabelTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.index))
	for name := range t.index {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if t.index[names[i]] != t.index[names[j]] {
			return t.index[names[i]] < t.index[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Map returns a copy of the name to line index bindings.
func (t *LabelTable) Map() map[string]int {
	m := make(map[string]int, t.Len())
	if t != nil {
		for k, v := range t.index {
			m[k] = v
		}
	}
	return m
}

// classifyLines is pass 1. It assigns each instruction line the next line
// index, binds labels to the index of the instruction that follows them and
// returns one ClassifiedLine per source line.
func classifyLines(lines [][]Token) ([]ClassifiedLine, *LabelTable, error) {
	labels := newLabelTable()
	classified := make([]ClassifiedLine, 0, len(lines))
	index := 0

	for lineNum, tokens := range lines {
		if len(tokens) == 0 {
			classified = append(classified, EmptyLine{})
			continue
		}

		info, ok := instructionTable[tokens[0].Text]
		if !ok {
			if err := defineLabel(labels, tokens, lineNum, index); err != nil {
				return classified, labels, err
			}
			classified = append(classified, EmptyLine{})
			continue
		}

		classified = append(classified, classifyInstruction(info, index))
		index++
	}

	return classified, labels, nil
}

func classifyInstruction(info instructionInfo, index int) ClassifiedLine {
	switch info.format {
	case FormatR:
		return RLine{Func7: info.func7, Func3: info.func3}
	case FormatI:
		return ILine{Opcode: info.opcode, Func3: info.func3, Func7: info.func7, Shift: info.shift}
	case FormatIMem:
		return IMemLine{Opcode: info.opcode, Func3: info.func3}
	case FormatS:
		return SLine{Opcode: info.opcode, Func3: info.func3}
	case FormatB:
		return BLine{Opcode: info.opcode, Func3: info.func3, Index: index}
	case FormatU:
		return ULine{Opcode: info.opcode}
	case FormatJ:
		return JLine{Opcode: info.opcode, Index: index}
	}
	panic("assembler: unhandled format " + info.format.String())
}

// defineLabel accepts exactly "<name> :" and nothing else.
func defineLabel(labels *LabelTable, tokens []Token, lineNum, index int) error {
	name := tokens[0]
	if len(tokens) < 2 || tokens[1].Text != ":" {
		return lineError(MalformedLabel, lineNum, name)
	}
	if len(tokens) > 2 {
		err := lineError(MalformedLabel, lineNum, name)
		err.Range.End = tokenRange(lineNum, tokens[len(tokens)-1]).End
		return err
	}
	if _, exists := labels.index[name.Text]; exists {
		return lineError(DuplicateLabel, lineNum, name)
	}

	labels.index[name.Text] = index
	labels.line[name.Text] = lineNum
	return nil
}
