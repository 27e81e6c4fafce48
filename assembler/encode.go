package assembler

import (
	"strconv"
	"strings"
)

// operand syntax per format, used in diagnostics
var formatSyntax = map[Format]string{
	FormatR:    "<opcode> <reg>, <reg>, <reg>",
	FormatI:    "<opcode> <reg>, <reg>, <imm>",
	FormatIMem: "<opcode> <reg>, <imm>(<reg>)",
	FormatS:    "<opcode> <reg>, <imm>(<reg>)",
	FormatB:    "<opcode> <reg>, <reg>, <label>",
	FormatU:    "<opcode> <reg>, <imm>",
	FormatJ:    "<opcode> <label> | <opcode> <reg>, <imm>",
}

// operands walks the tokens after the mnemonic of one line.
type operands struct {
	tokens   []Token
	pos      int
	line     int
	mnemonic Token
	format   Format
	warnings []Diagnostic
}

func newOperands(tokens []Token, line int, format Format) *operands {
	return &operands{tokens: tokens[1:], line: line, mnemonic: tokens[0], format: format}
}

func (o *operands) countError(kind ErrorKind, tok Token) *AssemblyError {
	err := lineError(kind, o.line, tok)
	err.Mnemonic = o.mnemonic.Text
	err.Expected = formatSyntax[o.format]
	return err
}

func (o *operands) next() (Token, error) {
	if o.pos >= len(o.tokens) {
		// point at the end of the line
		last := o.mnemonic
		if len(o.tokens) > 0 {
			last = o.tokens[len(o.tokens)-1]
		}
		end := Token{Char: last.Char + len(last.Text)}
		return Token{}, o.countError(WrongOperandCount, end)
	}
	tok := o.tokens[o.pos]
	o.pos++
	return tok, nil
}

func (o *operands) peek() (Token, bool) {
	if o.pos >= len(o.tokens) {
		return Token{}, false
	}
	return o.tokens[o.pos], true
}

func (o *operands) register() (uint32, error) {
	tok, err := o.next()
	if err != nil {
		return 0, err
	}
	reg, ok := RegisterNameMap[tok.Text]
	if !ok {
		return 0, lineError(UnknownRegister, o.line, tok)
	}
	return reg, nil
}

// immediate reads an immediate and warns when it falls outside [min, max].
func (o *operands) immediate(bits int, min, max int64) (int64, error) {
	tok, err := o.next()
	if err != nil {
		return 0, err
	}
	value, ok := ParseImmediate(tok.Text)
	if !ok {
		return 0, lineError(InvalidImmediate, o.line, tok)
	}
	o.checkRange(tok, value, bits, min, max)
	return value, nil
}

func (o *operands) checkRange(tok Token, value int64, bits int, min, max int64) {
	if value < min || value > max {
		o.warnings = append(o.warnings, Warnings.ImmediateOverflow(tok.Text, bits, min, max, tokenRange(o.line, tok)))
	}
}

// target resolves a branch or jump destination to a byte offset relative to
// the instruction at index. Labels take precedence over numeric offsets.
func (o *operands) target(labels *LabelTable, index int, bits int) (int64, error) {
	tok, err := o.next()
	if err != nil {
		return 0, err
	}

	var offset int64
	if targetIndex, ok := labels.Lookup(tok.Text); ok {
		offset = int64(targetIndex-index) * 4
	} else if value, ok := ParseImmediate(tok.Text); ok {
		offset = value
	} else if looksNumeric(tok.Text) {
		return 0, lineError(InvalidImmediate, o.line, tok)
	} else {
		return 0, lineError(UnresolvedLabel, o.line, tok)
	}

	min, max := signedRange(bits)
	o.checkRange(tok, offset, bits, min, max)
	if offset&1 != 0 {
		o.warnings = append(o.warnings, Warnings.UnalignedOffset(tok.Text, tokenRange(o.line, tok)))
	}
	return offset, nil
}

func (o *operands) expect(text string) error {
	tok, err := o.next()
	if err != nil {
		return err
	}
	if tok.Text != text {
		return lineError(MissingBracket, o.line, tok)
	}
	return nil
}

func (o *operands) done() error {
	if o.pos < len(o.tokens) {
		err := o.countError(TrailingTokens, o.tokens[o.pos])
		err.Range.End = tokenRange(o.line, o.tokens[len(o.tokens)-1]).End
		return err
	}
	return nil
}

// ParseImmediate parses a decimal integer or a 0x-prefixed hexadecimal bit
// pattern. Both are limited to 32 bits; hexadecimal values are read as two's
// complement.
func ParseImmediate(text string) (int64, bool) {
	if strings.HasPrefix(text, "0x") {
		value, err := strconv.ParseUint(text[2:], 16, 32)
		if err != nil {
			return 0, false
		}
		return int64(int32(uint32(value))), true
	}
	value, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, false
	}
	return value, true
}

func looksNumeric(text string) bool {
	if text == "" {
		return false
	}
	c := text[0]
	return c == '-' || c == '+' || (c >= '0' && c <= '9')
}

// fieldRange accepts both the signed and the unsigned reading of a field.
func fieldRange(bits int) (int64, int64) {
	return -(int64(1) << (bits - 1)), int64(1)<<bits - 1
}

func signedRange(bits int) (int64, int64) {
	return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1
}

func unsignedRange(bits int) (int64, int64) {
	return 0, int64(1)<<bits - 1
}

// encodeLine is pass 2 for a single line. tokens includes the mnemonic. The
// label table is only read.
func encodeLine(line ClassifiedLine, tokens []Token, lineNum int, labels *LabelTable) (uint32, []Diagnostic, error) {
	format, ok := line.Format()
	if !ok {
		return 0, nil, nil
	}
	ops := newOperands(tokens, lineNum, format)

	var word uint32
	var err error
	switch l := line.(type) {
	case RLine:
		word, err = encodeR(l, ops)
	case ILine:
		word, err = encodeI(l, ops)
	case IMemLine:
		word, err = encodeIMem(l, ops)
	case SLine:
		word, err = encodeS(l, ops)
	case BLine:
		word, err = encodeB(l, ops, labels)
	case ULine:
		word, err = encodeU(l, ops)
	case JLine:
		word, err = encodeJ(l, ops, labels)
	default:
		panic("assembler: unhandled classified line")
	}
	if err == nil {
		err = ops.done()
	}
	if err != nil {
		return 0, ops.warnings, err
	}
	return word, ops.warnings, nil
}

func encodeR(l RLine, ops *operands) (uint32, error) {
	rd, err := ops.register()
	if err != nil {
		return 0, err
	}
	rs1, err := ops.register()
	if err != nil {
		return 0, err
	}
	rs2, err := ops.register()
	if err != nil {
		return 0, err
	}
	return makeRTypeInstruction(OPCODE_RTYPE, rd, rs1, rs2, l.Func7, l.Func3), nil
}

func encodeI(l ILine, ops *operands) (uint32, error) {
	rd, err := ops.register()
	if err != nil {
		return 0, err
	}
	rs1, err := ops.register()
	if err != nil {
		return 0, err
	}

	if l.Shift {
		min, max := unsignedRange(5)
		shamt, err := ops.immediate(5, min, max)
		if err != nil {
			return 0, err
		}
		imm := (uint32(shamt) & 0x1F) | (l.Func7 << 5)
		return makeITypeInstruction(l.Opcode, rd, rs1, imm, l.Func3), nil
	}

	min, max := fieldRange(12)
	imm, err := ops.immediate(12, min, max)
	if err != nil {
		return 0, err
	}
	return makeITypeInstruction(l.Opcode, rd, rs1, uint32(imm), l.Func3), nil
}

// offsetBase reads "<imm> ( <reg> )".
func offsetBase(ops *operands) (int64, uint32, error) {
	min, max := fieldRange(12)
	offset, err := ops.immediate(12, min, max)
	if err != nil {
		return 0, 0, err
	}
	if err := ops.expect("("); err != nil {
		return 0, 0, err
	}
	base, err := ops.register()
	if err != nil {
		return 0, 0, err
	}
	if err := ops.expect(")"); err != nil {
		return 0, 0, err
	}
	return offset, base, nil
}

func encodeIMem(l IMemLine, ops *operands) (uint32, error) {
	rd, err := ops.register()
	if err != nil {
		return 0, err
	}
	offset, rs1, err := offsetBase(ops)
	if err != nil {
		return 0, err
	}
	return makeITypeInstruction(l.Opcode, rd, rs1, uint32(offset), l.Func3), nil
}

func encodeS(l SLine, ops *operands) (uint32, error) {
	rs2, err := ops.register()
	if err != nil {
		return 0, err
	}
	offset, rs1, err := offsetBase(ops)
	if err != nil {
		return 0, err
	}
	return makeSTypeInstruction(l.Opcode, rs1, rs2, uint32(offset), l.Func3), nil
}

func encodeB(l BLine, ops *operands, labels *LabelTable) (uint32, error) {
	rs1, err := ops.register()
	if err != nil {
		return 0, err
	}
	rs2, err := ops.register()
	if err != nil {
		return 0, err
	}
	offset, err := ops.target(labels, l.Index, 13)
	if err != nil {
		return 0, err
	}
	return makeBTypeInstruction(l.Opcode, rs1, rs2, uint32(offset), l.Func3), nil
}

func encodeU(l ULine, ops *operands) (uint32, error) {
	rd, err := ops.register()
	if err != nil {
		return 0, err
	}
	min, max := fieldRange(20)
	imm, err := ops.immediate(20, min, max)
	if err != nil {
		return 0, err
	}
	return makeUTypeInstruction(l.Opcode, rd, uint32(imm)), nil
}

// encodeJ accepts "jal rd, target" and the shorthand "jal target", which
// links into ra.
func encodeJ(l JLine, ops *operands, labels *LabelTable) (uint32, error) {
	rd := uint32(1)
	if tok, ok := ops.peek(); ok {
		if reg, isReg := RegisterNameMap[tok.Text]; isReg {
			rd = reg
			ops.pos++
		}
	}
	offset, err := ops.target(labels, l.Index, 21)
	if err != nil {
		return 0, err
	}
	return makeJTypeInstruction(l.Opcode, rd, uint32(offset)), nil
}
