package assembler

import (
	"fmt"
	"strconv"
)

// Instruction is a decoded machine word. Imm is sign extended where the
// format has a signed immediate, and is the byte offset for branches and
// jumps.
type Instruction struct {
	Word     uint32
	Mnemonic string
	Format   Format
	Opcode   uint32
	Func3    uint32
	Func7    uint32
	Rd       uint32
	Rs1      uint32
	Rs2      uint32
	Imm      int32
}

// Decode disassembles a word produced by Assemble. It reports false for
// words outside the supported instruction set.
func Decode(word uint32) (Instruction, bool) {
	inst := Instruction{Word: word, Opcode: GetOpCode(word)}

	switch inst.Opcode {
	case OPCODE_RTYPE:
		_, inst.Rd, inst.Rs1, inst.Rs2, inst.Func7, inst.Func3 = DecodeRTypeInstruction(word)
		inst.Format = FormatR
	case OPCODE_ITYPE:
		var imm uint32
		_, inst.Rd, inst.Rs1, imm, inst.Func3 = DecodeITypeInstruction(word)
		inst.Format = FormatI
		if inst.Func3 == 0b001 || inst.Func3 == 0b101 {
			inst.Func7 = imm >> 5
			inst.Imm = int32(imm & 0x1F)
		} else {
			inst.Imm = signExtend(imm, 12)
		}
	case OPCODE_MEMITYPE, OPCODE_JALR:
		var imm uint32
		_, inst.Rd, inst.Rs1, imm, inst.Func3 = DecodeITypeInstruction(word)
		inst.Format = FormatIMem
		inst.Imm = signExtend(imm, 12)
	case OPCODE_STYPE:
		var imm uint32
		_, inst.Rs1, inst.Rs2, imm, inst.Func3 = DecodeSTypeInstruction(word)
		inst.Format = FormatS
		inst.Imm = signExtend(imm, 12)
	case OPCODE_BTYPE:
		var imm uint32
		_, inst.Rs1, inst.Rs2, imm, inst.Func3 = DecodeBTypeInstruction(word)
		inst.Format = FormatB
		inst.Imm = signExtend(imm, 13)
	case OPCODE_LUI, OPCODE_AUIPC:
		var imm uint32
		_, inst.Rd, imm = DecodeUTypeInstruction(word)
		inst.Format = FormatU
		inst.Imm = int32(imm)
	case OPCODE_JAL:
		var imm uint32
		_, inst.Rd, imm = DecodeJTypeInstruction(word)
		inst.Format = FormatJ
		inst.Imm = signExtend(imm, 21)
	default:
		return inst, false
	}

	for name, info := range instructionTable {
		if info.opcode == inst.Opcode && info.format == inst.Format && info.func3 == inst.Func3 &&
			(inst.Format != FormatR && !info.shift || info.func7 == inst.Func7) {
			inst.Mnemonic = name
			return inst, true
		}
	}
	return inst, false
}

func reg(n uint32) string {
	return "x" + strconv.Itoa(int(n))
}

// String renders the instruction in the syntax Assemble accepts, with
// numeric offsets in place of labels.
func (i Instruction) String() string {
	switch i.Format {
	case FormatR:
		return fmt.Sprintf("%s %s, %s, %s", i.Mnemonic, reg(i.Rd), reg(i.Rs1), reg(i.Rs2))
	case FormatI:
		return fmt.Sprintf("%s %s, %s, %d", i.Mnemonic, reg(i.Rd), reg(i.Rs1), i.Imm)
	case FormatIMem:
		return fmt.Sprintf("%s %s, %d(%s)", i.Mnemonic, reg(i.Rd), i.Imm, reg(i.Rs1))
	case FormatS:
		return fmt.Sprintf("%s %s, %d(%s)", i.Mnemonic, reg(i.Rs2), i.Imm, reg(i.Rs1))
	case FormatB:
		return fmt.Sprintf("%s %s, %s, %d", i.Mnemonic, reg(i.Rs1), reg(i.Rs2), i.Imm)
	case FormatU:
		return fmt.Sprintf("%s %s, 0x%x", i.Mnemonic, reg(i.Rd), i.Imm)
	case FormatJ:
		return fmt.Sprintf("%s %s, %d", i.Mnemonic, reg(i.Rd), i.Imm)
	}
	return fmt.Sprintf(".word 0x%08x", i.Word)
}
