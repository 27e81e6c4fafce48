package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vptvpt/riscv-assembler/assembler"
)

func TestDecodeRType(t *testing.T) {
	program := assemble(t, "add x1, x2, x3")

	opcode, rd, rs1, rs2, func7, func3 := assembler.DecodeRTypeInstruction(program.ProgramText[0])
	if opcode != 0b0110011 || func3 != 0b000 || func7 != 0b0000000 || rd != 1 || rs1 != 2 || rs2 != 3 {
		t.Errorf("Unexpected fields opcode=%07b func3=%03b func7=%07b rd=%d rs1=%d rs2=%d", opcode, func3, func7, rd, rs1, rs2)
	}
}

func TestDisassemblyRoundTrip(t *testing.T) {
	// every line is already in the canonical form String produces
	source := `add x1, x2, x3
sub x5, x6, x7
sra x10, x11, x12
sltu x31, x30, x29
addi x1, x0, -1
andi x2, x3, 255
slli x4, x5, 31
srli x4, x5, 1
srai x4, x5, 7
sltiu x6, x7, 2047
lb x1, -2048(x2)
lhu x1, 12(x2)
jalr x1, 4(x5)
sb x3, -1(x4)
sw x3, 2047(x4)
beq x1, x2, -8
bgeu x1, x2, 4094
lui x1, 0x12345
auipc x2, 0xfffff
jal x0, -1048576
jal x1, 1048574`

	program := assemble(t, source)
	lines := strings.Split(source, "\n")
	if len(program.ProgramText) != len(lines) {
		t.Fatalf("Expected %d instructions, got %d (%v)", len(lines), len(program.ProgramText), program.Diagnostics)
	}

	for i, word := range program.ProgramText {
		inst, ok := assembler.Decode(word)
		if !ok {
			t.Errorf("Could not decode 0x%08x (%s)", word, lines[i])
			continue
		}
		if inst.String() != lines[i] {
			t.Errorf("Expected %q, got %q", lines[i], inst.String())
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	if _, ok := assembler.Decode(0x00000073); ok { // ecall
		t.Errorf("ecall is not part of the supported set")
	}
	if _, ok := assembler.Decode(0x02000033); ok { // mul x0, x0, x0
		t.Errorf("mul is not part of the supported set")
	}
}

func TestHexRoundTrip(t *testing.T) {
	words := []uint32{0x00500093, 0xfe009ee3, 0, 0xffffffff}

	var buf bytes.Buffer
	if err := assembler.WriteHex(&buf, words); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "00500093\nfe009ee3\n00000000\nffffffff\n" {
		t.Errorf("Unexpected hex text %q", buf.String())
	}

	read, err := assembler.ReadHex(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(read) != len(words) {
		t.Fatalf("Expected %d words, got %d", len(words), len(read))
	}
	for i := range words {
		if read[i] != words[i] {
			t.Errorf("Word %d: expected 0x%08x, got 0x%08x", i, words[i], read[i])
		}
	}

	if _, err := assembler.ReadHex(strings.NewReader("00000013\nnothex\n")); err == nil {
		t.Errorf("Expected an error for malformed hex")
	}
}

func TestHover(t *testing.T) {
	source := "start:\n  addi a5, x0, -1\n  beq a5, x0, start\n  srai x15, x15, 2"
	program := assemble(t, source)

	cases := []struct {
		pos      assembler.TextPosition
		contains string
	}{
		{assembler.TextPosition{Line: 0, Char: 1}, "Definition of label `start`"},
		{assembler.TextPosition{Line: 1, Char: 3}, "Addition Immediate Instruction"},
		{assembler.TextPosition{Line: 1, Char: 7}, "Register `a5` (`x15`)"},
		{assembler.TextPosition{Line: 1, Char: 11}, "Zero Register"},
		{assembler.TextPosition{Line: 3, Char: 7}, "Register `x15` (`a5`)"},
		{assembler.TextPosition{Line: 3, Char: 3}, "unsigned 5-bit value"},
		{assembler.TextPosition{Line: 1, Char: 15}, "Integer Literal `-1` (`0xffffffff`)"},
		{assembler.TextPosition{Line: 2, Char: 15}, "Reference to label `start`\n\nEvaluates to `-4`"},
	}

	for _, c := range cases {
		text, ok := program.EvaluateHover(c.pos)
		if !ok || !strings.Contains(text, c.contains) {
			t.Errorf("Hover at %+v: expected %q, got %q (%v)", c.pos, c.contains, text, ok)
		}
	}

	if _, ok := program.EvaluateHover(assembler.TextPosition{Line: 1, Char: 0}); ok {
		t.Errorf("Expected no hover on leading whitespace")
	}
	if _, ok := program.EvaluateHover(assembler.TextPosition{Line: 9, Char: 0}); ok {
		t.Errorf("Expected no hover past the end of the document")
	}
}

func TestFormatHex(t *testing.T) {
	lines := assembler.FormatHex([]uint32{0x13, 0xff5ff0ef})
	if len(lines) != 2 || lines[0] != "00000013" || lines[1] != "ff5ff0ef" {
		t.Errorf("Unexpected hex lines %q", lines)
	}
	if len(assembler.FormatHex(nil)) != 0 {
		t.Errorf("Expected no lines for no words")
	}
}
