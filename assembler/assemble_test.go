package assembler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vptvpt/riscv-assembler/assembler"
)

func assemble(t *testing.T, source string) *assembler.AssembledResult {
	t.Helper()
	program, err := assembler.Assemble(source, assembler.DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected fatal error: %v", err)
	}
	return program
}

func TestProgramIType(t *testing.T) {
	source := `
		addi x1, x0, 1
		addi x2, x0, 2
	`
	expected := []uint32{
		0x00100093,
		0x00200113,
	}

	program := assemble(t, source)
	validateResult(t, program, expected, 0)
}

func TestProgramBranchesAndLabels(t *testing.T) {
	source := `
	label1:
		addi x1, x0, 1
		addi x2, x0, 2
		beq x1, x2, label1 # should evaluate to -8
	`

	expected := []uint32{
		0x00100093,
		0x00200113,
		0xfe208ce3,
	}

	program := assemble(t, source)
	validateResult(t, program, expected, 0)
}

func TestProgramJumps(t *testing.T) {
	source := `
		jal x1, label1
		addi x2, x0, 2
	label1:
		addi x3, x0, 3
	`

	expected := []uint32{
		0x008000ef,
		0x00200113,
		0x00300193,
	}

	program := assemble(t, source)
	validateResult(t, program, expected, 0)
}

func TestProgramLoop(t *testing.T) {
	source := "start:\naddi x1, x0, 5\nloop:\naddi x1, x1, -1\nbne x1, x0, loop\njal start\n"

	expected := []uint32{
		0x00500093,
		0xfff08093,
		0xfe009ee3, // -4
		0xff5ff0ef, // -12, rd = ra
	}

	program := assemble(t, source)
	validateResult(t, program, expected, 0)

	if index, ok := program.Labels.Lookup("start"); !ok || index != 0 {
		t.Errorf("Expected start to be at index 0, got %d (%v)", index, ok)
	}
	if index, ok := program.Labels.Lookup("loop"); !ok || index != 1 {
		t.Errorf("Expected loop to be at index 1, got %d (%v)", index, ok)
	}

	var out bytes.Buffer
	if err := assembler.WriteHex(&out, program.ProgramText); err != nil {
		t.Fatal(err)
	}
	if out.String() != "00500093\nfff08093\nfe009ee3\nff5ff0ef\n" {
		t.Errorf("Unexpected hex output:\n%s", out.String())
	}
}

func TestProgramEncodings(t *testing.T) {
	cases := []struct {
		source   string
		expected uint32
	}{
		{"add x1, x2, x3", 0x003100b3},
		{"sub x1, x2, x3", 0x403100b3},
		{"and x1, x2, x3", 0x003170b3},
		{"or x1, x2, x3", 0x003160b3},
		{"xor x1, x2, x3", 0x003140b3},
		{"sll x1, x2, x3", 0x003110b3},
		{"srl x1, x2, x3", 0x003150b3},
		{"sra x1, x2, x3", 0x403150b3},
		{"slt x1, x2, x3", 0x003120b3},
		{"sltu x1, x2, x3", 0x003130b3},
		{"add ra, sp, gp", 0x003100b3},
		{"andi x1, x2, 0xFF", 0x0ff17093},
		{"slli x1, x2, 3", 0x00311093},
		{"srai x1, x2, 3", 0x40315093},
		{"addi x1, x0, 0xFFFFFFFF", 0xfff00093},
		{"lw x1, 8(x2)", 0x00812083},
		{"lbu a0, -1(sp)", 0xfff14503},
		{"jalr x0, 0(ra)", 0x00008067},
		{"sw x5, 0x10(x2)", 0x00512823},
		{"sb t0, -4(sp)", 0xfe510e23},
		{"lui x5, 0x12345", 0x123452b7},
		{"lui x1, 0xFFFFF", 0xfffff0b7},
		{"auipc a0, 1", 0x00001517},
		{"jal x5, 16", 0x010002ef},
		{"beq x0, x0, 8", 0x00000463},
		{"add s0, fp, x8", 0x00840433},
	}

	for _, c := range cases {
		program := assemble(t, c.source)
		if len(program.ProgramText) != 1 {
			t.Errorf("%q: expected 1 instruction, got %d (%v)", c.source, len(program.ProgramText), program.Diagnostics)
			continue
		}
		if program.ProgramText[0] != c.expected {
			t.Errorf("%q: expected 0x%08x, got 0x%08x", c.source, c.expected, program.ProgramText[0])
		}
	}
}

func TestStoreFieldSplit(t *testing.T) {
	program := assemble(t, "sw x5, 0x10(x2)")
	word := program.ProgramText[0]

	opcode, rs1, rs2, imm, func3 := assembler.DecodeSTypeInstruction(word)
	if opcode != 0b0100011 || func3 != 0b010 || rs1 != 2 || rs2 != 5 || imm != 0x10 {
		t.Errorf("Unexpected fields: opcode=%07b func3=%03b rs1=%d rs2=%d imm=0x%x", opcode, func3, rs1, rs2, imm)
	}
	if (word>>7)&0x1F != 0x10 || word>>25 != 0 {
		t.Errorf("Immediate not split across bits [11:7] and [31:25]: 0x%08x", word)
	}
}

func TestBlankAndCommentLinesDoNotConsumeIndex(t *testing.T) {
	source := `
# leading comment

	addi x1, x0, 1   # trailing comment
		# indented comment
target:

	addi x2, x0, 2
`
	program := assemble(t, source)
	validateResult(t, program, []uint32{0x00100093, 0x00200113}, 0)

	if index, _ := program.Labels.Lookup("target"); index != 1 {
		t.Errorf("Expected target to be at index 1, got %d", index)
	}
}

func TestLabelAtFirstLineReferencedByLastInstruction(t *testing.T) {
	var source strings.Builder
	source.WriteString("top:\n")
	for i := 0; i < 200; i++ {
		source.WriteString("addi x0, x0, 0\n")
	}
	source.WriteString("beq x0, x0, bottom\n")
	source.WriteString("bottom:\n")
	source.WriteString("jal top\n")

	program := assemble(t, source.String())
	if len(program.ProgramText) != 202 {
		t.Fatalf("Expected 202 instructions, got %d", len(program.ProgramText))
	}

	branch, _ := assembler.Decode(program.ProgramText[200])
	if branch.Imm != 4 {
		t.Errorf("Expected forward branch of 4, got %d", branch.Imm)
	}
	jump, _ := assembler.Decode(program.ProgramText[201])
	if jump.Imm != -804 || jump.Rd != 1 {
		t.Errorf("Expected jal ra, -804, got %s", jump)
	}
}

func TestBranchOffsetsRoundTrip(t *testing.T) {
	distances := []int{-1024, -300, -17, -1, 0, 1, 2, 63, 511, 1023}

	for _, d := range distances {
		var source strings.Builder
		// the branch sits at index 1024, the label at 1024 + d
		for i := 0; i < 2048; i++ {
			if i == 1024+d {
				source.WriteString("target:\n")
			}
			if i == 1024 {
				source.WriteString("blt a0, a1, target\n")
				continue
			}
			source.WriteString("add x0, x0, x0\n")
		}

		program := assemble(t, source.String())
		inst, ok := assembler.Decode(program.ProgramText[1024])
		if !ok || inst.Mnemonic != "blt" {
			t.Fatalf("distance %d: could not decode branch 0x%08x", d, program.ProgramText[1024])
		}
		if int(inst.Imm) != d*4 {
			t.Errorf("distance %d: expected offset %d, got %d", d, d*4, inst.Imm)
		}
		if len(program.Diagnostics) != 0 {
			t.Errorf("distance %d: unexpected diagnostics %v", d, program.Diagnostics)
		}
	}
}

func TestJumpOffsetsRoundTrip(t *testing.T) {
	distances := []int{-5000, -1, 1, 700, 4096}

	for _, d := range distances {
		lines := make([]string, 0, 10000)
		for i := 0; i < 10000; i++ {
			if i == 5000+d {
				lines = append(lines, "far:")
			}
			if i == 5000 {
				lines = append(lines, "jal far")
				continue
			}
			lines = append(lines, "xor t0, t1, t2")
		}

		program := assemble(t, strings.Join(lines, "\n"))
		inst, _ := assembler.Decode(program.ProgramText[5000])
		if inst.Mnemonic != "jal" || inst.Rd != 1 || int(inst.Imm) != d*4 {
			t.Errorf("distance %d: got %s", d, inst)
		}
	}
}

func TestIdempotentOutput(t *testing.T) {
	source := "start:\naddi x1, x0, 5\nloop:\naddi x1, x1, -1\nbne x1, x0, loop\njal start\n"

	var first, second bytes.Buffer
	assembler.WriteHex(&first, assemble(t, source).ProgramText)
	assembler.WriteHex(&second, assemble(t, source).ProgramText)

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("Output differs between runs:\n%s\n%s", first.String(), second.String())
	}
}

func TestImmediateOverflowWarns(t *testing.T) {
	program := assemble(t, "addi x1, x0, 5000\nslli x1, x1, 40")

	if len(program.ProgramText) != 2 {
		t.Fatalf("Expected 2 instructions, got %d", len(program.ProgramText))
	}
	if program.ProgramText[0] != 0x38800093 {
		t.Errorf("Expected masked immediate 0x38800093, got 0x%08x", program.ProgramText[0])
	}
	if len(program.Diagnostics) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %v", program.Diagnostics)
	}
	for _, d := range program.Diagnostics {
		if d.Severity != assembler.Warning {
			t.Errorf("Expected warning, got %v", d)
		}
	}
}

func validateResult(t *testing.T, program *assembler.AssembledResult, expectedText []uint32, expectedDiagnostics int) {
	t.Helper()
	if len(program.Diagnostics) != expectedDiagnostics {
		t.Fatalf("Expected %d diagnostics, got %d (%v)", expectedDiagnostics, len(program.Diagnostics), program.Diagnostics)
	}

	if len(program.ProgramText) != len(expectedText) {
		t.Fatalf("Expected %d instructions, got %d", len(expectedText), len(program.ProgramText))
	}

	for i, instruction := range program.ProgramText {
		if instruction != expectedText[i] {
			t.Errorf("Expected instruction %d to be 0x%08x, got 0x%08x", i, expectedText[i], instruction)
		}
	}
}

func TestShiftAmountRange(t *testing.T) {
	cases := []struct {
		source string
		word   uint32
		warns  bool
	}{
		{"slli x1, x1, 0", 0x00009093, false},
		{"slli x1, x1, 31", 0x01f09093, false},
		{"slli x1, x1, -1", 0x01f09093, true},
		{"srai x1, x1, 32", 0x4000d093, true},
	}

	for _, c := range cases {
		program := assemble(t, c.source)
		if len(program.ProgramText) != 1 || program.ProgramText[0] != c.word {
			t.Errorf("%s: expected 0x%08x, got %v", c.source, c.word, program.ProgramText)
		}
		if warned := len(program.Diagnostics) == 1; warned != c.warns {
			t.Errorf("%s: expected warning %v, got %v", c.source, c.warns, program.Diagnostics)
			continue
		}
		if c.warns && !strings.Contains(program.Diagnostics[0].Message, "[0, 31]") {
			t.Errorf("%s: unexpected message %q", c.source, program.Diagnostics[0].Message)
		}
	}
}

func TestOverflowMessageShowsFieldRange(t *testing.T) {
	cases := []struct {
		source string
		bounds string
	}{
		{"beq x0, x0, 4096", "13 bits [-4096, 4095]"},
		{"jal x0, 1048576", "21 bits [-1048576, 1048575]"},
		{"addi x1, x0, 4096", "12 bits [-2048, 4095]"},
		{"lui x1, -524289", "20 bits [-524288, 1048575]"},
	}

	for _, c := range cases {
		program := assemble(t, c.source)
		if len(program.Diagnostics) != 1 {
			t.Errorf("%s: expected one warning, got %v", c.source, program.Diagnostics)
			continue
		}
		if d := program.Diagnostics[0]; d.Severity != assembler.Warning || !strings.Contains(d.Message, c.bounds) {
			t.Errorf("%s: expected a warning mentioning %q, got %q", c.source, c.bounds, d.Message)
		}
	}

	// the largest in-range offsets stay silent
	validateResult(t, assemble(t, "beq x0, x0, 4094"), []uint32{0x7e000fe3}, 0)
}
