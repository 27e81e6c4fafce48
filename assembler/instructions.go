package assembler

import "strconv"

// opcode conversions
const (
	OPCODE_RTYPE    = 0b0110011
	OPCODE_ITYPE    = 0b0010011
	OPCODE_STYPE    = 0b0100011
	OPCODE_BTYPE    = 0b1100011
	OPCODE_LUI      = 0b0110111
	OPCODE_AUIPC    = 0b0010111
	OPCODE_JAL      = 0b1101111
	OPCODE_JALR     = 0b1100111
	OPCODE_MEMITYPE = 0b0000011
)

type Format int

const (
	FormatR Format = iota
	FormatI
	FormatIMem // loads and jalr: rd, offset(rs1)
	FormatS
	FormatB
	FormatU
	FormatJ
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatIMem:
		return "I-mem"
	case FormatS:
		return "S"
	case FormatB:
		return "B"
	case FormatU:
		return "U"
	case FormatJ:
		return "J"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

type instructionInfo struct {
	format Format
	opcode uint32
	func3  uint32
	func7  uint32
	shift  bool // immediate is a 5-bit shift amount
}

// instructionTable maps every supported mnemonic to its format and fixed fields.
var instructionTable = map[string]instructionInfo{
	"add":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b000, func7: 0b0000000},
	"sub":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b000, func7: 0b0100000},
	"and":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b111, func7: 0b0000000},
	"or":   {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b110, func7: 0b0000000},
	"xor":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b100, func7: 0b0000000},
	"sll":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b001, func7: 0b0000000},
	"srl":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b101, func7: 0b0000000},
	"sra":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b101, func7: 0b0100000},
	"slt":  {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b010, func7: 0b0000000},
	"sltu": {format: FormatR, opcode: OPCODE_RTYPE, func3: 0b011, func7: 0b0000000},

	"addi":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b000},
	"andi":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b111},
	"ori":   {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b110},
	"xori":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b100},
	"slli":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b001, shift: true},
	"srli":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b101, shift: true},
	"srai":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b101, func7: 0b0100000, shift: true},
	"slti":  {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b010},
	"sltiu": {format: FormatI, opcode: OPCODE_ITYPE, func3: 0b011},

	"lb":   {format: FormatIMem, opcode: OPCODE_MEMITYPE, func3: 0b000},
	"lbu":  {format: FormatIMem, opcode: OPCODE_MEMITYPE, func3: 0b100},
	"lh":   {format: FormatIMem, opcode: OPCODE_MEMITYPE, func3: 0b001},
	"lhu":  {format: FormatIMem, opcode: OPCODE_MEMITYPE, func3: 0b101},
	"lw":   {format: FormatIMem, opcode: OPCODE_MEMITYPE, func3: 0b010},
	"jalr": {format: FormatIMem, opcode: OPCODE_JALR, func3: 0b000},

	"sb": {format: FormatS, opcode: OPCODE_STYPE, func3: 0b000},
	"sh": {format: FormatS, opcode: OPCODE_STYPE, func3: 0b001},
	"sw": {format: FormatS, opcode: OPCODE_STYPE, func3: 0b010},

	"beq":  {format: FormatB, opcode: OPCODE_BTYPE, func3: 0b000},
	"bne":  {format: FormatB, opcode: OPCODE_BTYPE, func3: 0b001},
	"blt":  {format: FormatB, opcode: OPCODE_BTYPE, func3: 0b100},
	"bltu": {format: FormatB, opcode: OPCODE_BTYPE, func3: 0b110},
	"bge":  {format: FormatB, opcode: OPCODE_BTYPE, func3: 0b101},
	"bgeu": {format: FormatB, opcode: OPCODE_BTYPE, func3: 0b111},

	"lui":   {format: FormatU, opcode: OPCODE_LUI},
	"auipc": {format: FormatU, opcode: OPCODE_AUIPC},

	"jal": {format: FormatJ, opcode: OPCODE_JAL},
}

// RegisterNameMap holds both the numeric (x0..x31) and the ABI name of every
// register. Lookups are case-sensitive.
var RegisterNameMap = make(map[string]uint32, 65)

var abiRegisterNames = [32]string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

func init() {
	for i, name := range abiRegisterNames {
		RegisterNameMap[name] = uint32(i)
		RegisterNameMap["x"+strconv.Itoa(i)] = uint32(i)
	}
	RegisterNameMap["fp"] = 8
}

// RegisterABIName returns the ABI name of register x<n>.
func RegisterABIName(n uint32) string {
	return abiRegisterNames[n&0x1F]
}

// LookupMnemonic reports the format of a supported mnemonic.
func LookupMnemonic(mnemonic string) (Format, bool) {
	info, ok := instructionTable[mnemonic]
	return info.format, ok
}
