package assembler

import (
	"fmt"
	"strconv"
	"strings"
)

// EvaluateHover returns markdown describing the token under position, and
// false when there is nothing to show.
func (a *AssembledResult) EvaluateHover(position TextPosition) (string, bool) {
	if position.Line < 0 || position.Line >= len(a.tokens) {
		return "", false
	}
	tokens := a.tokens[position.Line]

	tokenIndex := -1
	for i, tok := range tokens {
		if position.Char >= tok.Char && position.Char < tok.Char+len(tok.Text) {
			tokenIndex = i
			break
		}
	}
	if tokenIndex == -1 {
		return "", false
	}
	tok := tokens[tokenIndex]

	if tokenIndex == 0 {
		if info, ok := instructionHoverInfo[tok.Text]; ok {
			return info, true
		}
		if index, ok := a.Labels.Lookup(tok.Text); ok {
			return fmt.Sprintf(hoverInfoFormats.labelDefinition, tok.Text, index, index*4), true
		}
		return "", false
	}

	if reg, ok := RegisterNameMap[tok.Text]; ok {
		return getHoverInfoForRegister(int(reg), tok.Text), true
	}

	if targetIndex, ok := a.Labels.Lookup(tok.Text); ok && position.Line < len(a.classified) {
		switch l := a.classified[position.Line].(type) {
		case BLine:
			return fmt.Sprintf(hoverInfoFormats.labelReference, tok.Text, (targetIndex-l.Index)*4), true
		case JLine:
			return fmt.Sprintf(hoverInfoFormats.labelReference, tok.Text, (targetIndex-l.Index)*4), true
		}
	}

	if value, ok := ParseImmediate(tok.Text); ok {
		if value < 0 {
			return fmt.Sprintf(hoverInfoFormats.integerLiteral, value, "0x"+strconv.FormatUint(uint64(value)&0xFFFFFFFF, 16)), true
		}
		return fmt.Sprintf(hoverInfoFormats.integerLiteral, value, "0x"+strconv.FormatInt(value, 16)), true
	}

	return "", false
}

func getHoverInfoForRegister(register int, name string) string {
	if register == 0 {
		return hoverInfoFormats.zeroRegister
	} else if register == 1 {
		return hoverInfoFormats.raRegister
	} else if register == 2 {
		return hoverInfoFormats.spRegister
	} else if register == 3 {
		return hoverInfoFormats.gpRegister
	} else if register == 4 {
		return hoverInfoFormats.tpRegister
	} else {
		if !strings.HasPrefix(name, "x") {
			return fmt.Sprintf(hoverInfoFormats.namedGenericRegister, name, register)
		}
		return fmt.Sprintf(hoverInfoFormats.genericRegister, register, RegisterABIName(uint32(register)))
	}
}
