package languageServer

import (
	"context"
	"strings"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/vptvpt/riscv-assembler/assembler"
	"github.com/vptvpt/riscv-assembler/util"
)

// assembleDocument reassembles the stored text of uri and caches the result
// for hover requests.
func (h *handler) assembleDocument(uri DocumentUri) (TextDocumentItem, []assembler.Diagnostic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc := h.documents[uri]
	assembledRes, err := assembler.Assemble(doc.Text, h.conf.AssemblerConfig())
	if err != nil {
		util.LogF("RISC-V assembler language server: %s: %v", uri, err)
	}
	if assembledRes.Diagnostics == nil {
		assembledRes.Diagnostics = make([]assembler.Diagnostic, 0)
	}
	assembledRes.FileName = string(uri)
	doc.lastAssembledResult = assembledRes
	h.documents[uri] = doc
	return doc, assembledRes.Diagnostics
}

func (h *handler) document(uri DocumentUri) (TextDocumentItem, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, ok := h.documents[uri]
	return doc, ok
}

func (h *handler) documentOpenNotification(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidOpenTextDocumentParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}

	h.mu.Lock()
	h.documents[decodedParams.TextDocument.URI] = decodedParams.TextDocument
	h.mu.Unlock()

	doc, diagnostics := h.assembleDocument(decodedParams.TextDocument.URI)
	conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	})
}

func (h *handler) documentCloseNotification(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidCloseTextDocumentParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}

	h.mu.Lock()
	delete(h.documents, decodedParams.TextDocument.URI)
	h.mu.Unlock()
}

func (h *handler) documentChangeNotification(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DidChangeTextDocumentParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}
	if len(decodedParams.ContentChanges) == 0 {
		return
	}

	uri := decodedParams.TextDocument.URI
	h.mu.Lock()
	doc := h.documents[uri]
	doc.URI = uri
	// only full document sync is advertised, so the last change holds the whole text
	doc.Text = decodedParams.ContentChanges[len(decodedParams.ContentChanges)-1].Text
	doc.Version = decodedParams.TextDocument.Version
	h.documents[uri] = doc
	h.mu.Unlock()

	doc, diagnostics := h.assembleDocument(uri)
	conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{
		URI:         uri,
		Version:     doc.Version,
		Diagnostics: diagnostics,
	})
}

func (h *handler) documentDiagnostics(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DocumentDiagnosticsParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}

	_, diagnostics := h.assembleDocument(decodedParams.TextDocument.URI)
	conn.Reply(ctx, req.ID, DocumentDiagnosticsReport{
		Kind:  "full",
		Items: diagnostics,
	})
}

const defaultIndent = "    "

// ReformatDocument puts labels in the first column, indents every
// instruction by indent and normalises operand separators. Comments are
// kept as written. Lines that are neither a label nor a known instruction
// are only trimmed, so a mistyped line is never rewritten.
func ReformatDocument(text, indent string) string {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		comment := ""
		if idx := strings.Index(line, "#"); idx >= 0 {
			comment = line[idx:]
		}
		tokens := assembler.Tokenize(line)

		switch {
		case len(tokens) == 0:
			lines[i] = strings.TrimSpace(comment)
			continue
		case len(tokens) == 2 && tokens[1].Text == ":":
			lines[i] = tokens[0].Text + ":"
		case isMnemonic(tokens[0].Text):
			lines[i] = indent + formatInstruction(tokens)
		default:
			lines[i] = strings.TrimSpace(line)
			continue
		}
		if comment != "" {
			lines[i] += " " + comment
		}
	}
	return strings.Join(lines, "\n")
}

func isMnemonic(text string) bool {
	_, ok := assembler.LookupMnemonic(text)
	return ok
}

// formatInstruction joins tokens as "mnemonic a, b, imm(reg)".
func formatInstruction(tokens []assembler.Token) string {
	var sb strings.Builder
	sb.WriteString(tokens[0].Text)
	for j := 1; j < len(tokens); j++ {
		tok := tokens[j].Text
		prev := tokens[j-1].Text
		switch {
		case tok == "(" || tok == ")" || prev == "(":
		case j == 1:
			sb.WriteString(" ")
		default:
			sb.WriteString(", ")
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

// fullDocumentEdit replaces the whole document with its formatted text.
func (h *handler) fullDocumentEdit(uri DocumentUri, indent string) []TextEdit {
	doc, _ := h.document(uri)
	lines := strings.Split(doc.Text, "\n")

	edits := make([]TextEdit, 0)
	edits = append(edits, TextEdit{
		Range: assembler.TextRange{
			Start: assembler.TextPosition{Line: 0, Char: 0},
			End:   assembler.TextPosition{Line: len(lines) - 1, Char: len(lines[len(lines)-1])},
		},
		NewText: ReformatDocument(doc.Text, indent),
	})
	return edits
}

func (h *handler) documentWillSaveWaitUntil(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DocumentWillSaveWaitUntilParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}

	conn.Reply(ctx, req.ID, h.fullDocumentEdit(decodedParams.TextDocument.URI, defaultIndent))
	util.LogF("RISC-V assembler language server: reformatted document")
}

func (h *handler) documentFormatting(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := DocumentFormattingParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}

	conn.Reply(ctx, req.ID, h.fullDocumentEdit(decodedParams.TextDocument.URI, decodedParams.Options.Indent()))
}
