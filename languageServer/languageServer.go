package languageServer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/vptvpt/riscv-assembler/config"
	"github.com/vptvpt/riscv-assembler/util"
)

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// Serve speaks the language server protocol over rwc until the peer
// disconnects. The returned channel is closed on disconnect.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, conf *config.Config) <-chan struct{} {
	h := newHandler(conf)
	return jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}), h).DisconnectNotify()
}

func ListenAndServe(conf *config.Config) {
	// using stdin and stdout
	<-Serve(context.Background(), stdrwc{}, conf)
}

func ListenAndServeTCP(conf *config.Config) {
	addr := conf.ListenAddr
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Could not bind to address %s: %v", addr, err)
	}
	defer lis.Close()

	log.Println("RISC-V assembler language server: listening for TCP connections on", addr)

	connectionCount := 0

	for {
		conn, err := lis.Accept()
		if err != nil {
			log.Fatalf("failed to accept incoming connection: %v", err)
		}
		connectionCount = connectionCount + 1
		connectionID := connectionCount
		log.Printf("RISC-V assembler language server: received incoming connection #%d\n", connectionID)
		disconnected := Serve(context.Background(), conn, conf)
		go func() {
			<-disconnected
			log.Printf("RISC-V assembler language server: connection #%d closed\n", connectionID)
		}()
	}
}

// handler holds the open documents of one connection.
type handler struct {
	conf *config.Config

	mu        sync.Mutex
	documents map[DocumentUri]TextDocumentItem
}

func newHandler(conf *config.Config) *handler {
	return &handler{
		conf:      conf,
		documents: make(map[DocumentUri]TextDocumentItem),
	}
}

func (h *handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	util.LogF("RISC-V assembler language server: received request: %s", req.Method)
	switch req.Method {
	case "textDocument/didOpen":
		h.documentOpenNotification(ctx, conn, req)
	case "textDocument/didClose":
		h.documentCloseNotification(ctx, conn, req)
	case "textDocument/didChange":
		h.documentChangeNotification(ctx, conn, req)
	case "initialize":
		h.handleInitialize(ctx, conn, req)
	case "textDocument/diagnostic":
		h.documentDiagnostics(ctx, conn, req)
	case "textDocument/willSaveWaitUntil":
		h.documentWillSaveWaitUntil(ctx, conn, req)
	case "textDocument/formatting":
		h.documentFormatting(ctx, conn, req)
	case "textDocument/hover":
		h.hoverRequest(ctx, conn, req)

	// quitting
	case "shutdown":
		conn.Reply(ctx, req.ID, nil)
	case "exit":
		if !req.Notif {
			conn.Reply(ctx, req.ID, nil)
		}
		conn.Close()
	default:
		if !req.Notif {
			conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeMethodNotFound,
				Message: "method not supported: " + req.Method,
			})
		}
	}
}

var errNoParams = errors.New("missing parameters")

// decodeParams unmarshals the request parameters into v, replying with an
// error when they are missing or malformed.
func decodeParams(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request, v interface{}) bool {
	var err error
	if req.Params == nil {
		err = errNoParams
	} else {
		err = json.Unmarshal(*req.Params, v)
	}
	if err == nil {
		return true
	}

	util.LogF("RISC-V assembler language server: invalid parameters for %s: %v", req.Method, err)
	if !req.Notif {
		rpcErr := jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "invalid parameters"}
		rpcErr.SetError(err.Error())
		conn.ReplyWithError(ctx, req.ID, &rpcErr)
	}
	return false
}

func (h *handler) handleInitialize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	decodedParams := InitializeParams{}
	if !decodeParams(ctx, conn, req, &decodedParams) {
		return
	}

	result := InitializeResult{}
	result.Capabilities.TextDocumentSync = 1
	result.Capabilities.HoverProvider = true
	result.Capabilities.DocumentFormattingProvider = true
	conn.Reply(ctx, req.ID, result)

	registerRemainingCapabilities(conn)
}

func registerRemainingCapabilities(conn *jsonrpc2.Conn) {
	// textDocumentSync.willSaveWaitUntil can only be registered dynamically

	util.LogF("RISC-V assembler language server: registering remaining capabilities")
	params := RegistrationParams{
		Registrations: []Registration{
			{
				ID:     "textDocumentSync.willSaveWaitUntil",
				Method: "textDocument/willSaveWaitUntil",
				RegisterOptions: TextDocumentRegistrationOptions{
					DocumentSelector: []DocumentFilter{
						{
							Scheme:   "file",
							Language: "riscv",
						},
					},
				},
			},
		},
	}

	go conn.Call(context.Background(), "client/registerCapability", params, nil)
}
