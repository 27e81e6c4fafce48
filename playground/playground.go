package playground

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vptvpt/riscv-assembler/assembler"
	"github.com/vptvpt/riscv-assembler/config"
	"github.com/vptvpt/riscv-assembler/util"
)

// Request is sent by the page. Only "assemble" is understood.
type Request struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Response struct {
	Type        string                 `json:"type"` // "result" or "error"
	Hex         []string               `json:"hex"`
	Diagnostics []assembler.Diagnostic `json:"diagnostics"`
	Error       string                 `json:"error,omitempty"`
}

type Server struct {
	conf     *config.Config
	upgrader websocket.Upgrader
}

func NewServer(conf *config.Config) *Server {
	return &Server{
		conf: conf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler serves the page at / and the websocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleSocket)
	mux.HandleFunc("/", handleGetPage)
	return mux
}

func ListenAndServe(addr string, conf *config.Config) error {
	log.Printf("Connect to the assembler playground at http://localhost%s", addr)
	return http.ListenAndServe(addr, NewServer(conf).Handler())
}

// Assemble answers a single request.
func (s *Server) Assemble(req Request) Response {
	if req.Type != "assemble" {
		return Response{Type: "error", Hex: []string{}, Diagnostics: []assembler.Diagnostic{}, Error: "unknown message type: " + req.Type}
	}

	res, err := assembler.Assemble(req.Text, s.conf.AssemblerConfig())
	resp := Response{
		Type:        "result",
		Hex:         []string{},
		Diagnostics: res.Diagnostics,
	}
	if err != nil {
		// nothing would be written for this source, so no words are shown either
		resp.Error = err.Error()
		return resp
	}
	resp.Hex = assembler.FormatHex(res.ProgramText)
	return resp
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	for {
		_, messageBytes, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("read:", err)
			}
			return
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(messageBytes, &req); err != nil {
			resp = Response{Type: "error", Hex: []string{}, Diagnostics: []assembler.Diagnostic{}, Error: "invalid message: " + err.Error()}
		} else {
			resp = s.Assemble(req)
		}
		util.LogF("playground: %s request, %d words, %d diagnostics", req.Type, len(resp.Hex), len(resp.Diagnostics))

		if err := conn.WriteJSON(resp); err != nil {
			log.Println("write:", err)
			return
		}
	}
}

func handleGetPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(htmlPage))
}

var htmlPage = `<html>
<head>
	<title>RV32I Assembler</title>
</head>
<body style="background-color: #1E1E1E; color: white; font-family: sans-serif;">
	<h1 style="display: inline-block;">RV32I Assembler</h1>
	<button id="assembleButton" style="margin-left: 50px; height: 40px; width: 100px;">ASSEMBLE</button>
	<br/>
	<div style="display: flex; gap: 20px;">
		<textarea id="source" spellcheck="false" style="width: 600px; height: 500px; font-family: monospace; font-size: 1.1em; background-color: black; color: white; border: 2px solid white;">start:
    addi x1, x0, 5
loop:
    addi x1, x1, -1
    bne x1, x0, loop
    jal start</textarea>
		<pre id="hex" style="width: 200px; height: 500px; margin: 0; padding: 10px; background-color: black; border: 2px solid white; overflow-y: auto;"></pre>
	</div>
	<h2>Diagnostics</h2>
	<pre id="diagnostics" style="width: 820px; padding: 10px; background-color: black; border: 2px solid white; min-height: 100px;"></pre>

	<script>
		var socket;

		function connect() {
			socket = new WebSocket("ws://" + window.location.host + "/ws");
			socket.onmessage = function(event) {
				var data = JSON.parse(event.data);
				document.getElementById("hex").textContent = data.hex.join("\n");
				var lines = data.diagnostics.map(function(d) {
					var kind = d.severity == 1 ? "error" : "warning";
					return (d.range.start.line + 1) + ":" + (d.range.start.character + 1) + ": " + kind + ": " + d.message;
				});
				if (data.error) {
					lines.push("assembly failed: " + data.error);
				}
				document.getElementById("diagnostics").textContent = lines.join("\n");
			};
			// try to reconnect every 3 seconds
			socket.onclose = function() {
				setTimeout(connect, 3000);
			};
		}
		connect();

		document.getElementById("assembleButton").onclick = function() {
			socket.send(JSON.stringify({
				type: "assemble",
				text: document.getElementById("source").value
			}));
		};
	</script>
</body>
</html>`
