package playground_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	. "github.com/onsi/gomega"

	"github.com/vptvpt/riscv-assembler/assembler"
	"github.com/vptvpt/riscv-assembler/config"
	"github.com/vptvpt/riscv-assembler/playground"
)

func dial(t *testing.T) *websocket.Conn {
	srv := httptest.NewServer(playground.NewServer(config.Default()).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req interface{}) playground.Response {
	g := NewWithT(t)
	g.Expect(conn.WriteJSON(req)).To(Succeed())
	var resp playground.Response
	g.Expect(conn.ReadJSON(&resp)).To(Succeed())
	return resp
}

func TestAssembleOverWebsocket(t *testing.T) {
	g := NewWithT(t)
	conn := dial(t)

	resp := roundTrip(t, conn, playground.Request{
		Type: "assemble",
		Text: "start:\n    addi x1, x0, 5\nloop:\n    addi x1, x1, -1\n    bne x1, x0, loop\n    jal start",
	})
	g.Expect(resp.Type).To(Equal("result"))
	g.Expect(resp.Error).To(BeEmpty())
	g.Expect(resp.Hex).To(Equal([]string{"00500093", "fff08093", "fe009ee3", "ff5ff0ef"}))
	g.Expect(resp.Diagnostics).To(BeEmpty())

	// the connection stays usable for further requests
	resp = roundTrip(t, conn, playground.Request{Type: "assemble", Text: "sw x5, 0(x99)"})
	g.Expect(resp.Type).To(Equal("result"))
	g.Expect(resp.Hex).To(BeEmpty())
	g.Expect(resp.Error).To(ContainSubstring("x99"))
	g.Expect(resp.Diagnostics).To(HaveLen(1))
	g.Expect(resp.Diagnostics[0].Severity).To(Equal(assembler.Error))
}

func TestDroppedLinesAreReported(t *testing.T) {
	g := NewWithT(t)
	conn := dial(t)

	resp := roundTrip(t, conn, playground.Request{Type: "assemble", Text: "add x1, x2\naddi x1, x0, 1"})
	g.Expect(resp.Error).To(BeEmpty())
	g.Expect(resp.Hex).To(Equal([]string{"00100093"}))
	g.Expect(resp.Diagnostics).To(HaveLen(1))
}

func TestUnknownAndMalformedMessages(t *testing.T) {
	g := NewWithT(t)
	conn := dial(t)

	resp := roundTrip(t, conn, playground.Request{Type: "run"})
	g.Expect(resp.Type).To(Equal("error"))
	g.Expect(resp.Error).To(ContainSubstring("unknown message type"))

	g.Expect(conn.WriteMessage(websocket.TextMessage, []byte("{not json"))).To(Succeed())
	var malformed playground.Response
	g.Expect(conn.ReadJSON(&malformed)).To(Succeed())
	g.Expect(malformed.Type).To(Equal("error"))
	g.Expect(malformed.Error).To(HavePrefix("invalid message"))
}

func TestPage(t *testing.T) {
	g := NewWithT(t)
	srv := httptest.NewServer(playground.NewServer(config.Default()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	g.Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	g.Expect(resp.StatusCode).To(Equal(http.StatusOK))
	g.Expect(string(body)).To(ContainSubstring("RV32I Assembler"))

	missing, err := http.Get(srv.URL + "/favicon.ico")
	g.Expect(err).NotTo(HaveOccurred())
	missing.Body.Close()
	g.Expect(missing.StatusCode).To(Equal(http.StatusNotFound))
}

func TestStrictConfig(t *testing.T) {
	g := NewWithT(t)
	conf := config.Default()
	conf.LineFailurePolicy = string(assembler.StrictLines)

	resp := playground.NewServer(conf).Assemble(playground.Request{Type: "assemble", Text: "add x1, x2\naddi x1, x0, 1"})
	g.Expect(resp.Error).NotTo(BeEmpty())
	g.Expect(resp.Hex).To(BeEmpty())
}
