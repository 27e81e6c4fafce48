package util

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

var LoggingEnabled = false

// LogEndpoint receives log lines as text/plain POSTs. When empty, LogF writes
// to LogOutput instead.
var LogEndpoint = ""

var LogOutput io.Writer = os.Stderr

func LogF(format string, args ...interface{}) {
	if !LoggingEnabled {
		return
	}
	message := fmt.Sprintf(format, args...)
	if LogEndpoint == "" {
		if !strings.HasSuffix(message, "\n") {
			message += "\n"
		}
		io.WriteString(LogOutput, message)
		return
	}
	go http.Post(LogEndpoint, "text/plain", strings.NewReader(message))
}
