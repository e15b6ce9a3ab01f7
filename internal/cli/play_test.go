package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingWSServer upgrades /ws, answers the register frame with an error,
// and closes the connection
func rejectingWSServer(t *testing.T) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		if _, _, err := conn.ReadMessage(); err != nil {
			t.Errorf("read register failed: %v", err)
			return
		}
		if err := conn.WriteJSON(map[string]any{"type": "error", "error": "Invalid credentials"}); err != nil {
			t.Errorf("write error frame failed: %v", err)
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// Wait for the peer's close frame
		_, _, _ = conn.ReadMessage()
	}))
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestPlayStopsCleanlyWhenServerCloses(t *testing.T) {
	server := rejectingWSServer(t)
	defer server.Close()

	oldCfg := cfg
	cfg = &Config{ServerURL: server.URL, Output: "json"}
	defer func() { cfg = oldCfg }()

	output := captureStdout(t, func() {
		require.NoError(t, play("alice", "wrong", 1.0, true))
	})

	// Only the server's error frame is printed; the closed read channel
	// must not leak blank frames into the output
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Invalid credentials")
}
