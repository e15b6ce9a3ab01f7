package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	var user, pass string
	var cps float64
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a live session over the realtime protocol",
		Long: `Connect to the realtime websocket endpoint, authenticate, and bake
cookies until interrupted.

Counters are accumulated locally at the configured rate and pushed to the
server periodically; each leaderboard broadcast is printed as it arrives.
Credentials default to the ones saved by the login and register commands.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				creds, err := cfg.LoadCredentials()
				if err != nil {
					return fmt.Errorf("failed to load credentials: %w", err)
				}
				if user == "" {
					user = creds.Username
				}
				if pass == "" {
					pass = creds.Password
				}
			}
			if user == "" || pass == "" {
				return fmt.Errorf("no credentials: pass --user/--pass or run login first")
			}

			return play(user, pass, cps, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (defaults to saved credentials)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (defaults to saved credentials)")
	cmd.Flags().Float64Var(&cps, "cps", 1.0, "Cookies baked per second")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output frames as JSON lines")

	return cmd
}

// playerState mirrors the init snapshot from the server
type playerState struct {
	Username         string  `json:"username"`
	Cookies          float64 `json:"cookies"`
	CookiesPerSecond float64 `json:"cookiesPerSecond"`
}

// serverFrame is any frame the server sends during play
type serverFrame struct {
	Type          string             `json:"type"`
	Player        *playerState       `json:"player,omitempty"`
	Data          []LeaderboardEntry `json:"data,omitempty"`
	ActivePlayers []string           `json:"activePlayers,omitempty"`
	Error         string             `json:"error,omitempty"`
}

const updateInterval = 2 * time.Second

func play(user, pass string, cps float64, jsonOutput bool) error {
	conn, err := dialRealtime(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	register := map[string]any{"type": "register", "username": user, "password": pass}
	if err := conn.WriteJSON(register); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	frames := make(chan serverFrame)
	readErr := make(chan error, 1)
	go func() {
		defer close(frames)
		for {
			var frame serverFrame
			if err := conn.ReadJSON(&frame); err != nil {
				readErr <- err
				return
			}
			frames <- frame
		}
	}()

	var state playerState
	registered := false

	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			if !jsonOutput {
				fmt.Println("\nDisconnected")
			}
			return nil

		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("Server closed the connection")
				}
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)

		case frame, ok := <-frames:
			if !ok {
				// Reader stopped; its error is waiting on readErr
				frames = nil
				continue
			}
			printFrame(frame, jsonOutput)
			switch frame.Type {
			case "init":
				if frame.Player != nil {
					state = *frame.Player
					state.CookiesPerSecond = cps
					registered = true
				}
			case "error":
				// Fatal errors close the socket; the read loop reports that
			}

		case <-ticker.C:
			if !registered {
				continue
			}
			state.Cookies += cps * updateInterval.Seconds()
			update := map[string]any{
				"type":             "update",
				"username":         user,
				"password":         pass,
				"cookies":          state.Cookies,
				"cookiesPerSecond": cps,
			}
			if err := conn.WriteJSON(update); err != nil {
				return fmt.Errorf("failed to send update: %w", err)
			}
		}
	}
}

// dialRealtime connects to the server's websocket endpoint
func dialRealtime(serverURL string) (*websocket.Conn, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	return conn, err
}

func printFrame(frame serverFrame, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(frame)
		fmt.Println(string(data))
		return
	}

	timestamp := time.Now().Format("15:04:05")
	switch frame.Type {
	case "init":
		if frame.Player != nil {
			fmt.Printf("[%s] playing as %s with %.1f cookies\n",
				timestamp, frame.Player.Username, frame.Player.Cookies)
		}
	case "leaderboard":
		fmt.Printf("[%s] leaderboard:\n", timestamp)
		for i, entry := range frame.Data {
			online := ""
			for _, name := range frame.ActivePlayers {
				if name == entry.Username {
					online = " *"
				}
			}
			fmt.Printf("  %2d. %-20s %12.1f%s\n", i+1, entry.Username, entry.Cookies, online)
		}
	case "error":
		fmt.Printf("[%s] server error: %s\n", timestamp, frame.Error)
	default:
		fmt.Printf("[%s] %s\n", timestamp, frame.Type)
	}
}
