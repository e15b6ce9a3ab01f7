package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case AvailabilityResult:
		o.printAvailabilityResult(v)
	case LeaderboardResult:
		o.printLeaderboardResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	Username         string    `json:"username"`
	Cookies          float64   `json:"cookies"`
	CookiesPerSecond float64   `json:"cookiesPerSecond"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// AuthResult is the register/login response
type AuthResult struct {
	Player  Player `json:"player"`
	Created bool   `json:"created"`
}

// AvailabilityResult is the check-username response
type AvailabilityResult struct {
	Available bool `json:"available"`
}

// LeaderboardEntry is one row of the leaderboard
type LeaderboardEntry struct {
	Username         string  `json:"username"`
	Cookies          float64 `json:"cookies"`
	CookiesPerSecond float64 `json:"cookiesPerSecond"`
}

// LeaderboardResult is the leaderboard response
type LeaderboardResult struct {
	Data          []LeaderboardEntry `json:"data"`
	ActivePlayers []string           `json:"activePlayers"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s\n", p.Username)
	fmt.Printf("Cookies: %.1f\n", p.Cookies)
	fmt.Printf("Cookies/sec: %.2f\n", p.CookiesPerSecond)
	if !p.LastUpdated.IsZero() {
		fmt.Printf("Last updated: %s\n", p.LastUpdated.Format(time.RFC3339))
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	if a.Created {
		fmt.Println("Account created")
	} else {
		fmt.Println("Logged in")
	}
	o.printPlayer(a.Player)
}

func (o *Output) printAvailabilityResult(a AvailabilityResult) {
	if a.Available {
		fmt.Println("Available")
	} else {
		fmt.Println("Taken")
	}
}

func (o *Output) printLeaderboardResult(l LeaderboardResult) {
	fmt.Printf("Leaderboard (%d):\n", len(l.Data))
	for i, entry := range l.Data {
		fmt.Printf("  %2d. %-20s %12.1f cookies  (%.2f/sec)\n",
			i+1, entry.Username, entry.Cookies, entry.CookiesPerSecond)
	}
	if len(l.ActivePlayers) > 0 {
		fmt.Printf("Online: %s\n", strings.Join(l.ActivePlayers, ", "))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
