// Package main provides the player control CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/playdeck/internal/api/connect"
	"github.com/osa030/playdeck/internal/app/intent"
)

var (
	app    = kingpin.New("playdeck-playerctl", "playdeck player control client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token  = app.Flag("token", "Control token (or set PLAYDECK_CONTROL_TOKEN env)").Envar("PLAYDECK_CONTROL_TOKEN").String()

	// state command
	stateCmd = app.Command("state", "Show the player state").Alias("status")

	// toggle command
	toggleCmd = app.Command("toggle", "Toggle play/pause").Alias("play")

	// select command
	selectCmd   = app.Command("select", "Select a track")
	selectIndex = selectCmd.Arg("index", "Track index (0-based)").Required().Int()

	// prev/next commands
	prevCmd = app.Command("prev", "Previous track")
	nextCmd = app.Command("next", "Next track")

	// seek command
	seekCmd     = app.Command("seek", "Seek by clicking the progress bar")
	seekPercent = seekCmd.Arg("percent", "Position on the bar (0-100)").Required().Float64()
	seekDrag    = seekCmd.Flag("drag", "Seek with a drag gesture instead of a click").Bool()

	// volume command
	volumeCmd     = app.Command("volume", "Set the volume")
	volumePercent = volumeCmd.Arg("percent", "Volume (0-100)").Required().Int()

	// key command
	keyCmd    = app.Command("key", "Send a key press")
	keyCode   = keyCmd.Arg("code", "Key code, e.g. Space, ArrowLeft").Required().String()
	keyTarget = keyCmd.Flag("target", "Tag name of the focused element").String()

	// theme command
	themeCmd = app.Command("theme", "Toggle the color scheme")

	// subscribe command
	subscribeCmd = app.Command("subscribe", "Subscribe to notifications")
)

// barWidth is the bar geometry the CLI reports, so a percentage maps directly to x.
const barWidth = 100

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := apiconnect.NewPlayerServiceClient(
		http.DefaultClient,
		*server,
	)

	ctx := context.Background()

	// Execute command
	switch command {
	case stateCmd.FullCommand():
		state(ctx, client)
	case toggleCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.TogglePlayPause)})
	case selectCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.SelectTrack), Index: *selectIndex})
	case prevCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.PreviousTrack)})
	case nextCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.NextTrack)})
	case seekCmd.FullCommand():
		seek(ctx, client, *seekPercent, *seekDrag)
	case volumeCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.SetVolume), Volume: *volumePercent})
	case keyCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.Key), Code: *keyCode, Target: *keyTarget})
	case themeCmd.FullCommand():
		dispatch(ctx, client, &apiconnect.IntentRequest{Name: string(intent.ToggleTheme)})
	case subscribeCmd.FullCommand():
		subscribe(ctx, client)
	}
}

func state(ctx context.Context, client *apiconnect.PlayerServiceClient) {
	resp, err := client.GetState(ctx, connect.NewRequest(&apiconnect.StateRequest{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	printState(resp.Msg.State)
}

func dispatch(ctx context.Context, client *apiconnect.PlayerServiceClient, msgs ...*apiconnect.IntentRequest) {
	var last *apiconnect.PlayerState
	for _, msg := range msgs {
		req := connect.NewRequest(msg)
		if *token != "" {
			req.Header().Set(apiconnect.ControlTokenHeader, *token)
		}
		resp, err := client.Dispatch(ctx, req)
		if err != nil {
			fmt.Printf("Error: %s: %v\n", msg.Name, err)
			os.Exit(1)
		}
		last = resp.Msg.State
	}
	printState(last)
}

func seek(ctx context.Context, client *apiconnect.PlayerServiceClient, percent float64, drag bool) {
	bar := &apiconnect.IntentRequest{Name: string(intent.SetBar), Left: 0, Width: barWidth}
	if drag {
		dispatch(ctx, client,
			bar,
			&apiconnect.IntentRequest{Name: string(intent.StartDrag), X: percent},
			&apiconnect.IntentRequest{Name: string(intent.EndDrag)},
		)
		return
	}
	dispatch(ctx, client,
		bar,
		&apiconnect.IntentRequest{Name: string(intent.SeekClick), X: percent},
	)
}

func formatPhase(phase string) string {
	switch phase {
	case "idle":
		return "⏹  Idle"
	case "paused":
		return "⏸  Paused"
	case "playing":
		return "▶️  Playing"
	default:
		return "❓ Unknown"
	}
}

func printState(s *apiconnect.PlayerState) {
	if s == nil {
		fmt.Println("No state")
		return
	}

	fmt.Printf("State: %s\n", formatPhase(s.Phase))
	if s.Track != nil {
		fmt.Printf("Track: %s - %s\n", s.Track.Title, s.Track.Artist)
	}
	fmt.Printf("Progress: %s / %s (%.1f%%)\n", s.CurrentTime, s.TotalTime, s.Percent)
	fmt.Printf("Volume: %d (%s)\n", s.Volume, s.VolumeLevel)
	fmt.Printf("Theme: %s\n", s.Theme)

	fmt.Println("\nPlaylist:")
	for _, item := range s.Playlist {
		marker := " "
		if item.Active {
			marker = "*"
		}
		fmt.Printf(" %s %2d. %-30s %-20s %s\n", marker, item.Index, item.Track.Title, item.Track.Artist, item.Label)
	}
}

func subscribe(ctx context.Context, client *apiconnect.PlayerServiceClient) {
	stream, err := client.Subscribe(ctx, connect.NewRequest(&apiconnect.SubscribeRequest{}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Subscribed to notifications. Press Ctrl+C to exit.")

	// Handle shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		os.Exit(0)
	}()

	// Receive notifications
	for stream.Receive() {
		n := stream.Msg()
		fmt.Printf("\n[Sequence: %d] === %s ===\n", n.SequenceNo, n.Type)
		printState(n.State)
	}

	if err := stream.Err(); err != nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}
