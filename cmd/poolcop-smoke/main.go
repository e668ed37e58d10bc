// Command poolcop-smoke exercises each PoolCopilot endpoint against the live
// API. It is used by integration workflows; output is one JSON document per
// invocation on stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	poolcopilot "github.com/poolcopilot/client-go"
)

func main() {
	if len(os.Args) < 2 {
		fatal("usage: poolcop-smoke <status|alarms|commands|toggle-pump|pump-speed|toggle-aux|clear-alarm|valve> [args]")
	}

	apiKey := os.Getenv("POOLCOP_API_KEY")
	if apiKey == "" {
		fatal("POOLCOP_API_KEY environment variable is required")
	}

	client, err := poolcopilot.New(apiKey)
	if err != nil {
		fatal("create client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var result map[string]any
	switch os.Args[1] {
	case "status":
		result, err = client.Status(ctx)
	case "alarms":
		result, err = client.AlarmHistory(ctx, intArg(2, 0))
	case "commands":
		result, err = client.CommandHistory(ctx, intArg(2, 0))
	case "toggle-pump":
		result, err = client.TogglePump(ctx)
	case "pump-speed":
		result, err = client.SetPumpSpeed(ctx, intArg(2, 1))
	case "toggle-aux":
		result, err = client.ToggleAux(ctx, intArg(2, 1))
	case "clear-alarm":
		result, err = client.ClearAlarm(ctx)
	case "valve":
		result, err = client.SetValvePosition(ctx, intArg(2, 0))
	default:
		fatal("unknown command %q", os.Args[1])
	}
	if err != nil {
		fatal("%s: %v", os.Args[1], err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal("marshal result: %v", err)
	}
	fmt.Println(string(out))
}

func intArg(i, def int) int {
	if len(os.Args) <= i {
		return def
	}
	v, err := strconv.Atoi(os.Args[i])
	if err != nil {
		fatal("argument %d must be an integer: %v", i, err)
	}
	return v
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
