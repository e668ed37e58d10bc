package api

import (
	"context"
	"fmt"
	"net/http"
)

// Status retrieves the current PoolCop status.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, http.MethodGet, "status")
}

// AlarmHistory retrieves the alarm history starting at offset.
func (c *Client) AlarmHistory(ctx context.Context, offset int) (map[string]any, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("history/alarms/%d", offset))
}

// CommandHistory retrieves the command history starting at offset.
func (c *Client) CommandHistory(ctx context.Context, offset int) (map[string]any, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("history/commands/%d", offset))
}

// TogglePump toggles the pump on or off.
func (c *Client) TogglePump(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, http.MethodPost, "command/pump")
}

// SetPumpSpeed sets the pump to the given speed. Valid speeds are 1 to 3.
func (c *Client) SetPumpSpeed(ctx context.Context, speed int) (map[string]any, error) {
	if speed < 1 || speed > 3 {
		return nil, fmt.Errorf("pump speed must be 1, 2 or 3, got %d", speed)
	}
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("command/pump/%d", speed))
}

// ToggleAux toggles the given auxiliary circuit on or off.
func (c *Client) ToggleAux(ctx context.Context, auxID int) (map[string]any, error) {
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("command/aux/%d", auxID))
}

// ClearAlarm clears the active alarm.
func (c *Client) ClearAlarm(ctx context.Context) (map[string]any, error) {
	return c.Request(ctx, http.MethodPost, "command/clear_alarm")
}

// SetValvePosition moves the water valve to the given position.
func (c *Client) SetValvePosition(ctx context.Context, position int) (map[string]any, error) {
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("command/valve/%d", position))
}
