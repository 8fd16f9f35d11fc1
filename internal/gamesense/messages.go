package gamesense

import (
	"fmt"

	"github.com/junsooki/keyscreen/internal/transport"
)

// Endpoints of the GameSense daemon.
const (
	EndpointRemoveGameEvent   = "remove_game_event"
	EndpointRemoveGame        = "remove_game"
	EndpointGameMetadata      = "game_metadata"
	EndpointRegisterGameEvent = "register_game_event"
	EndpointBindGameEvent     = "bind_game_event"
	EndpointGameEvent         = "game_event"
)

// Screen handler constants.
const (
	ZoneOne    = "one"
	ModeScreen = "screen"
)

// DeviceType names a screened device of the given resolution, e.g.
// "screened-128x40".
func DeviceType(width, height int) string { return fmt.Sprintf("screened-%dx%d", width, height) }

// ImageDataKey names the per-resolution frame field, e.g. "image-data-128x40".
func ImageDataKey(width, height int) string { return fmt.Sprintf("image-data-%dx%d", width, height) }

// CoreProps is the daemon discovery file.
type CoreProps struct {
	Address string `json:"address"`
}

type GameMetadata struct {
	Game                      string `json:"game"`
	GameDisplayName           string `json:"game_display_name,omitempty"`
	Developer                 string `json:"developer,omitempty"`
	DeinitializeTimerLengthMs int    `json:"deinitialize_timer_length_ms,omitempty"`
}

type GameRef struct {
	Game string `json:"game"`
}

type EventRef struct {
	Game  string `json:"game"`
	Event string `json:"event"`
}

type EventMetadata struct {
	Game          string `json:"game"`
	Event         string `json:"event"`
	MinValue      int    `json:"min_value"`
	MaxValue      int    `json:"max_value"`
	ValueOptional bool   `json:"value_optional"`
}

type BindEvent struct {
	Game     string          `json:"game"`
	Event    string          `json:"event"`
	Handlers []ScreenHandler `json:"handlers"`
}

type ScreenHandler struct {
	DeviceType string       `json:"device-type"`
	Zone       string       `json:"zone"`
	Mode       string       `json:"mode"`
	Datas      []ScreenData `json:"datas"`
}

type ScreenData struct {
	HasText   bool                `json:"has-text"`
	ImageData transport.ImageData `json:"image-data"`
}

type GameEvent struct {
	Game  string    `json:"game"`
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	Value int `json:"value"`
	// Frame holds a single image-data-<W>x<H> entry.
	Frame map[string]transport.ImageData `json:"frame"`
}
