// Package helpers produces mock results for the catalog functions. Nothing
// here touches the network; unknown inputs get deterministic values derived
// from the input so demos and tests are repeatable.
package helpers

import (
	"crypto/sha256"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Weather struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    float64 `json:"humidity"`
}

var mockWeather = map[string]Weather{
	"San Francisco, CA": {Temperature: 65, Condition: "Foggy", Humidity: 78},
	"New York, NY":      {Temperature: 72, Condition: "Sunny", Humidity: 45},
	"London, UK":        {Temperature: 58, Condition: "Cloudy", Humidity: 82},
	"Tokyo, Japan":      {Temperature: 77, Condition: "Partly Cloudy", Humidity: 60},
}

var conditions = []string{"Sunny", "Cloudy", "Rainy", "Partly Cloudy"}

// WeatherLocations lists the locations with fixed mock data.
func WeatherLocations() []string {
	return []string{"San Francisco, CA", "New York, NY", "London, UK", "Tokyo, Japan"}
}

// GetWeather returns the fixed report for a known location, otherwise a
// report in the 40-79°F / 30-89% range seeded by the location name.
func GetWeather(location string) Weather {
	if w, ok := mockWeather[location]; ok {
		w.Location = location
		return w
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(location)))
	sum := h.Sum32()

	return Weather{
		Location:    location,
		Temperature: float64(40 + sum%40),
		Condition:   conditions[(sum>>8)%uint32(len(conditions))],
		Humidity:    float64(30 + (sum>>16)%60),
	}
}

type Palette struct {
	Theme  string   `json:"theme"`
	Colors []string `json:"colors"`
}

var palettes = map[string][]string{
	"ocean":  {"#006994", "#4A90E2", "#87CEEB", "#E0F6FF", "#B8E6FF"},
	"sunset": {"#FF6B35", "#F7931E", "#FFD23F", "#06FFA5", "#B19CD9"},
	"forest": {"#228B22", "#32CD32", "#90EE90", "#ADFF2F", "#7CFC00"},
	"autumn": {"#D2691E", "#FF8C00", "#FFD700", "#DC143C", "#8B4513"},
	"winter": {"#4169E1", "#87CEEB", "#E6E6FA", "#F0F8FF", "#B0C4DE"},
	"desert": {"#DEB887", "#F4A460", "#D2691E", "#CD853F", "#A0522D"},
}

// PaletteThemes lists the named palettes.
func PaletteThemes() []string {
	return []string{"ocean", "sunset", "forest", "autumn", "winter", "desert"}
}

// GeneratePalette returns the named palette (case-insensitive) or five colors
// taken from the SHA-256 of the theme.
func GeneratePalette(theme string) Palette {
	if colors, ok := palettes[strings.ToLower(theme)]; ok {
		return Palette{Theme: theme, Colors: append([]string(nil), colors...)}
	}

	sum := sha256.Sum256([]byte(theme))
	colors := make([]string, 5)
	for i := range colors {
		colors[i] = fmt.Sprintf("#%02X%02X%02X", sum[i*3], sum[i*3+1], sum[i*3+2])
	}
	return Palette{Theme: theme, Colors: colors}
}

type Todo struct {
	ID        string `json:"id"`
	Task      string `json:"task"`
	Priority  string `json:"priority"`
	DueDate   string `json:"due_date,omitempty"`
	CreatedAt string `json:"created_at"`
	Completed bool   `json:"completed"`
}

// CreateTodo builds a todo item. An empty priority defaults to "medium".
func CreateTodo(task, priority, dueDate string) Todo {
	if priority == "" {
		priority = "medium"
	}
	return Todo{
		ID:        uuid.New().String(),
		Task:      task,
		Priority:  priority,
		DueDate:   dueDate,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

type QRCode struct {
	Content string `json:"content"`
	Size    int    `json:"size"`
	URL     string `json:"url"`
}

const DefaultQRSize = 200

// GenerateQRCode returns the qrserver.com URL for content. No image is
// fetched or encoded. A non-positive size uses DefaultQRSize.
func GenerateQRCode(content string, size int) QRCode {
	if size <= 0 {
		size = DefaultQRSize
	}
	return QRCode{
		Content: content,
		Size:    size,
		URL: fmt.Sprintf("https://api.qrserver.com/v1/create-qr-code/?size=%dx%d&data=%s",
			size, size, strings.ReplaceAll(url.QueryEscape(content), "+", "%20")),
	}
}
