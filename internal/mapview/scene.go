package mapview

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/daytrip/internal/domain"
)

// View is where the map looks. Animate and DurationMS describe the
// transition the client should use to get there.
type View struct {
	Center     domain.Coordinate `json:"center"`
	Zoom       int               `json:"zoom"`
	Animate    bool              `json:"animate"`
	DurationMS int64             `json:"duration_ms,omitempty"`
}

// Map view defaults.
const (
	DefaultZoom   = 13
	FocusZoom     = 18
	FocusDuration = 1500 * time.Millisecond
)

// DefaultCenter is central Ålesund.
var DefaultCenter = domain.Coordinate{Lat: 62.4722, Lng: 6.1497}

// BaseLayer is a tile provider the user can switch between.
type BaseLayer struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	URLTemplate string `json:"url_template"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"max_zoom"`
}

var (
	StreetLayer = BaseLayer{
		Name:        "street",
		Title:       "Street",
		URLTemplate: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap",
		MaxZoom:     19,
	}
	SatelliteLayer = BaseLayer{
		Name:        "satellite",
		Title:       "Satellite",
		URLTemplate: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Tiles © Esri",
		MaxZoom:     19,
	}
)

// BaseLayers lists the selectable tile providers; the first is the default.
var BaseLayers = []BaseLayer{StreetLayer, SatelliteLayer}

// Surface is the rendering target the engine drives. Handles returned by
// AddLayer are opaque and only meaningful to the surface that issued them.
type Surface interface {
	AddLayer(l Layer) string
	RemoveLayer(handle string)
	OpenPopup(handle string) error
	ClosePopup()
	SetView(v View)
}

// RenderedLayer is a layer as it currently exists on a Scene.
type RenderedLayer struct {
	Handle string `json:"handle"`
	Layer
}

// SceneSnapshot is a consistent copy of a Scene for clients to draw.
type SceneSnapshot struct {
	Version    uint64          `json:"version"`
	Base       BaseLayer       `json:"base"`
	BaseLayers []BaseLayer     `json:"base_layers"`
	View       View            `json:"view"`
	Layers     []RenderedLayer `json:"layers"`
	OpenPopup  string          `json:"open_popup,omitempty"`
}

// Scene is an in-memory Surface. It holds the authoritative overlay list,
// view and base-layer choice that a map client polls and draws. Version
// increases on every change so clients can skip redundant redraws.
type Scene struct {
	mu      sync.RWMutex
	layers  []RenderedLayer
	view    View
	base    BaseLayer
	popup   string
	version uint64
}

// NewScene returns an empty Scene centred on DefaultCenter with the street layer.
func NewScene() *Scene {
	return &Scene{
		view: View{Center: DefaultCenter, Zoom: DefaultZoom},
		base: StreetLayer,
	}
}

func (s *Scene) AddLayer(l Layer) string {
	h := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, RenderedLayer{Handle: h, Layer: l})
	s.version++
	return h
}

func (s *Scene) RemoveLayer(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.layers {
		if l.Handle != handle {
			continue
		}
		s.layers = append(s.layers[:i], s.layers[i+1:]...)
		if s.popup == handle {
			s.popup = ""
		}
		s.version++
		return
	}
}

func (s *Scene) ClosePopup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.popup != "" {
		s.popup = ""
		s.version++
	}
}

func (s *Scene) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	s.version++
}

// OpenPopup marks the popup of the layer with the given handle as open.
// Returns domain.ErrNotFound for an unknown handle or a layer without a popup.
func (s *Scene) OpenPopup(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.layers {
		if l.Handle == handle && l.Popup != nil {
			s.popup = handle
			s.version++
			return nil
		}
	}
	return fmt.Errorf("mapview.Scene.OpenPopup: %w", domain.ErrNotFound)
}

// SelectBaseLayer switches the tile provider by name.
// Returns domain.ErrValidation for an unknown name.
func (s *Scene) SelectBaseLayer(name string) error {
	for _, b := range BaseLayers {
		if b.Name != name {
			continue
		}
		s.mu.Lock()
		s.base = b
		s.version++
		s.mu.Unlock()
		return nil
	}
	return fmt.Errorf("mapview.Scene.SelectBaseLayer: %w: unknown base layer %q", domain.ErrValidation, name)
}

// Snapshot returns a copy of the current scene.
func (s *Scene) Snapshot() SceneSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	layers := make([]RenderedLayer, len(s.layers))
	copy(layers, s.layers)
	return SceneSnapshot{
		Version:    s.version,
		Base:       s.base,
		BaseLayers: append([]BaseLayer(nil), BaseLayers...),
		View:       s.view,
		Layers:     layers,
		OpenPopup:  s.popup,
	}
}
