package mapview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/daytrip/internal/domain"
)

// ActivitySource is the itinerary as the engine sees it.
type ActivitySource interface {
	List() []domain.Activity
	OnChange(fn func())
}

// LocationSource is the tracker as the engine sees it.
type LocationSource interface {
	Latest() (domain.Coordinate, bool)
	OnUpdate(fn func(domain.Coordinate))
}

// WaypointSource is the waypoint store as the engine sees it. The engine is
// its only writer.
type WaypointSource interface {
	List() []domain.Waypoint
	Get(id string) (domain.Waypoint, error)
	Add(ctx context.Context, coords domain.Coordinate, title, description string) (domain.Waypoint, error)
	Remove(ctx context.Context, id string) bool
	OnChange(fn func())
}

// OverlayState is the state of the modal waypoint overlay.
type OverlayState string

const (
	OverlayIdle       OverlayState = "idle"
	OverlayEditing    OverlayState = "editing"
	OverlayConfirming OverlayState = "confirming-delete"
)

// Overlay is a snapshot of the modal flow. Draft is set while editing,
// PendingDelete while a deletion awaits confirmation.
type Overlay struct {
	State         OverlayState       `json:"state"`
	Draft         *domain.Coordinate `json:"draft,omitempty"`
	PendingDelete *domain.Waypoint   `json:"pending_delete,omitempty"`
}

// Engine is the MapAnnotationEngine. It is the sole owner of the layers it
// puts on its Surface and the sole writer of the waypoint set.
//
// Two locks keep the flows and the redraw apart: flowMu serializes overlay
// transitions (which call into the waypoint store), renderMu guards the
// rendered handles and the waypoint mirror. Store listeners only ever take
// renderMu, so a commit can trigger a redraw without deadlocking. Lock order
// is flowMu before renderMu.
type Engine struct {
	activities ActivitySource
	location   LocationSource
	waypoints  WaypointSource
	surface    Surface
	log        *slog.Logger

	flowMu  sync.Mutex
	overlay Overlay

	renderMu sync.Mutex
	rendered []renderedRef
	mirror   []domain.Waypoint
}

// renderedRef ties a surface handle to the waypoint it draws, if any.
type renderedRef struct {
	handle     string
	waypointID string
}

// NewEngine wires the engine to its inputs and subscribes to their change
// notifications. Call Reconcile once after construction for the first draw.
func NewEngine(acts ActivitySource, loc LocationSource, ws WaypointSource, surface Surface, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		activities: acts,
		location:   loc,
		waypoints:  ws,
		surface:    surface,
		log:        log,
		overlay:    Overlay{State: OverlayIdle},
	}
	acts.OnChange(e.Reconcile)
	loc.OnUpdate(func(domain.Coordinate) { e.Reconcile() })
	ws.OnChange(e.Reconcile)
	return e
}

// Reconcile discards every layer this engine rendered and redraws from the
// latest snapshot of all three inputs. It is idempotent and does not care
// which input changed. Transient surface state such as an open popup on a
// redrawn layer is lost.
//
// The inputs are read under renderMu so the last redraw to finish always
// draws the newest state.
func (e *Engine) Reconcile() {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	acts := e.activities.List()
	ws := e.waypoints.List()
	var self *domain.Coordinate
	if c, ok := e.location.Latest(); ok {
		self = &c
	}

	for _, r := range e.rendered {
		e.surface.RemoveLayer(r.handle)
	}
	e.mirror = ws
	layers := BuildLayers(acts, self, ws, e.log)
	e.rendered = make([]renderedRef, 0, len(layers))
	for _, l := range layers {
		e.rendered = append(e.rendered, renderedRef{handle: e.surface.AddLayer(l), waypointID: l.WaypointID})
	}
	e.log.Debug("map reconciled", "layers", len(layers), "waypoints", len(ws), "self_known", self != nil)
}

// Rendered returns the number of layers currently on the surface.
func (e *Engine) Rendered() int {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	return len(e.rendered)
}

// Mirror returns the waypoint set as of the last reconciliation.
func (e *Engine) Mirror() []domain.Waypoint {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	return append([]domain.Waypoint(nil), e.mirror...)
}

// Focus recenters and zooms the view on c with an animated transition.
// It changes no stored entity.
func (e *Engine) Focus(c domain.Coordinate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("mapview.Engine.Focus: %w", err)
	}
	e.surface.SetView(View{Center: c, Zoom: FocusZoom, Animate: true, DurationMS: FocusDuration.Milliseconds()})
	return nil
}

// Overlay returns the current modal flow state.
func (e *Engine) Overlay() Overlay {
	e.flowMu.Lock()
	defer e.flowMu.Unlock()
	return cloneOverlay(e.overlay)
}

// Click starts a waypoint draft at c: idle -> editing.
// Returns domain.ErrBusy while another draft or confirmation is open.
func (e *Engine) Click(c domain.Coordinate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("mapview.Engine.Click: %w", err)
	}
	e.flowMu.Lock()
	defer e.flowMu.Unlock()

	if e.overlay.State != OverlayIdle {
		return fmt.Errorf("mapview.Engine.Click: %w: %s", domain.ErrBusy, e.overlay.State)
	}
	e.overlay = Overlay{State: OverlayEditing, Draft: &c}
	return nil
}

// ConfirmDraft commits the open draft with title and description:
// editing -> idle. A blank title is rejected with domain.ErrValidation and
// the draft stays open so the user can fix it or cancel.
func (e *Engine) ConfirmDraft(ctx context.Context, title, description string) (domain.Waypoint, error) {
	e.flowMu.Lock()
	defer e.flowMu.Unlock()

	if e.overlay.State != OverlayEditing {
		return domain.Waypoint{}, fmt.Errorf("mapview.Engine.ConfirmDraft: %w", domain.ErrNoPending)
	}
	w, err := e.waypoints.Add(ctx, *e.overlay.Draft, title, description)
	if err != nil {
		return domain.Waypoint{}, fmt.Errorf("mapview.Engine.ConfirmDraft: %w", err)
	}
	e.overlay = Overlay{State: OverlayIdle}
	e.log.Info("waypoint created", "waypoint_id", w.ID)
	return w, nil
}

// CancelDraft discards the open draft without any mutation: editing -> idle.
func (e *Engine) CancelDraft() error {
	e.flowMu.Lock()
	defer e.flowMu.Unlock()

	if e.overlay.State != OverlayEditing {
		return fmt.Errorf("mapview.Engine.CancelDraft: %w", domain.ErrNoPending)
	}
	e.overlay = Overlay{State: OverlayIdle}
	return nil
}

// RequestDelete opens the confirmation step for a waypoint's delete
// affordance: idle -> confirming-delete. The waypoint's marker popup is
// opened on the surface. An id that no longer exists is a no-op and the
// overlay stays idle.
func (e *Engine) RequestDelete(id string) error {
	e.flowMu.Lock()
	defer e.flowMu.Unlock()

	if e.overlay.State != OverlayIdle {
		return fmt.Errorf("mapview.Engine.RequestDelete: %w: %s", domain.ErrBusy, e.overlay.State)
	}
	w, err := e.waypoints.Get(id)
	if err != nil {
		e.log.Debug("delete requested for unknown waypoint", "waypoint_id", id)
		return nil
	}
	e.overlay = Overlay{State: OverlayConfirming, PendingDelete: &w}
	e.openPopup(w.ID)
	return nil
}

// openPopup opens the popup of the marker drawn for waypoint id.
func (e *Engine) openPopup(id string) {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	for _, r := range e.rendered {
		if r.waypointID != id {
			continue
		}
		if err := e.surface.OpenPopup(r.handle); err != nil {
			e.log.Warn("waypoint popup not opened", "waypoint_id", id, "error", err)
		}
		return
	}
}

// ConfirmDelete removes the pending waypoint, persists the set and closes
// the popup: confirming-delete -> idle. If the waypoint vanished meanwhile
// the removal is a no-op.
func (e *Engine) ConfirmDelete(ctx context.Context) error {
	e.flowMu.Lock()
	defer e.flowMu.Unlock()

	if e.overlay.State != OverlayConfirming {
		return fmt.Errorf("mapview.Engine.ConfirmDelete: %w", domain.ErrNoPending)
	}
	id := e.overlay.PendingDelete.ID
	if e.waypoints.Remove(ctx, id) {
		e.log.Info("waypoint deleted", "waypoint_id", id)
	}
	e.surface.ClosePopup()
	e.overlay = Overlay{State: OverlayIdle}
	return nil
}

// DeclineDelete abandons the pending deletion: confirming-delete -> idle.
func (e *Engine) DeclineDelete() error {
	e.flowMu.Lock()
	defer e.flowMu.Unlock()

	if e.overlay.State != OverlayConfirming {
		return fmt.Errorf("mapview.Engine.DeclineDelete: %w", domain.ErrNoPending)
	}
	e.overlay = Overlay{State: OverlayIdle}
	return nil
}

func cloneOverlay(o Overlay) Overlay {
	if o.Draft != nil {
		d := *o.Draft
		o.Draft = &d
	}
	if o.PendingDelete != nil {
		w := *o.PendingDelete
		o.PendingDelete = &w
	}
	return o
}
