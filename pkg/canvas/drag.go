package canvas

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/palette"
)

// DragState is the state of the drag-and-drop machine.
type DragState int

const (
	DragIdle DragState = iota
	DragOverCanvas
	DragOverZone
)

func (s DragState) String() string {
	switch s {
	case DragOverCanvas:
		return "dragging-over-canvas"
	case DragOverZone:
		return "dragging-over-zone"
	default:
		return "idle"
	}
}

// Drag is the machine state; Zone is meaningful only in DragOverZone.
type Drag struct {
	State DragState `json:"state"`
	Zone  int       `json:"zone"`
}

// TargetKind classifies the element a pointer event refers to.
type TargetKind int

const (
	TargetOutside TargetKind = iota
	TargetCanvas
	TargetZone
	TargetWidget
	TargetField
)

// Target is a pointer-event target. Anything other than TargetOutside lies
// inside the canvas subtree.
type Target struct {
	Kind     TargetKind `json:"kind"`
	Zone     int        `json:"zone,omitempty"`
	WidgetID string     `json:"widgetId,omitempty"`
	FieldID  string     `json:"fieldId,omitempty"`
}

// Inside reports whether the target is within the canvas subtree.
func (t Target) Inside() bool { return t.Kind != TargetOutside }

// Convenience constructors.
var (
	Outside    = Target{Kind: TargetOutside}
	Background = Target{Kind: TargetCanvas}
)

// Zone returns the drop zone target at index k.
func Zone(k int) Target { return Target{Kind: TargetZone, Zone: k} }

// DragState returns the machine state.
func (c *Canvas) DragState() Drag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag
}

// DragEnter moves the machine onto target. Drag events are ignored outside
// design mode.
func (c *Canvas) DragEnter(target Target) {
	c.moveDrag(target)
}

// DragOver tracks the pointer across zones while dragging.
func (c *Canvas) DragOver(target Target) {
	c.moveDrag(target)
}

// DragLeave handles a leave event whose related target is the element the
// pointer moved into. Moving between elements of the canvas keeps the drag
// alive; only leaving the canvas subtree returns to idle.
func (c *Canvas) DragLeave(related Target) {
	if related.Inside() {
		c.moveDrag(related)
		return
	}
	c.setDrag(Drag{})
}

func (c *Canvas) moveDrag(target Target) {
	next := Drag{}
	switch target.Kind {
	case TargetOutside:
		return
	case TargetZone:
		next = Drag{State: DragOverZone, Zone: target.Zone}
	default:
		next = Drag{State: DragOverCanvas}
	}
	c.setDrag(next)
}

func (c *Canvas) setDrag(next Drag) {
	c.mu.Lock()
	if c.mode != model.ModeDesign || c.drag == next {
		c.mu.Unlock()
		return
	}
	c.drag = next
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeDrag})
}

// Drop decodes the payload and adds the widget it describes. A drop on a
// zone inserts at that zone's index; anywhere else inside the canvas
// appends. Malformed payloads are logged and ignored. The machine always
// returns to idle.
func (c *Canvas) Drop(transfer palette.Transfer, target Target) (model.Widget, error) {
	defer c.setDrag(Drag{})
	if c.Mode() != model.ModeDesign {
		return model.Widget{}, ErrNotDesignMode
	}
	entry, err := palette.Decode(transfer)
	if err != nil {
		c.logger.Warn("ignoring drop", "error", err)
		return model.Widget{}, err
	}
	var zone *int
	if target.Kind == TargetZone {
		k := target.Zone
		zone = &k
	}
	return c.AddWidget(entry.Add(zone))
}

// AddWidget builds a widget from the command's entry and inserts it at the
// command's zone, or appends when no zone is set.
func (c *Canvas) AddWidget(cmd palette.AddWidget) (model.Widget, error) {
	c.mu.Lock()
	if c.mode != model.ModeDesign {
		c.mu.Unlock()
		return model.Widget{}, ErrNotDesignMode
	}
	widget := cmd.Entry.Instantiate(c.ids)
	widgets := c.design.Widgets
	at := len(widgets)
	if cmd.Zone != nil {
		at = clampIndex(*cmd.Zone, len(widgets))
	}
	widgets = append(widgets, model.Widget{})
	copy(widgets[at+1:], widgets[at:])
	widgets[at] = widget
	model.ReindexWidgets(widgets)
	c.design.Widgets = widgets
	if c.session != nil {
		for _, field := range widget.Fields {
			c.session.seed(field)
		}
	}
	c.touch()
	added := model.CloneWidget(widgets[at])
	c.mu.Unlock()

	c.logger.Debug("widget added", "widget", added.ID, "entry", cmd.Entry.ID, "index", at)
	c.notify(Change{Kind: ChangeDesign, WidgetID: added.ID})
	return added, nil
}

func clampIndex(k, n int) int {
	if k < 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}

// IsMalformed reports whether err came from an undecodable drag payload.
func IsMalformed(err error) bool {
	return errors.Is(err, palette.ErrMalformedPayload)
}

func notFound(base error, id string) error {
	return fmt.Errorf("%w: %s", base, id)
}
