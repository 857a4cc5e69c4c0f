package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-formdesigner/pkg/canvas"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/panel"
)

// Session-level message types handled by the server rather than the canvas.
const (
	msgSave         = "save"
	msgUpdateField  = "updateField"
	msgUpdateWidget = "updateWidget"
	msgSetBinding   = "setBinding"
	msgSync         = "sync"
)

// stateMessage is pushed to the client after every command.
type stateMessage struct {
	Type      string           `json:"type"`
	Changes   []canvas.Change  `json:"changes,omitempty"`
	Design    *model.Design    `json:"design,omitempty"`
	Mode      model.Mode       `json:"mode"`
	Selection canvas.Selection `json:"selection"`
	Drag      canvas.Drag      `json:"drag"`
	Session   *canvas.Session  `json:"session,omitempty"`
	Panel     panel.View       `json:"panel"`
	Error     string           `json:"error,omitempty"`
}

type bindingPayload struct {
	Model    string `json:"model,omitempty"`
	Property string `json:"property,omitempty"`
}

type canvasSession struct {
	srv     *Server
	conn    *websocket.Conn
	canvas  *canvas.Canvas
	panel   *panel.Panel
	changes []canvas.Change
}

// handleCanvas upgrades to a websocket and drives a canvas for the design.
// Each inbound message is a command envelope; each reply is a state
// snapshot, or an error message when the command failed.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	design, err := s.orch.Resolve(r.Context(), chi.URLParam(r, "id"), nil)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	s.metrics.sessions.Inc()
	defer s.metrics.sessions.Dec()

	logger := s.logger.Named("canvas").With("design", design.ID)
	c := canvas.New(
		canvas.WithDesign(design),
		canvas.WithLogger(logger),
		canvas.WithValidator(s.orch.Validator()),
	)
	panelOpts := []panel.Option{panel.WithLogger(logger)}
	if s.models != nil {
		panelOpts = append(panelOpts, panel.WithModels(s.models))
	}
	sess := &canvasSession{srv: s, conn: conn, canvas: c, panel: panel.New(c, panelOpts...)}
	stop := c.OnChange(func(change canvas.Change) {
		sess.changes = append(sess.changes, change)
	})
	defer stop()

	ctx := r.Context()
	if err := sess.push(ctx, true, nil); err != nil {
		return
	}
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				logger.Debug("session closed", "status", status)
			}
			return
		}
		sess.changes = sess.changes[:0]
		kind, err := sess.handle(ctx, data)
		outcome := "ok"
		if err != nil {
			outcome = "error"
			logger.Debug("command failed", "type", kind, "error", err)
		}
		s.metrics.commands.WithLabelValues(kind, outcome).Inc()
		if err := sess.push(ctx, kind == msgSync, err); err != nil {
			return
		}
	}
}

func (cs *canvasSession) handle(ctx context.Context, data []byte) (string, error) {
	var env canvas.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "invalid", err
	}
	switch env.Type {
	case msgSync:
		return env.Type, nil
	case msgSave:
		store := cs.srv.orch.Store()
		if store == nil {
			return env.Type, errors.New("server: no design store configured")
		}
		saved, err := store.Save(ctx, cs.canvas.Design())
		if err != nil {
			return env.Type, err
		}
		cs.srv.logger.Info("design saved from canvas", "design", saved.ID)
		return env.Type, nil
	case msgUpdateField:
		var patch model.FieldPatch
		if err := decodePayload(env.Payload, &patch); err != nil {
			return env.Type, err
		}
		return env.Type, cs.panel.UpdateField(patch)
	case msgUpdateWidget:
		var patch model.WidgetPatch
		if err := decodePayload(env.Payload, &patch); err != nil {
			return env.Type, err
		}
		return env.Type, cs.panel.UpdateWidget(patch)
	case msgSetBinding:
		var p bindingPayload
		if err := decodePayload(env.Payload, &p); err != nil {
			return env.Type, err
		}
		if p.Property != "" {
			return env.Type, cs.panel.SetFieldBinding(p.Property)
		}
		return env.Type, cs.panel.SetWidgetBinding(p.Model)
	}

	cmd, err := canvas.DecodeCommand(data, cs.srv.palette)
	if err != nil {
		return env.Type, err
	}
	if _, ok := cmd.(canvas.SubmitCommand); ok {
		design := cs.canvas.Design()
		cmd = canvas.SubmitCommand{OnSubmit: func(values model.Values) error {
			return cs.srv.submit(ctx, design, values)
		}}
	}
	return env.Type, cs.canvas.Dispatch(cmd)
}

// push sends a state snapshot. The design is included on the first push,
// on sync, and whenever the design changed.
func (cs *canvasSession) push(ctx context.Context, full bool, cmdErr error) error {
	msg := stateMessage{
		Type:      "state",
		Changes:   append([]canvas.Change{}, cs.changes...),
		Mode:      cs.canvas.Mode(),
		Selection: cs.canvas.Selection(),
		Drag:      cs.canvas.DragState(),
		Panel:     cs.panel.View(),
	}
	if cmdErr != nil {
		msg.Type = "error"
		msg.Error = cmdErr.Error()
	}
	if full || changed(cs.changes, canvas.ChangeDesign) {
		design := cs.canvas.Design()
		msg.Design = &design
	}
	if msg.Mode != model.ModeDesign {
		session := cs.canvas.Session()
		msg.Session = &session
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return cs.conn.Write(ctx, websocket.MessageText, data)
}

func changed(changes []canvas.Change, kind canvas.ChangeKind) bool {
	for _, change := range changes {
		if change.Kind == kind {
			return true
		}
	}
	return false
}

func decodePayload(raw jsoniter.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("server: payload is required")
	}
	return json.Unmarshal(raw, v)
}
