package canvas

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/goliatone/go-formdesigner/pkg/controls"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/palette"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Commands accepted by Dispatch. palette.AddWidget is accepted as well.
type (
	DragEnterCommand struct {
		Target Target `json:"target"`
	}
	DragOverCommand struct {
		Target Target `json:"target"`
	}
	DragLeaveCommand struct {
		Related Target `json:"related"`
	}
	DropCommand struct {
		Transfer palette.Transfer `json:"transfer"`
		Target   Target           `json:"target"`
	}
	SelectWidgetCommand struct {
		WidgetID string `json:"widgetId"`
	}
	SelectFieldCommand struct {
		FieldID string `json:"fieldId"`
	}
	ClearSelectionCommand struct{}
	DuplicateCommand      struct {
		WidgetID string `json:"widgetId"`
	}
	DeleteWidgetCommand struct {
		WidgetID string `json:"widgetId"`
	}
	DeleteFieldCommand struct {
		FieldID string `json:"fieldId"`
	}
	MoveWidgetCommand struct {
		WidgetID string `json:"widgetId"`
		To       *int   `json:"to,omitempty"`
		Delta    int    `json:"delta,omitempty"`
	}
	MoveFieldCommand struct {
		FieldID string `json:"fieldId"`
		To      int    `json:"to"`
	}
	AddFieldCommand struct {
		WidgetID string          `json:"widgetId"`
		Type     model.FieldType `json:"type"`
	}
	SetModeCommand struct {
		Mode model.Mode `json:"mode"`
	}
	SetValueCommand struct {
		FieldID string `json:"fieldId"`
		Value   any    `json:"value"`
	}
	InteractCommand struct {
		FieldID string         `json:"fieldId"`
		Event   controls.Event `json:"event"`
	}
	SubmitCommand struct {
		OnSubmit SubmitFunc `json:"-"`
	}
	LoadCommand struct {
		Design model.Design `json:"design"`
	}
	ResetCommand struct{}
)

// Dispatch applies a single command.
func (c *Canvas) Dispatch(cmd any) error {
	var err error
	switch cmd := cmd.(type) {
	case palette.AddWidget:
		_, err = c.AddWidget(cmd)
	case *palette.AddWidget:
		_, err = c.AddWidget(*cmd)
	case DragEnterCommand:
		c.DragEnter(cmd.Target)
	case DragOverCommand:
		c.DragOver(cmd.Target)
	case DragLeaveCommand:
		c.DragLeave(cmd.Related)
	case DropCommand:
		_, err = c.Drop(cmd.Transfer, cmd.Target)
	case SelectWidgetCommand:
		err = c.SelectWidget(cmd.WidgetID)
	case SelectFieldCommand:
		err = c.SelectField(cmd.FieldID)
	case ClearSelectionCommand:
		c.ClearSelection()
	case DuplicateCommand:
		_, err = c.Duplicate(cmd.WidgetID)
	case DeleteWidgetCommand:
		err = c.DeleteWidget(cmd.WidgetID)
	case DeleteFieldCommand:
		err = c.DeleteField(cmd.FieldID)
	case MoveWidgetCommand:
		if cmd.To != nil {
			err = c.MoveWidget(cmd.WidgetID, *cmd.To)
		} else {
			err = c.MoveWidgetBy(cmd.WidgetID, cmd.Delta)
		}
	case MoveFieldCommand:
		err = c.MoveField(cmd.FieldID, cmd.To)
	case AddFieldCommand:
		_, err = c.AddField(cmd.WidgetID, cmd.Type)
	case SetModeCommand:
		c.SetMode(cmd.Mode)
	case SetValueCommand:
		_, err = c.SetValue(cmd.FieldID, cmd.Value)
	case InteractCommand:
		_, err = c.Interact(cmd.FieldID, cmd.Event)
	case SubmitCommand:
		_, err = c.Submit(cmd.OnSubmit)
	case LoadCommand:
		c.Load(cmd.Design)
	case ResetCommand:
		c.ResetSession()
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	return err
}

// Run dispatches commands until ctx is done or cmds is closed. Command
// errors are passed to onError when set and otherwise logged.
func (c *Canvas) Run(ctx context.Context, cmds <-chan any, onError func(cmd any, err error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			if err := c.Dispatch(cmd); err != nil {
				if onError != nil {
					onError(cmd, err)
					continue
				}
				c.logger.Warn("command failed", "command", fmt.Sprintf("%T", cmd), "error", err)
			}
		}
	}
}

// Envelope is the wire form of a command: a type tag and a JSON payload.
type Envelope struct {
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

type addEntryPayload struct {
	Entry string `json:"entry"`
	Zone  *int   `json:"zone,omitempty"`
}

// DecodeCommand turns a wire envelope into a command value. The catalog
// resolves "addWidget" entry ids.
func DecodeCommand(data []byte, catalog *palette.Catalog) (any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("canvas: decode envelope: %w", err)
	}
	decode := func(v any) (any, error) {
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, v); err != nil {
				return nil, fmt.Errorf("canvas: decode %s: %w", env.Type, err)
			}
		}
		return v, nil
	}
	deref := func(v any, err error) (any, error) {
		if err != nil {
			return nil, err
		}
		return derefCommand(v), nil
	}

	switch env.Type {
	case "addWidget":
		var p addEntryPayload
		if _, err := decode(&p); err != nil {
			return nil, err
		}
		if catalog == nil {
			return nil, fmt.Errorf("%w: no catalog for %q", palette.ErrUnknownEntry, p.Entry)
		}
		entry, err := catalog.Get(p.Entry)
		if err != nil {
			return nil, err
		}
		return entry.Add(p.Zone), nil
	case "dragEnter":
		return deref(decode(&DragEnterCommand{}))
	case "dragOver":
		return deref(decode(&DragOverCommand{}))
	case "dragLeave":
		return deref(decode(&DragLeaveCommand{}))
	case "drop":
		return deref(decode(&DropCommand{}))
	case "selectWidget":
		return deref(decode(&SelectWidgetCommand{}))
	case "selectField":
		return deref(decode(&SelectFieldCommand{}))
	case "clearSelection":
		return ClearSelectionCommand{}, nil
	case "duplicate":
		return deref(decode(&DuplicateCommand{}))
	case "deleteWidget":
		return deref(decode(&DeleteWidgetCommand{}))
	case "deleteField":
		return deref(decode(&DeleteFieldCommand{}))
	case "moveWidget":
		return deref(decode(&MoveWidgetCommand{}))
	case "moveField":
		return deref(decode(&MoveFieldCommand{}))
	case "addField":
		return deref(decode(&AddFieldCommand{}))
	case "setMode":
		return deref(decode(&SetModeCommand{}))
	case "setValue":
		return deref(decode(&SetValueCommand{}))
	case "interact":
		return deref(decode(&InteractCommand{}))
	case "submit":
		return SubmitCommand{}, nil
	case "load":
		return deref(decode(&LoadCommand{}))
	case "reset":
		return ResetCommand{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, env.Type)
	}
}

func derefCommand(v any) any {
	switch cmd := v.(type) {
	case *DragEnterCommand:
		return *cmd
	case *DragOverCommand:
		return *cmd
	case *DragLeaveCommand:
		return *cmd
	case *DropCommand:
		return *cmd
	case *SelectWidgetCommand:
		return *cmd
	case *SelectFieldCommand:
		return *cmd
	case *DuplicateCommand:
		return *cmd
	case *DeleteWidgetCommand:
		return *cmd
	case *DeleteFieldCommand:
		return *cmd
	case *MoveWidgetCommand:
		return *cmd
	case *MoveFieldCommand:
		return *cmd
	case *AddFieldCommand:
		return *cmd
	case *SetModeCommand:
		return *cmd
	case *SetValueCommand:
		return *cmd
	case *InteractCommand:
		return *cmd
	case *LoadCommand:
		return *cmd
	}
	return v
}
