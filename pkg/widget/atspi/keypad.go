package atspi

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/zoeyai/oskemu/pkg/keypad"
	"github.com/zoeyai/oskemu/pkg/widget"
)

// classKeyPad is the class attribute of the keypad container node.
const classKeyPad = "KeyPad"

// Keypad is the keypad container node. It serves key queries scoped to its
// own subtree and exposes the container visibility and shift state, so one
// value satisfies widget.Query, widget.Container and keypad.StateSource.
type Keypad struct {
	conn *Conn
	path dbus.ObjectPath
	name string
}

var (
	_ widget.Query       = (*Keypad)(nil)
	_ widget.Container   = (*Keypad)(nil)
	_ keypad.StateSource = (*Keypad)(nil)
)

// Keypad locates the keypad container in the keyboard's tree. An empty name
// matches the first keypad found.
func (c *Conn) Keypad(ctx context.Context, name string) (*Keypad, error) {
	var found *Keypad
	err := c.walk(ctx, rootPath, func(path dbus.ObjectPath, attrs map[string]string) (bool, error) {
		if attrs[attrClass] != classKeyPad {
			return true, nil
		}
		if name != "" && attrs[attrName] != name {
			return true, nil
		}
		found = &Keypad{conn: c, path: path, name: attrs[attrName]}
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching for keypad: %w", err)
	}
	if found == nil {
		if name == "" {
			return nil, fmt.Errorf("no keypad in widget tree of %s", c.opts.Service)
		}
		return nil, fmt.Errorf("no keypad named %q in widget tree of %s", name, c.opts.Service)
	}
	return found, nil
}

// Name returns the keypad's name attribute.
func (k *Keypad) Name() string {
	return k.name
}

// Visible reports whether the keypad container is currently shown.
func (k *Keypad) Visible() bool {
	states, err := k.conn.readStateSet(context.Background(), k.path)
	if err != nil {
		return false
	}
	return states.visible()
}

// FindByKind lists all keys of the given kind under the keypad container.
func (k *Keypad) FindByKind(ctx context.Context, kind widget.Kind) ([]widget.Handle, error) {
	var handles []widget.Handle
	err := k.conn.walk(ctx, k.path, func(path dbus.ObjectPath, attrs map[string]string) (bool, error) {
		if kindFromClass(attrs[attrClass]) != kind {
			return true, nil
		}
		info, err := k.conn.readKey(ctx, path)
		if err != nil {
			return false, err
		}
		handles = append(handles, &handle{conn: k.conn, path: path, info: info})
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying %s widgets: %w", kind, err)
	}
	return handles, nil
}

// State reads the keypad's current shift state.
func (k *Keypad) State() (keypad.State, error) {
	attrs, err := k.conn.readAttributes(context.Background(), k.path)
	if err != nil {
		return "", err
	}
	state, err := keypad.ParseState(attrs[attrState])
	if err != nil {
		return "", fmt.Errorf("keypad %s: %w", k.path, err)
	}
	return state, nil
}

// WaitForState polls until the keypad reports the target state. The caller's
// context bounds the wait; a configured StateWaitTimeout tightens it.
func (k *Keypad) WaitForState(ctx context.Context, target keypad.State) error {
	if k.conn.opts.StateWaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.conn.opts.StateWaitTimeout)
		defer cancel()
	}

	for {
		current, err := k.State()
		if err != nil {
			return err
		}
		if current == target {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for keypad state %s: %w", target, ctx.Err())
		case <-time.After(k.conn.opts.PollInterval):
		}
	}
}
