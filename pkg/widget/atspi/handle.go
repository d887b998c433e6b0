package atspi

import (
	"context"

	"github.com/godbus/dbus/v5"

	"github.com/zoeyai/oskemu/pkg/widget"
)

// handle is a widget.Handle backed by one node of the accessibility tree.
// Accessors serve the last snapshot; refresh re-reads it from the bus unless
// the handle is frozen.
type handle struct {
	conn   *Conn
	path   dbus.ObjectPath
	info   keyInfo
	frozen bool
}

var _ widget.Handle = (*handle)(nil)

func (h *handle) refresh() {
	if h.frozen {
		return
	}
	info, err := h.conn.readKey(context.Background(), h.path)
	if err != nil {
		// Keep serving the last snapshot; a vanished node shows up as
		// a failed press, not a panic here.
		return
	}
	h.info = info
}

func (h *handle) Kind() widget.Kind { return h.info.kind }

func (h *handle) Label() string {
	h.refresh()
	return h.info.label
}

func (h *handle) Shifted() string {
	h.refresh()
	return h.info.shifted
}

func (h *handle) Action() string {
	h.refresh()
	return h.info.action
}

func (h *handle) Rect() widget.Rect {
	h.refresh()
	return h.info.rect
}

func (h *handle) Visible() bool {
	h.refresh()
	return h.info.visible
}

func (h *handle) Enabled() bool {
	h.refresh()
	return h.info.enabled
}

// Frozen re-reads the node once and runs fn against that single snapshot.
func (h *handle) Frozen(fn func(widget.Handle) error) error {
	info, err := h.conn.readKey(context.Background(), h.path)
	if err != nil {
		return err
	}
	return fn(&handle{conn: h.conn, path: h.path, info: info, frozen: true})
}

// readKey takes a full snapshot of one key node.
func (c *Conn) readKey(ctx context.Context, path dbus.ObjectPath) (keyInfo, error) {
	attrs, err := c.readAttributes(ctx, path)
	if err != nil {
		return keyInfo{}, err
	}
	ext, err := c.readExtents(ctx, path)
	if err != nil {
		return keyInfo{}, err
	}
	states, err := c.readStateSet(ctx, path)
	if err != nil {
		return keyInfo{}, err
	}
	return decodeKeyInfo(attrs, ext, states), nil
}
