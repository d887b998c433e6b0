package atspi

import (
	"github.com/zoeyai/oskemu/pkg/widget"
)

// State bits of the accessibility state set. Only the bits the emulator
// cares about are named.
const (
	stateEnabled   = 8
	stateSensitive = 24
	stateShowing   = 25
	stateVisible   = 30
)

// stateSet is the node's 64-bit accessibility state bitset.
type stateSet struct {
	bits uint64
}

func newStateSet(words []uint32) stateSet {
	var s stateSet
	if len(words) > 0 {
		s.bits |= uint64(words[0])
	}
	if len(words) > 1 {
		s.bits |= uint64(words[1]) << 32
	}
	return s
}

func (s stateSet) has(bit uint) bool {
	return s.bits&(1<<bit) != 0
}

func (s stateSet) visible() bool {
	return s.has(stateVisible) && s.has(stateShowing)
}

func (s stateSet) enabled() bool {
	return s.has(stateEnabled) && s.has(stateSensitive)
}

// keyInfo is a snapshot of one key node.
type keyInfo struct {
	kind    widget.Kind
	label   string
	shifted string
	action  string
	rect    widget.Rect
	visible bool
	enabled bool
}

// kindFromClass maps the node's class attribute to a widget kind. Nodes
// that are not keys map to the empty kind.
func kindFromClass(class string) widget.Kind {
	switch widget.Kind(class) {
	case widget.KindCharKey:
		return widget.KindCharKey
	case widget.KindActionKey:
		return widget.KindActionKey
	default:
		return ""
	}
}

// decodeKeyInfo assembles a key snapshot from the raw reads of one node.
func decodeKeyInfo(attrs map[string]string, ext extents, states stateSet) keyInfo {
	return keyInfo{
		kind:    kindFromClass(attrs[attrClass]),
		label:   attrs[attrLabel],
		shifted: attrs[attrShifted],
		action:  attrs[attrAction],
		rect: widget.Rect{
			X:      int(ext.X),
			Y:      int(ext.Y),
			Width:  int(ext.Width),
			Height: int(ext.Height),
		},
		visible: states.visible(),
		enabled: states.enabled(),
	}
}
