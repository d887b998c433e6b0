// Package widget defines the introspection contract for on-screen keyboard
// widgets. Implementations (see the atspi subpackage) expose the live widget
// tree of the keyboard process; consumers such as pkg/keypad only see these
// interfaces and can be tested against fakes.
package widget

import "context"

// Kind identifies a widget class in the keyboard's widget tree.
type Kind string

const (
	// KindCharKey is a key that types a single character. It carries a
	// normal label and, independently, a shifted label.
	KindCharKey Kind = "CharKey"

	// KindActionKey is a control key (shift, backspace, space, return,
	// symbols, ...) identified by an action name rather than a label.
	KindActionKey Kind = "ActionKey"
)

// Query finds widgets in the live tree.
type Query interface {
	// FindByKind returns all widgets of the given kind, in tree order.
	FindByKind(ctx context.Context, kind Kind) ([]Handle, error)
}

// Handle is a single widget in the tree. Accessor values reflect the live
// widget and may change between calls while the keyboard relayouts; use
// Frozen to read a consistent set of properties.
type Handle interface {
	// Kind reports the widget class.
	Kind() Kind

	// Label is the character produced in the normal state. Empty for
	// action keys and for character keys with no normal binding.
	Label() string

	// Shifted is the character produced in the shifted state. Empty when
	// the key has no shifted binding.
	Shifted() string

	// Action is the action identifier of an action key ("shift",
	// "backspace", ...). Empty for character keys.
	Action() string

	// Rect is the widget's bounds in screen coordinates.
	Rect() Rect

	// Visible reports whether the widget is currently shown.
	Visible() bool

	// Enabled reports whether the widget currently accepts input.
	Enabled() bool

	// Frozen runs fn against a stable snapshot of this widget: automatic
	// refreshing is suspended (or the properties are captured in a single
	// read) so fn never observes a rectangle mid-layout-change.
	Frozen(fn func(Handle) error) error
}

// Container is the keypad widget that groups the keys. Visibility is read
// from the live widget on every call, never cached.
type Container interface {
	// Name is the widget's object name, used in error messages.
	Name() string

	// Visible reports whether the keypad is currently on screen.
	Visible() bool
}
