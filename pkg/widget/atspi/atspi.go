// Package atspi implements the widget introspection contract on top of the
// accessibility bus. The on-screen keyboard exports its widget tree through
// AT-SPI style interfaces; this package walks that tree, maps nodes to
// widget.Handle values and exposes the keypad container as a widget.Query,
// widget.Container and keypad.StateSource in one object.
package atspi

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// D-Bus interfaces exported by the keyboard's accessibility tree.
const (
	ifaceAccessible = "org.a11y.atspi.Accessible"
	ifaceComponent  = "org.a11y.atspi.Component"

	a11yBusName   = "org.a11y.Bus"
	a11yBusPath   = "/org/a11y/bus"
	a11yBusMethod = "org.a11y.Bus.GetAddress"

	rootPath = dbus.ObjectPath("/org/a11y/atspi/accessible/root")
)

// Attribute keys published per node.
const (
	attrClass   = "class"
	attrName    = "name"
	attrLabel   = "label"
	attrShifted = "shifted"
	attrAction  = "action"
	attrState   = "state"
)

// DefaultService is the well-known bus name of the keyboard server.
const DefaultService = "org.maliit.server"

// DefaultPollInterval is the interval used when polling the keypad state.
const DefaultPollInterval = 100 * time.Millisecond

// maxTreeDepth bounds the tree walk; keyboard trees are shallow.
const maxTreeDepth = 16

// Options configures a connection to the keyboard's accessibility tree.
type Options struct {
	// BusAddress is the accessibility bus address. Empty means: discover
	// it from the session bus via org.a11y.Bus.GetAddress.
	BusAddress string

	// Service is the keyboard's well-known bus name. Empty means
	// DefaultService.
	Service string

	// PollInterval is the keypad state poll interval. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration

	// StateWaitTimeout bounds WaitForState. Zero means: no extra bound,
	// the caller's context decides.
	StateWaitTimeout time.Duration
}

func (o *Options) withDefaults() Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.Service == "" {
		out.Service = DefaultService
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	return out
}

// Conn is a connection to the keyboard's accessibility tree.
type Conn struct {
	bus  *dbus.Conn
	opts Options
}

// Connect opens the accessibility bus and verifies the keyboard service is
// reachable.
func Connect(ctx context.Context, opts *Options) (*Conn, error) {
	o := opts.withDefaults()

	addr := o.BusAddress
	if addr == "" {
		discovered, err := discoverBusAddress(ctx)
		if err != nil {
			return nil, err
		}
		addr = discovered
	}

	bus, err := dbus.Connect(addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to accessibility bus %q: %w", addr, err)
	}

	c := &Conn{bus: bus, opts: o}

	// Fail early when the keyboard is not on the bus.
	if _, err := c.readAttributes(ctx, rootPath); err != nil {
		bus.Close()
		return nil, fmt.Errorf("keyboard service %q not reachable: %w", o.Service, err)
	}

	return c, nil
}

// Close closes the bus connection.
func (c *Conn) Close() error {
	return c.bus.Close()
}

// discoverBusAddress asks the session bus for the accessibility bus address.
func discoverBusAddress(ctx context.Context) (string, error) {
	session, err := dbus.SessionBus()
	if err != nil {
		return "", fmt.Errorf("connecting to session bus: %w", err)
	}

	var addr string
	obj := session.Object(a11yBusName, a11yBusPath)
	if err := obj.CallWithContext(ctx, a11yBusMethod, 0).Store(&addr); err != nil {
		return "", fmt.Errorf("querying accessibility bus address: %w", err)
	}
	if addr == "" {
		return "", fmt.Errorf("accessibility bus address is empty")
	}
	return addr, nil
}

// objectRef is how the tree refers to another node: owning service + path.
type objectRef struct {
	Service string
	Path    dbus.ObjectPath
}

// extents mirrors the (iiii) return of Component.GetExtents.
type extents struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// readAttributes reads the node's attribute map.
func (c *Conn) readAttributes(ctx context.Context, path dbus.ObjectPath) (map[string]string, error) {
	var attrs map[string]string
	obj := c.bus.Object(c.opts.Service, path)
	if err := obj.CallWithContext(ctx, ifaceAccessible+".GetAttributes", 0).Store(&attrs); err != nil {
		return nil, fmt.Errorf("reading attributes of %s: %w", path, err)
	}
	return attrs, nil
}

// readExtents reads the node's screen-coordinate bounds.
func (c *Conn) readExtents(ctx context.Context, path dbus.ObjectPath) (extents, error) {
	var ext extents
	obj := c.bus.Object(c.opts.Service, path)
	// coordinate type 0 = screen coordinates
	if err := obj.CallWithContext(ctx, ifaceComponent+".GetExtents", 0, uint32(0)).Store(&ext); err != nil {
		return extents{}, fmt.Errorf("reading extents of %s: %w", path, err)
	}
	return ext, nil
}

// readStateSet reads the node's state bitset (two 32-bit words).
func (c *Conn) readStateSet(ctx context.Context, path dbus.ObjectPath) (stateSet, error) {
	var words []uint32
	obj := c.bus.Object(c.opts.Service, path)
	if err := obj.CallWithContext(ctx, ifaceAccessible+".GetState", 0).Store(&words); err != nil {
		return stateSet{}, fmt.Errorf("reading state set of %s: %w", path, err)
	}
	return newStateSet(words), nil
}

// children lists the node's direct children.
func (c *Conn) children(ctx context.Context, path dbus.ObjectPath) ([]objectRef, error) {
	var refs []objectRef
	obj := c.bus.Object(c.opts.Service, path)
	if err := obj.CallWithContext(ctx, ifaceAccessible+".GetChildren", 0).Store(&refs); err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", path, err)
	}
	return refs, nil
}

// walk visits every node under root in tree order until visit returns false.
func (c *Conn) walk(ctx context.Context, root dbus.ObjectPath, visit func(path dbus.ObjectPath, attrs map[string]string) (bool, error)) error {
	return c.walkDepth(ctx, root, 0, visit)
}

func (c *Conn) walkDepth(ctx context.Context, path dbus.ObjectPath, depth int, visit func(path dbus.ObjectPath, attrs map[string]string) (bool, error)) error {
	if depth > maxTreeDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	attrs, err := c.readAttributes(ctx, path)
	if err != nil {
		return err
	}

	cont, err := visit(path, attrs)
	if err != nil {
		return err
	}
	if !cont {
		return nil
	}

	refs, err := c.children(ctx, path)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := c.walkDepth(ctx, ref.Path, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}
