// Package controller implements the per-call context object handed to user
// handlers: caller identity lives in node.Request, while Controller carries
// the registry, inode generator, and the handle currently being serviced.
package controller

import (
	"github.com/strato-fs/strato/node"
	"github.com/strato-fs/strato/registry"
)

// Handles is the concrete registry type threaded through the dispatch
// engine and every Controller.
type Handles = registry.Registry[*node.Handle]

// Controller is the context object passed to Init, and the mechanism by
// which handlers register children. Controller clones share the registry
// and inode generator by pointer; only the handle field changes between
// the parent and the freshly derived child controller.
type Controller struct {
	reg    *Handles
	gen    *registry.Generator
	handle *node.Handle
}

// New builds a controller bound to handle, sharing reg and gen.
func New(reg *Handles, gen *registry.Generator, handle *node.Handle) *Controller {
	return &Controller{reg: reg, gen: gen, handle: handle}
}

// Handle returns the handle of the node being initialized or serviced.
func (c *Controller) Handle() *node.Handle { return c.handle }

// AddFile mints an inode, wraps f as a Handle, inserts it into the
// registry, and invokes f.Init with a freshly derived controller bound to
// the new handle.
func (c *Controller) AddFile(f node.RegularFile) *node.Handle {
	ino := c.gen.Generate()
	h := node.NewRegularFileHandle(ino, f)
	c.reg.Insert(ino, h)
	f.Init(New(c.reg, c.gen, h))
	return h
}

// AddDirectory mints an inode, wraps d as a Handle, inserts it into the
// registry, and invokes d.Init with a freshly derived controller bound to
// the new handle.
func (c *Controller) AddDirectory(d node.Directory) *node.Handle {
	ino := c.gen.Generate()
	h := node.NewDirectoryHandle(ino, d)
	c.reg.Insert(ino, h)
	d.Init(New(c.reg, c.gen, h))
	return h
}

// ExistingEntry builds a directory entry referencing an already-registered
// handle without minting a new inode — the mechanism hard-link-style
// entries need, so that two names in a tree can resolve to the same
// underlying node.
func (c *Controller) ExistingEntry(name string, h *node.Handle) node.Entry {
	return node.NewEntry(name, h)
}

var _ node.Controller = (*Controller)(nil)
