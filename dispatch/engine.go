// Package dispatch implements the request-dispatch engine: it owns the
// kernel FUSE channel, reads and decodes request frames, resolves them
// against the node registry, invokes the matching handler method, and
// encodes and writes the reply. Everything else in this module (wire,
// registry, node, controller, ferrors) exists to be driven from here.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/strato-fs/strato/controller"
	"github.com/strato-fs/strato/internal/logging"
	"github.com/strato-fs/strato/mountpoint"
	"github.com/strato-fs/strato/node"
	"github.com/strato-fs/strato/registry"
	"github.com/strato-fs/strato/wire"
)

// defaultMaxWrite bounds the per-request buffer the engine allocates for
// reading kernel frames when the caller doesn't set Options.MaxWrite.
const defaultMaxWrite = 128 * 1024

// pageSize pads the read buffer beyond MaxWrite to leave headroom for
// request headers and argument structs.
const pageSize = 4096

// Engine owns a single mounted filesystem's kernel channel, registry and
// inode generator. The zero value is not usable; construct one with Mount.
type Engine struct {
	fd         int
	mountPoint string
	opts       mountpoint.Options

	reg  *controller.Handles
	gen  *registry.Generator
	root *node.Handle

	writeMu sync.Mutex

	readJobs chan readJob
	group    *errgroup.Group
	cancel   context.CancelFunc

	closeOnce sync.Once
}

// Mount opens the kernel FUSE session for mountPoint, registers root at
// inode 1, and invokes its Init. It does not yet read requests; call Serve
// to drive the read loop, typically from its own goroutine.
func Mount(mountPoint string, root node.Directory, opts mountpoint.Options) (*Engine, error) {
	if stale, err := mountpoint.Precheck(mountPoint); err != nil {
		logging.Warnf("mountpoint precheck for %s failed: %v", mountPoint, err)
	} else if stale {
		if err := mountpoint.Unmount(mountPoint); err != nil {
			return nil, fmt.Errorf("dispatch: clearing stale mount at %s: %w", mountPoint, err)
		}
	}

	fd, err := mountpoint.Mount(mountPoint, opts)
	if err != nil {
		return nil, fmt.Errorf("dispatch: mount %s: %w", mountPoint, err)
	}

	reg := registry.New[*node.Handle]()
	gen := registry.NewGenerator()

	rootIno := gen.Generate() // always 1: root is the first inode ever issued
	rootHandle := node.NewDirectoryHandle(rootIno, root)
	reg.Insert(rootIno, rootHandle)
	root.Init(controller.New(reg, gen, rootHandle))

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	e := &Engine{
		fd:         fd,
		mountPoint: mountPoint,
		opts:       opts,
		reg:        reg,
		gen:        gen,
		root:       rootHandle,
		readJobs:   make(chan readJob, 256),
		group:      group,
		cancel:     cancel,
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		group.Go(func() error { return e.readWorker(gctx) })
	}

	return e, nil
}

// Serve runs the kernel read loop until the kernel channel is closed (on
// unmount) or the engine is closed. Callers typically run it in its own
// goroutine and wait on it, or pair it with an errgroup.
func (e *Engine) Serve() error {
	bufSize := int(e.opts.MaxWrite)
	if bufSize <= 0 {
		bufSize = defaultMaxWrite
	}
	buf := make([]byte, bufSize+pageSize)

	for {
		n, err := unix.Read(e.fd, buf)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.ENODEV {
				// Mount point was unmounted out from under us.
				return nil
			}
			return fmt.Errorf("dispatch: reading kernel channel: %w", err)
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		e.handleFrame(frame)
	}
}

// handleFrame decodes one kernel request and, for synchronous ops,
// dispatches and replies inline on this (the callback) goroutine. Read is
// the sole op offloaded to the worker pool; see read.go.
func (e *Engine) handleFrame(frame []byte) {
	req, err := wire.Decode(frame)
	if err != nil {
		if err == wire.ErrInterrupt {
			// Not supported; the kernel does not expect a reply.
			return
		}
		// Decode already logged unknown opcodes; other decode failures
		// simply drop the request since there is no well-formed unique ID
		// to reply to.
		return
	}

	if _, ok := req.Op.(wire.ForgetOp); ok {
		// FORGET never receives a reply.
		e.dispatchForget(req)
		return
	}

	resp := e.dispatch(req)
	if resp == nil {
		// Read was handed off to the worker pool; it replies itself.
		return
	}
	e.reply(resp)
}

// reply encodes and writes resp, logging but not failing the mount on an
// encoder or write error: a single bad reply should not bring down the rest
// of the session.
func (e *Engine) reply(resp *wire.Response) {
	out, err := wire.Encode(resp)
	if err != nil {
		logging.Errorf("encoding reply for request %d: %v", resp.Unique, err)
		return
	}
	e.writeMu.Lock()
	_, werr := unix.Write(e.fd, out)
	e.writeMu.Unlock()
	if werr != nil {
		logging.Errorf("writing reply for request %d: %v", resp.Unique, werr)
	}
}

// Close tears down the engine: it cancels the read worker pool, unmounts
// the kernel channel, and waits for the workers to drain. Dropping an
// Engine without calling Close leaks the mount; application main functions
// should defer it.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		err = mountpoint.Unmount(e.mountPoint)
		e.cancel()
		close(e.readJobs)
		_ = e.group.Wait()
		unix.Close(e.fd)
	})
	return err
}

// Registry exposes the engine's registry for diagnostics and tests.
func (e *Engine) Registry() *controller.Handles { return e.reg }

// Root returns the handle registered at inode 1.
func (e *Engine) Root() *node.Handle { return e.root }
