package dispatch

import (
	"context"

	"github.com/strato-fs/strato/ferrors"
	"github.com/strato-fs/strato/node"
	"github.com/strato-fs/strato/wire"
)

// readJob is the event packaged by the Read opcode handler and consumed by
// a worker goroutine. The handle's write lock is already released by the
// time a job is enqueued; the worker only holds a reference to the handler
// object itself.
type readJob struct {
	unique uint64
	req    node.Request
	file   node.RegularFile
	offset uint64
	size   uint32
}

// enqueueRead hands a read off to the worker pool. The channel is large but
// bounded (engine.go sizes it at construction) and the pool is sized to
// GOMAXPROCS, since the handle's write lock being released before the job
// is queued already prevents a slow reader from stalling other inodes.
func (e *Engine) enqueueRead(job readJob) {
	e.readJobs <- job
}

// readWorker is one of the engine's read-offload goroutines. It loops
// until readJobs is closed (by Close) or ctx is done, invoking each
// handler's Read, slicing the result to the caller's offset and size, and
// writing the reply — all without ever touching the kernel callback
// goroutine running Serve.
func (e *Engine) readWorker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job, ok := <-e.readJobs:
			if !ok {
				return nil
			}
			e.serveRead(job)
		}
	}
}

func (e *Engine) serveRead(job readJob) {
	data, err := job.file.Read(job.req)
	if err != nil {
		e.reply(errReply(job.unique, ferrors.Errno(err)))
		return
	}

	sliced := sliceRead(data, job.offset, job.size)
	e.reply(&wire.Response{Unique: job.unique, Body: wire.DataBody{Data: sliced}})
}

// sliceRead slices the handler's returned bytes at the caller's offset,
// then truncates to the caller's requested size.
func sliceRead(data []byte, offset uint64, size uint32) []byte {
	if offset >= uint64(len(data)) {
		return nil
	}
	rest := data[offset:]
	if uint64(len(rest)) > uint64(size) {
		rest = rest[:size]
	}
	return rest
}
