// Package strato implements the core of a userspace filesystem framework:
// a FUSE wire protocol codec (wire), a concurrent node registry and handle
// model (registry, node, controller), a three-level POSIX error taxonomy
// (ferrors), and a request-dispatch engine (dispatch) that ties them
// together against a mounted kernel channel (mountpoint).
//
// Applications implement node.Directory and node.RegularFile to describe
// their own in-process object graph, then call dispatch.Mount to expose it
// at a mountpoint and Engine.Serve to answer the kernel's requests.
package strato
