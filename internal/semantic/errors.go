package semantic

import "errors"

var (
	// ErrNotConnected is returned by every query/store operation while the
	// coordinator is disconnected.
	ErrNotConnected = errors.New("semantic search not connected")

	// ErrStoreUnavailable is returned by Connect when the backing vector
	// store cannot be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrStoreWrite marks a failed vector store write.
	ErrStoreWrite = errors.New("vector store write failed")

	// ErrEmbedding marks a failed embedding call.
	ErrEmbedding = errors.New("embedding failed")
)
