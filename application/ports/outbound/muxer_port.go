package outbound

import "context"

// MuxerPort combines an already-downloaded video clip and audio track into
// one artifact. Purely local; failures are terminal for the request.
type MuxerPort interface {
	Mux(ctx context.Context, videoBytes []byte, audioBytes []byte) ([]byte, error)
}
