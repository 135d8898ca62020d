package outbound

import "context"

// BinaryFetcherPort downloads a public artifact into memory, used to pull
// the generated clip and the stored speech track before muxing.
type BinaryFetcherPort interface {
	FetchBinary(ctx context.Context, url string) ([]byte, error)
}
