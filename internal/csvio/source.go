package csvio

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenSource opens path for a single sequential read pass and advises the
// kernel accordingly. The fadvise hint is best effort; filesystems that
// ignore it are fine.
func OpenSource(ctx context.Context, path string) (*os.File, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	return f, nil
}
