package exchange

import (
	"fmt"
	"os"

	"viewsynth/internal/logging"
	"viewsynth/internal/transform"
)

// Channel is the two-file exchange for one renderer invocation. The request
// file is fully written and synced before the process is started; the
// response file is only read after the process has exited.
type Channel struct {
	req  *File
	resp *File
}

// Open creates the request and response files with the given strategy. The
// paths are stable for the invocation's lifetime and safe to hand to a
// separately spawned process.
func Open(s Strategy) (*Channel, error) {
	req, err := s.Create("viewsynth-req-*.json")
	if err != nil {
		return nil, fmt.Errorf("create request file: %w", err)
	}
	resp, err := s.Create("viewsynth-resp-*.npy")
	if err != nil {
		_ = req.Release()
		return nil, fmt.Errorf("create response file: %w", err)
	}
	return &Channel{req: req, resp: resp}, nil
}

func (c *Channel) RequestPath() string  { return c.req.Path() }
func (c *Channel) ResponsePath() string { return c.resp.Path() }

// WriteRequest serializes r into the request file and syncs it to disk.
func (c *Channel) WriteRequest(r *transform.Request) error {
	f, err := os.OpenFile(c.req.Path(), os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open request file: %w", err)
	}
	defer f.Close()
	if err := EncodeRequest(f, r); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync request file: %w", err)
	}
	return nil
}

// ReadResponse parses the array the renderer wrote. Call only after the
// process has exited successfully.
func (c *Channel) ReadResponse() (*Response, error) {
	return readResponse(c.resp.Path())
}

// Close releases both files. It is idempotent and never returns an error:
// cleanup failures are logged so they cannot mask the invocation's root
// cause.
func (c *Channel) Close() {
	if err := c.req.Release(); err != nil {
		logging.L().Warn("request file cleanup failed", "path", c.req.Path(), "err", err)
	}
	if err := c.resp.Release(); err != nil {
		logging.L().Warn("response file cleanup failed", "path", c.resp.Path(), "err", err)
	}
}
