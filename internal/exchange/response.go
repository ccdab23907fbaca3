package exchange

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sbinet/npyio"
)

var (
	// ErrResponseMissing reports that the renderer never produced its
	// response file.
	ErrResponseMissing = errors.New("response file missing")
	// ErrResponseMalformed reports a response payload that is not a
	// (height, width, channels) float array.
	ErrResponseMalformed = errors.New("response payload malformed")
)

// Response is the rendered image as read back from the renderer: row-major
// pixel intensities with the renderer's row order (origin at the top).
type Response struct {
	Height   int
	Width    int
	Channels int
	Pix      []float32
}

// FlipRows inverts the row order in place. The renderer's row origin differs
// from the host's image origin convention.
func (r *Response) FlipRows() {
	stride := r.Width * r.Channels
	for top, bot := 0, r.Height-1; top < bot; top, bot = top+1, bot-1 {
		a := r.Pix[top*stride : (top+1)*stride]
		b := r.Pix[bot*stride : (bot+1)*stride]
		for i := range a {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// readResponse parses the NPY array the renderer wrote at path. The format
// stays a plain typed array on purpose: no pickling, nothing renderer- or
// language-specific.
func readResponse(path string) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrResponseMissing, path)
		}
		return nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
	}
	shape := r.Header.Descr.Shape
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: want 3 dimensions, got shape %v", ErrResponseMalformed, shape)
	}
	n := shape[0] * shape[1] * shape[2]

	var pix []float32
	switch {
	case strings.HasSuffix(r.Header.Descr.Type, "f4"):
		if err := r.Read(&pix); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
		}
	case strings.HasSuffix(r.Header.Descr.Type, "f8"):
		var wide []float64
		if err := r.Read(&wide); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResponseMalformed, err)
		}
		pix = make([]float32, len(wide))
		for i, v := range wide {
			pix[i] = float32(v)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrResponseMalformed, r.Header.Descr.Type)
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrResponseMalformed, len(pix), shape)
	}
	return &Response{Height: shape[0], Width: shape[1], Channels: shape[2], Pix: pix}, nil
}
