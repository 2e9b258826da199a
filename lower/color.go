package lower

import (
	"fmt"

	"github.com/ajroetker/fusekernel/ir"
)

// CvtColor validates a color-conversion op against in and reports the
// Format it selects. Per spec.md §4.C, the conversion itself emits no
// fused IR when it already matches the target format: cvtColor only
// selects which per-format kernel symbol the runtime assembler will
// dispatch to, so in is returned unchanged.
func CvtColor(in *ir.TensorVar, format Format) (*ir.TensorVar, error) {
	if format.Channels() == 0 {
		return nil, &Error{Op: "CvtColor", Err: fmt.Errorf("unrecognized format %v", format)}
	}
	// NV12/NV21 sources are packed planar YUV and don't carry a channel
	// axis shaped like BGR/RGB/GRAY/BGRA; the decode to a 3-channel plane
	// is the per-format kernel's job, not a tensor this lowering builds.
	if format == NV12 || format == NV21 {
		return in, nil
	}
	if in.Rank() != 3 {
		return nil, &Error{Op: "CvtColor", Err: fmt.Errorf("input must be rank 3 (H,W,C), got rank %d", in.Rank())}
	}
	return in, nil
}
