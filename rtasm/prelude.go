// Package rtasm assembles the per-op kernels a codegen.Backend produces
// into one standalone translation unit, adding the fixed prelude, the
// bilinear precompute helpers, and the format/interpolation dispatcher
// (FuseKernel / FuseKernelCU) described in spec.md §4.F-§4.H. Nothing
// here depends on the tensor IR: it operates purely on C/CUDA source
// text, the same way the runtime this was grounded on hands generated
// kernel bodies to a fixed Runtime.hpp scaffold.
package rtasm

// prelude is emitted once at the top of every translation unit,
// regardless of target. EQUAL and ABORT are the two macros every
// generated dispatcher body relies on; the dispatcher's ABORT messages
// say whether the format or the interpolation was rejected, but do not
// include the rejected string itself.
const prelude = `#include <math.h>
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

#define EQUAL(a, b) (strcmp((a), (b)) == 0)
#define INCREASE(x, l) ((x + 1) >= (l) ? (x) : ((x) + 1))
#define ABORT(msg)                                                     \
  {                                                                     \
    fprintf(stderr, "[Fatal] %s: line %d: %s\n", __FUNCTION__, __LINE__, msg); \
    abort();                                                           \
  }
`

// cudaPrelude is appended after prelude for GPU translation units. It
// declares the fixed launch block size the dispatcher's grid-sizing
// arithmetic divides by (spec.md §4.G, S6).
const cudaPrelude = `#include <cuda_runtime.h>

#define cuErrCheck(res)                                     \
  {                                                          \
    if ((res) != cudaSuccess) {                              \
      ABORT(cudaGetErrorString(res));                        \
    }                                                         \
  }

#define BLOCK_SIZE 16
`

// blockSize is the compile-time launch block edge length the dispatcher
// substitutes into its grid-dimension arithmetic; it must stay in sync
// with the BLOCK_SIZE macro in cudaPrelude.
const blockSize = 16
