package rtasm

// cpuBilinearPreprocess fills the host weight/index tables
// lower.NewBilinearTables declares, for the fixed-point (uint8) path.
// Grounded on original_source/examples/MMDeploy/Runtime.hpp's
// bilinear_resize_preprocess: the half-pixel-center sampling formula,
// the src-edge clamp, and the Q11 (x2048) fixed-point weight scale are
// unchanged; only identifier spelling follows this codebase's naming.
const cpuBilinearPreprocess = `
extern void bilinear_resize_preprocess(uint64_t src_h, uint64_t src_w, uint64_t dst_h, uint64_t dst_w,
                                        int16_t *cubfh, int16_t *cubfw, int32_t *inth, int32_t *intw) {
  float scale_h = (float)src_h / (float)dst_h;
  float scale_w = (float)src_w / (float)dst_w;

  for (uint64_t j = 0; j < dst_h; ++j) {
    float fh = (float)((j + 0.5) * scale_h - 0.5);
    int sh = (int)floor(fh);
    fh -= sh;
    if (sh < 0) {
      fh = 0;
      sh = 0;
    }
    if (sh >= (int)src_h) {
      fh = 0;
      sh = (int)src_h - 1;
    }
    int h1 = INCREASE(sh, (int)src_h);

    fh = fh * 2048.0f;
    cubfh[j] = (int16_t)rint(2048.0f - fh);
    cubfh[dst_h + j] = (int16_t)rint(fh);
    inth[j] = sh;
    inth[dst_h + j] = h1;
  }

  for (uint64_t i = 0; i < dst_w; ++i) {
    float fw = (float)((i + 0.5) * scale_w - 0.5);
    int sw = (int)floor(fw);
    fw -= sw;
    if (sw < 0) {
      fw = 0;
      sw = 0;
    }
    if (sw >= (int)src_w) {
      fw = 0;
      sw = (int)src_w - 1;
    }
    int w1 = INCREASE(sw, (int)src_w);

    fw = fw * 2048.0f;
    cubfw[i] = (int16_t)rint(2048.0f - fw);
    cubfw[dst_w + i] = (int16_t)rint(fw);
    intw[i] = sw;
    intw[dst_w + i] = w1;
  }
}
`

// cpuFloatBilinearPreprocess is cpuBilinearPreprocess's floating-point
// twin, used for NV12/NV21 and whenever the pipeline's declared element
// type is already float (lower.Format.FloatBilinear). No Q11 scaling or
// rounding: the weights are the bare [0,1) fractional taps.
const cpuFloatBilinearPreprocess = `
extern void bilinear_float_resize_preprocess(uint64_t src_h, uint64_t src_w, uint64_t dst_h, uint64_t dst_w,
                                              float *cubfh, float *cubfw, int32_t *inth, int32_t *intw) {
  float scale_h = (float)src_h / (float)dst_h;
  float scale_w = (float)src_w / (float)dst_w;

  for (uint64_t j = 0; j < dst_h; ++j) {
    float fh = (float)((j + 0.5) * scale_h - 0.5);
    int sh = (int)floor(fh);
    fh -= sh;
    if (sh < 0) {
      fh = 0;
      sh = 0;
    }
    if (sh >= (int)src_h) {
      fh = 0;
      sh = (int)src_h - 1;
    }
    int h1 = INCREASE(sh, (int)src_h);

    cubfh[j] = 1.0f - fh;
    cubfh[dst_h + j] = fh;
    inth[j] = sh;
    inth[dst_h + j] = h1;
  }

  for (uint64_t i = 0; i < dst_w; ++i) {
    float fw = (float)((i + 0.5) * scale_w - 0.5);
    int sw = (int)floor(fw);
    fw -= sw;
    if (sw < 0) {
      fw = 0;
      sw = 0;
    }
    if (sw >= (int)src_w) {
      fw = 0;
      sw = (int)src_w - 1;
    }
    int w1 = INCREASE(sw, (int)src_w);

    cubfw[i] = 1.0f - fw;
    cubfw[dst_w + i] = fw;
    intw[i] = sw;
    intw[dst_w + i] = w1;
  }
}
`

// cudaBilinearPreprocess is the __device__ per-thread twin of
// cpuBilinearPreprocess. Unlike the host version it fills only the
// 2-tap cubh/cubw/inth/intw registers for the single (element_h,
// element_w) destination pixel the calling thread owns; that pixel is
// passed in explicitly rather than re-derived from blockIdx/threadIdx,
// so the function stays callable independent of the launch geometry
// the dispatcher picks (see dispatch.go's grid-sizing arithmetic).
const cudaBilinearPreprocess = `
extern "C" __device__ void bilinear_resize_preprocess(uint64_t src_h, uint64_t dst_h, int element_h,
                                                       uint64_t src_w, uint64_t dst_w, int element_w,
                                                       int16_t *cubh, int32_t *inth, int16_t *cubw, int32_t *intw) {
  float scale_h = (float)src_h / (float)dst_h;
  float scale_w = (float)src_w / (float)dst_w;

  float fh = (float)((element_h + 0.5) * scale_h - 0.5);
  int sh = (int)floor(fh);
  fh -= sh;
  if (sh < 0) {
    fh = 0;
    sh = 0;
  }
  if (sh >= (int)src_h) {
    fh = 0;
    sh = (int)src_h - 1;
  }
  int h1 = INCREASE(sh, (int)src_h);
  fh = fh * 2048.0f;
  cubh[0] = (int16_t)rint(2048.0f - fh);
  cubh[1] = (int16_t)rint(fh);
  inth[0] = sh;
  inth[1] = h1;

  float fw = (float)((element_w + 0.5) * scale_w - 0.5);
  int sw = (int)floor(fw);
  fw -= sw;
  if (sw < 0) {
    fw = 0;
    sw = 0;
  }
  if (sw >= (int)src_w) {
    fw = 0;
    sw = (int)src_w - 1;
  }
  int w1 = INCREASE(sw, (int)src_w);
  fw = fw * 2048.0f;
  cubw[0] = (int16_t)rint(2048.0f - fw);
  cubw[1] = (int16_t)rint(fw);
  intw[0] = sw;
  intw[1] = w1;
}
`

// cudaFloatBilinearPreprocess is cudaBilinearPreprocess's floating-point
// twin, taken for NV12/NV21 and float-typed pipelines.
const cudaFloatBilinearPreprocess = `
extern "C" __device__ void bilinear_float_resize_preprocess(uint64_t src_h, uint64_t dst_h, int element_h,
                                                             uint64_t src_w, uint64_t dst_w, int element_w,
                                                             float *cubh, int32_t *inth, float *cubw, int32_t *intw) {
  float scale_h = (float)src_h / (float)dst_h;
  float scale_w = (float)src_w / (float)dst_w;

  float fh = (float)((element_h + 0.5) * scale_h - 0.5);
  int sh = (int)floor(fh);
  fh -= sh;
  if (sh < 0) {
    fh = 0;
    sh = 0;
  }
  if (sh >= (int)src_h) {
    fh = 0;
    sh = (int)src_h - 1;
  }
  int h1 = INCREASE(sh, (int)src_h);
  cubh[0] = 1.0f - fh;
  cubh[1] = fh;
  inth[0] = sh;
  inth[1] = h1;

  float fw = (float)((element_w + 0.5) * scale_w - 0.5);
  int sw = (int)floor(fw);
  fw -= sw;
  if (sw < 0) {
    fw = 0;
    sw = 0;
  }
  if (sw >= (int)src_w) {
    fw = 0;
    sw = (int)src_w - 1;
  }
  int w1 = INCREASE(sw, (int)src_w);
  cubw[0] = 1.0f - fw;
  cubw[1] = fw;
  intw[0] = sw;
  intw[1] = w1;
}
`
