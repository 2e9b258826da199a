// Package oplist decodes the op-list file a pipeline is described by: a
// JSON array whose elements carry a "type" tag from the closed set
// spec.md §6 fixes. Decoding this one externally-specified schema is the
// whole job here — it is not a general-purpose JSON library.
package oplist

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed set of op-list element types.
type Kind string

const (
	CvtColorBGR  Kind = "cvtColorBGR"
	CvtColorRGB  Kind = "cvtColorRGB"
	CvtColorGray Kind = "cvtColorGray"
	Resize       Kind = "Resize"
	CenterCrop   Kind = "CenterCrop"
	Normalize    Kind = "Normalize"
	Pad          Kind = "Pad"
	CastFloat    Kind = "CastFloat"
	HWC2CHW      Kind = "HWC2CHW"
)

// Op is one decoded op-list element. Fields irrelevant to Kind are left
// at their zero value; callers switch on Kind before reading a field.
type Op struct {
	Kind Kind

	// Resize
	Interpolation string // "nearest" | "bilinear"
	Shape         [2]uint64
	Dynamic       bool

	// CenterCrop (also uses Shape, Dynamic)
	TLBR    [4]int32
	HasTLBR bool

	// Normalize
	Mean [3]float32
	Std  [3]float32

	// Pad (also uses Shape)
	Paddings [4]int32
	PadVal   float32
}

// UnmarshalJSON dispatches on the "type" field per spec.md §6. Unknown
// types are a fatal error, never silently ignored.
func (op *Op) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("oplist: decoding op header: %w", err)
	}
	kind := Kind(head.Type)
	switch kind {
	case CvtColorBGR, CvtColorRGB, CvtColorGray, CastFloat, HWC2CHW:
		op.Kind = kind
		return nil
	case Resize:
		var body struct {
			Interpolation string    `json:"interpolation"`
			Shape         [2]uint64 `json:"shape"`
			Dynamic       bool      `json:"dynamic"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("oplist: decoding Resize op: %w", err)
		}
		if body.Interpolation != "nearest" && body.Interpolation != "bilinear" {
			return fmt.Errorf("oplist: Resize op: unrecognized interpolation %q", body.Interpolation)
		}
		op.Kind = kind
		op.Interpolation = body.Interpolation
		op.Shape = body.Shape
		op.Dynamic = body.Dynamic
		return nil
	case CenterCrop:
		var body struct {
			Shape   [2]uint64 `json:"shape"`
			TLBR    *[4]int32 `json:"tlbr"`
			Dynamic bool      `json:"dynamic"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("oplist: decoding CenterCrop op: %w", err)
		}
		op.Kind = kind
		op.Shape = body.Shape
		op.Dynamic = body.Dynamic
		if body.TLBR != nil {
			op.TLBR = *body.TLBR
			op.HasTLBR = true
		}
		return nil
	case Normalize:
		var body struct {
			Mean [3]float32 `json:"mean"`
			Std  [3]float32 `json:"std"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("oplist: decoding Normalize op: %w", err)
		}
		op.Kind = kind
		op.Mean = body.Mean
		op.Std = body.Std
		return nil
	case Pad:
		var body struct {
			Paddings [4]int32  `json:"paddings"`
			Shape    [2]uint64 `json:"shape"`
			PadVal   float32   `json:"pad_val"`
			Dynamic  bool      `json:"dynamic"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("oplist: decoding Pad op: %w", err)
		}
		op.Kind = kind
		op.Paddings = body.Paddings
		op.Shape = body.Shape
		op.PadVal = body.PadVal
		op.Dynamic = body.Dynamic
		return nil
	default:
		return fmt.Errorf("oplist: unrecognized op type %q", head.Type)
	}
}

// Decode parses a full op-list JSON array. An empty array is malformed
// (spec.md §7): a pipeline with no ops has no output tensor to compile.
func Decode(data []byte) ([]Op, error) {
	var ops []Op
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("oplist: decoding op list: %w", err)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("oplist: op list is empty")
	}
	return ops, nil
}
