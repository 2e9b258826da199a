// Package ir provides the tensor-expression intermediate representation
// that the fusekernel compiler lowers image-preprocessing pipelines into,
// before a code generator in package codegen turns it into scalar target
// code.
//
// Nodes are immutable once constructed: every builder returns a fresh
// value and never mutates its arguments. A single compilation's graph is
// a DAG of TensorVar definitions threaded together by ScalarVar reads;
// the DAG is released as a whole once the generated string has been
// produced.
package ir
