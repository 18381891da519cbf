// Package ndar is an in-memory strided, multidimensional numeric array core
// for Go.
//
// What is ndar?
//
//	A zero-cgo-dependency library built around two array descriptors over a
//	flat byte buffer:
//
//	  - Node: the owning, reference-counted descriptor. Shape, reshape,
//	    transpose, and slice operations generally return a new Node sharing
//	    the same underlying buffer (a view), adjusting only shape/strides.
//	  - NArray: a lightweight, non-refcounted, view-only descriptor for
//	    callers that don't need ownership tracking.
//
// Why ndar?
//
//   - Explicit            — every fallible operation returns (T, error);
//     package nerr additionally mirrors the last error for callers that
//     prefer polling over checking a return value at every call site.
//   - Pure Go              — no cgo, no GPU, no BLAS/LAPACK dependency.
//   - Single-threaded      — synchronous by design; see subpackage docs for
//     what that does and doesn't rule out.
//
// Under the hood, the library is organized as:
//
//	(root)/       — Node, NArray, iterators (NIter/NMultiIter/NWindowIter),
//	                broadcasting and shape-manipulation plumbing
//	dtype/        — the dtype enum, sizing, and promotion rules
//	nerr/         — the error taxonomy and last-error polling surface
//	convert/      — the dtype x dtype conversion matrix
//	shapeops/     — reshape, transpose family, squeeze, expand_dims, resize
//	indexing/     — slicing, boolean masking, fancy indexing, take/put
//	dispatch/     — output-dtype resolution for elementwise/reduction kernels
//	mathops/      — elementwise arithmetic, comparison, logical, bitwise ops
//	reduce/       — sum/prod/min/max/mean/var/std/argmin/argmax/all/any/...
//	cumulative/   — cumsum/cumprod/cummin/cummax/diff/gradient
//
// ndar deliberately excludes autograd, lazy/graph execution, GPU execution,
// sparse/structured arrays, arbitrary-precision or complex dtypes, and
// on-disk persistence; see SPEC_FULL.md for the full design rationale.
package ndar
