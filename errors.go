// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

import "errors"

// ErrMalformedFrame is returned by Parse when the cumulative header length
// would exceed the frame's declared total length. The caller must drop the
// frame silently; state is left unchanged.
var ErrMalformedFrame = errors.New("osnp: malformed frame, header longer than buffer")

// ErrShortBuffer is returned by InitializeFrame when the backing buffer is
// too small to hold the header being constructed.
var ErrShortBuffer = errors.New("osnp: backing buffer too small for frame header")
