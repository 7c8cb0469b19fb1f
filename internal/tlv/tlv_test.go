// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package tlv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadTag(t *testing.T) {
	buf := make([]byte, 4)
	n, err := WriteTag(buf, 0xE0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tag, n, err := ReadTag(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(0xE0), tag)
}

func TestWriteReadTagShortBuffer(t *testing.T) {
	_, err := WriteTag(nil, 0xE0)
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, _, err = ReadTag(nil)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestWriteReadLength(t *testing.T) {
	type suite struct {
		name    string
		length  int
		wantLen int
	}

	testCases := []suite{
		{name: "positive_single_byte", length: 10, wantLen: 1},
		{name: "positive_boundary_just_under_marker", length: longLengthMarker - 1, wantLen: 1},
		{name: "positive_long_form", length: 1000, wantLen: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 8)
			n, err := WriteLength(buf, tc.length)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLen, n)

			got, n2, err := ReadLength(buf)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLen, n2)
			assert.Equal(t, tc.length, got)
		})
	}
}

func TestWriteLengthShortBuffer(t *testing.T) {
	_, err := WriteLength(nil, 10)
	assert.ErrorIs(t, err, ErrShortBuffer)

	_, err = WriteLength(make([]byte, 2), 1000)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestIndefiniteLength(t *testing.T) {
	buf := make([]byte, 2)
	n, err := WriteIndefiniteLength(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(IndefiniteLengthMarker), buf[0])

	n, err = WriteIndefiniteLengthTerminator(buf[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(IndefiniteLengthTerminator), buf[1])
}
