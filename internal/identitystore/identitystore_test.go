// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package identitystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	osnp "github.com/mbalistreri/osnp"
)

func TestNewInitializesUnassociatedSentinels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	eui := osnp.EUI64{1, 2, 3, 4, 5, 6, 7, 8}

	s, err := New(path, eui)
	require.NoError(t, err)

	gotEUI, err := s.LoadEUI()
	require.NoError(t, err)
	assert.Equal(t, eui, gotEUI)

	pan, err := s.LoadPANID()
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x00, 0x00}, pan)

	short, err := s.LoadShortAddress()
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0xFF, 0xFF}, short)

	ch, err := s.LoadChannel()
	require.NoError(t, err)
	assert.Equal(t, byte(0xFF), ch)
}

func TestNewDoesNotOverwriteExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	eui := osnp.EUI64{1, 2, 3, 4, 5, 6, 7, 8}

	s1, err := New(path, eui)
	require.NoError(t, err)
	require.NoError(t, s1.WriteChannel(11))

	s2, err := New(path, osnp.EUI64{9, 9, 9, 9, 9, 9, 9, 9})
	require.NoError(t, err)

	ch, err := s2.LoadChannel()
	require.NoError(t, err)
	assert.Equal(t, byte(11), ch, "a pre-existing file must not be reinitialized")

	gotEUI, err := s2.LoadEUI()
	require.NoError(t, err)
	assert.Equal(t, eui, gotEUI)
}

func TestWritesPersistIndependently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	s, err := New(path, osnp.EUI64{})
	require.NoError(t, err)

	require.NoError(t, s.WritePANID([2]byte{0xAB, 0xCD}))
	require.NoError(t, s.WriteShortAddress([2]byte{0x11, 0x22}))
	require.NoError(t, s.WriteChannel(5))

	reopened, err := New(path, osnp.EUI64{})
	require.NoError(t, err)

	pan, err := reopened.LoadPANID()
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0xAB, 0xCD}, pan)

	short, err := reopened.LoadShortAddress()
	require.NoError(t, err)
	assert.Equal(t, [2]byte{0x11, 0x22}, short)

	ch, err := reopened.LoadChannel()
	require.NoError(t, err)
	assert.Equal(t, byte(5), ch)
}
