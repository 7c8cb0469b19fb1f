// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	type suite struct {
		name        string
		data        []byte
		totalLen    int
		wantErr     bool
		wantDstAddr []byte
		wantSrcAddr []byte
		wantPayload []byte

		// checkSecurity exercises parseSecurityHeader: set on cases whose
		// fc_low has SecEn=1 and whose fc_high frame version != 0.
		checkSecurity    bool
		wantSC           byte
		wantFrameCounter []byte
		wantKeyID        []byte
	}

	testCases := []suite{
		{
			name: "positive_short_dst_short_src_pan_compressed",
			data: []byte{
				makeFcLow(FrameTypeData, false, false, false, true),
				makeFcHigh(AddrModeShort, 0, AddrModeShort),
				0x01,       // seq
				0x11, 0x22, // dst pan
				0xAA, 0xBB, // dst addr
				0xCC, 0xDD, // src addr (no src pan, compressed)
				0xDE, 0xAD, // payload
				0x00, 0x00, // fcs
			},
			totalLen:    13,
			wantDstAddr: []byte{0xAA, 0xBB},
			wantSrcAddr: []byte{0xCC, 0xDD},
			wantPayload: []byte{0xDE, 0xAD},
		},
		{
			name: "positive_ext_src_no_dst",
			data: []byte{
				makeFcLow(FrameTypeMCmd, false, false, false, false),
				makeFcHigh(AddrModeNone, 0, AddrModeExt),
				0x02,
				0x11, 0x22, // src pan
				1, 2, 3, 4, 5, 6, 7, 8, // src addr
				0x07,       // payload: discover
				0x00, 0x00, // fcs
			},
			totalLen:    16,
			wantSrcAddr: []byte{1, 2, 3, 4, 5, 6, 7, 8},
			wantPayload: []byte{0x07},
		},
		{
			// KIM=IMPLICIT: a security header with no key id field at all.
			name: "positive_security_kim_implicit",
			data: []byte{
				makeFcLow(FrameTypeData, true, false, false, false),
				makeFcHigh(AddrModeShort, 1, AddrModeShort),
				0x01,       // seq
				0x11, 0x22, // dst pan
				0xAA, 0xBB, // dst addr
				0x33, 0x44, // src pan
				0xCC, 0xDD, // src addr
				0x00,                   // sc: level=0, kim=IMPLICIT
				0x01, 0x02, 0x03, 0x04, // frame counter
				0xFE,       // payload
				0x00, 0x00, // fcs
			},
			totalLen:         19,
			wantDstAddr:      []byte{0xAA, 0xBB},
			wantSrcAddr:      []byte{0xCC, 0xDD},
			wantPayload:      []byte{0xFE},
			checkSecurity:    true,
			wantSC:           0x00,
			wantFrameCounter: []byte{0x01, 0x02, 0x03, 0x04},
			wantKeyID:        nil,
		},
		{
			// KIM=1IDX: a single-octet key index.
			name: "positive_security_kim_1idx",
			data: []byte{
				makeFcLow(FrameTypeData, true, false, false, false),
				makeFcHigh(AddrModeShort, 1, AddrModeShort),
				0x01,
				0x11, 0x22,
				0xAA, 0xBB,
				0x33, 0x44,
				0xCC, 0xDD,
				0x04, // sc: level=0, kim=1IDX
				0x01, 0x02, 0x03, 0x04,
				0xE1,       // key id
				0xFE,       // payload
				0x00, 0x00, // fcs
			},
			totalLen:         20,
			wantDstAddr:      []byte{0xAA, 0xBB},
			wantSrcAddr:      []byte{0xCC, 0xDD},
			wantPayload:      []byte{0xFE},
			checkSecurity:    true,
			wantSC:           0x04,
			wantFrameCounter: []byte{0x01, 0x02, 0x03, 0x04},
			wantKeyID:        []byte{0xE1},
		},
		{
			// KIM=4SRC_1IDX: a 4-octet source plus a 1-octet index.
			name: "positive_security_kim_4src_1idx",
			data: []byte{
				makeFcLow(FrameTypeData, true, false, false, false),
				makeFcHigh(AddrModeShort, 1, AddrModeShort),
				0x01,
				0x11, 0x22,
				0xAA, 0xBB,
				0x33, 0x44,
				0xCC, 0xDD,
				0x10, // sc: level=0, kim=4SRC_1IDX
				0x01, 0x02, 0x03, 0x04,
				0xE1, 0xE2, 0xE3, 0xE4, 0xE5, // key id
				0xFE,       // payload
				0x00, 0x00, // fcs
			},
			totalLen:         24,
			wantDstAddr:      []byte{0xAA, 0xBB},
			wantSrcAddr:      []byte{0xCC, 0xDD},
			wantPayload:      []byte{0xFE},
			checkSecurity:    true,
			wantSC:           0x10,
			wantFrameCounter: []byte{0x01, 0x02, 0x03, 0x04},
			wantKeyID:        []byte{0xE1, 0xE2, 0xE3, 0xE4, 0xE5},
		},
		{
			// KIM=8SRC_1IDX: an 8-octet source plus a 1-octet index.
			name: "positive_security_kim_8src_1idx",
			data: []byte{
				makeFcLow(FrameTypeData, true, false, false, false),
				makeFcHigh(AddrModeShort, 1, AddrModeShort),
				0x01,
				0x11, 0x22,
				0xAA, 0xBB,
				0x33, 0x44,
				0xCC, 0xDD,
				0x0C, // sc: level=0, kim=8SRC_1IDX
				0x01, 0x02, 0x03, 0x04,
				0xE1, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7, 0xE8, 0xE9, // key id
				0xFE,       // payload
				0x00, 0x00, // fcs
			},
			totalLen:         28,
			wantDstAddr:      []byte{0xAA, 0xBB},
			wantSrcAddr:      []byte{0xCC, 0xDD},
			wantPayload:      []byte{0xFE},
			checkSecurity:    true,
			wantSC:           0x18,
			wantFrameCounter: []byte{0x01, 0x02, 0x03, 0x04},
			wantKeyID:        []byte{0xE1, 0xE2, 0xE3, 0xE4, 0xE5, 0xE6, 0xE7, 0xE8, 0xE9},
		},
		{
			name:     "negative_too_short_for_declared_header",
			data:     []byte{makeFcLow(FrameTypeData, false, false, false, false), makeFcHigh(AddrModeShort, 0, AddrModeShort), 0x00},
			totalLen: 3,
			wantErr:  true,
		},
		{
			name:     "negative_total_len_exceeds_buffer",
			data:     []byte{0x01, 0x02, 0x03},
			totalLen: 10,
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Parse(tc.data, tc.totalLen)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantDstAddr, f.DstAddr())
			assert.Equal(t, tc.wantSrcAddr, f.SrcAddr())
			assert.Equal(t, tc.wantPayload, f.Payload())

			if tc.checkSecurity {
				sc, present := f.SC()
				require.True(t, present, "security header must be present")
				assert.Equal(t, tc.wantSC, sc)
				assert.Equal(t, tc.wantFrameCounter, f.FrameCounter())
				assert.Equal(t, tc.wantKeyID, f.KeyID())
			}
		})
	}
}

func TestParseSrcAddrNoneLeavesSrcPANAbsent(t *testing.T) {
	// src_addr_mode NONE must leave SrcPAN absent even though src_pan's
	// presence bits in fc_low would otherwise suggest it's there.
	data := []byte{
		makeFcLow(FrameTypeData, false, false, false, false),
		makeFcHigh(AddrModeNone, 0, AddrModeNone),
		0x00,
		0xAA,
		0x00, 0x00,
	}
	f, err := Parse(data, len(data))
	require.NoError(t, err)
	assert.Nil(t, f.SrcPAN())
	assert.Nil(t, f.SrcAddr())
}

// frameView snapshots the field slices parse(build()) is supposed to
// preserve, so two views can be diffed with go-cmp instead of field by
// field with testify.
type frameView struct {
	DstAddr, SrcAddr      []byte
	SCPresent             bool
	SC                    byte
	FrameCounter, KeyID   []byte
	Payload               []byte
	HeaderLen, PayloadLen int
}

func captureFrameView(f *Frame) frameView {
	sc, present := f.SC()
	return frameView{
		DstAddr:      f.DstAddr(),
		SrcAddr:      f.SrcAddr(),
		SCPresent:    present,
		SC:           sc,
		FrameCounter: f.FrameCounter(),
		KeyID:        f.KeyID(),
		Payload:      f.Payload(),
		HeaderLen:    f.HeaderLen(),
		PayloadLen:   f.PayloadLen(),
	}
}

// TestParseInitializeFrameRoundTripAcrossSecurityAndAddressing builds a
// frame with InitializeFrame for every combination of dst addr mode, src
// addr mode, PAN-ID compression and (when security is on) KIM, stamps the
// security frame counter and key id with distinguishable bytes, then
// re-parses the finished buffer with Parse and diffs the two views with
// go-cmp. This is the dst-mode x src-mode x PAN-compression x security-on x
// KIM round trip spec.md §8 and SPEC_FULL.md §8 require.
func TestParseInitializeFrameRoundTripAcrossSecurityAndAddressing(t *testing.T) {
	dstModes := []int{AddrModeNone, AddrModeShort, AddrModeExt}
	srcModes := []int{AddrModeNone, AddrModeShort, AddrModeExt}
	panComps := []bool{false, true}
	type secCase struct {
		name string
		on   bool
		kim  int
	}
	secCases := []secCase{
		{name: "off", on: false},
		{name: "on_kim_implicit", on: true, kim: KeyIDModeImplicit},
		{name: "on_kim_1idx", on: true, kim: KeyIDMode1Idx},
		{name: "on_kim_4src_1idx", on: true, kim: KeyIDMode4Src1Idx},
		{name: "on_kim_8src_1idx", on: true, kim: KeyIDMode8Src1Idx},
	}

	ident := &Identity{
		EUI:       EUI64{1, 2, 3, 4, 5, 6, 7, 8},
		PANID:     [2]byte{0x11, 0x22},
		ShortAddr: [2]byte{0x33, 0x44},
	}

	for _, dstMode := range dstModes {
		for _, srcMode := range srcModes {
			for _, panComp := range panComps {
				for _, sec := range secCases {
					name := fmt.Sprintf("dst=%d_src=%d_panComp=%v_sec=%s", dstMode, srcMode, panComp, sec.name)
					t.Run(name, func(t *testing.T) {
						frameVersion := 0
						if sec.on {
							frameVersion = 1
						}
						fcLow := makeFcLow(FrameTypeData, sec.on, false, false, panComp)
						fcHigh := makeFcHigh(dstMode, frameVersion, srcMode)
						sc := makeSC(SecurityLevelEncMIC32, sec.kim)

						buf := make([]byte, DefaultTxBufferSize)
						var seq byte
						f, err := InitializeFrame(fcLow, fcHigh, sc, buf, &seq, ident)
						require.NoError(t, err)

						f.PayloadCap()[0] = 0x5A
						f.SetPayloadLen(1)

						if fc := f.FrameCounter(); fc != nil {
							copy(fc, []byte{0x10, 0x20, 0x30, 0x40})
						}
						if kid := f.KeyID(); kid != nil {
							for i := range kid {
								kid[i] = byte(0xE0 + i)
							}
						}

						want := captureFrameView(f)

						f2, err := Parse(buf, f.TotalLen())
						require.NoError(t, err)
						got := captureFrameView(f2)

						if diff := cmp.Diff(want, got); diff != "" {
							t.Errorf("parse(build()) round trip mismatch (-want +got):\n%s", diff)
						}

						if sec.on {
							_, present := f2.SC()
							assert.True(t, present)
							assert.Equal(t, sc, got.SC)
						} else {
							_, present := f2.SC()
							assert.False(t, present)
						}
					})
				}
			}
		}
	}
}

func TestInitializeFrame(t *testing.T) {
	var seq byte = 5
	ident := &Identity{
		EUI:       EUI64{1, 2, 3, 4, 5, 6, 7, 8},
		PANID:     [2]byte{0x11, 0x22},
		ShortAddr: [2]byte{0x33, 0x44},
	}

	buf := make([]byte, DefaultTxBufferSize)
	fcLow := makeFcLow(FrameTypeMCmd, false, false, true, false)
	fcHigh := makeFcHigh(AddrModeNone, 0, AddrModeShort)

	f, err := InitializeFrame(fcLow, fcHigh, 0, buf, &seq, ident)
	require.NoError(t, err)

	assert.Equal(t, byte(5), f.SeqNo())
	assert.Equal(t, byte(6), seq, "seq must post-increment")
	assert.Equal(t, ident.PANID[:], f.SrcPAN())
	assert.Equal(t, ident.ShortAddr[:], f.SrcAddr())
	assert.Equal(t, 0, f.PayloadLen())

	f.PayloadCap()[0] = 0xAB
	f.SetPayloadLen(1)
	assert.Equal(t, []byte{0xAB}, f.Payload())
	assert.Equal(t, f.HeaderLen()+1+2, f.TotalLen())
}

func TestInitializeFrameShortBuffer(t *testing.T) {
	var seq byte
	ident := &Identity{}
	_, err := InitializeFrame(0, 0, 0, make([]byte, 2), &seq, ident)
	require.ErrorIs(t, err, ErrShortBuffer)
}
