// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

// InitializeResponseFrame derives a reply frame's addressing, security and
// PAN fields from a request frame, mirroring
// osnp_initialize_response_frame from the original stack. associated
// reports whether the endpoint is currently ASSOCIATED or WAITING_PENDING
// (state >= ASSOCIATED in the source); it controls whether the reply uses
// SHORT or EXT source addressing.
func InitializeResponseFrame(src *Frame, dstBuf []byte, seq *byte, ident *Identity, associated bool) (*Frame, error) {
	fcLow := src.FCLow() &^ fcFramePending

	srcHigh := src.FCHigh()
	// Swap addressing: the request's src addr mode becomes this frame's
	// dst addr mode; frame version is preserved; src addr mode is
	// overridden by current association state.
	fcHigh := byte((srcHigh&0xC0)>>4) | (srcHigh & 0x30)
	if associated {
		fcHigh |= makeFcHigh(0, 0, AddrModeShort)
	} else {
		fcHigh |= makeFcHigh(0, 0, AddrModeExt)
	}

	var sc byte
	if v, present := src.SC(); present {
		sc = v
	}

	dst, err := InitializeFrame(fcLow, fcHigh, sc, dstBuf, seq, ident)
	if err != nil {
		return nil, err
	}

	if dst.dstPAN.present {
		if srcPAN := src.SrcPAN(); srcPAN != nil {
			copy(dst.backing[dst.dstPAN.start:dst.dstPAN.end], srcPAN)
		} else if srcDstPAN := src.DstPAN(); srcDstPAN != nil {
			copy(dst.backing[dst.dstPAN.start:dst.dstPAN.end], srcDstPAN)
		}
	}

	if dst.dstAddr.present {
		if srcAddr := src.SrcAddr(); srcAddr != nil {
			w := dst.dstAddr.end - dst.dstAddr.start
			if w > len(srcAddr) {
				w = len(srcAddr)
			}
			copy(dst.backing[dst.dstAddr.start:dst.dstAddr.start+w], srcAddr[:w])
		}
	}

	if dst.keyID.present {
		if srcKeyID := src.KeyID(); srcKeyID != nil {
			w := dst.keyID.end - dst.keyID.start
			if w > len(srcKeyID) {
				w = len(srcKeyID)
			}
			copy(dst.backing[dst.keyID.start:dst.keyID.start+w], srcKeyID[:w])
		}
	}

	return dst, nil
}
