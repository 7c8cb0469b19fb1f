// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

// Frame is a zero-copy view over a single IEEE 802.15.4 frame. It owns no
// memory of its own: every accessor returns a slice into the backing buffer
// supplied to Parse or InitializeFrame, so a Frame must never outlive that
// buffer. This mirrors the source stack's habit of stashing raw pointers
// into the receive buffer, except each field here is an offset span rather
// than a pointer, which keeps aliasing explicit and lets the Go compiler
// catch lifetime mistakes the C original could not.
type Frame struct {
	backing []byte

	headerLen  int
	payloadLen int

	// fcLow, fcHigh and seqNo sit at fixed offsets 0, 1, 2 and are always
	// present; every other field's presence depends on the frame control
	// bits, tracked below as a span.
	dstPAN        span
	dstAddr       span
	srcPAN        span
	srcAddr       span
	sc            span
	frameCounter  span
	keyID         span
	payloadOffset int
}

// span is a half-open [start, end) byte range into a Frame's backing
// buffer. A zero-value span with present == false means the field is
// absent from this particular frame layout.
type span struct {
	start, end int
	present    bool
}

func (s span) slice(backing []byte) []byte {
	if !s.present {
		return nil
	}
	return backing[s.start:s.end]
}

// FCLow returns the low frame-control octet.
func (f *Frame) FCLow() byte { return f.backing[0] }

// FCHigh returns the high frame-control octet.
func (f *Frame) FCHigh() byte { return f.backing[1] }

// SeqNo returns the sequence number octet.
func (f *Frame) SeqNo() byte { return f.backing[2] }

// DstPAN returns the destination PAN ID field, or nil if absent.
func (f *Frame) DstPAN() []byte { return f.dstPAN.slice(f.backing) }

// DstAddr returns the destination address field (2 or 8 octets), or nil if absent.
func (f *Frame) DstAddr() []byte { return f.dstAddr.slice(f.backing) }

// SrcPAN returns the source PAN ID field, or nil if absent.
func (f *Frame) SrcPAN() []byte { return f.srcPAN.slice(f.backing) }

// SrcAddr returns the source address field (2 or 8 octets), or nil if absent.
func (f *Frame) SrcAddr() []byte { return f.srcAddr.slice(f.backing) }

// SC returns the security control octet and whether a security header is
// present at all.
func (f *Frame) SC() (byte, bool) {
	if !f.sc.present {
		return 0, false
	}
	return f.backing[f.sc.start], true
}

// FrameCounter returns the 4-octet security frame counter, or nil if the
// security header is absent.
func (f *Frame) FrameCounter() []byte { return f.frameCounter.slice(f.backing) }

// KeyID returns the key identifier field, width 0/1/5/9 depending on KIM, or
// nil if the security header is absent or KIM is IMPLICIT.
func (f *Frame) KeyID() []byte { return f.keyID.slice(f.backing) }

// Payload returns the frame payload, sized according to PayloadLen.
func (f *Frame) Payload() []byte {
	return f.backing[f.payloadOffset : f.payloadOffset+f.payloadLen]
}

// HeaderLen returns the total size in octets of the header that precedes
// the payload.
func (f *Frame) HeaderLen() int { return f.headerLen }

// PayloadLen returns the size in octets of the payload.
func (f *Frame) PayloadLen() int { return f.payloadLen }

// SetPayloadLen adjusts the payload length; used by handlers after writing
// directly into the slice returned by PayloadCap.
func (f *Frame) SetPayloadLen(n int) { f.payloadLen = n }

// PayloadCap returns the writable region of the backing buffer starting at
// the payload offset, regardless of the current PayloadLen. Builders write
// into this slice and then call SetPayloadLen with the number of bytes
// actually produced.
func (f *Frame) PayloadCap() []byte { return f.backing[f.payloadOffset:] }

// Backing returns the full backing buffer the frame's fields are sliced
// from. A caller handing the frame to a driver computes the on-air length
// as HeaderLen()+PayloadLen()+2 (the trailing two octets are the PHY's FCS).
func (f *Frame) Backing() []byte { return f.backing }

// TotalLen returns the on-air frame length including the two-octet FCS.
func (f *Frame) TotalLen() int { return f.headerLen + f.payloadLen + 2 }

// addrWidth returns the byte width implied by an addressing mode.
func addrWidth(mode int) int {
	switch mode {
	case AddrModeShort:
		return 2
	case AddrModeExt:
		return 8
	default:
		return 0
	}
}

// parseBasicHeader walks fc_low, fc_high, seq_no, then the addressing
// fields, mirroring the original stack's _osnp_parse_basic_header. It
// returns the offset just past the basic header, where the security
// header (if any) begins.
func parseBasicHeader(backing []byte, f *Frame) int {
	fcLow := backing[0]
	fcHigh := backing[1]
	off := 3 // past fc_low, fc_high, seq_no

	dstMode := fcDstAddrMode(fcHigh)
	if dstMode != AddrModeNone {
		f.dstPAN = span{off, off + 2, true}
		off += 2
	} else {
		f.dstPAN = span{}
	}

	if w := addrWidth(dstMode); w > 0 {
		f.dstAddr = span{off, off + w, true}
		off += w
	} else {
		f.dstAddr = span{}
	}

	srcMode := fcSrcAddrMode(fcHigh)
	// src_pan is present iff src_addr_mode != NONE AND the PAN-ID-compression
	// bit is clear. Per the open question recorded in DESIGN.md, src_addr is
	// also set explicitly absent below when srcMode is NONE, rather than
	// left with a stale span as in the original source.
	if srcMode != AddrModeNone && !fcPANComp(fcLow) {
		f.srcPAN = span{off, off + 2, true}
		off += 2
	} else {
		f.srcPAN = span{}
	}

	if w := addrWidth(srcMode); w > 0 {
		f.srcAddr = span{off, off + w, true}
		off += w
	} else {
		f.srcAddr = span{}
	}

	return off
}

// parseSecurityHeader walks the optional SC/frame-counter/key-id fields,
// mirroring _osnp_parse_security_header, then sets headerLen and the
// payload offset.
func parseSecurityHeader(backing []byte, f *Frame, off int) int {
	fcLow := backing[0]
	fcHigh := backing[1]

	if fcSecEn(fcLow) && fcFrameVersion(fcHigh) != 0 {
		f.sc = span{off, off + 1, true}
		sc := backing[off]
		off++
		f.frameCounter = span{off, off + 4, true}
		off += 4

		if w := keyIDWidth[keyIDMode(sc)]; w > 0 {
			f.keyID = span{off, off + w, true}
			off += w
		} else {
			f.keyID = span{}
		}
	} else {
		f.sc = span{}
		f.frameCounter = span{}
		f.keyID = span{}
	}

	f.headerLen = off
	f.payloadOffset = off
	return off
}

// Parse resolves the variable-layout MAC header of a received frame into a
// Frame view over buf, without copying. totalLen is the full on-air frame
// length as reported by the driver, FCS included.
//
// Parse rejects a frame whose header would run past totalLen-2 (the
// trailing two octets are the PHY's FCS, owned by the driver layer, not the
// header) by returning ErrMalformedFrame; the caller must drop such a frame
// silently and leave state unchanged.
func Parse(buf []byte, totalLen int) (*Frame, error) {
	if totalLen < 3 || len(buf) < totalLen {
		return nil, ErrMalformedFrame
	}

	f := &Frame{backing: buf}
	off := parseBasicHeader(buf, f)
	if off > totalLen-2 {
		return nil, ErrMalformedFrame
	}
	off = parseSecurityHeader(buf, f, off)
	if off > totalLen-2 {
		return nil, ErrMalformedFrame
	}

	f.payloadLen = totalLen - f.headerLen - 2
	return f, nil
}

// InitializeFrame writes fc_low, fc_high and sc into buf, stamps seq_no
// from *seq and post-increments it, then lays out the header exactly as
// Parse would, and populates src_pan (or, in the PAN-compressed case,
// dst_pan) with ident.PANID and src_addr with ident.EUI or
// ident.ShortAddr depending on the source addressing mode. PayloadLen is
// left at 0; callers write into PayloadCap() and call SetPayloadLen.
func InitializeFrame(fcLow, fcHigh, sc byte, buf []byte, seq *byte, ident *Identity) (*Frame, error) {
	if len(buf) < 3 {
		return nil, ErrShortBuffer
	}
	buf[0] = fcLow
	buf[1] = fcHigh
	buf[2] = *seq
	*seq++

	f := &Frame{backing: buf}
	off := parseBasicHeader(buf, f)
	if off > len(buf) {
		return nil, ErrShortBuffer
	}

	if fcSecEn(fcLow) && fcFrameVersion(fcHigh) != 0 {
		if off >= len(buf) {
			return nil, ErrShortBuffer
		}
		buf[off] = sc
	}
	off = parseSecurityHeader(buf, f, off)
	if off > len(buf) {
		return nil, ErrShortBuffer
	}
	f.payloadLen = 0

	if f.srcPAN.present {
		copy(buf[f.srcPAN.start:f.srcPAN.end], ident.PANID[:])
	} else if f.dstPAN.present && fcPANComp(fcLow) {
		copy(buf[f.dstPAN.start:f.dstPAN.end], ident.PANID[:])
	}

	if f.srcAddr.present {
		if fcSrcAddrMode(fcHigh) == AddrModeShort {
			copy(buf[f.srcAddr.start:f.srcAddr.end], ident.ShortAddr[:])
		} else {
			copy(buf[f.srcAddr.start:f.srcAddr.end], ident.EUI[:])
		}
	}

	return f, nil
}
