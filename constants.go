// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

// Frame type, carried in the low three bits of fc_low.
const (
	FrameTypeBeacon = 0x00
	FrameTypeData   = 0x01
	FrameTypeAck    = 0x02
	FrameTypeMCmd   = 0x03
)

// Addressing mode, carried in the dst/src addr mode bits of fc_high.
const (
	AddrModeNone  = 0x00
	AddrModeShort = 0x02
	AddrModeExt   = 0x03
)

// Security level, low bits of the SC byte.
const (
	SecurityLevelNone      = 0x00
	SecurityLevelMIC32     = 0x01
	SecurityLevelMIC64     = 0x02
	SecurityLevelMIC128    = 0x03
	SecurityLevelEnc       = 0x04
	SecurityLevelEncMIC32  = 0x05
	SecurityLevelEncMIC64  = 0x06
	SecurityLevelEncMIC128 = 0x07
)

// Key identifier mode, high bits of the SC byte.
const (
	KeyIDModeImplicit  = 0x00
	KeyIDMode1Idx      = 0x01
	KeyIDMode4Src1Idx  = 0x02
	KeyIDMode8Src1Idx  = 0x03
)

// keyIDWidth maps a KIM value to the width in octets of the key identifier field.
var keyIDWidth = [4]int{0, 1, 5, 9}

// MAC commands.
const (
	MCmdAssociationReq = 0x01
	MCmdAssociationRes = 0x02
	MCmdDisassociated  = 0x03
	MCmdDataReq        = 0x04
	MCmdDiscover       = 0x07
)

// Application-level commands, dispatched by the external CommandProcessor.
const (
	CmdGetDeviceInfo = 0xA0
	CmdConfigure     = 0xA1
	CmdGetData       = 0xA2
	CmdPerform       = 0xA3
	CmdSubscribe     = 0xA4
	CmdUnsubscribe   = 0xA5
)

// Application-level error codes, for use by CommandProcessor implementations.
const (
	ErrCodeUnsupportedCommand    = 0x01
	ErrCodeUnsupportedParameters = 0x02
	ErrCodeSecurityError         = 0x03
	ErrCodeDeviceBusy            = 0x04
)

// TLV container tags.
const (
	TagRequestContainer  = 0xE0
	TagResponseContainer = 0xE1
)

// TxStatus is reported by the driver through OnFrameSent.
type TxStatus byte

const (
	TxStatusOK          TxStatus = 0
	TxStatusNoAck       TxStatus = 1
	TxStatusChannelBusy TxStatus = 2
)

// DefaultTxBufferSize is the size of the scratch buffer an Endpoint uses to
// build outgoing frames, matching the source stack's tx_frame_buf[128].
const DefaultTxBufferSize = 128

// Device capability bits, carried in the single payload octet of
// ASSOCIATION_RES.
const (
	CapabilityRxPollDriven = 0x00
	CapabilityRxAlwaysOn   = 0x01
)

// Sentinel identity values.
const (
	ChannelUnassociated = 0xFF
	NumChannels         = 16
)

// PANIDReset and ShortAddrReset are the values written on disassociation.
var (
	PANIDReset     = [2]byte{0x00, 0x00}
	ShortAddrReset = [2]byte{0xFF, 0xFF}
)

// frame control bit layout, low byte.
const (
	fcSecEnBit     = 1 << 3
	fcFramePending = 1 << 4
	fcAckReqBit    = 1 << 5
	fcPANCompBit   = 1 << 6
)

func fcFrameType(low byte) int { return int(low & 0x07) }
func fcSecEn(low byte) bool    { return low&fcSecEnBit != 0 }
func fcFramePend(low byte) bool { return low&fcFramePending != 0 }
func fcPANComp(low byte) bool  { return low&fcPANCompBit != 0 }

func fcDstAddrMode(high byte) int { return int((high >> 2) & 0x03) }
func fcFrameVersion(high byte) int { return int((high >> 4) & 0x03) }
func fcSrcAddrMode(high byte) int { return int((high >> 6) & 0x03) }

func makeFcLow(frameType int, secEn, framePending, ackReq, panComp bool) byte {
	b := byte(frameType & 0x07)
	if secEn {
		b |= fcSecEnBit
	}
	if framePending {
		b |= fcFramePending
	}
	if ackReq {
		b |= fcAckReqBit
	}
	if panComp {
		b |= fcPANCompBit
	}
	return b
}

func makeFcHigh(dstAddrMode, frameVersion, srcAddrMode int) byte {
	return byte((dstAddrMode&0x03)<<2) | byte((frameVersion&0x03)<<4) | byte((srcAddrMode&0x03)<<6)
}

func secLevel(sc byte) int { return int(sc & 0x03) }
func keyIDMode(sc byte) int { return int((sc >> 2) & 0x03) }

func makeSC(level, kim int) byte {
	return byte(level&0x03) | byte((kim&0x03)<<2)
}
