// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

// Driver is the platform-provided radio and timer contract (external
// collaborator, spec §6). Its four Start*Timer methods and StopActiveTimer
// address one logical timer; starting any one of them implicitly cancels
// whichever was previously running. At most one TransmitFrame may be in
// flight; completion is reported back to the Endpoint via OnFrameSent.
type Driver interface {
	SwitchChannel(ch byte)
	TransmitFrame(f *Frame) error

	StartChannelScanningTimer()
	StartAssociationWaitTimer()
	StartPollTimer()
	StartPendingDataWaitTimer()
	StopActiveTimer()

	GetPendingFrames() bool
}

// CommandProcessor is the application-level command dispatcher (external
// collaborator, spec §1/§4.5). The data-frame handler invokes it once per
// TLV element in the request's inner body, advancing readOff/writeOff by
// however many bytes it consumed/produced.
type CommandProcessor interface {
	Process(req *Frame, readOff *int, resp *Frame, writeOff *int, authenticated bool) error
}
