// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

// Identity is the endpoint's OSNP address tuple. EUI is permanent,
// assigned at provisioning; PANID, ShortAddr and Channel are mutable at
// runtime and persisted through an IdentityStore so they survive a reboot.
type Identity struct {
	EUI       EUI64
	PANID     [2]byte
	ShortAddr [2]byte
	Channel   byte
}

// IdentityStore is the persistence collaborator (component C3). The stack
// never assumes anything about the backing medium beyond "survives a
// reboot, and write calls may be made synchronously from inside an event
// callback." Implementations must tolerate being called from that context.
type IdentityStore interface {
	LoadEUI() (EUI64, error)
	LoadPANID() ([2]byte, error)
	LoadShortAddress() ([2]byte, error)
	LoadChannel() (byte, error)

	WritePANID(id [2]byte) error
	WriteShortAddress(addr [2]byte) error
	WriteChannel(ch byte) error
}
