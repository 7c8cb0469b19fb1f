// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.
package osnp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BroadcastEUI is the reserved all-ones extended address.
var BroadcastEUI = EUI64{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// EUI64 is a 64-bit IEEE extended unique identifier, the permanent address
// every OSNP endpoint is provisioned with. As typically represented, an
// EUI-64 is eight colon-separated hexadecimal octets.
type EUI64 [8]byte

// ParseEUI64 parses an EUI-64 from its colon-separated hex representation.
func ParseEUI64(addr string) (EUI64, error) {
	b := strings.SplitN(addr, ":", 8)
	if len(b) != 8 {
		return EUI64{}, errors.New("osnp: cannot parse EUI-64, expected 8 colon-separated octets")
	}
	var eui EUI64
	for i := range b {
		v, err := strconv.ParseUint(b[i], 16, 8)
		if err != nil {
			return EUI64{}, err
		}
		eui[i] = byte(v)
	}
	return eui, nil
}

// String renders the EUI-64 as eight colon-separated hex octets.
func (e EUI64) String() string {
	return fmt.Sprintf("%.2x:%.2x:%.2x:%.2x:%.2x:%.2x:%.2x:%.2x",
		e[0], e[1], e[2], e[3], e[4], e[5], e[6], e[7],
	)
}

// Compare reports whether e and other are the same address.
func (e EUI64) Compare(other EUI64) bool {
	return bytes.Equal(e[:], other[:])
}

// IsEmpty reports whether e is the all-zero address, the sentinel an
// unprovisioned endpoint boots with.
func (e EUI64) IsEmpty() bool {
	return e == EUI64{}
}
