// Copyright (c) 2014 Michele Balistreri. All rights reserved.
// Use of this source code is governed by an MIT license
// that can be found in the LICENSE file.

//go:build linux

package main

import (
	osnp "github.com/mbalistreri/osnp"
	"github.com/mbalistreri/osnp/internal/tlv"
)

// demoProcessor is a minimal osnp.CommandProcessor answering the
// application-level commands well enough to exercise the data-frame
// handler end to end. It is not the application dispatcher spec.md treats
// as an external collaborator; a real deployment supplies its own.
type demoProcessor struct {
	firmwareVersion byte
}

func (p *demoProcessor) Process(req *osnp.Frame, readOff *int, resp *osnp.Frame, writeOff *int, authenticated bool) error {
	reqPayload := req.Payload()
	cmd, n, err := tlv.ReadTag(reqPayload[*readOff:])
	if err != nil {
		return err
	}
	*readOff += n
	length, n, err := tlv.ReadLength(reqPayload[*readOff:])
	if err != nil {
		return err
	}
	*readOff += n
	if *readOff+length > len(reqPayload) {
		return tlv.ErrShortBuffer
	}
	value := reqPayload[*readOff : *readOff+length]
	*readOff += length

	out := resp.PayloadCap()

	switch cmd {
	case osnp.CmdGetDeviceInfo:
		var param byte
		if len(value) > 0 {
			param = value[0]
		}
		n, _ := tlv.WriteTag(out[*writeOff:], osnp.CmdGetDeviceInfo)
		*writeOff += n
		n, _ = tlv.WriteLength(out[*writeOff:], 1)
		*writeOff += n
		out[*writeOff] = p.firmwareVersion ^ param
		*writeOff++

	case osnp.CmdGetData:
		n, _ := tlv.WriteTag(out[*writeOff:], osnp.CmdGetData)
		*writeOff += n
		n, _ = tlv.WriteLength(out[*writeOff:], 0)
		*writeOff += n

	case osnp.CmdConfigure, osnp.CmdPerform, osnp.CmdSubscribe, osnp.CmdUnsubscribe:
		if !authenticated {
			n, _ := tlv.WriteTag(out[*writeOff:], cmd)
			*writeOff += n
			n, _ = tlv.WriteLength(out[*writeOff:], 1)
			*writeOff += n
			out[*writeOff] = osnp.ErrCodeSecurityError
			*writeOff++
			break
		}
		n, _ := tlv.WriteTag(out[*writeOff:], cmd)
		*writeOff += n
		n, _ = tlv.WriteLength(out[*writeOff:], 0)
		*writeOff += n

	default:
		n, _ := tlv.WriteTag(out[*writeOff:], cmd)
		*writeOff += n
		n, _ = tlv.WriteLength(out[*writeOff:], 1)
		*writeOff += n
		out[*writeOff] = osnp.ErrCodeUnsupportedCommand
		*writeOff++
	}

	return nil
}
