// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

import "bytes"

// CmdEntry is one sub-command extracted from a batch's cmds value: a
// command name and its batch-dialect-encoded argument string.
type CmdEntry struct {
	Name string
	Args string
}

// ParseCmd consumes "<name> <args-until-';'-or-end>" from a closed slice.
func ParseCmd(input []byte) (CmdEntry, []byte, error) {
	sp := bytes.IndexByte(input, ' ')
	if sp < 0 {
		return CmdEntry{}, nil, &ParseSyntaxError{Kind: KindAlt}
	}
	name := input[:sp]
	if len(name) == 0 || !isIdentStart(name[0]) {
		return CmdEntry{}, nil, &ParseSyntaxError{Kind: KindAlphaNumeric}
	}
	for _, b := range name {
		if !isIdentCont(b) {
			return CmdEntry{}, nil, &ParseSyntaxError{Kind: KindAlphaNumeric}
		}
	}
	rest := input[sp+1:]
	semi := bytes.IndexByte(rest, ';')
	var args, tail []byte
	if semi < 0 {
		args, tail = rest, nil
	} else {
		args, tail = rest[:semi], rest[semi+1:]
	}
	return CmdEntry{Name: string(name), Args: string(args)}, tail, nil
}

// ParseCmdList splits a closed slice on ';' into CmdEntries, each itself
// parsed by ParseCmd.
func ParseCmdList(input []byte) ([]CmdEntry, error) {
	if len(input) == 0 {
		return nil, nil
	}
	var out []CmdEntry
	rest := input
	for {
		entry, tail, err := ParseCmd(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
		if tail == nil {
			break
		}
		rest = tail
	}
	return out, nil
}
