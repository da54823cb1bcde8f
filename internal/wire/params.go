// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

import (
	"bytes"
	"strings"
)

// ParamMap is an unordered mapping from parameter keys to raw byte-string
// values. The last write wins on key collision.
type ParamMap map[string][]byte

// ParamDecoder reads count top-level parameter entries from a buffer using
// a particular wire dialect, accumulating into a ParamMap.
type ParamDecoder func(input []byte, count uint64) Result[ParamMap]

// ParamsNormal implements the normal ssh dialect: count top-level entries,
// each either a named parameter ("ident N\n<N bytes>") or a star
// meta-parameter ("* M\n" followed recursively by M more entries of
// either form). A star entry counts as one of the count top-level slots;
// its expansion does not.
func ParamsNormal(input []byte, count uint64) Result[ParamMap] {
	out := ParamMap{}
	rest := input
	for slots := count; slots > 0; slots-- {
		n, newRest, status, err := readOneEntry(rest, out)
		_ = n
		if status != StatusDone {
			return Result[ParamMap]{Status: status, Err: err}
		}
		rest = newRest
	}
	return Done(rest, out)
}

// readOneEntry reads a single top-level entry (named or star), inserting
// resulting key/value pairs into out, and returns the new remaining input.
func readOneEntry(input []byte, out ParamMap) (string, []byte, Status, error) {
	if len(input) == 1 && input[0] == '*' {
		return "", nil, StatusIncomplete, nil
	}
	if len(input) >= 2 && input[0] == '*' && input[1] == ' ' {
		mRes := Integer(input[2:])
		if !mRes.IsDone() {
			return "", nil, mRes.Status, mRes.Err
		}
		afterCount := mRes.Rest
		if len(afterCount) == 0 {
			return "", nil, StatusIncomplete, nil
		}
		if afterCount[0] != '\n' {
			return "", nil, StatusError, &ParseSyntaxError{Kind: KindAlt}
		}
		rest := afterCount[1:]
		for i := uint64(0); i < mRes.Value; i++ {
			_, newRest, status, err := readOneEntry(rest, out)
			if status != StatusDone {
				return "", nil, status, err
			}
			rest = newRest
		}
		return "", rest, StatusDone, nil
	}

	identRes := Ident(input)
	if !identRes.IsDone() {
		return "", nil, identRes.Status, identRes.Err
	}
	rest := identRes.Rest
	if len(rest) == 0 {
		return "", nil, StatusIncomplete, nil
	}
	if rest[0] != ' ' {
		return "", nil, StatusError, &ParseSyntaxError{Kind: KindAlt}
	}
	rest = rest[1:]

	lenRes := Integer(rest)
	if !lenRes.IsDone() {
		return "", nil, lenRes.Status, lenRes.Err
	}
	rest = lenRes.Rest
	if len(rest) == 0 {
		return "", nil, StatusIncomplete, nil
	}
	if rest[0] != '\n' {
		return "", nil, StatusError, &ParseSyntaxError{Kind: KindAlt}
	}
	rest = rest[1:]

	n := lenRes.Value
	if uint64(len(rest)) < n {
		return "", nil, StatusIncomplete, nil
	}
	value := rest[:n]
	valCopy := make([]byte, n)
	copy(valCopy, value)
	out[identRes.Value] = valCopy
	return identRes.Value, rest[n:], StatusDone, nil
}

// ParamsBatch implements the batch dialect: count is ignored, and the
// entire remaining input is parsed as a comma-separated list of
// key=value pairs, each escaped per the batch escape table. Empty input
// yields an empty map. Unlike ParamsNormal, this never returns Incomplete
// on a closed slice: it is always handed the full remaining input of a
// batch sub-command, which by the time it's invoked is already fully
// buffered.
func ParamsBatch(input []byte, _ uint64) Result[ParamMap] {
	out := ParamMap{}
	if len(input) == 0 {
		return Done(nil, out)
	}
	for _, tok := range bytes.Split(input, []byte(",")) {
		eq := bytes.IndexByte(tok, '=')
		if eq < 0 {
			return Fail[ParamMap](&ParseSyntaxError{Kind: KindAlt})
		}
		key, err := unescapeBatch(tok[:eq])
		if err != nil {
			return Fail[ParamMap](err)
		}
		val, err := unescapeBatch(tok[eq+1:])
		if err != nil {
			return Fail[ParamMap](err)
		}
		out[string(key)] = val
	}
	return Done(nil, out)
}

// escapeBatch applies the batch dialect's ad-hoc escape.
func escapeBatch(b []byte) []byte {
	var sb strings.Builder
	for _, c := range b {
		switch c {
		case ':':
			sb.WriteString(":c")
		case ',':
			sb.WriteString(":o")
		case ';':
			sb.WriteString(":s")
		case '=':
			sb.WriteString(":e")
		default:
			sb.WriteByte(c)
		}
	}
	return []byte(sb.String())
}

// unescapeBatch reverses escapeBatch. An unknown ":x" escape sequence is
// an error.
func unescapeBatch(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != ':' {
			out = append(out, b[i])
			continue
		}
		if i+1 >= len(b) {
			return nil, &ParseSyntaxError{Kind: KindBadEscape}
		}
		i++
		switch b[i] {
		case 'c':
			out = append(out, ':')
		case 'o':
			out = append(out, ',')
		case 's':
			out = append(out, ';')
		case 'e':
			out = append(out, '=')
		default:
			return nil, &ParseSyntaxError{Kind: KindBadEscape}
		}
	}
	return out, nil
}
