// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

import (
	"errors"
	"testing"
)

func hexNode(digit byte) string {
	b := make([]byte, 40)
	for i := range b {
		b[i] = digit
	}
	return string(b)
}

// Scenario 1 from the testable-properties section: a between request with
// two pairs.
func TestScenarioBetween(t *testing.T) {
	h1, h2, h3, h4 := hexNode('1'), hexNode('2'), hexNode('3'), hexNode('4')
	value := h1 + "-" + h2 + " " + h3 + "-" + h4
	input := "between\npairs " + itoa(len(value)) + "\n" + value

	buf := NewInputBuffer([]byte(input))
	req, ok, err := buf.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected parse to complete")
	}
	if req.Kind != KindBetween {
		t.Fatalf("expected between, got %v", req.Kind)
	}
	if len(req.Between.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(req.Between.Pairs))
	}
	if buf.Len() != 0 {
		t.Fatalf("expected buffer fully consumed, got %d bytes left", buf.Len())
	}
}

// Scenario 2: getbundle with an empty star, all four defaulted fields
// come back empty.
func TestScenarioGetbundleDefaults(t *testing.T) {
	input := "getbundle\n* 0\n"
	buf := NewInputBuffer([]byte(input))
	req, ok, err := buf.Parse()
	if err != nil || !ok {
		t.Fatalf("unexpected outcome: ok=%v err=%v", ok, err)
	}
	g := req.Getbundle
	if len(g.Heads) != 0 || len(g.Common) != 0 || len(g.Bundlecaps) != 0 || len(g.Listkeys) != 0 {
		t.Fatalf("expected all-empty defaults, got %+v", g)
	}
}

// Scenario 3: debugwireargs with a star slot expanding two extra
// entries, and the two named fields plus the full raw ParamMap.
func TestScenarioDebugwireargs(t *testing.T) {
	input := "debugwireargs\n* 2\nthree 5\nTHREEempty 0\none 3\nONEtwo 3\nTWO"
	buf := NewInputBuffer([]byte(input))
	req, ok, err := buf.Parse()
	if err != nil || !ok {
		t.Fatalf("unexpected outcome: ok=%v err=%v", ok, err)
	}
	d := req.Debugwireargs
	if d.One != "ONE" || d.Two != "TWO" {
		t.Fatalf("unexpected one/two: %+v", d)
	}
	if string(d.AllArgs["three"]) != "THREE" || string(d.AllArgs["empty"]) != "" {
		t.Fatalf("unexpected all_args: %+v", d.AllArgs)
	}
}

// Scenario 4: batch with an empty star and a cmds field whose value is
// itself two semicolon-separated sub-commands in the batch dialect.
func TestScenarioBatch(t *testing.T) {
	cmds := "heads ;known nodes=ee" + hexNode('a')[2:] + " " + hexNode('5') + "b"[:0] + hexNode('5')
	// Build a deliberately simple cmds value instead of reusing the
	// illustrative (non-byte-accurate) example in the prose spec.
	cmds = "heads ;known nodes=" + hexNode('a') + " " + hexNode('b')
	input := "batch\n* 0\ncmds " + itoa(len(cmds)) + "\n" + cmds

	buf := NewInputBuffer([]byte(input))
	req, ok, err := buf.Parse()
	if err != nil || !ok {
		t.Fatalf("unexpected outcome: ok=%v err=%v", ok, err)
	}
	b := req.Batch
	if len(b.Cmds) != 2 {
		t.Fatalf("expected 2 sub-commands, got %d: %+v", len(b.Cmds), b.Cmds)
	}
	if b.Cmds[0].Name != "heads" || b.Cmds[0].Args != "" {
		t.Fatalf("unexpected first sub-command: %+v", b.Cmds[0])
	}
	if b.Cmds[1].Name != "known" {
		t.Fatalf("unexpected second sub-command: %+v", b.Cmds[1])
	}
	sub, err := ParseBatchArgs(b.Cmds[1].Name, b.Cmds[1].Args)
	if err != nil {
		t.Fatalf("unexpected error re-parsing sub-command: %v", err)
	}
	if len(sub.Known.Nodes) != 2 {
		t.Fatalf("expected 2 nodes in known sub-command, got %+v", sub.Known)
	}
}

func TestIncrementalCorrectness(t *testing.T) {
	full := []byte("hello\n")
	for k := 0; k < len(full); k++ {
		buf := NewInputBuffer(full[:k])
		_, ok, err := buf.Parse()
		if err != nil || ok {
			t.Fatalf("prefix %d: expected incomplete, got ok=%v err=%v", k, ok, err)
		}
	}
	buf := NewInputBuffer(full)
	req, ok, err := buf.Parse()
	if err != nil || !ok || req.Kind != KindHello {
		t.Fatalf("unexpected full-input result: ok=%v err=%v req=%+v", ok, err, req)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected buffer fully consumed")
	}
}

func TestExtraBytesPreservation(t *testing.T) {
	suffix := []byte("extra-trailing-bytes")
	input := append([]byte("streamout\n"), suffix...)
	buf := NewInputBuffer(input)
	req, ok, err := buf.Parse()
	if err != nil || !ok || req.Kind != KindStreamout {
		t.Fatalf("unexpected result: ok=%v err=%v", ok, err)
	}
	if string(buf.Bytes()) != string(suffix) {
		t.Fatalf("expected exactly the suffix left in buffer, got %q", buf.Bytes())
	}
}

func TestExactConsumptionTrailingBytesError(t *testing.T) {
	// lookup's key field is ident_complete: a value with trailing bytes
	// after a valid identifier prefix must still be fully consumed.
	value := "abc!"
	input := "lookup\nkey " + itoa(len(value)) + "\n" + value
	buf := NewInputBuffer([]byte(input))
	_, ok, err := buf.Parse()
	if ok || err == nil {
		t.Fatalf("expected an UnconsumedParamBytesError, got ok=%v err=%v", ok, err)
	}
}

func TestBatchEscapeRoundTrip(t *testing.T) {
	samples := [][]byte{
		[]byte(":,;="),
		[]byte("plain"),
		[]byte("mix:ed,va;lue=s"),
		{},
	}
	for _, s := range samples {
		escaped := escapeBatch(s)
		back, err := unescapeBatch(escaped)
		if err != nil {
			t.Fatalf("unexpected error unescaping %q: %v", escaped, err)
		}
		if string(back) != string(s) {
			t.Fatalf("round-trip mismatch: got %q want %q", back, s)
		}
	}
}

// A client that never sends a newline, and whose buffer has already
// grown past the longest known command name, must be rejected instead
// of left Incomplete forever.
func TestCommandNameTooLong(t *testing.T) {
	junk := make([]byte, maxCommandNameLen+64)
	for i := range junk {
		junk[i] = 'x'
	}

	buf := NewInputBuffer(junk)
	_, ok, err := buf.Parse()
	if ok {
		t.Fatalf("expected parse to fail, not complete")
	}
	var tooLong *CommandNameTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("expected CommandNameTooLongError, got %v", err)
	}
}

// A buffer shorter than the longest command name with no newline yet is
// still a legitimate Incomplete, not an error.
func TestCommandNameShortOfLimitStillIncomplete(t *testing.T) {
	buf := NewInputBuffer([]byte("bat"))
	_, ok, err := buf.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected parse to remain incomplete")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
