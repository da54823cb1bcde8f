// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package wire

import (
	"errors"
	"testing"
)

func TestIntegerIncomplete(t *testing.T) {
	r := Integer([]byte("123"))
	if !r.IsIncomplete() {
		t.Fatalf("expected incomplete, got %v", r.Status)
	}
}

func TestIntegerDone(t *testing.T) {
	r := Integer([]byte("123 rest"))
	if !r.IsDone() || r.Value != 123 || string(r.Rest) != " rest" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestIntegerNoDigit(t *testing.T) {
	r := Integer([]byte("abc"))
	if !r.IsError() {
		t.Fatalf("expected error, got %v", r.Status)
	}
}

func TestIntegerOverflow(t *testing.T) {
	r := Integer([]byte("99999999999999999999 rest"))
	if !r.IsError() {
		t.Fatalf("expected error, got %v", r.Status)
	}
	var syn *ParseSyntaxError
	if !errors.As(r.Err, &syn) || syn.Kind != KindOverflow {
		t.Fatalf("expected KindOverflow, got %v", r.Err)
	}
}

func TestIdentIncompleteAtEOF(t *testing.T) {
	r := Ident([]byte("foo"))
	if !r.IsIncomplete() {
		t.Fatalf("expected incomplete, got %v", r.Status)
	}
}

func TestIdentCompleteAtEOF(t *testing.T) {
	r := IdentComplete([]byte("foo"))
	if !r.IsDone() || r.Value != "foo" {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestParseNodeHashIncomplete(t *testing.T) {
	r := ParseNodeHash([]byte("aaaa"))
	if !r.IsIncomplete() {
		t.Fatalf("expected incomplete, got %v", r.Status)
	}
}

func TestParseNodeHashDone(t *testing.T) {
	h := repeatHex('a')
	r := ParseNodeHash([]byte(h))
	if !r.IsDone() {
		t.Fatalf("expected done, got %v: %v", r.Status, r.Err)
	}
	for _, b := range r.Value {
		if b != 0xaa {
			t.Fatalf("unexpected decoded byte %x", b)
		}
	}
}

func TestParseNodeHashBadHex(t *testing.T) {
	bad := "zz" + repeatHex('a')[2:]
	r := ParseNodeHash([]byte(bad))
	if !r.IsError() {
		t.Fatalf("expected error, got %v", r.Status)
	}
}

func TestHashListEmpty(t *testing.T) {
	out, err := ParseHashList(nil)
	if err != nil || out != nil {
		t.Fatalf("expected empty nil list, got %v %v", out, err)
	}
}

func TestCommaValuesEmptyIsNotOneEmptyString(t *testing.T) {
	out := ParseCommaValues(nil)
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %v", out)
	}
}

func TestCommaValuesSplits(t *testing.T) {
	out := ParseCommaValues([]byte("a,b,"))
	want := []string{"a", "b", ""}
	if len(out) != len(want) {
		t.Fatalf("unexpected split: %v", out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("unexpected split: %v", out)
		}
	}
}

func repeatHex(c byte) string {
	b := make([]byte, 40)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
