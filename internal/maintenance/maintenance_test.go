// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package maintenance

import (
	"testing"
	"time"
)

func TestParseDurationUsesFallbackOnEmpty(t *testing.T) {
	got := parseDuration("", "5m")
	if got != 5*time.Minute {
		t.Fatalf("expected fallback duration, got %v", got)
	}
}

func TestParseDurationUsesFallbackOnInvalid(t *testing.T) {
	got := parseDuration("not-a-duration", "1h")
	if got != time.Hour {
		t.Fatalf("expected fallback duration on parse failure, got %v", got)
	}
}

func TestParseDurationParsesValid(t *testing.T) {
	got := parseDuration("30s", "1h")
	if got != 30*time.Second {
		t.Fatalf("expected parsed duration, got %v", got)
	}
}
