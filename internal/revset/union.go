// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "context"

// Union computes the set union of its inputs, each of which must already
// be generation-ordered and deduplicated within itself. Output is
// generation-ordered and deduplicated. Symmetric to Intersect: the
// barrier synchronizes at the maximum (rather than minimum) head
// generation across inputs, since that is the one head guaranteed not to
// be exceeded by any other input this round, and advances downward as
// each wave is consumed.
func Union(cache GenerationCache, inputs []Stream, bufferSize int) Stream {
	slots := make([]*intersectSlot, len(inputs))
	for i, in := range inputs {
		slots[i] = &intersectSlot{input: addGenerations(in, cache, bufferSize)}
	}
	return &unionStream{slots: slots, accumulator: map[NodeHash]struct{}{}}
}

type unionStream struct {
	slots             []*intersectSlot
	currentGeneration Generation
	haveGeneration    bool
	accumulator       map[NodeHash]struct{}
	drain             []NodeHash
	drainPos          int
	draining          bool
}

func (s *unionStream) pollAllInputs(ctx context.Context) {
	for _, slot := range s.slots {
		if slot.status != slotNotReady {
			continue
		}
		res := slot.input.poll(ctx)
		switch res.status {
		case Ready:
			slot.status = slotReady
			slot.item = res.item
		case Ended:
			slot.status = slotEnded
		case Errored:
			slot.status = slotErr
			slot.err = res.err
		case NotReady:
		}
	}
}

func (s *unionStream) allReady() bool {
	for _, slot := range s.slots {
		if slot.status == slotNotReady {
			return false
		}
	}
	return true
}

func (s *unionStream) allEnded() bool {
	for _, slot := range s.slots {
		if slot.status != slotEnded {
			return false
		}
	}
	return true
}

func (s *unionStream) firstErr() error {
	for _, slot := range s.slots {
		if slot.status == slotErr {
			return slot.err
		}
	}
	return nil
}

// updateCurrentGeneration sets current_generation to the maximum head
// generation across all ready inputs: the unique head that no other
// input can exceed this round.
func (s *unionStream) updateCurrentGeneration() {
	first := true
	var max Generation
	for _, slot := range s.slots {
		if slot.status == slotReady {
			if first || slot.item.gen > max {
				max = slot.item.gen
				first = false
			}
		}
	}
	if !first {
		s.currentGeneration = max
		s.haveGeneration = true
	}
}

func (s *unionStream) accumulateNodes() {
	foundAny := false
	for _, slot := range s.slots {
		if slot.status != slotReady {
			continue
		}
		if slot.item.gen == s.currentGeneration {
			s.accumulator[slot.item.hash] = struct{}{}
			foundAny = true
			slot.status = slotNotReady
		}
	}
	if !foundAny {
		s.haveGeneration = false
	}
}

func (s *unionStream) Poll(ctx context.Context) PollResult {
	for {
		s.pollAllInputs(ctx)

		for s.draining {
			if s.drainPos >= len(s.drain) {
				s.draining = false
				break
			}
			hash := s.drain[s.drainPos]
			s.drainPos++
			return pollReady(hash)
		}

		if err := s.firstErr(); err != nil {
			return pollErr(err)
		}

		if !s.allReady() {
			return pollNotReady()
		}

		if !s.haveGeneration {
			if len(s.accumulator) == 0 {
				s.updateCurrentGeneration()
			} else {
				s.drain = s.drain[:0]
				for h := range s.accumulator {
					s.drain = append(s.drain, h)
				}
				s.accumulator = map[NodeHash]struct{}{}
				s.drainPos = 0
				s.draining = true
			}
		} else {
			s.accumulateNodes()
		}

		if !s.draining && len(s.accumulator) == 0 && s.allEnded() {
			return pollEnded()
		}
	}
}
