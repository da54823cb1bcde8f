// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package revset

import "context"

// slotStatus tracks per-input poll bookkeeping: each input
// stream's most recently observed outcome, kept alongside it rather than
// collapsed into a channel, so the barrier logic below can inspect every
// input's state without re-polling streams that already produced a
// result this round.
type slotStatus int

const (
	slotNotReady slotStatus = iota
	slotReady
	slotEnded
	slotErr
)

type intersectSlot struct {
	input  genStream
	status slotStatus
	item   hashGen
	err    error
}

// Intersect computes the set intersection of its inputs, each of which
// must already be generation-ordered and deduplicated within itself.
// Output is generation-ordered. Composes with Ancestors/Union: any
// operator's output is a valid Intersect input.
func Intersect(cache GenerationCache, inputs []Stream, bufferSize int) Stream {
	slots := make([]*intersectSlot, len(inputs))
	for i, in := range inputs {
		slots[i] = &intersectSlot{input: addGenerations(in, cache, bufferSize)}
	}
	return &intersectStream{slots: slots, accumulator: map[NodeHash]int{}}
}

type intersectStream struct {
	slots              []*intersectSlot
	currentGeneration  Generation
	haveGeneration     bool
	accumulator        map[NodeHash]int
	drainCounts        map[NodeHash]int
	drain              []NodeHash
	drainPos           int
	draining           bool
}

func (s *intersectStream) pollAllInputs(ctx context.Context) {
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
			// leave as slotNotReady
		}
	}
}

func (s *intersectStream) allReady() bool {
	for _, slot := range s.slots {
		if slot.status == slotNotReady {
			return false
		}
	}
	return true
}

func (s *intersectStream) anyEnded() bool {
	if len(s.slots) == 0 {
		return true
	}
	for _, slot := range s.slots {
		if slot.status == slotEnded {
			return true
		}
	}
	return false
}

func (s *intersectStream) firstErr() error {
	for _, slot := range s.slots {
		if slot.status == slotErr {
			return slot.err
		}
	}
	return nil
}

// updateCurrentGeneration sets current_generation to the minimum head
// generation across all (ready) inputs. Using the minimum is correct
// because inputs are non-increasing: the smallest head is the one that
// must advance next, and no input can ever re-emit a larger generation.
func (s *intersectStream) updateCurrentGeneration() {
	first := true
	var min Generation
	for _, slot := range s.slots {
		if slot.status == slotReady {
			if first || slot.item.gen < min {
				min = slot.item.gen
				first = false
			}
		}
	}
	if !first {
		s.currentGeneration = min
		s.haveGeneration = true
	}
}

// accumulateNodes consumes every slot whose head is at or above
// current_generation: at current_generation it contributes to the
// accumulator count; above it, it is simply dropped (it already passed
// the barrier in an earlier round without matching every input).
func (s *intersectStream) accumulateNodes() {
	foundAny := false
	for _, slot := range s.slots {
		if slot.status != slotReady {
			continue
		}
		if slot.item.gen == s.currentGeneration {
			s.accumulator[slot.item.hash]++
		}
		if slot.item.gen >= s.currentGeneration {
			foundAny = true
			slot.status = slotNotReady
		}
	}
	if !foundAny {
		s.haveGeneration = false
	}
}

func (s *intersectStream) Poll(ctx context.Context) PollResult {
	for {
		s.pollAllInputs(ctx)

		for s.draining {
			if s.drainPos >= len(s.drain) {
				s.draining = false
				break
			}
			hash := s.drain[s.drainPos]
			count := s.drainCounts[hash]
			s.drainPos++
			if count == len(s.slots) {
				return pollReady(hash)
			}
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
				s.drainCounts = s.accumulator
				s.accumulator = map[NodeHash]int{}
				s.drainPos = 0
				s.draining = true
			}
		} else {
			s.accumulateNodes()
		}

		if !s.draining && len(s.accumulator) == 0 && s.anyEnded() {
			return pollEnded()
		}
	}
}
