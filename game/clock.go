/*
 * Copyright (c) Joseph Prichard 2024
 */

package game

import "time"

type Tick struct {
	Generation int
}

// RoundClock delivers a tick every period into a channel read by the owning table.
// Start and Stop are called from the table goroutine only, the ticker goroutine touches none of the fields.
type RoundClock struct {
	period     time.Duration
	ticks      chan<- Tick
	generation int
	stop       chan struct{}
}

func NewRoundClock(period time.Duration, ticks chan<- Tick) *RoundClock {
	return &RoundClock{period: period, ticks: ticks}
}

// Start begins a new generation of ticks, stopping the previous one
func (clock *RoundClock) Start() {
	clock.Stop()
	clock.generation += 1
	clock.stop = make(chan struct{})
	go runTicker(clock.period, clock.generation, clock.stop, clock.ticks)
}

func (clock *RoundClock) Stop() {
	if clock.stop != nil {
		close(clock.stop)
		clock.stop = nil
	}
}

func (clock *RoundClock) Running() bool {
	return clock.stop != nil
}

// IsCurrent is false for ticks sent by a generation that has since been stopped
func (clock *RoundClock) IsCurrent(tick Tick) bool {
	return clock.Running() && tick.Generation == clock.generation
}

func runTicker(period time.Duration, generation int, stop <-chan struct{}, ticks chan<- Tick) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case ticks <- Tick{Generation: generation}:
			case <-stop:
				return
			}
		}
	}
}
