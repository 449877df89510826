package simulator

import "time"

// state of a service channel
type channelState int

const (
	channelIdle channelState = iota
	channelBusy
)

// service channel; occupiedSince is valid only while busy
type channel struct {
	state         channelState
	occupiedSince time.Time
}

// Fixed-size set of service channels. Not safe for concurrent use: every call
// happens under the ServiceSystem lock.
type channelPool struct {
	channels []channel
	busy     int
}

func newChannelPool(size int) *channelPool {
	return &channelPool{channels: make([]channel, size)}
}

// tryAcquireFirstIdle marks the lowest-index idle channel busy from now on.
// It reports false when every channel is busy.
func (p *channelPool) tryAcquireFirstIdle(now time.Time) (int, bool) {
	for i := range p.channels {
		if p.channels[i].state == channelIdle {
			p.channels[i].state = channelBusy
			p.channels[i].occupiedSince = now
			p.busy++
			return i, true
		}
	}
	return -1, false
}

// release returns a busy channel to idle and reports when it was occupied.
// Releasing an idle channel is a no-op and reports false.
func (p *channelPool) release(index int) (time.Time, bool) {
	if index < 0 || index >= len(p.channels) || p.channels[index].state != channelBusy {
		return time.Time{}, false
	}
	since := p.channels[index].occupiedSince
	p.channels[index] = channel{}
	p.busy--
	return since, true
}

func (p *channelPool) isBusy(index int) bool {
	return index >= 0 && index < len(p.channels) && p.channels[index].state == channelBusy
}

func (p *channelPool) busyCount() int {
	return p.busy
}

func (p *channelPool) size() int {
	return len(p.channels)
}
