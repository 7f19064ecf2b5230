package comm

import (
	"context"
	"sync"
	"time"
)

// Channel is an attempt-style byte transport.
type Channel interface {
	// TryReceive returns the next received byte if any is available.
	TryReceive() (byte, bool)
	// TrySend hands over as many bytes as the transport accepts without
	// waiting and returns that count.
	TrySend([]byte) int
	// Send blocks until all bytes are handed over.
	Send(context.Context, []byte) error
}

// Flusher is implemented by channels which buffer outgoing bytes.
type Flusher interface {
	// Flush waits until all accepted bytes are written out.
	Flush(context.Context) error
}

// TxSpacer is implemented by channels which can report how many bytes
// the next TrySend accepts in full.
type TxSpacer interface {
	TxFree() int
}

// RingChannel is an in-memory Channel backed by a pair of Rings.
// The peer side injects received bytes and drains sent bytes.
type RingChannel struct {
	// SendLimit caps the bytes accepted per TrySend, 0 for no cap.
	SendLimit int

	rx   *Ring
	tx   *Ring
	lock sync.Mutex
}

// NewRingChannel creates a RingChannel with rx/tx capacities.
func NewRingChannel(rxCap, txCap int) *RingChannel {
	return &RingChannel{rx: NewRing(rxCap), tx: NewRing(txCap)}
}

// TryReceive implements Channel.
func (c *RingChannel) TryReceive() (byte, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.rx.PopByte()
}

// TrySend implements Channel.
func (c *RingChannel) TrySend(data []byte) int {
	if c.SendLimit > 0 && len(data) > c.SendLimit {
		data = data[:c.SendLimit]
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.tx.Enqueue(data)
}

// TxFree implements TxSpacer.
func (c *RingChannel) TxFree() int {
	c.lock.Lock()
	n := c.tx.Free()
	c.lock.Unlock()
	if c.SendLimit > 0 && n > c.SendLimit {
		n = c.SendLimit
	}
	return n
}

// Send implements Channel.
func (c *RingChannel) Send(ctx context.Context, data []byte) error {
	for len(data) > 0 {
		n := c.TrySend(data)
		data = data[n:]
		if len(data) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}

// Inject makes bytes available to TryReceive. Overflow is dropped.
func (c *RingChannel) Inject(data ...byte) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.rx.Enqueue(data)
}

// Drain takes out all bytes sent so far.
func (c *RingChannel) Drain() []byte {
	c.lock.Lock()
	defer c.lock.Unlock()
	out := c.tx.Bytes()
	c.tx.Reset()
	return out
}

// Pending returns the count of received bytes not yet taken.
func (c *RingChannel) Pending() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.rx.Len()
}
