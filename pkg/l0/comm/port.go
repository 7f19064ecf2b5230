package comm

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// Port adapts a blocking io.Reader/io.Writer pair into a Channel.
// A read loop fills the receive ring and a write loop drains the
// transmit ring, both running in Run.
type Port struct {
	Name string

	reader io.Reader
	writer io.Writer
	closer io.Closer

	rx      *Ring
	tx      *Ring
	lock    sync.Mutex
	txReady chan struct{}
	txDone  chan struct{}
}

// DefaultPortBufferSize is the default capacity of Port rings.
const DefaultPortBufferSize = 1024

// NewPort creates a Port over a ReadWriter, e.g. a serial port.
func NewPort(name string, rw io.ReadWriter) *Port {
	p := NewSplitPort(name, rw, rw)
	if closer, ok := rw.(io.Closer); ok {
		p.closer = closer
	}
	return p
}

// NewSplitPort creates a Port reading and writing different streams,
// e.g. stdin and stdout.
func NewSplitPort(name string, r io.Reader, w io.Writer) *Port {
	return &Port{
		Name:    name,
		reader:  r,
		writer:  w,
		rx:      NewRing(DefaultPortBufferSize),
		tx:      NewRing(DefaultPortBufferSize),
		txReady: make(chan struct{}, 1),
		txDone:  make(chan struct{}, 1),
	}
}

// WithBufferSize replaces the rings. It must be called before Run.
func (p *Port) WithBufferSize(rxCap, txCap int) *Port {
	p.rx, p.tx = NewRing(rxCap), NewRing(txCap)
	return p
}

// TryReceive implements Channel.
func (p *Port) TryReceive() (byte, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.rx.PopByte()
}

// TrySend implements Channel.
func (p *Port) TrySend(data []byte) int {
	p.lock.Lock()
	n := p.tx.Enqueue(data)
	p.lock.Unlock()
	if n > 0 {
		notify(p.txReady)
	}
	return n
}

// TxFree implements TxSpacer.
func (p *Port) TxFree() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.tx.Free()
}

// Send implements Channel.
func (p *Port) Send(ctx context.Context, data []byte) error {
	for len(data) > 0 {
		data = data[p.TrySend(data):]
		if len(data) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.txDone:
		}
	}
	return p.Flush(ctx)
}

// Flush implements Flusher.
func (p *Port) Flush(ctx context.Context) error {
	for {
		p.lock.Lock()
		empty := p.tx.Empty()
		p.lock.Unlock()
		if empty {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.txDone:
		}
	}
}

// Run implements Runnable.
func (p *Port) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() { errCh <- p.readLoop() }()
	go func() { errCh <- p.writeLoop(ctx) }()
	select {
	case <-ctx.Done():
		p.Close()
		return ctx.Err()
	case err := <-errCh:
		if err == nil {
			err = ctx.Err()
		} else {
			glog.Warningf("port %s: %v", p.Name, err)
		}
		p.Close()
		return err
	}
}

// Close closes the underlying stream, if it can be closed.
func (p *Port) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func (p *Port) readLoop() error {
	buf := make([]byte, 64)
	for {
		n, err := p.reader.Read(buf)
		if n > 0 {
			p.lock.Lock()
			accepted := p.rx.Enqueue(buf[:n])
			p.lock.Unlock()
			if accepted < n {
				glog.V(2).Infof("port %s: dropped %d received bytes", p.Name, n-accepted)
			}
		}
		if err != nil {
			return err
		}
	}
}

func (p *Port) writeLoop(ctx context.Context) error {
	var chunk []byte
	for {
		p.lock.Lock()
		chunk = append(chunk[:0], p.tx.LongestRun()...)
		p.lock.Unlock()
		if len(chunk) == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-p.txReady:
			}
			continue
		}
		n, err := p.writer.Write(chunk)
		p.lock.Lock()
		p.tx.Consume(n)
		p.lock.Unlock()
		notify(p.txDone)
		if err != nil {
			return err
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
