// Package feedback decodes sensor feedback cycles.
//
// A cycle answers one poll with 10 bytes, two per sensor group A..E.
// The first byte of a group covers sensors 1..8 and the second 9..16,
// the most significant bit being the lowest numbered sensor.
package feedback

// Cycle layout
const (
	FirstGroup    byte = 'A'
	LastGroup     byte = 'E'
	BytesPerGroup      = 2
	CycleLength        = int(LastGroup-FirstGroup+1) * BytesPerGroup
)

// CycleState is the position within the current feedback cycle.
type CycleState struct {
	Group       byte
	Half        int
	Outstanding bool
}

// Idle indicates no cycle is in progress or requested.
func (s CycleState) Idle() bool {
	return s.Group == FirstGroup && s.Half == 0 && !s.Outstanding
}

// Result reports what one byte did.
type Result struct {
	// Hits are the sensors set in the byte, in bit-scan order.
	Hits []Hit
	// FirstByte is set for the first byte of a cycle.
	FirstByte bool
	// CycleDone is set for the last byte of a cycle.
	CycleDone bool
}

// Decoder turns feedback bytes into hits and records them in Log.
type Decoder struct {
	Log ActivityLog

	state CycleState
}

// NewDecoder creates an idle Decoder.
func NewDecoder() *Decoder {
	return &Decoder{state: CycleState{Group: FirstGroup}}
}

// State returns the cycle state.
func (d *Decoder) State() CycleState {
	return d.state
}

// Request marks a poll as outstanding.
func (d *Decoder) Request() {
	d.state.Outstanding = true
}

// Reset abandons the current cycle.
func (d *Decoder) Reset() {
	d.state = CycleState{Group: FirstGroup}
}

// Decode consumes one byte of the cycle.
func (d *Decoder) Decode(b byte) (r Result) {
	if d.state.Group == 0 {
		d.state.Group = FirstGroup
	}
	r.FirstByte = d.state.Group == FirstGroup && d.state.Half == 0
	offset := d.state.Half * 8
	for bit := 0; bit < 8; bit++ {
		if b&(0x80>>uint(bit)) != 0 {
			hit := Hit{Group: d.state.Group, Sensor: offset + bit + 1}
			d.Log.Add(hit)
			r.Hits = append(r.Hits, hit)
		}
	}
	if d.state.Half == 0 {
		d.state.Half = 1
		return
	}
	d.state.Half = 0
	if d.state.Group == LastGroup {
		d.state.Group, d.state.Outstanding = FirstGroup, false
		r.CycleDone = true
	} else {
		d.state.Group++
	}
	return
}

// Encode builds the cycle reporting hits, the inverse of Decode.
func Encode(hits ...Hit) []byte {
	cycle := make([]byte, CycleLength)
	for _, h := range hits {
		if h.Group < FirstGroup || h.Group > LastGroup || h.Sensor < 1 || h.Sensor > 16 {
			continue
		}
		idx := int(h.Group-FirstGroup)*BytesPerGroup + (h.Sensor-1)/8
		cycle[idx] |= 0x80 >> uint((h.Sensor-1)%8)
	}
	return cycle
}
