package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/trainctl/pkg/framework"
)

// TrainSetSpeed sets the speed of a train.
type TrainSetSpeed struct {
	Train uint32 `protobuf:"varint,1,opt,name=train,proto3" json:"train,omitempty"`
	Speed uint32 `protobuf:"varint,2,opt,name=speed,proto3" json:"speed,omitempty"`
}

// NewMessage implements Message.
func (m *TrainSetSpeed) NewMessage() fx.Message { return &TrainSetSpeed{} }

// TypeID implements SerializableMessage.
func (m *TrainSetSpeed) TypeID() uint32 { return TrainSetSpeedTypeID }

// Serializable implements SerializableMessage.
func (m *TrainSetSpeed) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *TrainSetSpeed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *TrainSetSpeed) Reset() { *m = TrainSetSpeed{} }

// String implements proto.Message.
func (m *TrainSetSpeed) String() string { return proto.CompactTextString(m) }

// TrainReverse starts the reversal sequence of a train.
type TrainReverse struct {
	Train uint32 `protobuf:"varint,1,opt,name=train,proto3" json:"train,omitempty"`
}

// NewMessage implements Message.
func (m *TrainReverse) NewMessage() fx.Message { return &TrainReverse{} }

// TypeID implements SerializableMessage.
func (m *TrainReverse) TypeID() uint32 { return TrainReverseTypeID }

// Serializable implements SerializableMessage.
func (m *TrainReverse) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *TrainReverse) ProtoMessage() {}

// Reset implements proto.Message.
func (m *TrainReverse) Reset() { *m = TrainReverse{} }

// String implements proto.Message.
func (m *TrainReverse) String() string { return proto.CompactTextString(m) }

// SwitchThrow throws a switch.
type SwitchThrow struct {
	Switch   uint32 `protobuf:"varint,1,opt,name=switch,proto3" json:"switch,omitempty"`
	Straight bool   `protobuf:"varint,2,opt,name=straight,proto3" json:"straight,omitempty"`
}

// NewMessage implements Message.
func (m *SwitchThrow) NewMessage() fx.Message { return &SwitchThrow{} }

// TypeID implements SerializableMessage.
func (m *SwitchThrow) TypeID() uint32 { return SwitchThrowTypeID }

// Serializable implements SerializableMessage.
func (m *SwitchThrow) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SwitchThrow) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwitchThrow) Reset() { *m = SwitchThrow{} }

// String implements proto.Message.
func (m *SwitchThrow) String() string { return proto.CompactTextString(m) }

// ConsoleStatusQuery queries the status.
type ConsoleStatusQuery struct {
}

// NewMessage implements Message.
func (m *ConsoleStatusQuery) NewMessage() fx.Message { return &ConsoleStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *ConsoleStatusQuery) TypeID() uint32 { return ConsoleStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ConsoleStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ConsoleStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ConsoleStatusQuery) Reset() { *m = ConsoleStatusQuery{} }

// String implements proto.Message.
func (m *ConsoleStatusQuery) String() string { return proto.CompactTextString(m) }

// ConsoleStatusReply is the response for ConsoleStatusQuery.
type ConsoleStatusReply struct {
	Status *ConsoleStatus `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

// NewMessage implements Message.
func (m *ConsoleStatusReply) NewMessage() fx.Message { return &ConsoleStatusReply{} }

// TypeID implements SerializableMessage.
func (m *ConsoleStatusReply) TypeID() uint32 { return ConsoleStatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *ConsoleStatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ConsoleStatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ConsoleStatusReply) Reset() { *m = ConsoleStatusReply{} }

// String implements proto.Message.
func (m *ConsoleStatusReply) String() string { return proto.CompactTextString(m) }

// ConsoleStatus is an Event message reflecting the console tables.
type ConsoleStatus struct {
	Uptime   string            `protobuf:"bytes,1,opt,name=uptime,proto3" json:"uptime,omitempty"`
	Blocked  bool              `protobuf:"varint,2,opt,name=blocked,proto3" json:"blocked,omitempty"`
	Trains   []*TrainSpeed     `protobuf:"bytes,3,rep,name=trains,proto3" json:"trains,omitempty"`
	Switches []*SwitchPosition `protobuf:"bytes,4,rep,name=switches,proto3" json:"switches,omitempty"`
	Sensors  []*SensorHit      `protobuf:"bytes,5,rep,name=sensors,proto3" json:"sensors,omitempty"`
	Perf     *PerfCounters     `protobuf:"bytes,6,opt,name=perf,proto3" json:"perf,omitempty"`
}

// NewMessage implements Message.
func (m *ConsoleStatus) NewMessage() fx.Message { return &ConsoleStatus{} }

// TypeID implements SerializableMessage.
func (m *ConsoleStatus) TypeID() uint32 { return ConsoleStatusTypeID }

// Serializable implements SerializableMessage.
func (m *ConsoleStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ConsoleStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ConsoleStatus) Reset() { *m = ConsoleStatus{} }

// String implements proto.Message.
func (m *ConsoleStatus) String() string { return proto.CompactTextString(m) }

// SensorTriggered is an Event message sent for every sensor hit.
type SensorTriggered struct {
	Hit *SensorHit `protobuf:"bytes,1,opt,name=hit,proto3" json:"hit,omitempty"`
}

// NewMessage implements Message.
func (m *SensorTriggered) NewMessage() fx.Message { return &SensorTriggered{} }

// TypeID implements SerializableMessage.
func (m *SensorTriggered) TypeID() uint32 { return SensorTriggeredTypeID }

// Serializable implements SerializableMessage.
func (m *SensorTriggered) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *SensorTriggered) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SensorTriggered) Reset() { *m = SensorTriggered{} }

// String implements proto.Message.
func (m *SensorTriggered) String() string { return proto.CompactTextString(m) }

// TrainSpeed is an entry of the speed table.
type TrainSpeed struct {
	Train uint32 `protobuf:"varint,1,opt,name=train,proto3" json:"train,omitempty"`
	Speed uint32 `protobuf:"varint,2,opt,name=speed,proto3" json:"speed,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *TrainSpeed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *TrainSpeed) Reset() { *m = TrainSpeed{} }

// String implements proto.Message.
func (m *TrainSpeed) String() string { return proto.CompactTextString(m) }

// Switch positions
const (
	SwitchUnknown  uint32 = 0
	SwitchStraight uint32 = 1
	SwitchCurved   uint32 = 2
)

// SwitchPosition is an entry of the switch table.
type SwitchPosition struct {
	Switch   uint32 `protobuf:"varint,1,opt,name=switch,proto3" json:"switch,omitempty"`
	Position uint32 `protobuf:"varint,2,opt,name=position,proto3" json:"position,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SwitchPosition) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SwitchPosition) Reset() { *m = SwitchPosition{} }

// String implements proto.Message.
func (m *SwitchPosition) String() string { return proto.CompactTextString(m) }

// SensorHit identifies a triggered sensor.
type SensorHit struct {
	Group  string `protobuf:"bytes,1,opt,name=group,proto3" json:"group,omitempty"`
	Sensor uint32 `protobuf:"varint,2,opt,name=sensor,proto3" json:"sensor,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SensorHit) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SensorHit) Reset() { *m = SensorHit{} }

// String implements proto.Message.
func (m *SensorHit) String() string { return proto.CompactTextString(m) }

// PerfCounters are the loop and feedback timings in microseconds.
type PerfCounters struct {
	LoopUs         uint32 `protobuf:"varint,1,opt,name=loop_us,json=loopUs,proto3" json:"loop_us,omitempty"`
	LoopMaxUs      uint32 `protobuf:"varint,2,opt,name=loop_max_us,json=loopMaxUs,proto3" json:"loop_max_us,omitempty"`
	FirstByteUs    uint32 `protobuf:"varint,3,opt,name=first_byte_us,json=firstByteUs,proto3" json:"first_byte_us,omitempty"`
	FirstByteMaxUs uint32 `protobuf:"varint,4,opt,name=first_byte_max_us,json=firstByteMaxUs,proto3" json:"first_byte_max_us,omitempty"`
	CycleUs        uint32 `protobuf:"varint,5,opt,name=cycle_us,json=cycleUs,proto3" json:"cycle_us,omitempty"`
	CycleMaxUs     uint32 `protobuf:"varint,6,opt,name=cycle_max_us,json=cycleMaxUs,proto3" json:"cycle_max_us,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *PerfCounters) ProtoMessage() {}

// Reset implements proto.Message.
func (m *PerfCounters) Reset() { *m = PerfCounters{} }

// String implements proto.Message.
func (m *PerfCounters) String() string { return proto.CompactTextString(m) }
