// internal/event/event.go

// Package event decodes the master's fixed-layout event frames.
package event

import "fmt"

// Kind is the event kind carried in the frame type code.
type Kind uint8

const (
	KindOutput  Kind = 0
	KindInput   Kind = 1
	KindSensor  Kind = 2
	KindUnknown Kind = 0xFF
)

func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "OUTPUT"
	case KindInput:
		return "INPUT"
	case KindSensor:
		return "SENSOR"
	default:
		return "UNKNOWN"
	}
}

// TimerType is the unit of an output timer.
type TimerType string

const (
	TimerNone   TimerType = "NO_TIMER"
	Timer100ms  TimerType = "100_MS"
	TimerSecond TimerType = "1_S"
	TimerMinute TimerType = "1_M"
)

// SensorType is the quantity reported by a sensor event.
type SensorType string

const (
	SensorTemperature SensorType = "TEMPERATURE"
	SensorHumidity    SensorType = "HUMIDITY"
	SensorBrightness  SensorType = "BRIGHTNESS"
	SensorUnknown     SensorType = "UNKNOWN"
)

// Frame is one raw event as received from the master.
type Frame struct {
	TypeCode byte
	Action   byte
	DeviceNr int
	Data     []byte
}

// Event is one of OutputEvent, InputEvent, SensorEvent or UnknownEvent.
type Event interface {
	Kind() Kind
	fmt.Stringer
	sealed()
}

// OutputEvent reports an output state change.
type OutputEvent struct {
	Output      int
	Status      bool
	DimmerValue int
	TimerType   TimerType
	TimerFactor float64 // seconds per timer unit, 0 without timer
	TimerValue  int
}

// InputEvent reports an input state change.
type InputEvent struct {
	Input  int
	Status bool
}

// SensorEvent reports a sensor reading. HasValue is false for unknown types.
type SensorEvent struct {
	Sensor   int
	Type     SensorType
	Value    int
	HasValue bool
}

// UnknownEvent keeps a frame with an unrecognized type code.
type UnknownEvent struct {
	TypeCode byte
	Action   byte
	DeviceNr int
}

func (OutputEvent) Kind() Kind  { return KindOutput }
func (InputEvent) Kind() Kind   { return KindInput }
func (SensorEvent) Kind() Kind  { return KindSensor }
func (UnknownEvent) Kind() Kind { return KindUnknown }

func (OutputEvent) sealed()  {}
func (InputEvent) sealed()   {}
func (SensorEvent) sealed()  {}
func (UnknownEvent) sealed() {}

func (e OutputEvent) String() string {
	return fmt.Sprintf("OUTPUT (output=%d status=%t dimmer=%d timer=%s value=%d)",
		e.Output, e.Status, e.DimmerValue, e.TimerType, e.TimerValue)
}

func (e InputEvent) String() string {
	return fmt.Sprintf("INPUT (input=%d status=%t)", e.Input, e.Status)
}

func (e SensorEvent) String() string {
	if !e.HasValue {
		return fmt.Sprintf("SENSOR (sensor=%d type=%s)", e.Sensor, e.Type)
	}
	return fmt.Sprintf("SENSOR (sensor=%d type=%s value=%d)", e.Sensor, e.Type, e.Value)
}

func (e UnknownEvent) String() string {
	return fmt.Sprintf("UNKNOWN (type=%d action=%d device=%d)", e.TypeCode, e.Action, e.DeviceNr)
}
