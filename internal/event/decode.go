// internal/event/decode.go
package event

// Decode translates a frame into an Event. It never fails: unrecognized
// codes decode to UnknownEvent or SensorUnknown, missing payload bytes
// read as zero.
func Decode(f Frame) Event {
	switch Kind(f.TypeCode) {
	case KindOutput:
		return decodeOutput(f)
	case KindInput:
		return InputEvent{Input: f.DeviceNr, Status: f.Action == 1}
	case KindSensor:
		return decodeSensor(f)
	default:
		return UnknownEvent{TypeCode: f.TypeCode, Action: f.Action, DeviceNr: f.DeviceNr}
	}
}

func decodeOutput(f Frame) OutputEvent {
	e := OutputEvent{
		Output:      f.DeviceNr,
		Status:      f.Action == 1,
		DimmerValue: int(at(f.Data, 0)),
		TimerType:   TimerNone,
		TimerValue:  word(f.Data, 2),
	}
	switch {
	case at(f.Data, 1) == 1:
		e.TimerType, e.TimerFactor = Timer100ms, 0.1
	case at(f.Data, 1) == 2:
		e.TimerType, e.TimerFactor = TimerSecond, 1
	case at(f.Data, 2) == 2:
		e.TimerType, e.TimerFactor = TimerMinute, 60
	}
	return e
}

func decodeSensor(f Frame) SensorEvent {
	e := SensorEvent{Sensor: f.DeviceNr, Type: SensorUnknown}
	switch f.Action {
	case 0:
		e.Type, e.Value, e.HasValue = SensorTemperature, int(at(f.Data, 1)), true
	case 1:
		e.Type, e.Value, e.HasValue = SensorHumidity, int(at(f.Data, 1)), true
	case 2:
		e.Type, e.Value, e.HasValue = SensorBrightness, word(f.Data, 0), true
	}
	return e
}

func at(b []byte, i int) byte {
	if i < len(b) {
		return b[i]
	}
	return 0
}

// word decodes a big-endian 16-bit value at i.
func word(b []byte, i int) int {
	return int(at(b, i))<<8 | int(at(b, i+1))
}
