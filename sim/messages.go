package sim

import "github.com/pkg/errors"

// MessageType enumerates the kernel control messages of spec §6.
type MessageType string

const (
	MsgInit           MessageType = "init"
	MsgRun            MessageType = "run"
	MsgPause          MessageType = "pause"
	MsgStep           MessageType = "step"
	MsgReset          MessageType = "reset"
	MsgToggle         MessageType = "toggle"
	MsgTriggerPulse   MessageType = "triggerPulse"
	MsgSetInput       MessageType = "setInput"
	MsgSetKeypadValue MessageType = "setKeypadValue"
	MsgSetMemoryData  MessageType = "setMemoryData"
	MsgSetSpeed       MessageType = "setSpeed"
	MsgAddGate        MessageType = "addGate"
	MsgRemoveGate     MessageType = "removeGate"
	MsgAddWire        MessageType = "addWire"
	MsgRemoveWire     MessageType = "removeWire"
	MsgGetState       MessageType = "getState"
)

// Message is the wire-format shape of one request to the kernel (spec §6).
// Only the fields relevant to Type are populated by a well-formed caller;
// Dispatch ignores the rest.
type Message struct {
	Type MessageType `json:"type"`

	Gates []ComponentDescriptor `json:"gates,omitempty"`
	Wires []WireDescriptor      `json:"wires,omitempty"`

	GateID string `json:"gateId,omitempty"`
	WireID string `json:"wireId,omitempty"`

	Count int `json:"count,omitempty"`

	Value      *State  `json:"value,omitempty"`
	KeypadVal  *int    `json:"keypadValue,omitempty"`
	Memory     [][]int `json:"memory,omitempty"`
	MsPerTick  int     `json:"msPerTick,omitempty"`

	Gate ComponentDescriptor `json:"gate,omitempty"`
	Wire WireDescriptor      `json:"wire,omitempty"`
}

// ResponseType enumerates the kernel's responses (spec §6).
type ResponseType string

const (
	RespReady       ResponseType = "ready"
	RespStateUpdate ResponseType = "stateUpdate"
	RespError       ResponseType = "error"
)

// Response is the wire-format shape of one kernel reply (spec §6).
type Response struct {
	Type    ResponseType `json:"type"`
	Time    Time         `json:"time,omitempty"`
	Gates   []GateSnapshot `json:"gates,omitempty"`
	Wires   []WireSnapshot `json:"wires,omitempty"`
	Message string       `json:"message,omitempty"`
}

func errorResponse(err error) Response {
	return Response{Type: RespError, Message: err.Error()}
}

func stateUpdateResponse(s Snapshot) Response {
	return Response{Type: RespStateUpdate, Time: s.Time, Gates: s.Gates, Wires: s.Wires}
}

// Dispatch handles one Message against the kernel (and, where relevant, the
// driver's pacing), producing the Response spec §6 describes. Handling is
// meant to be called FIFO and non-reentrant by the caller (spec §5): no
// other message should be dispatched while one is in flight.
func (k *Kernel) Dispatch(msg Message) Response {
	switch msg.Type {
	case MsgInit:
		if err := k.Initialize(msg.Gates, msg.Wires); err != nil {
			return errorResponse(err)
		}
		return Response{Type: RespReady}

	case MsgRun:
		k.Run()
		return Response{Type: RespReady}

	case MsgPause:
		k.Pause()
		return Response{Type: RespReady}

	case MsgStep:
		n := msg.Count
		if n <= 0 {
			n = 1
		}
		k.Step(n)
		return stateUpdateResponse(k.Snapshot())

	case MsgReset:
		k.Reset()
		return stateUpdateResponse(k.Snapshot())

	case MsgToggle:
		if err := k.Toggle(msg.GateID); err != nil {
			return errorResponse(err)
		}
		k.Step(1)
		return stateUpdateResponse(k.Snapshot())

	case MsgTriggerPulse:
		if err := k.TriggerPulse(msg.GateID); err != nil {
			return errorResponse(err)
		}
		k.Step(1)
		return stateUpdateResponse(k.Snapshot())

	case MsgSetInput:
		if msg.Value == nil {
			return errorResponse(errors.New("setInput: missing value"))
		}
		if err := k.SetInput(msg.GateID, *msg.Value); err != nil {
			return errorResponse(err)
		}
		k.Step(1)
		return stateUpdateResponse(k.Snapshot())

	case MsgSetKeypadValue:
		if msg.KeypadVal == nil {
			return errorResponse(errors.New("setKeypadValue: missing value"))
		}
		if err := k.SetKeypadValue(msg.GateID, *msg.KeypadVal); err != nil {
			return errorResponse(err)
		}
		k.Step(1)
		return stateUpdateResponse(k.Snapshot())

	case MsgSetMemoryData:
		data, err := decodeIntMemory(msg.Memory)
		if err != nil {
			return errorResponse(errors.Wrap(err, "setMemoryData"))
		}
		if err := k.SetMemoryData(msg.GateID, data); err != nil {
			return errorResponse(err)
		}
		return Response{Type: RespReady}

	case MsgSetSpeed:
		// Driver pacing lives in package driver; the kernel itself has no
		// notion of wall-clock speed. Acknowledge and let the caller
		// forward msPerTick to its driver.
		return Response{Type: RespReady}

	case MsgAddGate:
		if err := k.AddGate(msg.Gate); err != nil {
			return errorResponse(err)
		}
		return stateUpdateResponse(k.Snapshot())

	case MsgRemoveGate:
		k.RemoveGate(msg.GateID)
		return stateUpdateResponse(k.Snapshot())

	case MsgAddWire:
		if err := k.AddWire(msg.Wire); err != nil {
			return errorResponse(err)
		}
		return stateUpdateResponse(k.Snapshot())

	case MsgRemoveWire:
		k.RemoveWire(msg.WireID)
		return stateUpdateResponse(k.Snapshot())

	case MsgGetState:
		return stateUpdateResponse(k.Snapshot())

	default:
		return errorResponse(errors.Errorf("unrecognized message type %q", msg.Type))
	}
}

func decodeIntMemory(raw [][]int) ([][]State, error) {
	if raw == nil {
		return nil, errors.New("missing memory")
	}
	out := make([][]State, len(raw))
	for i, row := range raw {
		bits := make([]State, len(row))
		for j, v := range row {
			s, ok := toState(v)
			if !ok {
				return nil, errors.Errorf("row %d bit %d: invalid state value %d", i, j, v)
			}
			bits[j] = s
		}
		out[i] = bits
	}
	return out, nil
}
