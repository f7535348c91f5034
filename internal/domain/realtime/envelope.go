package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// envelope is the wire shape published by the database trigger and the message bus.
type envelope struct {
	Operation  string          `json:"operation"`
	Collection string          `json:"collection"`
	Record     json.RawMessage `json:"record"`
}

func DecodeEnvelope(raw []byte) (ChangeEvent, error) {
	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change envelope: %w", err)
	}

	op := Operation(strings.ToUpper(strings.TrimSpace(env.Operation)))
	switch op {
	case OperationInsert, OperationUpdate, OperationDelete:
	default:
		return ChangeEvent{}, fmt.Errorf("unsupported change operation %q", env.Operation)
	}
	if strings.TrimSpace(env.Collection) == "" {
		return ChangeEvent{}, fmt.Errorf("change envelope has no collection")
	}

	return ChangeEvent{
		Operation:  op,
		Collection: env.Collection,
		Record:     []byte(env.Record),
	}, nil
}

func EncodeEnvelope(event ChangeEvent) ([]byte, error) {
	record := event.Record
	if len(record) == 0 {
		record = []byte("null")
	}
	raw, err := sonic.Marshal(envelope{
		Operation:  string(event.Operation),
		Collection: event.Collection,
		Record:     json.RawMessage(record),
	})
	if err != nil {
		return nil, fmt.Errorf("encode change envelope: %w", err)
	}
	return raw, nil
}
