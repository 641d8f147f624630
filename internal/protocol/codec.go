package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type jsonEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type msgpackEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

// ParseEncoding validates an encoding name. The empty string means JSON.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingJSON:
		return EncodingJSON, nil
	case EncodingMsgpack:
		return EncodingMsgpack, nil
	}
	return "", fmt.Errorf("unknown encoding %q", s)
}

// Binary reports whether encoded messages must travel as binary frames.
func (e Encoding) Binary() bool { return e == EncodingMsgpack }

func (e Encoding) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, fmt.Errorf("trying to encode envelope with empty type")
	}
	if payload == nil {
		return nil, fmt.Errorf("trying to encode nil payload for type %q", t)
	}
	if e == EncodingMsgpack {
		pb, err := marshalMsgpack(payload)
		if err != nil {
			return nil, err
		}
		return marshalMsgpack(msgpackEnvelope{T: t, P: pb})
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{T: t, P: pb})
}

func (e Encoding) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, fmt.Errorf("cannot decode empty envelope")
	}
	if e == EncodingMsgpack {
		var env msgpackEnvelope
		if err := msgpack.Unmarshal(b, &env); err != nil {
			return Envelope{}, err
		}
		return Envelope{T: env.T, P: env.P}, nil
	}
	var env jsonEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, err
	}
	return Envelope{T: env.T, P: env.P}, nil
}

// DecodePayload decodes the envelope's payload into a T.
func DecodePayload[T any](e Encoding, env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("empty payload for type %q", env.T)
	}
	if e == EncodingMsgpack {
		dec := msgpack.NewDecoder(bytes.NewReader(env.P))
		dec.SetCustomStructTag("json")
		err := dec.Decode(&out)
		return out, err
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// marshalMsgpack encodes v using its json field names.
func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
