// Package protocol implements the wire model of the line-delimited JSON
// protocol: the src/dest/body envelope and the closed, type-tagged payload
// set carried inside the body.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Message is the envelope wrapping every exchange. A reply swaps Src and
// Dest relative to the request it answers; messages are never mutated after
// construction.
type Message struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
	Body Body   `json:"body"`
}

// Body holds the optional correlation ids and the payload. On the wire the
// three serialize into a single flat object: msg_id, in_reply_to and the
// payload's own fields are siblings, with the payload kind in "type".
type Body struct {
	// MsgID is unique per sender. Nil means the field is absent on the
	// wire, which some fire-and-forget messages use.
	MsgID *uint64

	// InReplyTo is set iff this body is a reply, and then equals the MsgID
	// of the message it answers.
	InReplyTo *uint64

	Payload Payload
}

// bodyHead is the variant-independent part of a body.
type bodyHead struct {
	Type      string  `json:"type"`
	MsgID     *uint64 `json:"msg_id"`
	InReplyTo *uint64 `json:"in_reply_to"`
}

// MarshalJSON flattens the payload fields, the discriminator and the ids
// into one object. Absent ids are omitted entirely, never emitted as null.
func (b Body) MarshalJSON() ([]byte, error) {
	if b.Payload == nil {
		return nil, fmt.Errorf("message body has no payload")
	}

	raw, err := json.Marshal(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", b.Payload.Kind(), err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("flatten %s payload: %w", b.Payload.Kind(), err)
	}

	fields["type"], _ = json.Marshal(b.Payload.Kind())
	if b.MsgID != nil {
		fields["msg_id"], _ = json.Marshal(*b.MsgID)
	}
	if b.InReplyTo != nil {
		fields["in_reply_to"], _ = json.Marshal(*b.InReplyTo)
	}

	return json.Marshal(fields)
}

// UnmarshalJSON reads the flattened shape back. An unknown or missing
// "type" is a parse failure, not a silently-ignored message.
func (b *Body) UnmarshalJSON(data []byte) error {
	var head bodyHead
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var (
		payload Payload
		err     error
	)
	switch head.Type {
	case TypeInit:
		payload, err = decodePayload[Init](data)
	case TypeInitOK:
		payload, err = decodePayload[InitOK](data)
	case TypeEcho:
		payload, err = decodePayload[Echo](data)
	case TypeEchoOK:
		payload, err = decodePayload[EchoOK](data)
	case TypeGenerate:
		payload, err = decodePayload[Generate](data)
	case TypeGenerateOK:
		payload, err = decodePayload[GenerateOK](data)
	case "":
		return fmt.Errorf("message body is missing the type discriminator")
	default:
		return fmt.Errorf("unknown message type %q", head.Type)
	}
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", head.Type, err)
	}

	b.MsgID = head.MsgID
	b.InReplyTo = head.InReplyTo
	b.Payload = payload

	return nil
}

func decodePayload[P Payload](data []byte) (Payload, error) {
	var p P
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes one complete wire message.
func Parse(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("parse message: %w", err)
	}
	return m, nil
}

// Encode serializes a message to its wire form, without a line terminator.
// Parsing the result of Encode yields a message equal to the original.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return data, nil
}
