// Package node implements the request/reply state machine: it consumes one
// envelope at a time, dispatches on the payload kind and emits a correlated
// reply, tagging every outgoing message with a monotonically increasing
// local counter.
package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/maelgo/mnode/pkg/protocol"
	"github.com/maelgo/mnode/pkg/uid"
)

// Node owns the reply-id counter and the identity learned from init. The
// counter doubles as the msg_id of every outgoing message and as the
// counter component of generated identifiers. Processing is strictly
// sequential; a concurrent extension would have to serialize access to the
// counter before incrementing it, or msg_id uniqueness breaks.
type Node struct {
	counter uint64

	id    string
	peers []string

	uid *uid.Generator
	log *logrus.Logger
}

// New constructs a node with its counter at zero. A nil generator falls
// back to the system clock, a nil logger to stderr at info level.
func New(gen *uid.Generator, logger *logrus.Logger) *Node {
	if gen == nil {
		gen = uid.New()
	}
	if logger == nil {
		logger = logrus.New()
		logger.Out = os.Stderr
	}

	return &Node{
		uid: gen,
		log: logger,
	}
}

// ID returns the identity announced by init, or "" before init.
func (n *Node) ID() string {
	return n.id
}

// Peers returns the cluster membership list announced by init.
func (n *Node) Peers() []string {
	return n.peers
}

// Counter returns the next msg_id this node will assign.
func (n *Node) Counter() uint64 {
	return n.counter
}

// Step processes one input message: it dispatches on the payload kind,
// writes exactly one reply line to out and then increments the counter.
// Receiving any reply kind fails with a ViolationError and leaves both the
// output and the counter untouched, as does a write failure.
func (n *Node) Step(in protocol.Message, out io.Writer) error {
	switch p := in.Body.Payload.(type) {
	case protocol.Init:
		n.id = p.NodeID
		n.peers = append([]string(nil), p.NodeIDs...)
		n.log.WithFields(logrus.Fields{
			"node_id": n.id,
			"peers":   len(n.peers),
		}).Info("initialized")

		return n.reply(in, out, protocol.InitOK{})

	case protocol.Echo:
		return n.reply(in, out, protocol.EchoOK{Echo: p.Echo})

	case protocol.Generate:
		id := n.uid.Generate(n.counter, in.Dest)

		return n.reply(in, out, protocol.GenerateOK{ID: id})

	case protocol.InitOK, protocol.EchoOK, protocol.GenerateOK:
		return &ViolationError{Kind: in.Body.Payload.Kind()}

	case nil:
		return fmt.Errorf("message from %s has no body", in.Src)

	default:
		return fmt.Errorf("no handler for message type %q", in.Body.Payload.Kind())
	}
}

// reply builds the correlated response to req and emits it. The envelope
// swaps src and dest, msg_id is the current counter value and in_reply_to
// mirrors the request's msg_id, staying absent when the request carried
// none. The serialized bytes and the newline go out as a single write so a
// step's output is never interleaved; the counter only advances once that
// write has succeeded.
func (n *Node) reply(req protocol.Message, out io.Writer, payload protocol.Payload) error {
	msgID := n.counter

	var inReplyTo *uint64
	if req.Body.MsgID != nil {
		v := *req.Body.MsgID
		inReplyTo = &v
	}

	resp := protocol.Message{
		Src:  req.Dest,
		Dest: req.Src,
		Body: protocol.Body{
			MsgID:     &msgID,
			InReplyTo: inReplyTo,
			Payload:   payload,
		},
	}

	data, err := protocol.Encode(resp)
	if err != nil {
		return fmt.Errorf("encode %s reply: %w", payload.Kind(), err)
	}

	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write %s reply: %w", payload.Kind(), err)
	}

	n.counter++
	n.log.WithFields(logrus.Fields{
		"type":   payload.Kind(),
		"dest":   resp.Dest,
		"msg_id": msgID,
	}).Debug("sent reply")

	return nil
}

// Run consumes whitespace-separated JSON messages from r until end of
// stream, fully processing each one before reading the next. Replies are
// therefore emitted in arrival order. The first deserialization failure,
// protocol violation or write failure aborts the loop; a clean end of
// stream returns nil.
func (n *Node) Run(r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(r)

	for steps := 1; ; steps++ {
		var in protocol.Message
		if err := dec.Decode(&in); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("deserialize message %d: %w", steps, err)
		}

		if err := n.Step(in, w); err != nil {
			return fmt.Errorf("step %d (message from %s): %w", steps, in.Src, err)
		}
	}
}
