// Package message implements the six-variant tagged wire protocol peers use
// to synchronize blocks, transactions, and tips. Each message is a single
// JSON object; a connection's message boundary is whatever one socket read
// of up to MaxMessageBytes yields (spec: no length prefix, no framing
// beyond "one read is one message").
package message

import (
	"encoding/json"

	"github.com/daglabs-fork/blockdagd/block"
	"github.com/daglabs-fork/blockdagd/transaction"
)

// MaxMessageBytes bounds a single read that defines a message boundary.
const MaxMessageBytes = 1024

// Command identifies a message's variant, mirroring the
// MessageCommand/Message split in daglabs-btcd/wire/message.go.
type Command string

// The six wire message variants: five that are sent, plus Unknown, the
// decoding fallback.
const (
	CommandRequestBlock   Command = "RequestBlock"
	CommandNewBlock       Command = "NewBlock"
	CommandRequestTip     Command = "RequestTip"
	CommandTip            Command = "Tip"
	CommandNewTransaction Command = "NewTransaction"
	CommandUnknown        Command = "Unknown"
)

// Message is a decoded wire message. Exactly one of the typed fields is
// meaningful, selected by Command.
type Message struct {
	Command     Command
	BlockHash   string
	Block       *block.Block
	Transaction *transaction.Transaction
}

// envelope is the on-the-wire JSON shape: {"command": "...", "payload": ...}.
type envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type blockHashPayload struct {
	Hash string `json:"hash"`
}

// RequestBlock builds a request for a specific block by hash.
func RequestBlock(hash string) *Message {
	return &Message{Command: CommandRequestBlock, BlockHash: hash}
}

// NewBlock builds an announcement/response carrying a full block.
func NewBlock(b *block.Block) *Message {
	return &Message{Command: CommandNewBlock, Block: b}
}

// RequestTip builds a request for any current tip hash.
func RequestTip() *Message {
	return &Message{Command: CommandRequestTip}
}

// Tip builds a reply carrying one tip hash.
func Tip(hash string) *Message {
	return &Message{Command: CommandTip, BlockHash: hash}
}

// NewTransaction builds a pending-transaction submission.
func NewTransaction(tx *transaction.Transaction) *Message {
	return &Message{Command: CommandNewTransaction, Transaction: tx}
}

// Encode serializes m to its wire form.
func (m *Message) Encode() ([]byte, error) {
	var payload interface{}
	switch m.Command {
	case CommandRequestBlock, CommandTip:
		payload = blockHashPayload{Hash: m.BlockHash}
	case CommandNewBlock:
		payload = m.Block
	case CommandNewTransaction:
		payload = m.Transaction
	case CommandRequestTip:
		payload = nil
	default:
		payload = nil
	}

	var rawPayload json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		rawPayload = encoded
	}

	return json.Marshal(envelope{Command: m.Command, Payload: rawPayload})
}

// Decode parses raw wire bytes into a Message. Any decoding failure
// (malformed JSON, unrecognized command, malformed payload) yields
// CommandUnknown rather than an error: decoding errors are never fatal to
// the connection.
func Decode(raw []byte) *Message {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &Message{Command: CommandUnknown}
	}

	switch env.Command {
	case CommandRequestBlock:
		var p blockHashPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return &Message{Command: CommandUnknown}
		}
		return RequestBlock(p.Hash)
	case CommandNewBlock:
		var b block.Block
		if err := json.Unmarshal(env.Payload, &b); err != nil {
			return &Message{Command: CommandUnknown}
		}
		return NewBlock(&b)
	case CommandRequestTip:
		return RequestTip()
	case CommandTip:
		var p blockHashPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return &Message{Command: CommandUnknown}
		}
		return Tip(p.Hash)
	case CommandNewTransaction:
		var tx transaction.Transaction
		if err := json.Unmarshal(env.Payload, &tx); err != nil {
			return &Message{Command: CommandUnknown}
		}
		return NewTransaction(&tx)
	default:
		return &Message{Command: CommandUnknown}
	}
}
