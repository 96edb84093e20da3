// Package network implements the peer-to-peer node: a stateless message
// dispatcher over the shared ledger, reachable over plain TCP. It has no
// handshake, no version negotiation, and no length-prefixed framing -- a
// message is whatever one socket read of up to message.MaxMessageBytes
// yields, mirroring daglabs-btcd/netadapter.NetAdapter's accept/dispatch
// shape over a raw net.Listener instead of gRPC.
package network

import (
	"net"
	"runtime/debug"
	"sync"

	"github.com/pkg/errors"

	"github.com/daglabs-fork/blockdagd/block"
	"github.com/daglabs-fork/blockdagd/blockdag"
	"github.com/daglabs-fork/blockdagd/logs"
	"github.com/daglabs-fork/blockdagd/message"
	"github.com/daglabs-fork/blockdagd/transaction"
)

// Node accepts inbound connections, dials outbound peers, and dispatches
// every message against a shared BlockDAG. The DAG has its own lock;
// peers has a second, independent lock, matching the split
// daglabs-btcd/connmanager keeps between its address/connection set and
// the consensus state.
type Node struct {
	dag *blockdag.BlockDAG

	peersLock sync.Mutex
	peers     map[string]struct{}

	listener net.Listener
}

// NewNode constructs a Node over dag. It does not yet listen or dial.
func NewNode(dag *blockdag.BlockDAG) *Node {
	return &Node{
		dag:   dag,
		peers: make(map[string]struct{}),
	}
}

// Listen binds addr ("host:port") and begins accepting connections in the
// background. It returns once the listener is bound; acceptLoop, started
// in its own goroutine, does the accepting.
func (n *Node) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	n.listener = listener
	go n.acceptLoop()
	return nil
}

// Close stops accepting new connections.
func (n *Node) Close() error {
	if n.listener == nil {
		return nil
	}
	return n.listener.Close()
}

// Peers returns a snapshot of every remote address seen so far.
func (n *Node) Peers() []string {
	n.peersLock.Lock()
	defer n.peersLock.Unlock()

	addrs := make([]string, 0, len(n.peers))
	for addr := range n.peers {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (n *Node) acceptLoop() {
	for {
		conn, err := n.listener.Accept()
		if err != nil {
			logs.Network().Warnf("accept failed, stopping accept loop: %s", err)
			return
		}
		go n.handleConnection(conn)
	}
}

// handleConnection reads exactly one framing unit from conn and dispatches
// it, then closes the connection: the core protocol is a single
// request/reply per socket, as spec.md §4.11/§6 describes. A panic while
// handling one connection is recovered and logged rather than bringing
// down the node, the Go analogue of the "lock poisoning is not fatal"
// requirement that Rust's poisoned-Mutex recovery satisfies there.
func (n *Node) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer n.recoverConnectionPanic(conn.RemoteAddr().String())

	buf := make([]byte, message.MaxMessageBytes)
	size, err := conn.Read(buf)
	if err != nil || size == 0 {
		return
	}

	msg := message.Decode(buf[:size])
	n.dispatch(msg, conn)
	n.registerPeer(conn.RemoteAddr().String())
}

func (n *Node) recoverConnectionPanic(remoteAddr string) {
	if err := recover(); err != nil {
		logs.Network().Criticalf("recovered panic while handling connection from %s: %v\n%s", remoteAddr, err, debug.Stack())
	}
}

func (n *Node) registerPeer(addr string) {
	n.peersLock.Lock()
	defer n.peersLock.Unlock()
	n.peers[addr] = struct{}{}
}

// dispatch implements the handler table in spec.md §4.11.
func (n *Node) dispatch(msg *message.Message, conn net.Conn) {
	switch msg.Command {
	case message.CommandRequestBlock:
		n.handleRequestBlock(msg.BlockHash, conn)
	case message.CommandNewBlock:
		n.handleNewBlock(msg.Block)
	case message.CommandRequestTip:
		n.handleRequestTip(conn)
	case message.CommandTip:
		n.handleTip(msg.BlockHash, conn)
	case message.CommandNewTransaction:
		n.handleNewTransaction(msg.Transaction)
	default:
		logs.Network().Debugf("received unknown message, ignoring")
	}
}

func (n *Node) handleRequestBlock(hash string, conn net.Conn) {
	b, ok := n.dag.Block(hash)
	if !ok {
		return
	}
	n.send(conn, message.NewBlock(b))
}

func (n *Node) handleNewBlock(b *block.Block) {
	if b == nil {
		return
	}
	if err := n.dag.InsertBlock(b); err != nil {
		logs.Network().Warnf("discarding invalid block %s: %s", b.Hash, err)
		return
	}
	logs.Network().Infof("accepted block %s from peer", b.Hash)
}

func (n *Node) handleRequestTip(conn net.Conn) {
	tips := n.dag.Tips()
	if len(tips) == 0 {
		return
	}
	n.send(conn, message.Tip(tips[0]))
}

func (n *Node) handleTip(hash string, conn net.Conn) {
	if n.dag.HasBlock(hash) {
		return
	}
	n.send(conn, message.RequestBlock(hash))
}

func (n *Node) handleNewTransaction(tx *transaction.Transaction) {
	if tx == nil {
		return
	}
	n.dag.AddTransaction(tx)
	logs.Network().Debugf("accepted pending transaction from %s", tx.Sender)
}

// DialPeer opens a connection to addr, sends RequestTip, reads the single
// reply, and dispatches it exactly as an inbound connection would --
// mirroring original_source/src/network.rs's connect_to_server, which
// performs the same tip handshake on every outbound dial. It registers
// addr in the peer set on success.
func (n *Node) DialPeer(addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to dial peer %s", addr)
	}
	defer conn.Close()

	n.send(conn, message.RequestTip())

	buf := make([]byte, message.MaxMessageBytes)
	size, err := conn.Read(buf)
	if err != nil || size == 0 {
		return nil
	}

	msg := message.Decode(buf[:size])
	n.dispatch(msg, conn)
	n.registerPeer(addr)
	return nil
}

// SendMessage opens a short-lived connection to addr and sends msg without
// waiting for a reply, used by the send-transaction CLI to submit a
// NewTransaction to a running node.
func SendMessage(addr string, msg *message.Message) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to dial %s", addr)
	}
	defer conn.Close()

	encoded, err := msg.Encode()
	if err != nil {
		return errors.Wrap(err, "failed to encode message")
	}
	if _, err := conn.Write(encoded); err != nil {
		return errors.Wrapf(err, "failed to write to %s", addr)
	}
	return nil
}

func (n *Node) send(conn net.Conn, msg *message.Message) {
	encoded, err := msg.Encode()
	if err != nil {
		logs.Network().Warnf("failed to encode outgoing message: %s", err)
		return
	}
	if _, err := conn.Write(encoded); err != nil {
		logs.Network().Warnf("failed to write to %s: %s", conn.RemoteAddr(), err)
	}
}
