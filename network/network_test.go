package network

import (
	"net"
	"testing"
	"time"

	"github.com/daglabs-fork/blockdagd/block"
	"github.com/daglabs-fork/blockdagd/blockdag"
	"github.com/daglabs-fork/blockdagd/message"
	"github.com/daglabs-fork/blockdagd/transaction"
	"github.com/daglabs-fork/blockdagd/wallet"
)

// mineChildBlock builds a valid block extending dag's current tips without
// installing it into dag, so tests can exercise the NewBlock wire handler
// against a block the dag does not already know about.
func mineChildBlock(dag *blockdag.BlockDAG, minerAddress string) *block.Block {
	tips := dag.Tips()
	reward := uint64(50)
	txs := []*transaction.Transaction{transaction.NewCoinbase(minerAddress, reward)}
	return block.Mine(dag.BlockCount(), tips, txs, reward, "", dag.Difficulty())
}

func listenOnFreePort(t *testing.T, node *Node) string {
	t.Helper()
	if err := node.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen returned error: %s", err)
	}
	t.Cleanup(func() { node.Close() })
	return node.listener.Addr().String()
}

func readReply(t *testing.T, conn net.Conn) *message.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, message.MaxMessageBytes)
	size, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("failed to read reply: %s", err)
	}
	return message.Decode(buf[:size])
}

func TestRequestTipRepliesWithCurrentTip(t *testing.T) {
	dag := blockdag.New()
	wantTip := dag.Tips()[0]

	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.RequestTip().Encode()
	if _, err := conn.Write(encoded); err != nil {
		t.Fatalf("write failed: %s", err)
	}

	reply := readReply(t, conn)
	if reply.Command != message.CommandTip {
		t.Fatalf("expected Tip reply, got %s", reply.Command)
	}
	if reply.BlockHash != wantTip {
		t.Fatalf("expected tip %s, got %s", wantTip, reply.BlockHash)
	}
}

func TestRequestBlockRepliesWithKnownBlock(t *testing.T) {
	dag := blockdag.New()
	wantHash := dag.Tips()[0]

	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.RequestBlock(wantHash).Encode()
	conn.Write(encoded)

	reply := readReply(t, conn)
	if reply.Command != message.CommandNewBlock {
		t.Fatalf("expected NewBlock reply, got %s", reply.Command)
	}
	if reply.Block == nil || reply.Block.Hash != wantHash {
		t.Fatalf("expected block %s, got %+v", wantHash, reply.Block)
	}
}

func TestRequestBlockForUnknownHashGetsNoReply(t *testing.T) {
	dag := blockdag.New()
	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.RequestBlock("does-not-exist").Encode()
	conn.Write(encoded)

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	buf := make([]byte, message.MaxMessageBytes)
	if _, err := conn.Read(buf); err == nil {
		t.Fatalf("expected no reply for an unknown block hash")
	}
}

func TestNewBlockInsertsValidBlock(t *testing.T) {
	dag := blockdag.New()
	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	newBlock := mineChildBlock(dag, "A")

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.NewBlock(newBlock).Encode()
	conn.Write(encoded)
	conn.Close()

	time.Sleep(100 * time.Millisecond)
	if !dag.HasBlock(newBlock.Hash) {
		t.Fatalf("expected block %s to be inserted into the dag", newBlock.Hash)
	}
}

func TestNewBlockDiscardsInvalidBlock(t *testing.T) {
	dag := blockdag.New()
	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	newBlock := mineChildBlock(dag, "A")
	newBlock.PreviousHashes = []string{"some-hash-this-dag-has-never-seen"}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.NewBlock(newBlock).Encode()
	conn.Write(encoded)
	conn.Close()

	time.Sleep(100 * time.Millisecond)
	if dag.HasBlock(newBlock.Hash) {
		t.Fatalf("expected block with unknown parent to be discarded, not inserted")
	}
}

func TestNewTransactionIsQueuedAsPending(t *testing.T) {
	dag := blockdag.New()
	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	w, err := wallet.New()
	if err != nil {
		t.Fatalf("wallet.New() returned error: %s", err)
	}
	dag.CreateBlock(w.Address())

	tx := transaction.New(w.Address(), "B", 5, 0, "")
	tx.Signature = w.Sign(tx.CanonicalHash())

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.NewTransaction(tx).Encode()
	conn.Write(encoded)
	conn.Close()

	time.Sleep(100 * time.Millisecond)
	dag.CreateBlock("miner")

	if got := dag.GetBalance("B"); got != 5 {
		t.Fatalf("expected B's balance 5 after the queued transaction was mined, got %d", got)
	}
}

func TestUnknownMessageIsIgnoredWithoutCrashing(t *testing.T) {
	dag := blockdag.New()
	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	conn.Write([]byte("not valid json at all"))
	conn.Close()

	// A second, well-formed request on a fresh connection proves the
	// accept loop survived the garbage message.
	conn2, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed after garbage message: %s", err)
	}
	defer conn2.Close()

	encoded, _ := message.RequestTip().Encode()
	conn2.Write(encoded)
	reply := readReply(t, conn2)
	if reply.Command != message.CommandTip {
		t.Fatalf("expected the node to keep serving after an unknown message, got %s", reply.Command)
	}
}

func TestPeersRecordsRemoteAddresses(t *testing.T) {
	dag := blockdag.New()
	node := NewNode(dag)
	addr := listenOnFreePort(t, node)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial failed: %s", err)
	}
	defer conn.Close()

	encoded, _ := message.RequestTip().Encode()
	conn.Write(encoded)
	readReply(t, conn)

	time.Sleep(50 * time.Millisecond)
	if len(node.Peers()) != 1 {
		t.Fatalf("expected exactly one recorded peer, got %d", len(node.Peers()))
	}
}
