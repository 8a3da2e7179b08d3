package engine

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Clock reads the ledger's monotonically increasing point (unix seconds).
// Expiry is evaluated fresh against it on every call, never cached.
type Clock interface {
	CurrentPoint() uint64
}

// Ledger is the record store instructions run against. A handler stages all
// of its writes in a WriteSet and commits it in one step; the ledger's
// single-writer-per-record admission makes the commit atomic from the
// caller's point of view.
type Ledger interface {
	Clock
	GetAccount(address solana.PublicKey) ([]byte, bool)
	Commit(ws *WriteSet)
}

type write struct {
	address solana.PublicKey
	data    []byte
}

// WriteSet collects the record mutations of one instruction. Nothing in it is
// observable until Commit.
type WriteSet struct {
	writes []write
	closes []solana.PublicKey
}

// Set stages a full overwrite of the record at address.
func (ws *WriteSet) Set(address solana.PublicKey, data []byte) {
	ws.writes = append(ws.writes, write{address: address, data: data})
}

// Close stages the removal of the record at address.
func (ws *WriteSet) Close(address solana.PublicKey) {
	ws.closes = append(ws.closes, address)
}

// MemoryLedger is an in-process Ledger with a settable clock. It backs the
// deterministic engine tests and dry-run execution.
type MemoryLedger struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey][]byte
	now      uint64
}

func NewMemoryLedger(start uint64) *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[solana.PublicKey][]byte),
		now:      start,
	}
}

func (l *MemoryLedger) CurrentPoint() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Advance moves the clock forward by seconds.
func (l *MemoryLedger) Advance(seconds uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now += seconds
}

func (l *MemoryLedger) GetAccount(address solana.PublicKey) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.accounts[address]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

func (l *MemoryLedger) Commit(ws *WriteSet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range ws.writes {
		data := make([]byte, len(w.data))
		copy(data, w.data)
		l.accounts[w.address] = data
	}
	for _, addr := range ws.closes {
		delete(l.accounts, addr)
	}
}
