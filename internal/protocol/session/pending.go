package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/danmuck/amcpctl/internal/protocol/command"
	"github.com/danmuck/amcpctl/internal/protocol/response"
)

var ErrDuplicateToken = errors.New("session: duplicate pending token")

type pendingEntry struct {
	cmd      *command.Command
	token    string
	queuedAt time.Time
	reply    chan response.Message
	// expired entries keep their FIFO slot so a late reply is consumed
	// instead of being matched to the next command.
	expired bool
}

func newPendingEntry(cmd *command.Command) *pendingEntry {
	return &pendingEntry{
		cmd:      cmd,
		token:    cmd.Token(),
		queuedAt: time.Now(),
		reply:    make(chan response.Message, 1),
	}
}

// PendingInfo is a read-only view of one in-flight command.
type PendingInfo struct {
	Token   string         `json:"token" yaml:"token"`
	Command string         `json:"command" yaml:"command"`
	Status  command.Status `json:"status" yaml:"status"`
	Age     time.Duration  `json:"age" yaml:"age"`
	Expired bool           `json:"expired" yaml:"expired"`
}

// PendingTable tracks in-flight commands in send order with a token index.
// Replies carrying a token match by token; untagged replies match the
// oldest entry.
type PendingTable struct {
	mu      sync.Mutex
	order   []*pendingEntry
	byToken map[string]*pendingEntry
}

func NewPendingTable() *PendingTable {
	return &PendingTable{byToken: make(map[string]*pendingEntry)}
}

func (p *PendingTable) add(e *pendingEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byToken[e.token]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateToken, e.token)
	}
	p.order = append(p.order, e)
	p.byToken[e.token] = e
	return nil
}

// resolve pops the entry msg answers. Replies to expired entries are
// swallowed and report false.
func (p *PendingTable) resolve(msg response.Message) (*pendingEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var e *pendingEntry
	if msg.Token != "" {
		e = p.byToken[msg.Token]
	} else if len(p.order) > 0 {
		e = p.order[0]
	}
	if e == nil {
		return nil, false
	}
	p.removeLocked(e)
	if e.expired {
		return nil, false
	}
	return e, true
}

// expire marks token as timed out. keepSlot leaves the entry in send order
// for FIFO correlation; otherwise it is dropped.
func (p *PendingTable) expire(token string, keepSlot bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.byToken[token]
	if !ok {
		return
	}
	if keepSlot {
		e.expired = true
		return
	}
	p.removeLocked(e)
}

func (p *PendingTable) remove(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.byToken[token]; ok {
		p.removeLocked(e)
	}
}

// drain empties the table and returns the live entries.
func (p *PendingTable) drain() []*pendingEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*pendingEntry, 0, len(p.order))
	for _, e := range p.order {
		if !e.expired {
			out = append(out, e)
		}
	}
	p.order = nil
	clear(p.byToken)
	return out
}

func (p *PendingTable) removeLocked(e *pendingEntry) {
	delete(p.byToken, e.token)
	if i := slices.Index(p.order, e); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
}

// Len counts entries, expired slots included.
func (p *PendingTable) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// Snapshot lists entries in send order.
func (p *PendingTable) Snapshot() []PendingInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	out := make([]PendingInfo, 0, len(p.order))
	for _, e := range p.order {
		out = append(out, PendingInfo{
			Token:   e.token,
			Command: e.cmd.Name(),
			Status:  e.cmd.Status(),
			Age:     now.Sub(e.queuedAt),
			Expired: e.expired,
		})
	}
	return out
}
