package classify

import (
	"errors"
	"strings"

	"github.com/hnakamura/bmorg/internal/model"
)

// Cycle errors.
var (
	ErrAlreadySubmitted = errors.New("a classification is already outstanding")
	ErrNothingSubmitted = errors.New("no bookmarks submitted for classification")
)

// CycleState is the phase of an AI classification cycle.
type CycleState int

const (
	StateIdle CycleState = iota
	StateSubmitted
)

// Cycle tracks one AI classification round trip. Submit records the node
// set and hands back the descriptors to send; Complete reconciles the
// asynchronous result against that same set. The submitted set is retained
// after completion so a follow-up round ("reclassify with additional
// instructions") resubmits the original nodes, not the previous plan's
// output. The caller serializes Submit/Complete; Cycle itself is
// synchronous state only.
type Cycle struct {
	state        CycleState
	submitted    []*model.Node
	instructions []string
	cancelled    bool
}

// State returns the current cycle phase.
func (c *Cycle) State() CycleState { return c.state }

// Submitted returns the node set of the current or most recent submission.
func (c *Cycle) Submitted() []*model.Node { return c.submitted }

// Submit records bookmarks as the outstanding classification set and
// returns their boundary descriptors. Fails with ErrAlreadySubmitted while
// a previous submission is outstanding, and with ErrNothingSubmitted for
// an empty set.
func (c *Cycle) Submit(bookmarks []*model.Node) ([]Descriptor, error) {
	if c.state == StateSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if len(bookmarks) == 0 {
		return nil, ErrNothingSubmitted
	}
	c.submitted = bookmarks
	c.instructions = nil
	c.cancelled = false
	c.state = StateSubmitted
	return c.descriptors(), nil
}

// Resubmit starts a follow-up round over the original node set, appending
// extra to the accumulated instruction list. Fails with
// ErrAlreadySubmitted while a round is outstanding and with
// ErrNothingSubmitted when no prior submission exists.
func (c *Cycle) Resubmit(extra string) ([]Descriptor, error) {
	if c.state == StateSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if len(c.submitted) == 0 {
		return nil, ErrNothingSubmitted
	}
	if extra != "" {
		c.instructions = append(c.instructions, extra)
	}
	c.cancelled = false
	c.state = StateSubmitted
	return c.descriptors(), nil
}

// Instructions returns the accumulated additional instructions as one
// block, or "" if none were given.
func (c *Cycle) Instructions() string {
	if len(c.instructions) == 0 {
		return ""
	}
	return strings.Join(c.instructions, "\n- ")
}

// Cancel marks the outstanding round as cancelled; its eventual result
// will be discarded by Complete.
func (c *Cycle) Cancel() {
	c.cancelled = true
}

// Cancelled reports whether the outstanding round was cancelled.
func (c *Cycle) Cancelled() bool { return c.cancelled }

// Complete finishes the outstanding round and returns the cycle to idle.
// A cancelled round discards the result and returns (nil, nil). A failed
// round surfaces err unchanged. Otherwise the groups are reconciled
// against the submitted set; the plan may be empty if nothing resolved.
func (c *Cycle) Complete(groups []Group, err error) (*Plan, error) {
	if c.state != StateSubmitted {
		return nil, ErrNothingSubmitted
	}
	c.state = StateIdle
	if c.cancelled {
		c.cancelled = false
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Reconcile(groups, c.submitted), nil
}

func (c *Cycle) descriptors() []Descriptor {
	out := make([]Descriptor, len(c.submitted))
	for i, n := range c.submitted {
		out[i] = DescriptorOf(n)
	}
	return out
}
