// Package gate implements the PIN state machine guarding whether entry
// content may be displayed. It holds no entry data itself; callers render a
// locked placeholder unless ContentVisible reports true.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mooddiary/internal/client/remote"
	"github.com/dmitrijs2005/mooddiary/internal/common"
)

// State is the gate's position in the provisioning/verification flow.
type State string

const (
	// StateUnset means the owner has no secret configured yet.
	StateUnset State = "unset"
	// StateCreating collects the first copy of a new PIN.
	StateCreating State = "creating"
	// StateConfirming collects the second copy of a new PIN.
	StateConfirming State = "confirming"
	StateLocked     State = "locked"
	StateUnlocked   State = "unlocked"
)

// PinLength is the fixed secret length. The state machine advances
// automatically when the buffer reaches it.
const PinLength = 4

var errNotADigit = errors.New("pin accepts digits only")

// Gate is the access-gate state machine. It is not safe for concurrent use;
// it belongs to a single UI session.
type Gate struct {
	store remote.Store

	state  State
	secret string
	buf    strings.Builder
	first  string
}

func New(store remote.Store) *Gate {
	return &Gate{store: store, state: StateUnset}
}

// Load fetches the persisted secret and positions the gate: Locked when a
// secret exists, Unset otherwise. Content never renders before Load has
// placed the gate in Unlocked via digit entry.
func (g *Gate) Load(ctx context.Context) error {
	if g.store.Owner() == "" {
		return common.ErrNotAuthenticated
	}
	pin, err := g.store.GetSecret(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			g.state = StateUnset
			return nil
		}
		return fmt.Errorf("loading secret: %w", err)
	}
	g.secret = pin
	g.state = StateLocked
	return nil
}

func (g *Gate) State() State { return g.state }

// ContentVisible reports whether entry content may render. True only while
// Unlocked; every other state shows a locked placeholder.
func (g *Gate) ContentVisible() bool { return g.state == StateUnlocked }

// Filled returns how many digits are currently buffered, for the UI dots.
func (g *Gate) Filled() int { return g.buf.Len() }

// Begin starts an unlock attempt. From Unset it enters the provisioning
// flow; from Locked it simply starts collecting digits.
func (g *Gate) Begin() {
	g.buf.Reset()
	if g.state == StateUnset {
		g.first = ""
		g.state = StateCreating
	}
}

// Backspace removes the most recent buffered digit.
func (g *Gate) Backspace() {
	if g.buf.Len() == 0 {
		return
	}
	s := g.buf.String()
	g.buf.Reset()
	g.buf.WriteString(s[:len(s)-1])
}

// Press feeds one digit into the gate. On the PinLength-th digit the state
// machine advances:
//
//   - Creating → Confirming (first copy captured);
//   - Confirming → Unlocked when the copies match exactly, persisting the
//     secret; on mismatch both buffers are discarded and the gate returns
//     to Creating with common.ErrPinMismatch;
//   - Locked → Unlocked on exact match with the stored secret; otherwise
//     the buffer is cleared and common.ErrPinIncorrect is returned, with
//     no lockout or backoff.
func (g *Gate) Press(ctx context.Context, digit rune) error {
	if digit < '0' || digit > '9' {
		return errNotADigit
	}
	switch g.state {
	case StateCreating, StateConfirming, StateLocked:
	default:
		return nil
	}

	g.buf.WriteRune(digit)
	if g.buf.Len() < PinLength {
		return nil
	}

	complete := g.buf.String()
	g.buf.Reset()

	switch g.state {
	case StateCreating:
		g.first = complete
		g.state = StateConfirming
		return nil

	case StateConfirming:
		if complete != g.first {
			g.first = ""
			g.state = StateCreating
			return common.ErrPinMismatch
		}
		if err := g.store.SetSecret(ctx, complete); err != nil {
			// Confirmation matched but persisting failed; stay in
			// Confirming so the user can re-enter the confirmation.
			return fmt.Errorf("persisting secret: %w", err)
		}
		g.secret = complete
		g.first = ""
		g.state = StateUnlocked
		return nil

	default: // StateLocked
		if complete != g.secret {
			return common.ErrPinIncorrect
		}
		g.state = StateUnlocked
		return nil
	}
}

// Relock is the one-way user-triggered transition back to Locked. It does
// not prompt for the PIN; the next content-reveal attempt does.
func (g *Gate) Relock() {
	if g.state == StateUnlocked {
		g.state = StateLocked
		g.buf.Reset()
	}
}

// EnterPin feeds a whole PIN string digit by digit and returns the first
// transition error. Convenience for non-keypad front ends.
func (g *Gate) EnterPin(ctx context.Context, pin string) error {
	for _, d := range pin {
		if err := g.Press(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
