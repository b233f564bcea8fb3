// internal/messaging/gate.go
// Conversation access control. Every message operation passes through
// the gate before touching storage, and the denial message never
// reveals whether the other user liked the caller.

package messaging

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotMatched is returned for every denied conversation, regardless
// of which direction of interest is missing.
var ErrNotMatched = errors.New("only matched users can message each other")

// MatchChecker answers the strict mutual-match predicate. The matching
// service satisfies this.
type MatchChecker interface {
	IsMutuallyMatched(ctx context.Context, userA, userB int64) (bool, error)
}

// Gate authorizes conversation access between two users
type Gate struct {
	matches MatchChecker
}

func NewGate(matches MatchChecker) *Gate {
	return &Gate{matches: matches}
}

// AuthorizeSend allows senderID to message receiverID only while the
// pair is mutually matched.
func (g *Gate) AuthorizeSend(ctx context.Context, senderID, receiverID int64) error {
	return g.authorize(ctx, senderID, receiverID)
}

// AuthorizeRead allows userID to read the conversation with otherID
// under the same predicate as sending.
func (g *Gate) AuthorizeRead(ctx context.Context, userID, otherID int64) error {
	return g.authorize(ctx, userID, otherID)
}

func (g *Gate) authorize(ctx context.Context, userA, userB int64) error {
	if userA == userB {
		return ErrNotMatched
	}

	matched, err := g.matches.IsMutuallyMatched(ctx, userA, userB)
	if err != nil {
		return fmt.Errorf("failed to check match status: %w", err)
	}
	if !matched {
		recordGateDenial()
		return ErrNotMatched
	}
	return nil
}
