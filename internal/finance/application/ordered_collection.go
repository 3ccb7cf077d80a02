package application

import (
	"context"
	"fmt"

	"github.com/gustavoisensee/MyFinances/internal/finance/domain"
	financeErrors "github.com/gustavoisensee/MyFinances/internal/finance/errors"
)

// OrderedCollection keeps the index of a month's children dense and zero based.
// Every operation runs in one transaction holding a row lock on the affected
// month, so concurrent writers on the same month are serialized.
type OrderedCollection struct {
	kind   domain.ResourceKind
	store  domain.SiblingStore
	owners *Ownership
	tx     domain.TxManager
}

func NewOrderedCollection(kind domain.ResourceKind, store domain.SiblingStore, owners *Ownership, tx domain.TxManager) *OrderedCollection {
	return &OrderedCollection{kind: kind, store: store, owners: owners, tx: tx}
}

// Append calls insert with the next free index of monthID.
func (c *OrderedCollection) Append(ctx context.Context, monthID, userID int64, insert func(ctx context.Context, index int) error) error {
	return c.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := c.owners.Require(ctx, domain.KindMonth, monthID, userID); err != nil {
			return err
		}
		if err := c.store.LockParent(ctx, monthID); err != nil {
			return err
		}
		index, err := c.store.NextIndex(ctx, monthID)
		if err != nil {
			return fmt.Errorf("next %s index: %w", c.kind, err)
		}
		return insert(ctx, index)
	})
}

// Remove deletes id and closes the gap it leaves behind.
func (c *OrderedCollection) Remove(ctx context.Context, id, userID int64) error {
	return c.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := c.owners.Require(ctx, c.kind, id, userID); err != nil {
			return err
		}
		monthID, err := c.lockedParentOf(ctx, id)
		if err != nil {
			return err
		}
		if err := c.store.Remove(ctx, id); err != nil {
			return err
		}
		return c.reindex(ctx, monthID)
	})
}

// Reorder assigns index = position in ids. ids must be exactly the current
// children of monthID, otherwise nothing is written.
func (c *OrderedCollection) Reorder(ctx context.Context, monthID, userID int64, ids []int64) error {
	return c.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := c.owners.Require(ctx, domain.KindMonth, monthID, userID); err != nil {
			return err
		}
		if err := c.store.LockParent(ctx, monthID); err != nil {
			return err
		}
		current, err := c.store.Siblings(ctx, monthID)
		if err != nil {
			return err
		}
		if !sameIDs(current, ids) {
			return financeErrors.ErrReorderMismatch
		}

		indexOf := make(map[int64]int, len(current))
		for _, s := range current {
			indexOf[s.ID] = s.Index
		}
		for position, id := range ids {
			if indexOf[id] == position {
				continue
			}
			if err := c.store.SetIndex(ctx, id, position); err != nil {
				return err
			}
		}
		return nil
	})
}

// Move re-parents id under toMonthID. apply receives the index the item gets
// in its new month and must persist the new month and index.
func (c *OrderedCollection) Move(ctx context.Context, id, userID, toMonthID int64, apply func(ctx context.Context, index int) error) error {
	return c.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := c.owners.Require(ctx, c.kind, id, userID); err != nil {
			return err
		}
		if err := c.owners.Require(ctx, domain.KindMonth, toMonthID, userID); err != nil {
			return err
		}
		fromMonthID, err := c.store.ParentOf(ctx, id)
		if err != nil {
			return err
		}
		if fromMonthID == toMonthID {
			return fmt.Errorf("move %s %d: already in month %d", c.kind, id, toMonthID)
		}

		// Lock in id order so two opposite moves cannot deadlock.
		first, second := fromMonthID, toMonthID
		if first > second {
			first, second = second, first
		}
		if err := c.store.LockParent(ctx, first); err != nil {
			return err
		}
		if err := c.store.LockParent(ctx, second); err != nil {
			return err
		}
		if parent, err := c.store.ParentOf(ctx, id); err != nil {
			return err
		} else if parent != fromMonthID {
			return fmt.Errorf("%s %d was moved concurrently: %w", c.kind, id, financeErrors.ErrConflict)
		}

		index, err := c.store.NextIndex(ctx, toMonthID)
		if err != nil {
			return err
		}
		if err := apply(ctx, index); err != nil {
			return err
		}
		return c.reindex(ctx, fromMonthID)
	})
}

func (c *OrderedCollection) lockedParentOf(ctx context.Context, id int64) (int64, error) {
	monthID, err := c.store.ParentOf(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := c.store.LockParent(ctx, monthID); err != nil {
		return 0, err
	}
	// Re-read under the lock, a concurrent move may have won the race.
	locked, err := c.store.ParentOf(ctx, id)
	if err != nil {
		return 0, err
	}
	if locked != monthID {
		return 0, fmt.Errorf("%s %d was moved concurrently: %w", c.kind, id, financeErrors.ErrConflict)
	}
	return monthID, nil
}

func (c *OrderedCollection) reindex(ctx context.Context, monthID int64) error {
	siblings, err := c.store.Siblings(ctx, monthID)
	if err != nil {
		return err
	}
	for position, s := range siblings {
		if s.Index == position {
			continue
		}
		if err := c.store.SetIndex(ctx, s.ID, position); err != nil {
			return fmt.Errorf("reindex %s %d: %w", c.kind, s.ID, err)
		}
	}
	return nil
}

func sameIDs(current []domain.Sibling, ids []int64) bool {
	if len(current) != len(ids) {
		return false
	}
	pending := make(map[int64]bool, len(current))
	for _, s := range current {
		pending[s.ID] = true
	}
	for _, id := range ids {
		if !pending[id] {
			return false
		}
		delete(pending, id)
	}
	return len(pending) == 0
}
