package domain

import "context"

// TxManager runs fn inside a single store transaction carried by ctx.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ResourceKind string

const (
	KindMonth    ResourceKind = "month"
	KindBudget   ResourceKind = "budget"
	KindIncome   ResourceKind = "income"
	KindExpense  ResourceKind = "expense"
	KindCategory ResourceKind = "category"
)

// OwnershipRepository walks the owner chain of a row up to its user.
// Default categories report owner 0. A missing row yields errors.ErrNotFound.
type OwnershipRepository interface {
	OwnerOf(ctx context.Context, kind ResourceKind, id int64) (int64, error)
}

type Sibling struct {
	ID    int64
	Index int
}

// SiblingStore is the storage side of index ordered children of a month.
type SiblingStore interface {
	// LockParent takes a row lock on the month for the rest of the transaction.
	LockParent(ctx context.Context, monthID int64) error
	ParentOf(ctx context.Context, id int64) (int64, error)
	NextIndex(ctx context.Context, monthID int64) (int, error)
	// Siblings lists children ordered by index, then id.
	Siblings(ctx context.Context, monthID int64) ([]Sibling, error)
	SetIndex(ctx context.Context, id int64, index int) error
	Remove(ctx context.Context, id int64) error
}
