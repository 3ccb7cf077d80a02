package domain

import (
	"context"
	"strings"
)

// Category with a nil UserID is a default visible to everybody.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID *int64 `json:"userId"`
}

func (c *Category) IsDefault() bool {
	return c.UserID == nil
}

func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	return validateCategoryName(c.Name)
}

type CategoryInput struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

type CategoryUpdate struct {
	Name *string `json:"name"`
}

type CategoryRepository interface {
	// List returns defaults plus the categories owned by userID. userID 0 means defaults only.
	List(ctx context.Context, userID int64, take int) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	// Create and Update report errors.ErrCategoryNameTaken on a name clash within the owner scope.
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	// Delete reports errors.ErrCategoryInUse while expenses reference the category.
	Delete(ctx context.Context, id int64) error
}
