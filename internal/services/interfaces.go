package services

import (
	"context"
	"io"

	"school-supply-tracker-api-server/internal/models"
)

// ItemStore reads and writes the supply_items collection.
type ItemStore interface {
	ListItems(ctx context.Context) ([]models.SupplyItem, error)
	GetItem(ctx context.Context, id string) (*models.SupplyItem, error)
	CreateItem(ctx context.Context, item *models.SupplyItem) error
	SetItemQuantity(ctx context.Context, id string, qty int) error
	CountItems(ctx context.Context) (int64, error)
}

// Ledger records pickups. Commit must apply every line or none, and must
// refuse a line whose item no longer has enough stock at commit time.
type Ledger interface {
	Commit(ctx context.Context, pickups []models.SupplyPickup) (map[string]int, error)
	List(ctx context.Context, issuedBy string) ([]models.SupplyPickup, error)
}

type BlobStore interface {
	UploadFile(ctx context.Context, body io.Reader, objectKey, contentType string) (string, error)
}

type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}

type UserLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

type RoleSetter interface {
	SetUserRole(ctx context.Context, uid string, role models.Role) error
}
