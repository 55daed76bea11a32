package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/models"
	"school-supply-tracker-api-server/internal/socket"
)

// DefaultSupplyItems is the starting stock written into an empty inventory.
var DefaultSupplyItems = []models.SupplyItem{
	{ID: "notebooks", Name: "Notebooks", Unit: models.UnitIndividual, AvailableQuantity: 100},
	{ID: "pencils", Name: "Pencils", Unit: models.UnitBox, AvailableQuantity: 50},
	{ID: "pens", Name: "Pens", Unit: models.UnitBox, AvailableQuantity: 30},
	{ID: "erasers", Name: "Erasers", Unit: models.UnitIndividual, AvailableQuantity: 75},
	{ID: "rulers", Name: "Rulers", Unit: models.UnitIndividual, AvailableQuantity: 40},
	{ID: "glue-sticks", Name: "Glue Sticks", Unit: models.UnitIndividual, AvailableQuantity: 60},
	{ID: "colored-pencils", Name: "Colored Pencils", Unit: models.UnitBox, AvailableQuantity: 25},
	{ID: "markers", Name: "Markers", Unit: models.UnitBox, AvailableQuantity: 20},
	{ID: "copy-paper", Name: "Copy Paper", Unit: models.UnitReam, AvailableQuantity: 15},
	{ID: "folders", Name: "Folders", Unit: models.UnitIndividual, AvailableQuantity: 80},
	{ID: "binders", Name: "Binders", Unit: models.UnitIndividual, AvailableQuantity: 35},
	{ID: "highlighters", Name: "Highlighters", Unit: models.UnitIndividual, AvailableQuantity: 45},
	{ID: "scissors", Name: "Scissors", Unit: models.UnitIndividual, AvailableQuantity: 30},
	{ID: "staplers", Name: "Staplers", Unit: models.UnitIndividual, AvailableQuantity: 20},
	{ID: "staples", Name: "Staples", Unit: models.UnitBox, AvailableQuantity: 40},
	{ID: "index-cards", Name: "Index Cards", Unit: models.UnitPack, AvailableQuantity: 50},
	{ID: "sticky-notes", Name: "Sticky Notes", Unit: models.UnitPack, AvailableQuantity: 60},
	{ID: "calculators", Name: "Calculators", Unit: models.UnitIndividual, AvailableQuantity: 25},
	{ID: "backpacks", Name: "Backpacks", Unit: models.UnitIndividual, AvailableQuantity: 40},
	{ID: "lunch-boxes", Name: "Lunch Boxes", Unit: models.UnitIndividual, AvailableQuantity: 30},
}

type InventoryService struct {
	Items ItemStore
	Hub   Broadcaster
}

func (s *InventoryService) ready() error {
	if s == nil || s.Items == nil {
		return apperr.NotInitialized("document store")
	}
	return nil
}

func (s *InventoryService) ListItems(ctx context.Context) ([]models.SupplyItem, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Items.ListItems(ctx)
}

// GetItem returns one item; an unknown id is a not-found error.
func (s *InventoryService) GetItem(ctx context.Context, itemID string) (*models.SupplyItem, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Items.GetItem(ctx, itemID)
}

// AddItem creates an item and returns its id.
func (s *InventoryService) AddItem(ctx context.Context, name, unit string, initialQuantity int) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation(apperr.CodeInvalidInput, "item name is required")
	}
	u, err := models.ParseUnit(unit)
	if err != nil {
		return "", apperr.Validation(apperr.CodeInvalidInput, "%s", err.Error())
	}
	if initialQuantity < 0 {
		return "", apperr.Validation(apperr.CodeInvalidQuantity, "quantity cannot be negative")
	}
	item := &models.SupplyItem{
		ID:                uuid.NewString(),
		Name:              name,
		Unit:              u,
		AvailableQuantity: initialQuantity,
	}
	if err := s.Items.CreateItem(ctx, item); err != nil {
		return "", err
	}
	s.changed(item.ID)
	return item.ID, nil
}

// SetItemQuantity overwrites the stock count. It is not a delta: callers
// wanting a relative change must read first and accept that another writer
// may land in between.
func (s *InventoryService) SetItemQuantity(ctx context.Context, itemID string, newQuantity int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if newQuantity < 0 {
		return apperr.Validation(apperr.CodeInvalidQuantity, "quantity cannot be negative")
	}
	if err := s.Items.SetItemQuantity(ctx, itemID, newQuantity); err != nil {
		return err
	}
	s.changed(itemID)
	return nil
}

// SeedDefaults fills an empty inventory with DefaultSupplyItems and reports
// how many items it wrote. A non-empty inventory is left untouched.
func (s *InventoryService) SeedDefaults(ctx context.Context) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	n, err := s.Items.CountItems(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	written := 0
	for _, item := range DefaultSupplyItems {
		if err := s.Items.CreateItem(ctx, &item); err != nil {
			return written, err
		}
		written++
	}
	logger.Info("default supply items seeded", "count", written)
	s.changed("")
	return written, nil
}

func (s *InventoryService) changed(itemID string) {
	if s.Hub == nil {
		return
	}
	s.Hub.Broadcast(socket.EventInventoryUpdated, map[string]string{"itemId": itemID})
}
