package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

type ItemRepository struct {
	DB *mongo.Database
}

func (r *ItemRepository) coll() *mongo.Collection { return r.DB.Collection(ItemsCollection) }

func (r *ItemRepository) ListItems(ctx context.Context) ([]models.SupplyItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.SupplyItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.SupplyItem{}
	}
	return items, nil
}

func (r *ItemRepository) GetItem(ctx context.Context, id string) (*models.SupplyItem, error) {
	var item models.SupplyItem
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("supply item %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) CreateItem(ctx context.Context, item *models.SupplyItem) error {
	_, err := r.coll().InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Validation(apperr.CodeInvalidInput, "supply item %q already exists", item.ID)
	}
	return err
}

// SetItemQuantity is an unconditional overwrite; the last writer wins.
func (r *ItemRepository) SetItemQuantity(ctx context.Context, id string, qty int) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"available_quantity": qty}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("supply item %s not found", id)
	}
	return nil
}

func (r *ItemRepository) CountItems(ctx context.Context) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.M{})
}
