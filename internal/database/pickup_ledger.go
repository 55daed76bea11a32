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

// PickupLedger appends pickups and withdraws stock in one transaction.
// Transactions need MongoDB running as a replica set.
type PickupLedger struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Commit inserts every pickup and decrements each item only while enough
// stock remains. Either all lines land or none do. It returns the remaining
// quantity per item id.
func (l *PickupLedger) Commit(ctx context.Context, pickups []models.SupplyPickup) (map[string]int, error) {
	sess, err := l.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer sess.EndSession(ctx)

	items := l.DB.Collection(ItemsCollection)
	ledger := l.DB.Collection(PickupsCollection)

	result, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		remaining := make(map[string]int, len(pickups))
		for _, p := range pickups {
			var after models.SupplyItem
			err := items.FindOneAndUpdate(sc,
				bson.M{"_id": p.SupplyItemID, "available_quantity": bson.M{"$gte": p.Quantity}},
				bson.M{"$inc": bson.M{"available_quantity": -p.Quantity}},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).Decode(&after)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, l.explainMiss(sc, items, p)
			}
			if err != nil {
				return nil, err
			}
			remaining[p.SupplyItemID] = after.AvailableQuantity
		}

		docs := make([]interface{}, len(pickups))
		for i := range pickups {
			docs[i] = pickups[i]
		}
		if _, err := ledger.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return remaining, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]int), nil
}

// explainMiss tells a vanished item apart from one that no longer has enough stock.
func (l *PickupLedger) explainMiss(ctx context.Context, items *mongo.Collection, p models.SupplyPickup) error {
	var cur models.SupplyItem
	err := items.FindOne(ctx, bson.M{"_id": p.SupplyItemID}).Decode(&cur)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ItemNotFound(p.SupplyItemID)
	}
	if err != nil {
		return err
	}
	return apperr.InsufficientStock(cur.Name, p.Quantity, cur.AvailableQuantity)
}

// List returns pickups newest first, limited to issuedBy when it is set.
func (l *PickupLedger) List(ctx context.Context, issuedBy string) ([]models.SupplyPickup, error) {
	filter := bson.M{}
	if issuedBy != "" {
		filter["issued_by"] = issuedBy
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := l.DB.Collection(PickupsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pickups []models.SupplyPickup
	if err := cursor.All(ctx, &pickups); err != nil {
		return nil, err
	}
	if pickups == nil {
		pickups = []models.SupplyPickup{}
	}
	return pickups, nil
}

func (l *PickupLedger) CountPickups(ctx context.Context) (int64, error) {
	return l.DB.Collection(PickupsCollection).CountDocuments(ctx, bson.M{})
}
