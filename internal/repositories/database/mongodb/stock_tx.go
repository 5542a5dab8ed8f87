package mongodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoStockTx issues every operation with the session context it is given,
// which binds them to the surrounding transaction.
type mongoStockTx struct {
	repo *MongoRepository
}

var _ portsrepo.StockTx = (*mongoStockTx)(nil)

func (t *mongoStockTx) FindProductsForUpdate(ctx context.Context, ownerID string, productIDs []string) (map[string]domain.Product, error) {
	found := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return found, nil
	}

	cursor, err := t.repo.products.Find(ctx, bson.M{"ownerId": ownerID, "_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		found[p.ProductID] = p
	}
	return found, nil
}

// ApplyStockDeltas only matches a product whose quantity covers the
// decrement, so the filter itself refuses to go below zero.
func (t *mongoStockTx) ApplyStockDeltas(ctx context.Context, ownerID string, deltas map[string]int64, userID string, now time.Time) error {
	productIDs := make([]string, 0, len(deltas))
	for id, delta := range deltas {
		if delta != 0 {
			productIDs = append(productIDs, id)
		}
	}
	sort.Strings(productIDs)

	for _, id := range productIDs {
		delta := deltas[id]
		filter := bson.M{"_id": id, "ownerId": ownerID}
		if delta < 0 {
			filter["quantity"] = bson.M{"$gte": -delta}
		}
		update := bson.M{
			"$inc": bson.M{"quantity": delta},
			"$set": bson.M{"lastUpdatedAt": now, "lastUpdatedBy": userID},
		}

		res, err := t.repo.products.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to update stock for product %s: %w", id, err)
		}
		if res.MatchedCount == 0 {
			if delta < 0 {
				return fmt.Errorf("%w: stock for product %s cannot go below zero", apperrors.ErrStockConflict, id)
			}
			return fmt.Errorf("%w: product %s not found during stock update", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

// FindSaleForUpdate bumps the sale's version so that a concurrent
// transaction touching the same sale hits a write conflict.
func (t *mongoStockTx) FindSaleForUpdate(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	var doc saleDocument
	err := t.repo.sales.FindOneAndUpdate(ctx,
		bson.M{"_id": saleID, "ownerId": ownerID},
		bson.M{"$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	return decodeSale(doc, err)
}

func (t *mongoStockTx) SaveSale(ctx context.Context, sale domain.Sale) error {
	doc, err := toSaleDocument(sale)
	if err != nil {
		return err
	}
	if _, err := t.repo.sales.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: sale %s already exists", apperrors.ErrDuplicate, sale.SaleID)
		}
		return apperrors.NewAppError(500, "failed to insert sale "+sale.SaleID, err)
	}
	return nil
}

func (t *mongoStockTx) UpdateSale(ctx context.Context, sale domain.Sale) error {
	doc, err := toSaleDocument(sale)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"products":      doc.Items,
			"paymentMethod": doc.PaymentMethod,
			"totalPrice":    doc.TotalPrice,
			"isPaid":        doc.IsPaid,
			"lastUpdatedAt": doc.LastUpdatedAt,
			"lastUpdatedBy": doc.LastUpdatedBy,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := t.repo.sales.UpdateOne(ctx, bson.M{"_id": sale.SaleID, "ownerId": sale.OwnerID}, update)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update sale "+sale.SaleID, err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (t *mongoStockTx) DeleteSale(ctx context.Context, ownerID string, saleID string) error {
	res, err := t.repo.sales.DeleteOne(ctx, bson.M{"_id": saleID, "ownerId": ownerID})
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete sale "+saleID, err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
