package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aadil-nv/invoise-management/internal/apperrors"
	"github.com/aadil-nv/invoise-management/internal/core/domain"
	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements the repository ports on a MongoDB database.
type MongoRepository struct {
	client    *mongo.Client
	products  *mongo.Collection
	customers *mongo.Collection
	sales     *mongo.Collection
}

var (
	_ portsrepo.ProductRepositoryFacade  = (*MongoRepository)(nil)
	_ portsrepo.CustomerRepositoryFacade = (*MongoRepository)(nil)
	_ portsrepo.SaleRepositoryWithTx     = (*MongoRepository)(nil)
)

// NewMongoRepository binds the repository to dbName on client.
func NewMongoRepository(client *mongo.Client, dbName string) *MongoRepository {
	db := client.Database(dbName)
	return &MongoRepository{
		client:    client,
		products:  db.Collection(productsCollection),
		customers: db.Collection(customersCollection),
		sales:     db.Collection(salesCollection),
	}
}

// NewRepositoryProvider exposes the repository through the repository ports.
func NewRepositoryProvider(repo *MongoRepository) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo:  repo,
		CustomerRepo: repo,
		SaleRepo:     repo,
	}
}

// EnsureIndexes creates the uniqueness and listing indexes. It is idempotent.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create product name index: %w", err)
	}
	if _, err := r.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "mobile", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create customer mobile index: %w", err)
	}
	if _, err := r.sales.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "saleDate", Value: -1}},
	}); err != nil {
		return fmt.Errorf("failed to create sale date index: %w", err)
	}
	return nil
}

func (r *MongoRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	doc, err := toProductDocument(product)
	if err != nil {
		return err
	}
	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: product named %q already exists", apperrors.ErrDuplicate, product.Name)
		}
		return fmt.Errorf("failed to save product %s: %w", product.ProductID, err)
	}
	return nil
}

func (r *MongoRepository) FindProductByID(ctx context.Context, ownerID string, productID string) (*domain.Product, error) {
	var doc productDocument
	err := r.products.FindOne(ctx, bson.M{"_id": productID, "ownerId": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}
	product, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *MongoRepository) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	cursor, err := r.products.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *MongoRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	if _, err := r.customers.InsertOne(ctx, toCustomerDocument(customer)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: customer with mobile %s already exists", apperrors.ErrDuplicate, customer.Mobile)
		}
		return fmt.Errorf("failed to save customer %s: %w", customer.CustomerID, err)
	}
	return nil
}

func (r *MongoRepository) FindCustomerByID(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error) {
	var doc customerDocument
	err := r.customers.FindOne(ctx, bson.M{"_id": customerID, "ownerId": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}
	customer := doc.toDomain()
	return &customer, nil
}

func (r *MongoRepository) FindSaleByID(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	var doc saleDocument
	err := r.sales.FindOne(ctx, bson.M{"_id": saleID, "ownerId": ownerID}).Decode(&doc)
	return decodeSale(doc, err)
}

func (r *MongoRepository) ListSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saleDate", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.sales.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode sales: %w", err)
	}

	sales := make([]domain.Sale, 0, len(docs))
	for _, doc := range docs {
		s, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func (r *MongoRepository) UpdateSalePaid(ctx context.Context, ownerID string, saleID string, isPaid bool, userID string, now time.Time) (*domain.Sale, error) {
	return r.setSaleFlag(ctx, ownerID, saleID, "isPaid", isPaid, userID, now)
}

func (r *MongoRepository) UpdateSaleActive(ctx context.Context, ownerID string, saleID string, isActive bool, userID string, now time.Time) (*domain.Sale, error) {
	return r.setSaleFlag(ctx, ownerID, saleID, "isActive", isActive, userID, now)
}

func (r *MongoRepository) setSaleFlag(ctx context.Context, ownerID, saleID, field string, value bool, userID string, now time.Time) (*domain.Sale, error) {
	update := bson.M{
		"$set": bson.M{field: value, "lastUpdatedAt": now, "lastUpdatedBy": userID},
		"$inc": bson.M{"version": 1},
	}
	var doc saleDocument
	err := r.sales.FindOneAndUpdate(ctx,
		bson.M{"_id": saleID, "ownerId": ownerID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	return decodeSale(doc, err)
}

// RunInStockTx runs fn inside a multi-document transaction. The driver
// retries fn from the start on transient write conflicts, so fn must not
// keep state between attempts.
func (r *MongoRepository) RunInStockTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.StockTx) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return apperrors.NewAppError(500, "failed to start mongo session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoStockTx{repo: r})
	})
	return err
}

func decodeSale(doc saleDocument, err error) (*domain.Sale, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	sale, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &sale, nil
}
