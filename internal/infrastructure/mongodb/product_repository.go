package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopspring/decimal"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
)

type ProductRepositoryMongo struct {
	collection *mongo.Collection
}

func (r *ProductRepositoryMongo) Create(ctx context.Context, product *entities.Product) error {
	_, err := r.collection.InsertOne(ctx, toProductDocument(product))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *ProductRepositoryMongo) GetByID(ctx context.Context, productID string) (*entities.Product, error) {
	var doc ProductDocument
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return toProductEntity(&doc), nil
}

func (r *ProductRepositoryMongo) GetByIDs(ctx context.Context, productIDs []string) (map[string]*entities.Product, error) {
	result := make(map[string]*entities.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	docs, err := r.find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}
	for i := range docs {
		result[docs[i].ProductID] = toProductEntity(&docs[i])
	}
	return result, nil
}

func (r *ProductRepositoryMongo) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	docs, err := r.find(ctx, productListFilter(filter), opts)
	if err != nil {
		return nil, err
	}

	products := make([]*entities.Product, len(docs))
	for i := range docs {
		products[i] = toProductEntity(&docs[i])
	}
	return products, nil
}

func (r *ProductRepositoryMongo) UpdateForSeller(ctx context.Context, sellerID string, product *entities.Product) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"product_id": product.ID, "seller_id": sellerID},
		bson.M{"$set": bson.M{
			"name":        product.Name,
			"description": product.Description,
			"price":       Money(product.Price),
			"category":    string(product.Category),
			"subcategory": string(product.Subcategory),
			"image_url":   product.ImageURL,
			"in_stock":    product.InStock,
			"updated_at":  product.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepositoryMongo) DeleteForSeller(ctx context.Context, sellerID, productID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"product_id": productID, "seller_id": sellerID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepositoryMongo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]ProductDocument, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return docs, nil
}

func productListFilter(filter entities.ProductFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.Subcategory != "" {
		query["subcategory"] = string(filter.Subcategory)
	}
	if filter.SellerID != "" {
		query["seller_id"] = filter.SellerID
	}
	return query
}

func toProductDocument(product *entities.Product) *ProductDocument {
	return &ProductDocument{
		ProductID:   product.ID,
		SellerID:    product.SellerID,
		Name:        product.Name,
		Description: product.Description,
		Price:       Money(product.Price),
		Category:    string(product.Category),
		Subcategory: string(product.Subcategory),
		ImageURL:    product.ImageURL,
		InStock:     product.InStock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toProductEntity(doc *ProductDocument) *entities.Product {
	return &entities.Product{
		ID:          doc.ProductID,
		SellerID:    doc.SellerID,
		Name:        doc.Name,
		Description: doc.Description,
		Price:       decimal.Decimal(doc.Price),
		Category:    entities.Category(doc.Category),
		Subcategory: entities.Subcategory(doc.Subcategory),
		ImageURL:    doc.ImageURL,
		InStock:     doc.InStock,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
