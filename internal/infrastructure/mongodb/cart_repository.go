package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
)

type CartRepositoryMongo struct {
	collection *mongo.Collection
}

func (r *CartRepositoryMongo) GetByUser(ctx context.Context, userID string) (*entities.Cart, error) {
	var doc CartDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &entities.Cart{UserID: userID, Lines: []entities.CartLine{}}, nil
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}
	return toCartEntity(&doc), nil
}

func (r *CartRepositoryMongo) Save(ctx context.Context, cart *entities.Cart) error {
	doc := toCartDocument(cart)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *CartRepositoryMongo) Clear(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": bson.A{}, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func toCartDocument(cart *entities.Cart) *CartDocument {
	doc := &CartDocument{
		UserID:    cart.UserID,
		UpdatedAt: cart.UpdatedAt,
		Items:     make([]CartItemDocument, len(cart.Lines)),
	}
	for i, line := range cart.Lines {
		doc.Items[i] = CartItemDocument{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return doc
}

func toCartEntity(doc *CartDocument) *entities.Cart {
	lines := make([]entities.CartLine, len(doc.Items))
	for i, item := range doc.Items {
		lines[i] = entities.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return &entities.Cart{UserID: doc.UserID, Lines: lines, UpdatedAt: doc.UpdatedAt}
}

type WishlistRepositoryMongo struct {
	collection *mongo.Collection
}

func (r *WishlistRepositoryMongo) GetByUser(ctx context.Context, userID string) (*entities.Wishlist, error) {
	var doc WishlistDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &entities.Wishlist{UserID: userID, ProductIDs: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to find wishlist: %w", err)
	}
	if doc.ProductIDs == nil {
		doc.ProductIDs = []string{}
	}
	return &entities.Wishlist{UserID: doc.UserID, ProductIDs: doc.ProductIDs}, nil
}

func (r *WishlistRepositoryMongo) AddProduct(ctx context.Context, userID, productID string) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$addToSet": bson.M{"product_ids": productID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (r *WishlistRepositoryMongo) RemoveProduct(ctx context.Context, userID, productID string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"user_id": userID, "product_ids": productID},
		bson.M{"$pull": bson.M{"product_ids": productID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrWishlistNotFound
	}
	return nil
}
