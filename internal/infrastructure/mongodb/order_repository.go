package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopspring/decimal"

	"shop-service/internal/domain/entities"
	"shop-service/internal/domain/repositories"
	"shop-service/internal/infrastructure/logger"
)

type OrderRepositoryMongo struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func (r *OrderRepositoryMongo) Create(ctx context.Context, order *entities.Order) error {
	doc := toOrderDocument(order)

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrOrderAlreadyExists
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *OrderRepositoryMongo) ListByUser(ctx context.Context, userID string) ([]*entities.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []OrderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]*entities.Order, len(docs))
	for i := range docs {
		orders[i] = toOrderEntity(&docs[i])
	}
	return orders, nil
}

func (r *OrderRepositoryMongo) GetForUser(ctx context.Context, userID, orderID string) (*entities.Order, error) {
	return r.findOne(ctx, bson.M{"order_id": orderID, "user_id": userID})
}

func (r *OrderRepositoryMongo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*entities.Order, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "idempotency_key": key})
}

func (r *OrderRepositoryMongo) Cancel(ctx context.Context, userID, orderID string, reason entities.CancelReason, description string) (*entities.Order, error) {
	progress, _ := entities.Progress(entities.StatusCancelled)
	update := bson.M{"$set": bson.M{
		"status":             string(entities.StatusCancelled),
		"progress_status":    progress,
		"cancel_reason":      string(reason),
		"cancel_description": description,
		"updated_at":         time.Now().UTC(),
	}}

	order, err := r.findOneAndUpdate(ctx, cancelFilter(userID, orderID), update)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Order cancelled in store", "order_id", orderID, "reason", reason)
	return order, nil
}

func (r *OrderRepositoryMongo) UpdateStatusForSeller(ctx context.Context, sellerID, orderID string, status entities.OrderStatus, progress int) (*entities.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":          string(status),
		"progress_status": progress,
		"updated_at":      time.Now().UTC(),
	}}

	order, err := r.findOneAndUpdate(ctx, sellerStatusFilter(sellerID, orderID), update)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Order status updated successfully",
		"order_id", orderID,
		"seller_id", sellerID,
		"new_status", status)
	return order, nil
}

func (r *OrderRepositoryMongo) findOne(ctx context.Context, filter bson.M) (*entities.Order, error) {
	var doc OrderDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return toOrderEntity(&doc), nil
}

func (r *OrderRepositoryMongo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*entities.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc OrderDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	return toOrderEntity(&doc), nil
}

func cancelFilter(userID, orderID string) bson.M {
	statuses := make([]string, len(entities.CancellableStatuses))
	for i, s := range entities.CancellableStatuses {
		statuses[i] = string(s)
	}
	return bson.M{
		"order_id": orderID,
		"user_id":  userID,
		"status":   bson.M{"$in": statuses},
	}
}

func sellerStatusFilter(sellerID, orderID string) bson.M {
	return bson.M{
		"order_id":        orderID,
		"items.seller_id": sellerID,
		"status":          bson.M{"$ne": string(entities.StatusCancelled)},
	}
}

func toOrderDocument(order *entities.Order) *OrderDocument {
	doc := &OrderDocument{
		OrderID:           order.ID,
		UserID:            order.UserID,
		TotalAmount:       Money(order.TotalAmount),
		Status:            string(order.Status),
		ProgressStatus:    order.ProgressStatus,
		CancelReason:      string(order.CancelReason),
		CancelDescription: order.CancelDescription,
		IdempotencyKey:    order.IdempotencyKey,
		OrderDate:         order.OrderDate,
		UpdatedAt:         order.UpdatedAt,
		DeliveryAddress: AddressDocument{
			Street:  order.DeliveryAddress.Street,
			City:    order.DeliveryAddress.City,
			State:   order.DeliveryAddress.State,
			ZipCode: order.DeliveryAddress.ZipCode,
			Country: order.DeliveryAddress.Country,
		},
		Items: make([]ItemDocument, len(order.Lines)),
	}

	for i, line := range order.Lines {
		doc.Items[i] = ItemDocument{
			ProductID: line.ProductID,
			SellerID:  line.SellerID,
			Quantity:  line.Quantity,
			Price:     Money(line.Price),
		}
	}

	return doc
}

func toOrderEntity(doc *OrderDocument) *entities.Order {
	lines := make([]entities.OrderLine, len(doc.Items))
	for i, item := range doc.Items {
		lines[i] = entities.OrderLine{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Quantity:  item.Quantity,
			Price:     decimal.Decimal(item.Price),
		}
	}

	return &entities.Order{
		ID:     doc.OrderID,
		UserID: doc.UserID,
		Lines:  lines,
		DeliveryAddress: entities.DeliveryAddress{
			Street:  doc.DeliveryAddress.Street,
			City:    doc.DeliveryAddress.City,
			State:   doc.DeliveryAddress.State,
			ZipCode: doc.DeliveryAddress.ZipCode,
			Country: doc.DeliveryAddress.Country,
		},
		TotalAmount:       decimal.Decimal(doc.TotalAmount),
		Status:            entities.OrderStatus(doc.Status),
		ProgressStatus:    doc.ProgressStatus,
		CancelReason:      entities.CancelReason(doc.CancelReason),
		CancelDescription: doc.CancelDescription,
		IdempotencyKey:    doc.IdempotencyKey,
		OrderDate:         doc.OrderDate,
		UpdatedAt:         doc.UpdatedAt,
	}
}
