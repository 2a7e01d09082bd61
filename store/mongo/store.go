// Package mongo implements the ledger store on MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/partsdesk/salesledger/order"
	"github.com/partsdesk/salesledger/payment"
	"github.com/partsdesk/salesledger/store"
	"github.com/partsdesk/salesledger/types"
)

// Collection name constants.
const (
	colOrderLines = "ledger_order_lines"
	colPayments   = "ledger_payments"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store on a MongoDB database.
type Store struct {
	db *mongo.Database
}

// New wraps an existing database handle.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle for direct access.
func (s *Store) DB() *mongo.Database { return s.db }

func (s *Store) orders() *mongo.Collection   { return s.db.Collection(colOrderLines) }
func (s *Store) payments() *mongo.Collection { return s.db.Collection(colPayments) }

// Migrate creates indexes for both ledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	orderIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
		{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "visibility", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	}
	if _, err := s.orders().Indexes().CreateMany(ctx, orderIndexes); err != nil {
		return fmt.Errorf("ledger/mongo: migrate %s indexes: %w", colOrderLines, err)
	}

	paymentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "payment_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "visibility", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	}
	if _, err := s.payments().Indexes().CreateMany(ctx, paymentIndexes); err != nil {
		return fmt.Errorf("ledger/mongo: migrate %s indexes: %w", colPayments, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (s *Store) Close() error {
	return s.db.Client().Disconnect(context.Background())
}

// ==================== Orders ====================

func (s *Store) AppendOrderLines(ctx context.Context, lines []*order.Line) error {
	if len(lines) == 0 {
		return nil
	}
	docs := make([]any, len(lines))
	for i, ln := range lines {
		docs[i] = toOrderLineModel(ln)
	}
	if _, err := s.orders().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("ledger/mongo: append order lines: %w", err)
	}
	return nil
}

func (s *Store) ListOrders(ctx context.Context, opts order.ListOpts) ([]*order.Line, error) {
	filter := bson.M{}
	if opts.Customer != "" {
		filter["customer"] = opts.Customer
	}
	if opts.OrderID != "" {
		filter["order_id"] = opts.OrderID
	}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}
	if !opts.IncludeHidden {
		filter["visibility"] = string(types.Visible)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.orders().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("ledger/mongo: list orders: %w", err)
	}
	defer cur.Close(ctx)

	var models []orderLineModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("ledger/mongo: list orders: %w", err)
	}

	result := make([]*order.Line, len(models))
	for i := range models {
		ln, err := fromOrderLineModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = ln
	}
	return result, nil
}

func (s *Store) OrderIDs(ctx context.Context) ([]string, error) {
	return s.listField(ctx, s.orders(), "order_id")
}

func (s *Store) SetOrderVisibility(ctx context.Context, orderID string, v types.Visibility) (bool, error) {
	res, err := s.orders().UpdateMany(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{"visibility": string(v)}})
	if err != nil {
		return false, fmt.Errorf("ledger/mongo: set order visibility: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) MarkOrderPaid(ctx context.Context, orderID string) (bool, error) {
	res, err := s.orders().UpdateMany(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{"status": string(order.StatusPaid)}})
	if err != nil {
		return false, fmt.Errorf("ledger/mongo: mark order paid: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	res, err := s.orders().DeleteMany(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return false, fmt.Errorf("ledger/mongo: delete order: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ==================== Payments ====================

func (s *Store) AppendPayment(ctx context.Context, p *payment.Payment) error {
	if _, err := s.payments().InsertOne(ctx, toPaymentModel(p)); err != nil {
		return fmt.Errorf("ledger/mongo: append payment: %w", err)
	}
	return nil
}

func (s *Store) ListPayments(ctx context.Context, opts payment.ListOpts) ([]*payment.Payment, error) {
	filter := bson.M{}
	if opts.Customer != "" {
		filter["customer"] = opts.Customer
	}
	if opts.OrderRef != "" {
		filter["order_ref"] = opts.OrderRef
	}
	if !opts.IncludeHidden {
		filter["visibility"] = string(types.Visible)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	if opts.Limit > 0 {
		findOpts = findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts = findOpts.SetSkip(int64(opts.Offset))
	}

	cur, err := s.payments().Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("ledger/mongo: list payments: %w", err)
	}
	defer cur.Close(ctx)

	var models []paymentModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("ledger/mongo: list payments: %w", err)
	}

	result := make([]*payment.Payment, len(models))
	for i := range models {
		p, err := fromPaymentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (s *Store) PaymentIDs(ctx context.Context) ([]string, error) {
	return s.listField(ctx, s.payments(), "payment_id")
}

func (s *Store) SetPaymentVisibility(ctx context.Context, paymentID string, v types.Visibility) (bool, error) {
	res, err := s.payments().UpdateMany(ctx,
		bson.M{"payment_id": paymentID},
		bson.M{"$set": bson.M{"visibility": string(v)}})
	if err != nil {
		return false, fmt.Errorf("ledger/mongo: set payment visibility: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) DeletePayment(ctx context.Context, paymentID string) (bool, error) {
	res, err := s.payments().DeleteMany(ctx, bson.M{"payment_id": paymentID})
	if err != nil {
		return false, fmt.Errorf("ledger/mongo: delete payment: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ==================== Helpers ====================

// listField returns one string field from every document in a collection,
// in timestamp order.
func (s *Store) listField(ctx context.Context, col *mongo.Collection, field string) ([]string, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{field: 1})

	cur, err := col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("ledger/mongo: list %s: %w", field, err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("ledger/mongo: list %s: %w", field, err)
		}
		if v, ok := doc[field].(string); ok {
			ids = append(ids, v)
		}
	}
	return ids, cur.Err()
}
