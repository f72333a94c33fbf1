package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AddSubscription opts an address into the monthly MIS email. Re-subscribing
// replaces the stored name and date.
func (c *MongoDBClient) AddSubscription(ctx context.Context, sub models.ReportSubscription) error {
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	sub.Email = normalizeEmail(sub.Email)
	_, err := c.subscriptions.UpdateOne(ctx,
		bson.M{"email": sub.Email},
		bson.M{"$set": sub},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	return nil
}

// RemoveSubscription opts an address out; unknown addresses yield ErrNotFound
func (c *MongoDBClient) RemoveSubscription(ctx context.Context, email string) error {
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	res, err := c.subscriptions.DeleteOne(ctx, bson.M{"email": normalizeEmail(email)})
	if err != nil {
		return fmt.Errorf("failed to remove subscription: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSubscriptions returns every subscriber ordered by email
func (c *MongoDBClient) ListSubscriptions(ctx context.Context) ([]models.ReportSubscription, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	return findAll[models.ReportSubscription](ctx, c.subscriptions, bson.M{},
		options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
}
