package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// displaySettingsID is the _id of the singleton display settings document
const displaySettingsID = "display"

// ListDesignations returns all designations sorted by name
func (c *MongoDBClient) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	return findAll[models.Designation](ctx, c.designations, bson.M{},
		options.Find().SetSort(bson.D{{Key: "nameKey", Value: 1}}))
}

// InsertDesignation stores a new designation; a taken name yields ErrDuplicate
func (c *MongoDBClient) InsertDesignation(ctx context.Context, designation *models.Designation) error {
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	if _, err := c.designations.InsertOne(ctx, designation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert designation: %w", err)
	}
	return nil
}

// DeleteDesignation removes a designation by id
func (c *MongoDBClient) DeleteDesignation(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	res, err := c.designations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete designation: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDisplaySettings loads the display settings document
func (c *MongoDBClient) GetDisplaySettings(ctx context.Context) (*models.DisplaySettings, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	var settings models.DisplaySettings
	err := c.settings.FindOne(ctx, bson.M{"_id": displaySettingsID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query display settings: %w", err)
	}
	return &settings, nil
}

// SaveDisplaySettings upserts the display settings document
func (c *MongoDBClient) SaveDisplaySettings(ctx context.Context, settings *models.DisplaySettings) error {
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	_, err := c.settings.UpdateOne(ctx,
		bson.M{"_id": displaySettingsID},
		bson.M{"$set": settings},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save display settings: %w", err)
	}
	return nil
}

// GetLayout loads a user's report dashboard layout
func (c *MongoDBClient) GetLayout(ctx context.Context, userID string) (*models.DashboardLayout, error) {
	ctx, cancel := c.readContext(ctx)
	defer cancel()

	var layout models.DashboardLayout
	err := c.layouts.FindOne(ctx, bson.M{"userId": userID}).Decode(&layout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query layout: %w", err)
	}
	return &layout, nil
}

// SaveLayout upserts a user's report dashboard layout
func (c *MongoDBClient) SaveLayout(ctx context.Context, layout *models.DashboardLayout) error {
	ctx, cancel := c.writeContext(ctx)
	defer cancel()

	_, err := c.layouts.UpdateOne(ctx,
		bson.M{"userId": layout.UserID},
		bson.M{"$set": layout},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save layout: %w", err)
	}
	return nil
}
