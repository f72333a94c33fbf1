package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	queryTimeout = 10 * time.Second
	writeTimeout = 5 * time.Second

	designationsCollection  = "designations"
	settingsCollection      = "settings"
	layoutsCollection       = "dashboard_layouts"
	subscriptionsCollection = "report_subscriptions"
)

// MongoDBClient reads the FMS application collections and stores report
// settings alongside them
type MongoDBClient struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger

	queryTimeout time.Duration
	writeTimeout time.Duration

	tasks       *mongo.Collection
	workflows   *mongo.Collection
	checklists  *mongo.Collection
	helpTickets *mongo.Collection
	users       *mongo.Collection

	designations  *mongo.Collection
	settings      *mongo.Collection
	layouts       *mongo.Collection
	subscriptions *mongo.Collection
}

// buildMongoURI returns the connection URI and a copy safe for logging
func buildMongoURI(cfg config.MongoDBConfig) (uri, logURI string) {
	if cfg.URI != "" {
		return cfg.URI, redactURI(cfg.URI)
	}

	authSource := cfg.AuthSource
	if authSource == "" {
		authSource = "admin"
	}
	if cfg.Username != "" && cfg.Password != "" {
		userInfo := url.UserPassword(cfg.Username, cfg.Password)
		uri = fmt.Sprintf("mongodb://%s@%s:%s/%s?authSource=%s",
			userInfo.String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(authSource))
		logURI = fmt.Sprintf("mongodb://%s:***@%s:%s/%s?authSource=%s",
			url.User(cfg.Username).String(), cfg.Host, cfg.Port, cfg.Database, url.QueryEscape(authSource))
		return uri, logURI
	}

	uri = fmt.Sprintf("mongodb://%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)
	return uri, uri
}

func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "mongodb://***"
	}
	return u.Redacted()
}

// NewMongoDBClient connects to MongoDB and prepares the report collections
func NewMongoDBClient(cfg config.MongoDBConfig, logger *zap.Logger) (*MongoDBClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Build connection URI; the log copy never carries the password
	uri, logURI := buildMongoURI(cfg)
	logger.Info("connecting to MongoDB", zap.String("uri", logURI))

	// Connect and verify the server answers
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", logURI, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", logURI, err)
	}

	// Collections and timeouts
	c := newMongoDBClient(client, cfg, logger)
	c.ensureIndexes(ctx)

	return c, nil
}

func newMongoDBClient(client *mongo.Client, cfg config.MongoDBConfig, logger *zap.Logger) *MongoDBClient {
	db := client.Database(cfg.Database)
	return &MongoDBClient{
		client:        client,
		database:      db,
		logger:        logger,
		queryTimeout:  queryTimeout,
		writeTimeout:  writeTimeout,
		tasks:         db.Collection(cfg.TasksCollection),
		workflows:     db.Collection(cfg.WorkflowsCollection),
		checklists:    db.Collection(cfg.ChecklistsCollection),
		helpTickets:   db.Collection(cfg.HelpTicketsCollection),
		users:         db.Collection(cfg.UsersCollection),
		designations:  db.Collection(designationsCollection),
		settings:      db.Collection(settingsCollection),
		layouts:       db.Collection(layoutsCollection),
		subscriptions: db.Collection(subscriptionsCollection),
	}
}

// readContext bounds a query
func (c *MongoDBClient) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.queryTimeout)
}

// writeContext bounds an insert, update or delete
func (c *MongoDBClient) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.writeTimeout)
}

// ensureIndexes creates the indexes the report relies on. Failures are
// logged; an index may already exist with other options.
func (c *MongoDBClient) ensureIndexes(ctx context.Context) {
	createdAt := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: 1}}}
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{c.tasks, createdAt},
		{c.workflows, createdAt},
		{c.checklists, createdAt},
		{c.helpTickets, createdAt},
		{c.designations, mongo.IndexModel{
			Keys:    bson.D{{Key: "nameKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{c.layouts, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{c.subscriptions, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			c.logger.Warn("MongoDB index creation failed",
				zap.String("collection", idx.coll.Name()), zap.Error(err))
		}
	}
}

// Ping checks the connection
func (c *MongoDBClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close closes the MongoDB client connection
func (c *MongoDBClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
