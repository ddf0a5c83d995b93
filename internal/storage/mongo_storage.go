// Path: internal/storage/mongo_storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"gene-catalog/internal/config"
	"gene-catalog/internal/domain"
	"gene-catalog/internal/query"
)

// MongoGeneStorage is the MongoDB implementation of the RecordStore interface.
type MongoGeneStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	gate       gate
}

// NewMongoGeneStorage creates a new storage adapter for genes.
func NewMongoGeneStorage(client *mongo.Client, db *mongo.Database, collectionName string, cfg config.StoreConfig) *MongoGeneStorage {
	return &MongoGeneStorage{
		client:     client,
		collection: db.Collection(collectionName),
		gate:       newGate(cfg),
	}
}

// openMongo builds a client from the configured URL and key. The driver
// dials lazily, so an unreachable server is reported by Available later.
func openMongo(ctx context.Context, cfg config.DatabaseConfig, storeCfg config.StoreConfig) (*MongoGeneStorage, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse mongo url: %w", err)
	}
	if u.User == nil || u.User.Username() == "" {
		return nil, errors.New("mongo url must carry a username; the password comes from database.key")
	}

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetAuth(options.Credential{Username: u.User.Username(), Password: cfg.Key}).
		SetServerSelectionTimeout(storeCfg.Timeout())
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return NewMongoGeneStorage(client, client.Database(cfg.Name), cfg.Collection, storeCfg), nil
}

// Configured implements the RecordStore interface.
func (s *MongoGeneStorage) Configured() bool { return true }

// Available implements the RecordStore interface.
func (s *MongoGeneStorage) Available(ctx context.Context) bool {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return false
	}
	return s.client.Ping(ctx, readpref.Primary()) == nil
}

// Query implements the RecordStore interface.
func (s *MongoGeneStorage) Query(ctx context.Context, q query.Query) ([]domain.GeneRecord, int64, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return nil, 0, err
	}

	filter := mongoFilter(q.Where)
	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, remoteErr("count genes", err)
	}

	opts := options.Find()
	if len(q.Order) > 0 {
		opts.SetSort(mongoSort(q.Order))
	}
	if q.Range.Offset > 0 {
		opts.SetSkip(int64(q.Range.Offset))
	}
	if q.Range.Limit > 0 {
		opts.SetLimit(int64(q.Range.Limit))
	}
	if len(q.Fields) > 0 {
		opts.SetProjection(mongoProjection(q.Fields))
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, remoteErr("find genes", err)
	}
	defer cursor.Close(ctx)

	var genes []domain.GeneRecord
	if err := cursor.All(ctx, &genes); err != nil {
		return nil, 0, remoteErr("decode genes", err)
	}
	return genes, total, nil
}

// FindByID implements the RecordStore interface.
func (s *MongoGeneStorage) FindByID(ctx context.Context, id string) (*domain.GeneRecord, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return nil, err
	}

	var gene domain.GeneRecord
	err = s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&gene)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Return nil, nil if not found
		}
		return nil, remoteErr("find gene", err)
	}
	return &gene, nil
}

// Insert implements the RecordStore interface.
func (s *MongoGeneStorage) Insert(ctx context.Context, gene domain.GeneRecord) error {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return err
	}

	if _, err := s.collection.InsertOne(ctx, gene); err != nil {
		return remoteErr("insert gene", err)
	}
	return nil
}

// Replace implements the RecordStore interface.
func (s *MongoGeneStorage) Replace(ctx context.Context, gene domain.GeneRecord) (bool, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": gene.ID}, gene)
	if err != nil {
		return false, remoteErr("replace gene", err)
	}
	return res.MatchedCount > 0, nil
}

// Delete implements the RecordStore interface.
func (s *MongoGeneStorage) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return false, err
	}

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, remoteErr("delete gene", err)
	}
	return res.DeletedCount > 0, nil
}

// BulkUpsert implements the RecordStore interface.
func (s *MongoGeneStorage) BulkUpsert(ctx context.Context, genes []domain.GeneRecord) error {
	if len(genes) == 0 {
		return nil
	}
	ctx, cancel, err := s.gate.enter(ctx)
	defer cancel()
	if err != nil {
		return err
	}

	writeModels := make([]mongo.WriteModel, len(genes))
	for i, gene := range genes {
		filter := bson.M{"_id": gene.ID}
		writeModels[i] = mongo.NewReplaceOneModel().SetFilter(filter).SetReplacement(gene).SetUpsert(true)
	}

	// Unordered lets the server apply the replacements in parallel.
	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.collection.BulkWrite(ctx, writeModels, opts); err != nil {
		return remoteErr("bulk upsert genes", err)
	}
	return nil
}

// EnsureSchema creates the indexes searches sort and filter on.
func (s *MongoGeneStorage) EnsureSchema(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "enzyme_type", Value: 1}}},
		{Keys: bson.D{{Key: "accession", Value: 1}}},
	})
	if err != nil {
		return remoteErr("create gene indexes", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoGeneStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
