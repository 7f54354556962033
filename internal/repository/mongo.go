package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joseph-ayodele/health-summary/constants"
	"github.com/joseph-ayodele/health-summary/internal/common"
	"github.com/joseph-ayodele/health-summary/internal/entity"
)

var _ HistoryStore = (*MongoHistory)(nil)

const (
	historyCollection = "run_history"
	appendAttempts    = 16
)

// MongoHistory persists the run log as one document per entry.
type MongoHistory struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger
}

type historyDocument struct {
	Index             int              `bson:"index"`
	ID                string           `bson:"run_id"`
	Timestamp         time.Time        `bson:"timestamp"`
	InputMethod       string           `bson:"input_method"`
	ExtractionQuality string           `bson:"extraction_quality"`
	Summary           string           `bson:"summary"`
	Feedback          *entity.Feedback `bson:"feedback,omitempty"`
	Reward            *float64         `bson:"reward,omitempty"`
}

// NewMongoHistory connects, pings and ensures the unique index on position.
func NewMongoHistory(ctx context.Context, uri, database string, dialTimeout time.Duration, logger *slog.Logger) (*MongoHistory, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dialCtx, cancel := common.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, common.NewAppError("DB", "connect mongo", errors.Join(common.ErrDatabase, err))
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, common.NewAppError("DB", "ping mongo", errors.Join(common.ErrDatabase, err))
	}

	coll := client.Database(database).Collection(historyCollection)
	_, err = coll.Indexes().CreateOne(dialCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "index", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, common.NewAppError("DB", "create index", errors.Join(common.ErrDatabase, err))
	}

	logger.Info("history.mongo.open", "database", database)
	return &MongoHistory{client: client, coll: coll, logger: logger}, nil
}

func (m *MongoHistory) Append(ctx context.Context, entry entity.RunHistoryEntry) (entity.RunHistoryEntry, error) {
	enc, err := encodeEntry(entry)
	if err != nil {
		return entity.RunHistoryEntry{}, err
	}
	doc := historyDocument{
		ID:                entry.ID.String(),
		Timestamp:         entry.Timestamp.UTC(),
		InputMethod:       string(entry.InputMethod),
		ExtractionQuality: string(entry.ExtractionQuality),
		Summary:           string(enc.summary),
		Feedback:          entry.Feedback,
		Reward:            entry.Reward,
	}

	// A concurrent writer may claim the same position; the unique index
	// rejects it and the next attempt recounts.
	for attempt := 1; ; attempt++ {
		n, err := m.coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return entity.RunHistoryEntry{}, common.NewAppError("DB", "count run_history", errors.Join(common.ErrDatabase, err))
		}
		doc.Index = int(n)
		_, err = m.coll.InsertOne(ctx, doc)
		if err == nil {
			break
		}
		if !mongo.IsDuplicateKeyError(err) || attempt == appendAttempts {
			m.logger.Error("history.append.failed", "backend", "mongo", "attempt", attempt, "error", err)
			return entity.RunHistoryEntry{}, common.NewAppError("DB", "insert run_history", errors.Join(common.ErrDatabase, err))
		}
	}

	entry.Index = doc.Index
	m.logger.Debug("history.append.ok", "backend", "mongo", "index", doc.Index, "id", entry.ID)
	return entry, nil
}

func (m *MongoHistory) UpdateFeedback(ctx context.Context, index int, fb entity.Feedback, reward float64) (entity.RunHistoryEntry, error) {
	if index < 0 {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	res, err := m.coll.UpdateOne(ctx,
		bson.M{"index": index},
		bson.M{"$set": bson.M{"feedback": fb, "reward": reward}})
	if err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "update feedback", errors.Join(common.ErrDatabase, err))
	}
	if res.MatchedCount == 0 {
		return entity.RunHistoryEntry{}, invalidIndex(index)
	}
	return m.Get(ctx, index)
}

func (m *MongoHistory) Get(ctx context.Context, index int) (entity.RunHistoryEntry, error) {
	var doc historyDocument
	err := m.coll.FindOne(ctx, bson.M{"index": index}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity.RunHistoryEntry{}, notFound(index)
	}
	if err != nil {
		return entity.RunHistoryEntry{}, common.NewAppError("DB", "find run_history", errors.Join(common.ErrDatabase, err))
	}
	return doc.toEntry()
}

func (m *MongoHistory) List(ctx context.Context) ([]entity.RunHistoryEntry, error) {
	cur, err := m.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, common.NewAppError("DB", "list run_history", errors.Join(common.ErrDatabase, err))
	}
	var docs []historyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, common.NewAppError("DB", "decode run_history", errors.Join(common.ErrDatabase, err))
	}
	out := make([]entity.RunHistoryEntry, 0, len(docs))
	for _, d := range docs {
		e, err := d.toEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MongoHistory) Len(ctx context.Context) (int, error) {
	n, err := m.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, common.NewAppError("DB", "count run_history", errors.Join(common.ErrDatabase, err))
	}
	return int(n), nil
}

func (m *MongoHistory) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (d historyDocument) toEntry() (entity.RunHistoryEntry, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return entity.RunHistoryEntry{}, fmt.Errorf("parse run_id %q: %w", d.ID, err)
	}
	e := entity.RunHistoryEntry{
		ID:                id,
		Index:             d.Index,
		Timestamp:         d.Timestamp,
		InputMethod:       constants.InputMethod(d.InputMethod),
		ExtractionQuality: constants.ExtractionQuality(d.ExtractionQuality),
		Feedback:          d.Feedback,
		Reward:            d.Reward,
	}
	if err := decodeEntry(&e, []byte(d.Summary), nil); err != nil {
		return entity.RunHistoryEntry{}, err
	}
	return e, nil
}
