package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
)

const messagesCollection = "messages"

// MessageRepository is the append-only chat message store. Messages are never
// updated or deleted.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messagesCollection)}
}

type messageDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SenderID  string             `bson:"sender_id"`
	Content   string             `bson:"content"`
	Seq       int64              `bson:"seq"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d messageDoc) toDomain() *domain.Message {
	return &domain.Message{
		ID:        d.ID.Hex(),
		SenderID:  d.SenderID,
		Content:   d.Content,
		Seq:       d.Seq,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *MessageRepository) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Seq:       msg.Seq,
		CreatedAt: msg.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ListRecent fetches the newest limit messages and returns them reversed, so
// callers get the most recent window in chronological order.
func (r *MessageRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var newest []*domain.Message
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		newest = append(newest, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// newest-first from the query; reverse to chronological
	out := make([]*domain.Message, len(newest))
	for i, m := range newest {
		out[len(newest)-1-i] = m
	}
	return out, nil
}

func (r *MessageRepository) LastSeq(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc messageDoc
	err := r.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return doc.Seq, nil
}

// EnsureIndexes creates the indexes backing the recency query.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
