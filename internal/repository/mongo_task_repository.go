// internal/repository/mongo_task_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// MongoTaskRepository stores tasks as documents in a single collection
// partitioned by the userId field.
type MongoTaskRepository struct {
	collection *mongo.Collection
	clock      Clock
	logger     logrus.FieldLogger
}

// NewMongoTaskRepository creates a task repository over the given collection
func NewMongoTaskRepository(collection *mongo.Collection, opts ...Option) *MongoTaskRepository {
	o := buildOptions(opts)
	return &MongoTaskRepository{
		collection: collection,
		clock:      o.clock,
		logger:     o.logger.WithField("store", "mongo"),
	}
}

// taskDocument is the shape written by this repository
type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	DueDate     *time.Time         `bson:"dueDate"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// storedTask is the shape read back. Timestamps stay raw because documents
// written by other clients may hold them as strings or epoch numbers.
type storedTask struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	Priority    string             `bson:"priority"`
	DueDate     bson.RawValue      `bson:"dueDate"`
	CreatedAt   bson.RawValue      `bson:"createdAt"`
	UpdatedAt   bson.RawValue      `bson:"updatedAt"`
}

func (d storedTask) toModel() (*models.Task, error) {
	createdAt, _, err := decodeTime(d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, _, err := decodeTime(d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updatedAt: %w", err)
	}
	t := &models.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Status:      models.Status(d.Status),
		Priority:    models.Priority(d.Priority),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	due, ok, err := decodeTime(d.DueDate)
	if err != nil {
		return nil, fmt.Errorf("dueDate: %w", err)
	}
	if ok {
		t.DueDate = models.NormalizeDate(&due)
	}
	return t, nil
}

// decodeTime converts the timestamp representations found in task documents
// into a UTC time. ok is false when the value is absent or null.
func decodeTime(rv bson.RawValue) (t time.Time, ok bool, err error) {
	switch rv.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return time.Time{}, false, nil
	case bsontype.DateTime:
		return rv.Time().UTC(), true, nil
	case bsontype.Timestamp:
		sec, _ := rv.Timestamp()
		return time.Unix(int64(sec), 0).UTC(), true, nil
	case bsontype.Int64:
		return time.UnixMilli(rv.Int64()).UTC(), true, nil
	case bsontype.Int32:
		return time.UnixMilli(int64(rv.Int32())).UTC(), true, nil
	case bsontype.Double:
		return time.UnixMilli(int64(rv.Double())).UTC(), true, nil
	case bsontype.String:
		s := strings.TrimSpace(rv.StringValue())
		if s == "" {
			return time.Time{}, false, nil
		}
		for _, layout := range []string{time.RFC3339Nano, models.DateLayout} {
			if parsed, perr := time.Parse(layout, s); perr == nil {
				return parsed.UTC(), true, nil
			}
		}
		return time.Time{}, false, fmt.Errorf("unparseable timestamp %q", s)
	default:
		return time.Time{}, false, fmt.Errorf("unsupported timestamp type %s", rv.Type)
	}
}

// EnsureIndexes creates the partition index used by ListByUser
func (r *MongoTaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	if err != nil {
		return fmt.Errorf("create task index: %w", err)
	}
	return nil
}

// Create inserts a new task document
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	now := r.clock.storeTime()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     models.NormalizeDate(task.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.WithFields(logrus.Fields{"op": "create", "user_id": task.UserID, "error": err}).Error("insert task failed")
		return nil, writeErr("create", err)
	}

	created := task.Clone()
	created.ID = doc.ID.Hex()
	created.DueDate = doc.DueDate
	created.CreatedAt = now
	created.UpdatedAt = now
	return created, nil
}

// ListByUser returns all documents in the user's partition, newest first
func (r *MongoTaskRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		r.logger.WithFields(logrus.Fields{"op": "list", "user_id": userID, "error": err}).Error("find tasks failed")
		return nil, readErr("list", err)
	}
	defer cursor.Close(ctx)

	var docs []storedTask
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.WithFields(logrus.Fields{"op": "list", "user_id": userID, "error": err}).Error("decode tasks failed")
		return nil, readErr("list", err)
	}

	tasks := make([]*models.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := doc.toModel()
		if err != nil {
			return nil, readErr("list", fmt.Errorf("task %s: %w", doc.ID.Hex(), err))
		}
		tasks = append(tasks, t)
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

// GetByID loads one document from the user's partition
func (r *MongoTaskRepository) GetByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, ErrTaskNotFound)
	}

	var doc storedTask
	err = r.collection.FindOne(ctx, bson.M{"_id": oid, "userId": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("get task %s: %w", taskID, ErrTaskNotFound)
		}
		r.logger.WithFields(logrus.Fields{"op": "get", "user_id": userID, "task_id": taskID, "error": err}).Error("find task failed")
		return nil, readErr("get", err)
	}

	t, err := doc.toModel()
	if err != nil {
		return nil, readErr("get", err)
	}
	return t, nil
}

// Update overwrites the editable fields of an existing document
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, writeErr("update", ErrTaskNotFound)
	}

	stamp, err := r.nextStamp(ctx, "update", oid, task.UserID)
	if err != nil {
		return nil, err
	}

	updated := task.Clone()
	updated.UpdatedAt = stamp
	updated.DueDate = models.NormalizeDate(updated.DueDate)

	set := bson.M{
		"title":       updated.Title,
		"description": updated.Description,
		"status":      string(updated.Status),
		"priority":    string(updated.Priority),
		"dueDate":     updated.DueDate,
		"updatedAt":   updated.UpdatedAt,
	}
	if err := r.updateOne(ctx, "update", oid, task.UserID, set); err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus sets only the status and updatedAt fields
func (r *MongoTaskRepository) UpdateStatus(ctx context.Context, userID, taskID string, status models.Status) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return writeErr("update_status", ErrTaskNotFound)
	}

	stamp, err := r.nextStamp(ctx, "update_status", oid, userID)
	if err != nil {
		return err
	}

	return r.updateOne(ctx, "update_status", oid, userID, bson.M{
		"status":    string(status),
		"updatedAt": stamp,
	})
}

// nextStamp reads the document's updatedAt and returns a time strictly after it
func (r *MongoTaskRepository) nextStamp(ctx context.Context, op string, oid primitive.ObjectID, userID string) (time.Time, error) {
	var doc struct {
		UpdatedAt bson.RawValue `bson:"updatedAt"`
	}
	opts := options.FindOne().SetProjection(bson.M{"updatedAt": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid, "userId": userID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return time.Time{}, writeErr(op, ErrTaskNotFound)
		}
		r.logger.WithFields(logrus.Fields{"op": op, "user_id": userID, "task_id": oid.Hex(), "error": err}).Error("find task for update failed")
		return time.Time{}, writeErr(op, err)
	}

	prev, _, err := decodeTime(doc.UpdatedAt)
	if err != nil {
		return time.Time{}, writeErr(op, fmt.Errorf("updatedAt: %w", err))
	}
	return r.clock.nextStamp(prev), nil
}

func (r *MongoTaskRepository) updateOne(ctx context.Context, op string, oid primitive.ObjectID, userID string, set bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		r.logger.WithFields(logrus.Fields{"op": op, "user_id": userID, "task_id": oid.Hex(), "error": err}).Error("update task failed")
		return writeErr(op, err)
	}
	if res.MatchedCount == 0 {
		return writeErr(op, ErrTaskNotFound)
	}
	return nil
}

// Delete removes a document; missing or malformed ids are ignored
func (r *MongoTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID}); err != nil {
		r.logger.WithFields(logrus.Fields{"op": "delete", "user_id": userID, "task_id": taskID, "error": err}).Error("delete task failed")
		return writeErr("delete", err)
	}
	return nil
}
