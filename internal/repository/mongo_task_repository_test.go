// internal/repository/mongo_task_repository_test.go
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/gurkanbulca/taskboard/internal/models"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	start := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll, WithClock(steppingClock(start)))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		in := newTask("user-1", "ship it")
		in.DueDate = date(2025, 4, 5)

		created, err := repo.Create(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, primitive.IsValidObjectID(created.ID))
		assert.Equal(t, start.Add(time.Second), created.CreatedAt)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
		assert.Equal(t, "2025-04-05", created.DueDate.Format(models.DateLayout))
	})

	mt.Run("create write failure", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 121, Message: "document failed validation",
		}))

		_, err := repo.Create(context.Background(), newTask("user-1", "bad"))
		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, "create", writeErr.Op)
	})

	mt.Run("list decodes mixed timestamp encodings", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		older := primitive.NewObjectID()
		newer := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: older},
				{Key: "userId", Value: "user-1"},
				{Key: "title", Value: "string dates"},
				{Key: "status", Value: "pending"},
				{Key: "priority", Value: "low"},
				{Key: "dueDate", Value: "2025-05-01"},
				{Key: "createdAt", Value: "2025-01-01T10:00:00Z"},
				{Key: "updatedAt", Value: "2025-01-01T10:00:00Z"},
			},
			bson.D{
				{Key: "_id", Value: newer},
				{Key: "userId", Value: "user-1"},
				{Key: "title", Value: "epoch dates"},
				{Key: "status", Value: "completed"},
				{Key: "priority", Value: "high"},
				{Key: "dueDate", Value: nil},
				{Key: "createdAt", Value: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).UnixMilli()},
				{Key: "updatedAt", Value: primitive.NewDateTimeFromTime(time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC))},
			},
		))

		tasks, err := repo.ListByUser(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, tasks, 2)

		assert.Equal(t, newer.Hex(), tasks[0].ID)
		assert.Equal(t, "epoch dates", tasks[0].Title)
		assert.Nil(t, tasks[0].DueDate)
		assert.Equal(t, time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC), tasks[0].UpdatedAt)

		assert.Equal(t, older.Hex(), tasks[1].ID)
		require.NotNil(t, tasks[1].DueDate)
		assert.Equal(t, "2025-05-01", tasks[1].DueDate.Format(models.DateLayout))
		assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), tasks[1].CreatedAt)
	})

	mt.Run("list backend failure", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := repo.ListByUser(context.Background(), "user-1")
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "list", readErr.Op)
	})

	mt.Run("get missing document", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "user-1", primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	mt.Run("get malformed id", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)

		_, err := repo.GetByID(context.Background(), "user-1", "not-an-object-id")
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	mt.Run("update matched", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll, WithClock(steppingClock(start)))
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: oid},
				{Key: "updatedAt", Value: start},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
		)

		task := newTask("user-1", "renamed")
		task.ID = oid.Hex()
		task.CreatedAt = start

		updated, err := repo.Update(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, start, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(start))
	})

	mt.Run("update unmatched", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		task := newTask("user-1", "ghost")
		task.ID = primitive.NewObjectID().Hex()

		_, err := repo.Update(context.Background(), task)
		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: oid},
				{Key: "updatedAt", Value: "2025-01-01T10:00:00Z"},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
		)

		err := repo.UpdateStatus(context.Background(), "user-1", oid.Hex(), models.StatusCompleted)
		assert.NoError(t, err)
	})

	mt.Run("update stamps after a future updatedAt", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		oid := primitive.NewObjectID()
		future := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: oid},
				{Key: "updatedAt", Value: future},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
		)

		task := newTask("user-1", "skewed")
		task.ID = oid.Hex()

		updated, err := repo.Update(context.Background(), task)
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.Equal(future.Add(time.Millisecond)), "got %s", updated.UpdatedAt)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.NoError(t, repo.Delete(context.Background(), "user-1", primitive.NewObjectID().Hex()))
		assert.NoError(t, repo.Delete(context.Background(), "user-1", "malformed"))
	})
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ada"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "passwordHash", Value: "hash"},
			{Key: "createdAt", Value: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
			{Key: "updatedAt", Value: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		}))

		user, err := repo.GetByEmail(context.Background(), "ADA@example.com")
		require.NoError(t, err)
		assert.Equal(t, id.Hex(), user.ID)
		assert.Equal(t, "hash", user.PasswordHash)
	})

	mt.Run("get by malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.Coll)
		_, err := repo.GetByID(context.Background(), "123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDecodeTime(t *testing.T) {
	want := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)

	raw := func(v any) bson.RawValue {
		typ, data, err := bson.MarshalValue(v)
		require.NoError(t, err)
		return bson.RawValue{Type: typ, Value: data}
	}

	tests := []struct {
		name    string
		value   bson.RawValue
		want    time.Time
		wantOK  bool
		wantErr bool
	}{
		{name: "absent", value: bson.RawValue{}},
		{name: "null", value: bson.RawValue{Type: bsontype.Null}},
		{name: "datetime", value: raw(want), want: want, wantOK: true},
		{name: "timestamp", value: raw(primitive.Timestamp{T: uint32(want.Unix())}), want: want, wantOK: true},
		{name: "int64 millis", value: raw(want.UnixMilli()), want: want, wantOK: true},
		{name: "int32 millis", value: raw(int32(0)), want: time.UnixMilli(0).UTC(), wantOK: true},
		{name: "double millis", value: raw(float64(want.UnixMilli())), want: want, wantOK: true},
		{name: "rfc3339", value: raw("2025-06-07T10:09:10+02:00"), want: want, wantOK: true},
		{name: "date only", value: raw("2025-06-07"), want: time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "empty string", value: raw("  ")},
		{name: "garbage string", value: raw("yesterday"), wantErr: true},
		{name: "unsupported type", value: raw(true), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := decodeTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}
