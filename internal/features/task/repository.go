package task

import (
	"context"
	"errors"
	"time"

	"go-charity/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoMatch is returned by conditional updates that matched no document:
// either the task is gone or its status changed under us. The service
// re-reads to tell the two apart.
var ErrNoMatch = errors.New("conditional update matched no document")

// TaskRepository defines the persistence operations of the task core.
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error)
	FindAll(ctx context.Context, filter bson.M, page, limit int64, sortBy, sortOrder string) ([]Task, int64, error)

	// Transition atomically moves a task whose current status is one of
	// from: it applies set, pushes the activity entries, and bumps
	// updated_at in a single conditional update. A task not in a from
	// status is left untouched and ErrNoMatch is returned.
	Transition(ctx context.Context, id primitive.ObjectID, from []TaskStatus, set bson.M, entries ...ActivityEntry) error

	// AppendActivity appends one entry without touching workflow state.
	AppendActivity(ctx context.Context, id primitive.ObjectID, entry ActivityEntry) error

	PushAttachment(ctx context.Context, id primitive.ObjectID, field string, att Attachment) error

	CountByStatus(ctx context.Context, match bson.M) (map[TaskStatus]int64, error)
	CountOverdue(ctx context.Context, match bson.M, now time.Time) (int64, error)
	FindOverdue(ctx context.Context, now time.Time) ([]Task, error)
}

// TaskRepositoryImpl implements TaskRepository over the tasks collection.
type TaskRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		collection: db.DB.Collection("tasks"),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, t *Task) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.PriorityRank = t.Priority.Rank()

	result, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return err
	}

	t.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TaskRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	var t Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepositoryImpl) FindAll(ctx context.Context, filter bson.M, page, limit int64, sortBy, sortOrder string) ([]Task, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * limit

	sortValue := 1
	if sortOrder == "desc" {
		sortValue = -1
	}

	// Secondary sort on _id keeps pagination stable when the primary
	// sort key has duplicates.
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: sortBy, Value: sortValue}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var tasks []Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *TaskRepositoryImpl) Transition(ctx context.Context, id primitive.ObjectID, from []TaskStatus, set bson.M, entries ...ActivityEntry) error {
	set["updated_at"] = time.Now()

	update := bson.M{
		"$set":  set,
		"$push": bson.M{"activity": bson.M{"$each": entries}},
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		update,
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrNoMatch
	}

	return nil
}

func (r *TaskRepositoryImpl) AppendActivity(ctx context.Context, id primitive.ObjectID, entry ActivityEntry) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"activity": entry}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

func (r *TaskRepositoryImpl) PushAttachment(ctx context.Context, id primitive.ObjectID, field string, att Attachment) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{field: att},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

func (r *TaskRepositoryImpl) CountByStatus(ctx context.Context, match bson.M) (map[TaskStatus]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status TaskStatus `bson:"_id"`
		Count  int64      `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *TaskRepositoryImpl) CountOverdue(ctx context.Context, match bson.M, now time.Time) (int64, error) {
	filter := bson.M{
		"due_date": bson.M{"$lt": now},
		"status":   bson.M{"$in": []TaskStatus{StatusPending, StatusInProgress}},
	}
	for k, v := range match {
		filter[k] = v
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *TaskRepositoryImpl) FindOverdue(ctx context.Context, now time.Time) ([]Task, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"due_date": bson.M{"$lt": now},
		"status":   bson.M{"$in": []TaskStatus{StatusPending, StatusInProgress}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
