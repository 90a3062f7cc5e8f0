package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

const taskCollection = "tasks"

type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(taskCollection)}
}

type mongoTask struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	ProjectID   string              `bson:"project_id"`
	Title       string              `bson:"title"`
	Description string              `bson:"description,omitempty"`
	AssignedTo  string              `bson:"assigned_to,omitempty"`
	AssignedBy  string              `bson:"assigned_by,omitempty"`
	Status      string              `bson:"status"`
	Attachments []domain.Attachment `bson:"attachments"`
	CreatedAt   int64               `bson:"created_at"`
	UpdatedAt   int64               `bson:"updated_at"`
}

func ensureTaskIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(taskCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	doc := mongoTask{
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		AssignedTo:  task.AssignedTo,
		AssignedBy:  task.AssignedBy,
		Status:      string(task.Status),
		Attachments: task.Attachments,
		CreatedAt:   task.CreatedAt.Unix(),
		UpdatedAt:   task.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, projectID, taskID string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "project_id": projectID})
}

func (r *MongoTaskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []domain.Task{}
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, *mt.toDomain())
	}
	return tasks, cursor.Err()
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "project_id": task.ProjectID},
		bson.M{"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"assigned_to": task.AssignedTo,
			"status":      string(task.Status),
			"attachments": task.Attachments,
			"updated_at":  time.Now().Unix(),
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoTaskRepository) Delete(ctx context.Context, projectID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "project_id": projectID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) DeleteByProject(ctx context.Context, projectID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) findOne(ctx context.Context, filter bson.M) (*domain.Task, error) {
	var mt mongoTask
	if err := r.coll.FindOne(ctx, filter).Decode(&mt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (mt *mongoTask) toDomain() *domain.Task {
	attachments := mt.Attachments
	if attachments == nil {
		attachments = []domain.Attachment{}
	}
	return &domain.Task{
		ID:          mt.ID.Hex(),
		ProjectID:   mt.ProjectID,
		Title:       mt.Title,
		Description: mt.Description,
		AssignedTo:  mt.AssignedTo,
		AssignedBy:  mt.AssignedBy,
		Status:      domain.TaskStatus(mt.Status),
		Attachments: attachments,
		CreatedAt:   unixToTime(mt.CreatedAt),
		UpdatedAt:   unixToTime(mt.UpdatedAt),
	}
}
