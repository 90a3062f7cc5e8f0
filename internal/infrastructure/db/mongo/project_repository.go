package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/basisdhar/mrmanager/internal/core/domain"
)

const projectCollection = "projects"

type MongoProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{coll: db.Collection(projectCollection)}
}

type mongoProject struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	CreatedBy   string             `bson:"created_by"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func ensureProjectIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(projectCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create project indexes: %w", err)
	}
	return nil
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	doc := mongoProject{
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt.Unix(),
		UpdatedAt:   project.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProjectExists
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoProjectRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Project, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []domain.Project{}
	for cursor.Next(ctx) {
		var mp mongoProject
		if err := cursor.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, *mp.toDomain())
	}
	return projects, cursor.Err()
}

func (r *MongoProjectRepository) Update(ctx context.Context, id string, name, description string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        name,
		"description": description,
		"updated_at":  time.Now().Unix(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProjectExists
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProjectNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *MongoProjectRepository) findOne(ctx context.Context, filter bson.M) (*domain.Project, error) {
	var mp mongoProject
	if err := r.coll.FindOne(ctx, filter).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return mp.toDomain(), nil
}

func (mp *mongoProject) toDomain() *domain.Project {
	return &domain.Project{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Description: mp.Description,
		CreatedBy:   mp.CreatedBy,
		CreatedAt:   unixToTime(mp.CreatedAt),
		UpdatedAt:   unixToTime(mp.UpdatedAt),
	}
}
