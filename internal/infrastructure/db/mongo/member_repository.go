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

const memberCollection = "project_members"

type MongoMemberRepository struct {
	coll *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MongoMemberRepository {
	return &MongoMemberRepository{coll: db.Collection(memberCollection)}
}

type mongoMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID string             `bson:"project_id"`
	UserID    string             `bson:"user_id"`
	Role      string             `bson:"role"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

// The unique (project_id, user_id) index enforces the one-membership-per-pair
// invariant at the storage layer.
func ensureMemberIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(memberCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create member indexes: %w", err)
	}
	return nil
}

func (r *MongoMemberRepository) Add(ctx context.Context, member *domain.ProjectMember) (*domain.ProjectMember, error) {
	doc := mongoMember{
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		Role:      member.Role,
		CreatedAt: member.CreatedAt.Unix(),
		UpdatedAt: member.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMemberExists
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	var mm mongoMember
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mm); err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MongoMemberRepository) Find(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	var mm mongoMember
	err := r.coll.FindOne(ctx, bson.M{"project_id": projectID, "user_id": userID}).Decode(&mm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return mm.toDomain(), nil
}

func (r *MongoMemberRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer cursor.Close(ctx)

	members := []domain.ProjectMember{}
	for cursor.Next(ctx) {
		var mm mongoMember
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		members = append(members, *mm.toDomain())
	}
	return members, cursor.Err()
}

func (r *MongoMemberRepository) ListProjectIDsByUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	ids := []string{}
	for cursor.Next(ctx) {
		var mm mongoMember
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		ids = append(ids, mm.ProjectID)
	}
	return ids, cursor.Err()
}

func (r *MongoMemberRepository) UpdateRole(ctx context.Context, projectID, userID, role string) (*domain.ProjectMember, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"project_id": projectID, "user_id": userID},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().Unix()}},
	)
	if err != nil {
		return nil, fmt.Errorf("update member role: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrMemberNotFound
	}
	return r.Find(ctx, projectID, userID)
}

func (r *MongoMemberRepository) Remove(ctx context.Context, projectID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"project_id": projectID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MongoMemberRepository) RemoveByProject(ctx context.Context, projectID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"project_id": projectID}); err != nil {
		return fmt.Errorf("remove project members: %w", err)
	}
	return nil
}

func (mm *mongoMember) toDomain() *domain.ProjectMember {
	return &domain.ProjectMember{
		ID:        mm.ID.Hex(),
		ProjectID: mm.ProjectID,
		UserID:    mm.UserID,
		Role:      mm.Role,
		CreatedAt: unixToTime(mm.CreatedAt),
		UpdatedAt: unixToTime(mm.UpdatedAt),
	}
}
