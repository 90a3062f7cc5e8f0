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

const userCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID                      primitive.ObjectID `bson:"_id,omitempty"`
	Username                string             `bson:"username"`
	Email                   string             `bson:"email"`
	FullName                string             `bson:"full_name,omitempty"`
	AvatarURL               string             `bson:"avatar_url,omitempty"`
	PasswordHash            string             `bson:"password_hash"`
	IsEmailVerified         bool               `bson:"is_email_verified"`
	RefreshToken            string             `bson:"refresh_token,omitempty"`
	EmailVerificationToken  string             `bson:"email_verification_token,omitempty"`
	EmailVerificationExpiry int64              `bson:"email_verification_expiry,omitempty"`
	ForgotPasswordToken     string             `bson:"forgot_password_token,omitempty"`
	ForgotPasswordExpiry    int64              `bson:"forgot_password_expiry,omitempty"`
	CreatedAt               int64              `bson:"created_at"`
	UpdatedAt               int64              `bson:"updated_at"`
}

func ensureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(userCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Username:        user.Username,
		Email:           user.Email,
		FullName:        user.FullName,
		AvatarURL:       user.AvatarURL,
		PasswordHash:    user.PasswordHash,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt.Unix(),
		UpdatedAt:       user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
}

func (r *MongoUserRepository) FindByVerificationTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email_verification_token": hash})
}

func (r *MongoUserRepository) FindByResetTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"forgot_password_token": hash})
}

func (r *MongoUserRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	return r.updateByID(ctx, id, bson.M{"refresh_token": token})
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	return r.updateByID(ctx, id, bson.M{"password_hash": passwordHash})
}

func (r *MongoUserRepository) SetVerificationToken(ctx context.Context, id, tokenHash string, expiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"email_verification_token":  tokenHash,
		"email_verification_expiry": expiry.Unix(),
	})
}

func (r *MongoUserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"is_email_verified":         true,
		"email_verification_token":  "",
		"email_verification_expiry": int64(0),
	})
}

func (r *MongoUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"forgot_password_token":  tokenHash,
		"forgot_password_expiry": expiry.Unix(),
	})
}

func (r *MongoUserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"forgot_password_token":  "",
		"forgot_password_expiry": int64(0),
	})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	set["updated_at"] = time.Now().Unix()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                      mu.ID.Hex(),
		Username:                mu.Username,
		Email:                   mu.Email,
		FullName:                mu.FullName,
		AvatarURL:               mu.AvatarURL,
		PasswordHash:            mu.PasswordHash,
		IsEmailVerified:         mu.IsEmailVerified,
		RefreshToken:            mu.RefreshToken,
		EmailVerificationToken:  mu.EmailVerificationToken,
		EmailVerificationExpiry: unixToTime(mu.EmailVerificationExpiry),
		ForgotPasswordToken:     mu.ForgotPasswordToken,
		ForgotPasswordExpiry:    unixToTime(mu.ForgotPasswordExpiry),
		CreatedAt:               unixToTime(mu.CreatedAt),
		UpdatedAt:               unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
