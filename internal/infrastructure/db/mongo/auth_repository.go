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

	"github.com/productr/catalog-system/internal/core/domain"
)

const usersCollection = "users"

type AuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *AuthRepository {
	return &AuthRepository{coll: db.Collection(usersCollection)}
}

// mongoUser leaves email and phone out of the document when empty so the
// sparse unique indexes ignore them.
type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"password"`
	OTP          *string            `bson:"otp"`
	OTPExpiry    *time.Time         `bson:"otp_expiry"`
	IsVerified   bool               `bson:"is_verified"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		Phone:        mu.Phone,
		PasswordHash: mu.PasswordHash,
		IsVerified:   mu.IsVerified,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
	if mu.OTP != nil {
		u.OTP = *mu.OTP
	}
	if mu.OTPExpiry != nil {
		exp := mu.OTPExpiry.UTC()
		u.OTPExpiry = &exp
	}
	return u
}

// Create inserts a new identity.
func (r *AuthRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	switch {
	case user.Email == "" && user.Phone == "":
		return nil, domain.ErrMissingIdentifier
	case user.PasswordHash == "":
		return nil, domain.ErrMissingPassword
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		IsVerified:   user.IsVerified,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// FindByIdentifier looks up an identity by normalized email or phone.
func (r *AuthRepository) FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.User, error) {
	var filter bson.M
	switch {
	case !id.Valid():
		return nil, domain.ErrAccountNotFound
	case id.IsEmail():
		filter = bson.M{"email": id.Value}
	default:
		filter = bson.M{"phone": id.Value}
	}
	return r.findOne(ctx, filter)
}

func (r *AuthRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *AuthRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// SetOTP overwrites the pending code in one update; concurrent issuers race and
// the last write wins.
func (r *AuthRepository) SetOTP(ctx context.Context, userID, otp string, expiry, now time.Time) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"otp": otp, "otp_expiry": expiry.UTC(), "updated_at": now.UTC()},
	})
	if err != nil {
		return fmt.Errorf("set otp: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ConsumeOTP clears the code only while it still matches, so a code can be
// consumed by exactly one request.
func (r *AuthRepository) ConsumeOTP(ctx context.Context, userID, otp string, now time.Time) error {
	matched, err := r.clearIfMatches(ctx, userID, otp, now)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if !matched {
		return domain.ErrInvalidOTP
	}
	return nil
}

// ClearOTP drops an expired code unless it was already replaced.
func (r *AuthRepository) ClearOTP(ctx context.Context, userID, otp string, now time.Time) error {
	if _, err := r.clearIfMatches(ctx, userID, otp, now); err != nil {
		return fmt.Errorf("clear otp: %w", err)
	}
	return nil
}

func (r *AuthRepository) clearIfMatches(ctx context.Context, userID, otp string, now time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "otp": otp}, bson.M{
		"$set": bson.M{"otp": nil, "otp_expiry": nil, "updated_at": now.UTC()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// EnsureIndexes creates the sparse unique identifier indexes.
func (r *AuthRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique_sparse").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("phone_unique_sparse").SetUnique(true).SetSparse(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
