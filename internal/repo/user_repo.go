package repo

import (
	"context"
	"errors"
	"fmt"

	dom "todoapi/internal/domain"
	"todoapi/internal/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const usersCollection = "users"

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	// GetByToken matches id and a token list entry with the given purpose and value.
	GetByToken(ctx context.Context, id, purpose, token string) (dom.User, error)
	PushToken(ctx context.Context, id string, t dom.Token) error
	// PullToken removes every entry whose value is token. Absent tokens are not an error.
	PullToken(ctx context.Context, id, token string) error
	SetPasswordHash(ctx context.Context, id, hash string) error
}

type tokenDocument struct {
	Access string `bson:"access"`
	Token  string `bson:"token"`
}

type userDocument struct {
	ID       bson.ObjectID   `bson:"_id"`
	Email    string          `bson:"email"`
	Password string          `bson:"password"`
	Tokens   []tokenDocument `bson:"tokens"`
}

func (d userDocument) toDomain() dom.User {
	u := dom.User{ID: d.ID.Hex(), Email: d.Email, PasswordHash: d.Password}
	for _, t := range d.Tokens {
		u.Tokens = append(u.Tokens, dom.Token{Purpose: t.Access, Value: t.Token})
	}
	return u
}

// MongoUserRepo implements UserRepo with the "users" collection.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo returns a new MongoUserRepo.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(usersCollection)}
}

// Create inserts a new user and returns it with its generated id.
func (r *MongoUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	doc := userDocument{
		ID:       bson.NewObjectID(),
		Email:    u.Email,
		Password: u.PasswordHash,
		Tokens:   []tokenDocument{},
	}
	for _, t := range u.Tokens {
		doc.Tokens = append(doc.Tokens, tokenDocument{Access: t.Purpose, Token: t.Value})
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if utils.IsMongoDuplicateKey(err) {
			return dom.User{}, ErrDuplicate
		}
		return dom.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dom.User{}, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) GetByToken(ctx context.Context, id, purpose, token string) (dom.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return dom.User{}, ErrNotFound
	}
	return r.findOne(ctx, tokenFilter(oid, purpose, token))
}

func (r *MongoUserRepo) PushToken(ctx context.Context, id string, t dom.Token) error {
	return r.updateOne(ctx, id, pushTokenUpdate(t))
}

func (r *MongoUserRepo) PullToken(ctx context.Context, id, token string) error {
	return r.updateOne(ctx, id, pullTokenUpdate(token))
}

func (r *MongoUserRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": hash}})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (dom.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepo) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// tokenFilter matches the user only if a single list entry carries both purpose and token.
func tokenFilter(id bson.ObjectID, purpose, token string) bson.M {
	return bson.M{
		"_id":    id,
		"tokens": bson.M{"$elemMatch": bson.M{"access": purpose, "token": token}},
	}
}

func pushTokenUpdate(t dom.Token) bson.M {
	return bson.M{"$push": bson.M{"tokens": tokenDocument{Access: t.Purpose, Token: t.Value}}}
}

// pullTokenUpdate removes every entry with this value, whatever its purpose.
func pullTokenUpdate(token string) bson.M {
	return bson.M{"$pull": bson.M{"tokens": bson.M{"token": token}}}
}
