package repo

import (
	"context"
	"errors"
	"fmt"

	dom "todoapi/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const todosCollection = "todos"

// TodoRepo persists todos. Every lookup by id is scoped to the owner.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]dom.Todo, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (dom.Todo, error)
	DeleteByIDForOwner(ctx context.Context, id, ownerID string) (dom.Todo, error)
	UpdateByIDForOwner(ctx context.Context, id, ownerID string, patch dom.TodoPatch) (dom.Todo, error)
}

type todoDocument struct {
	ID          bson.ObjectID `bson:"_id"`
	Text        string        `bson:"text"`
	Completed   bool          `bson:"completed"`
	CompletedAt *int64        `bson:"completedAt,omitempty"`
	OwnerID     bson.ObjectID `bson:"ownerId"`
}

func (d todoDocument) toDomain() dom.Todo {
	return dom.Todo{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		OwnerID:     d.OwnerID.Hex(),
	}
}

// MongoTodoRepo implements TodoRepo with the "todos" collection.
type MongoTodoRepo struct {
	coll *mongo.Collection
}

func NewMongoTodoRepo(db *mongo.Database) *MongoTodoRepo {
	return &MongoTodoRepo{coll: db.Collection(todosCollection)}
}

func (r *MongoTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	owner, err := bson.ObjectIDFromHex(t.OwnerID)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("owner id %q: %w", t.OwnerID, err)
	}
	doc := todoDocument{
		ID:          bson.NewObjectID(),
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		OwnerID:     owner,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return dom.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoTodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]dom.Todo, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return []dom.Todo{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"ownerId": owner})
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	list := make([]dom.Todo, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.toDomain())
	}
	return list, nil
}

func (r *MongoTodoRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (dom.Todo, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return decodeTodo(r.coll.FindOne(ctx, filter))
}

func (r *MongoTodoRepo) DeleteByIDForOwner(ctx context.Context, id, ownerID string) (dom.Todo, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return decodeTodo(r.coll.FindOneAndDelete(ctx, filter))
}

// UpdateByIDForOwner applies the patch in a single FindOneAndUpdate and returns the new document.
func (r *MongoTodoRepo) UpdateByIDForOwner(ctx context.Context, id, ownerID string, patch dom.TodoPatch) (dom.Todo, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	if patch.Empty() {
		return r.GetByIDForOwner(ctx, id, ownerID)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeTodo(r.coll.FindOneAndUpdate(ctx, filter, buildTodoUpdate(patch), opts))
}

// buildTodoUpdate turns a non-empty patch into $set, plus $unset of completedAt when the todo is reopened.
func buildTodoUpdate(patch dom.TodoPatch) bson.M {
	set := bson.M{}
	update := bson.M{"$set": set}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
		switch {
		case *patch.Completed && patch.CompletedAt != nil:
			set["completedAt"] = *patch.CompletedAt
		case !*patch.Completed:
			update["$unset"] = bson.M{"completedAt": ""}
		}
	}
	return update
}

func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "ownerId": owner}, true
}

func decodeTodo(res *mongo.SingleResult) (dom.Todo, error) {
	var doc todoDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, fmt.Errorf("decode todo: %w", err)
	}
	return doc.toDomain(), nil
}
