package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/focusflow/backend/domain"
	"github.com/focusflow/backend/repository"
)

// taskDocument is the persisted shape of a task. The field names are fixed
// for compatibility with the hosted Tasks collection and must not change.
type taskDocument struct {
	ID          string           `bson:"_id"`
	Title       string           `bson:"titulo"`
	Description string           `bson:"description"`
	Priority    string           `bson:"prioridade"`
	Completed   bool             `bson:"conclusaoDaTarefa"`
	SubItems    []subItemDocument `bson:"topicos,omitempty"`
	Progress    float64          `bson:"progresso"`
	OwnerID     string           `bson:"idUser"`
	CreatedAt   time.Time        `bson:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at"`
}

type subItemDocument struct {
	Name      string `bson:"nome"`
	Completed bool   `bson:"concluido"`
}

type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository returns a MongoDB-backed implementation of TaskRepository
// over the Tasks collection, indexed by owner for the dashboard query.
func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	collection := db.Collection("Tasks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "idUser", Value: 1}},
	})

	return &taskRepository{collection: collection}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var doc taskDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storeError(err)
	}
	return doc.toDomain(), nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := bson.M{"idUser": filter.OwnerID}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, storeError(err)
	}
	defer cursor.Close(ctx)

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError(err)
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, *doc.toDomain())
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	if _, err := r.collection.InsertOne(ctx, fromDomain(task)); err != nil {
		return nil, storeError(err)
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"titulo":            task.Title,
		"description":       task.Description,
		"prioridade":        string(task.Priority),
		"conclusaoDaTarefa": task.Completed,
		"topicos":           subItemsFromDomain(task.SubItems),
		"progresso":         task.Progress,
		"updated_at":        task.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return storeError(err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// SetCompleted persists the completion flag together with the checklist and
// progress snapshot in a single document update.
func (r *taskRepository) SetCompleted(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"conclusaoDaTarefa": true,
		"topicos":           subItemsFromDomain(task.SubItems),
		"progresso":         task.Progress,
		"updated_at":        task.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, update)
	if err != nil {
		return storeError(err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeError(err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (d *taskDocument) toDomain() *domain.Task {
	items := make([]domain.SubItem, 0, len(d.SubItems))
	for _, item := range d.SubItems {
		items = append(items, domain.SubItem{Name: item.Name, Completed: item.Completed})
	}
	if len(items) == 0 {
		items = nil
	}
	return &domain.Task{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		// Schemaless store: older documents may miss the priority entirely.
		Priority:  domain.ParsePriority(d.Priority),
		Completed: d.Completed,
		SubItems:  items,
		Progress:  d.Progress,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomain(task *domain.Task) taskDocument {
	return taskDocument{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Completed:   task.Completed,
		SubItems:    subItemsFromDomain(task.SubItems),
		Progress:    task.Progress,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func subItemsFromDomain(items []domain.SubItem) []subItemDocument {
	if len(items) == 0 {
		return nil
	}
	docs := make([]subItemDocument, 0, len(items))
	for _, item := range items {
		docs = append(docs, subItemDocument{Name: item.Name, Completed: item.Completed})
	}
	return docs
}

func storeError(err error) error {
	return domain.WrapError(domain.ErrCodeUnavailable, "task store unavailable", err)
}
