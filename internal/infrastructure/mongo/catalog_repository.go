package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo colecciones products y suppliers ({name} único).
type CatalogRepo struct {
	db *mongo.Database
}

// NewCatalogRepository construye el adaptador del índice de valores.
func NewCatalogRepository(db *mongo.Database) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Upsert inserta {name} si no existe ($setOnInsert con upsert).
func (r *CatalogRepo) Upsert(ctx context.Context, kind entity.CatalogKind, name string) error {
	coll, err := r.collection(kind)
	if err != nil {
		return err
	}
	filter := bson.M{"name": name}
	update := bson.M{"$setOnInsert": bson.M{"name": name}}
	if _, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		// dos upserts concurrentes del mismo nombre: el índice único rechaza el segundo
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	return nil
}

// List nombres en orden de inserción (_id ascendente).
func (r *CatalogRepo) List(ctx context.Context, kind entity.CatalogKind) ([]string, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetProjection(bson.M{"name": 1})
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var docs []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return names, nil
}

func (r *CatalogRepo) collection(kind entity.CatalogKind) (*mongo.Collection, error) {
	switch kind {
	case entity.CatalogProducts:
		return r.db.Collection(productsCollection), nil
	case entity.CatalogSuppliers:
		return r.db.Collection(suppliersCollection), nil
	}
	return nil, fmt.Errorf("catálogo %q desconocido", kind)
}
