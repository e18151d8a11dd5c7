// Package mongo adaptador de persistencia sobre MongoDB (colecciones lots, products, suppliers).
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Nombres de colección.
const (
	lotsCollection      = "lots"
	productsCollection  = "products"
	suppliersCollection = "suppliers"
)

// Connect crea el cliente. El driver conecta de forma perezosa: un servidor caído no impide
// arrancar, solo deja el almacén marcado como no disponible hasta que el monitor lo recupere.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("lotetracker"))
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	return client, nil
}

// Ping verifica que el primario responda.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes crea los índices únicos de catálogo y el índice por producto de lots.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, coll := range []string{productsCollection, suppliersCollection} {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, unique); err != nil {
			return fmt.Errorf("índice %s.name: %w", coll, err)
		}
	}
	_, err := db.Collection(lotsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_type", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("índice lots.product_type: %w", err)
	}
	return nil
}
