package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agregaciones de solo lectura sobre lots.
type StatsRepo struct {
	coll *mongo.Collection
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(db *mongo.Database) *StatsRepo {
	return &StatsRepo{coll: db.Collection(lotsCollection)}
}

// CountLots total de documentos en lots.
func (r *StatsRepo) CountLots(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("stats.CountLots: %w", err)
	}
	return int(n), nil
}

// StockByProduct $group por producto sumando remaining_quantity.
func (r *StatsRepo) StockByProduct(ctx context.Context) ([]entity.ProductStock, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product_type"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$remaining_quantity"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("stats.StockByProduct: %w", err)
	}
	var rows []struct {
		Product string               `bson:"_id"`
		Total   primitive.Decimal128 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("stats.StockByProduct decode: %w", err)
	}
	out := make([]entity.ProductStock, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.ProductStock{ProductType: row.Product, Remaining: fromDecimal128(row.Total)})
	}
	return out, nil
}
