package mongo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/lotetracker/internal/domain/entity"
	"github.com/jhoicas/lotetracker/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

type lotDocument struct {
	ID                primitive.ObjectID   `bson:"_id"`
	OperatorName      string               `bson:"operator_name"`
	OperatorCode      string               `bson:"operator_code"`
	ProductType       string               `bson:"product_type"`
	Quantity          string               `bson:"quantity"`
	InitialQuantity   primitive.Decimal128 `bson:"initial_quantity"`
	RemainingQuantity primitive.Decimal128 `bson:"remaining_quantity"`
	Supplier          string               `bson:"supplier"`
	Status            string               `bson:"status"`
	Date              string               `bson:"date"`
	CreatedAt         time.Time            `bson:"created_at"`
}

// LotRepo colección lots. El orden de inserción lo da el ObjectID.
type LotRepo struct {
	coll *mongo.Collection
}

// NewLotRepository construye el adaptador de lotes.
func NewLotRepository(db *mongo.Database) *LotRepo {
	return &LotRepo{coll: db.Collection(lotsCollection)}
}

// Create inserta el lote y le asigna el ObjectID en hexadecimal como id.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	initial, err := toDecimal128(lot.InitialQuantity)
	if err != nil {
		return err
	}
	remaining, err := toDecimal128(lot.RemainingQuantity)
	if err != nil {
		return err
	}
	oid := primitive.NewObjectID()
	doc := lotDocument{
		ID:                oid,
		OperatorName:      lot.OperatorName,
		OperatorCode:      lot.OperatorCode,
		ProductType:       lot.ProductType,
		Quantity:          lot.Quantity,
		InitialQuantity:   initial,
		RemainingQuantity: remaining,
		Supplier:          lot.Supplier,
		Status:            string(lot.Status),
		Date:              lot.Date,
		CreatedAt:         time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	lot.ID = oid.Hex()
	lot.Seq = objectIDSeq(oid)
	lot.CreatedAt = doc.CreatedAt
	return nil
}

// GetByID busca por ObjectID; un id que no es hex válido se trata como inexistente.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc lotDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return doc.toEntity(), nil
}

// ListRecent últimos lotes por _id descendente.
func (r *LotRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Lot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}).SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	var docs []lotDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode lots: %w", err)
	}
	list := make([]*entity.Lot, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toEntity())
	}
	return list, nil
}

// ListOperatorPairs (nombre, código) de todos los lotes en orden de inserción.
func (r *LotRepo) ListOperatorPairs(ctx context.Context) ([]entity.OperatorEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"operator_name": 1, "operator_code": 1})
	cur, err := r.coll.Find(ctx, bson.M{"operator_name": bson.M{"$ne": ""}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	var docs []struct {
		Name string `bson:"operator_name"`
		Code string `bson:"operator_code"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode operators: %w", err)
	}
	out := make([]entity.OperatorEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.OperatorEntry{Name: d.Name, Code: d.Code})
	}
	return out, nil
}

func (d *lotDocument) toEntity() *entity.Lot {
	return &entity.Lot{
		ID:                d.ID.Hex(),
		Seq:               objectIDSeq(d.ID),
		OperatorName:      d.OperatorName,
		OperatorCode:      d.OperatorCode,
		ProductType:       d.ProductType,
		Quantity:          d.Quantity,
		InitialQuantity:   fromDecimal128(d.InitialQuantity),
		RemainingQuantity: fromDecimal128(d.RemainingQuantity),
		Supplier:          d.Supplier,
		Status:            entity.LotStatus(d.Status),
		Date:              d.Date,
		CreatedAt:         d.CreatedAt,
	}
}

// objectIDSeq deriva un orden monotónico del ObjectID: segundos (4 bytes) + contador (3 bytes).
func objectIDSeq(oid primitive.ObjectID) int64 {
	ts := int64(binary.BigEndian.Uint32(oid[0:4]))
	counter := int64(oid[9])<<16 | int64(oid[10])<<8 | int64(oid[11])
	return ts<<24 | counter
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("cantidad %s fuera de rango decimal128: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
