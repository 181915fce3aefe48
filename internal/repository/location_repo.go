package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

// wardChunkSize bounds a single bulk write; the ward sync carries ~10k rows.
const wardChunkSize = 1000

// LocationRepository holds the administrative-division reference data synced
// from the provinces API. Rows are keyed by their numeric code, not _id, so
// repeated syncs upsert in place.
type LocationRepository struct {
	provinces *mongo.Collection
	districts *mongo.Collection
	wards     *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	r := &LocationRepository{
		provinces: db.Collection(collProvinces),
		districts: db.Collection(collDistricts),
		wards:     db.Collection(collWards),
	}
	codeIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("code_idx"),
	}
	_, _ = r.provinces.Indexes().CreateOne(context.Background(), codeIdx)
	_, _ = r.districts.Indexes().CreateOne(context.Background(), codeIdx)
	_, _ = r.wards.Indexes().CreateOne(context.Background(), codeIdx)
	return r
}

func upsertByCode(code int, set bson.M) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"code": code}).
		SetUpdate(bson.M{"$set": set}).
		SetUpsert(true)
}

func (r *LocationRepository) UpsertProvinces(ctx context.Context, ps []models.Province) error {
	if len(ps) == 0 {
		return nil
	}
	ops := make([]mongo.WriteModel, 0, len(ps))
	for _, p := range ps {
		ops = append(ops, upsertByCode(p.Code, bson.M{
			"name": p.Name, "division_type": p.DivisionType,
			"codename": p.Codename, "phone_code": p.PhoneCode,
		}))
	}
	_, err := r.provinces.BulkWrite(ctx, ops)
	return err
}

func (r *LocationRepository) UpsertDistricts(ctx context.Context, ds []models.District) error {
	if len(ds) == 0 {
		return nil
	}
	ops := make([]mongo.WriteModel, 0, len(ds))
	for _, d := range ds {
		ops = append(ops, upsertByCode(d.Code, bson.M{
			"name": d.Name, "division_type": d.DivisionType,
			"codename": d.Codename, "province_code": d.ProvinceCode,
		}))
	}
	_, err := r.districts.BulkWrite(ctx, ops)
	return err
}

func (r *LocationRepository) UpsertWards(ctx context.Context, ws []models.Ward) error {
	for start := 0; start < len(ws); start += wardChunkSize {
		end := start + wardChunkSize
		if end > len(ws) {
			end = len(ws)
		}
		ops := make([]mongo.WriteModel, 0, end-start)
		for _, w := range ws[start:end] {
			ops = append(ops, upsertByCode(w.Code, bson.M{
				"name": w.Name, "division_type": w.DivisionType,
				"codename": w.Codename, "district_code": w.DistrictCode,
			}))
		}
		if _, err := r.wards.BulkWrite(ctx, ops); err != nil {
			return err
		}
	}
	return nil
}

func (r *LocationRepository) ListProvinces(ctx context.Context) ([]*models.Province, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cur, err := r.provinces.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Province
	for cur.Next(ctx) {
		var p models.Province
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (r *LocationRepository) ListDistricts(ctx context.Context, provinceCode int) ([]*models.District, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cur, err := r.districts.Find(ctx, bson.M{"province_code": provinceCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.District
	for cur.Next(ctx) {
		var d models.District
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, cur.Err()
}

func (r *LocationRepository) ListWards(ctx context.Context, districtCode int) ([]*models.Ward, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cur, err := r.wards.Find(ctx, bson.M{"district_code": districtCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Ward
	for cur.Next(ctx) {
		var w models.Ward
		if err := cur.Decode(&w); err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	return out, cur.Err()
}
