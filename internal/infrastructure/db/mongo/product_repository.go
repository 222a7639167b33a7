package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

const collectionProducts = "products"

// ProductRepository implements ports.ProductRepository. Every query carries the
// owner_id filter.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type mongoProduct struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Type         string             `bson:"type"`
	Stock        int                `bson:"stock"`
	MRP          float64            `bson:"mrp"`
	SellingPrice float64            `bson:"selling_price"`
	Brand        string             `bson:"brand"`
	Eligibility  string             `bson:"eligibility"`
	Images       []string           `bson:"images"`
	Published    bool               `bson:"published"`
	OwnerID      primitive.ObjectID `bson:"owner_id"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mp *mongoProduct) toDomain() *domain.Product {
	images := mp.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Product{
		ID:           mp.ID.Hex(),
		Name:         mp.Name,
		Type:         domain.ProductType(mp.Type),
		Stock:        mp.Stock,
		MRP:          mp.MRP,
		SellingPrice: mp.SellingPrice,
		Brand:        mp.Brand,
		Eligibility:  mp.Eligibility,
		Images:       images,
		Published:    mp.Published,
		OwnerID:      mp.OwnerID.Hex(),
		CreatedAt:    mp.CreatedAt.UTC(),
		UpdatedAt:    mp.UpdatedAt.UTC(),
	}
}

// scope builds the owner-bound filter for a single product. Malformed ids can
// never match, so they are reported as not found.
func scope(ownerID, id string) (bson.M, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	return bson.M{"_id": oid, "owner_id": owner}, nil
}

// Create inserts a new product document.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	owner, err := primitive.ObjectIDFromHex(p.OwnerID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProduct{
		Name:         p.Name,
		Type:         string(p.Type),
		Stock:        p.Stock,
		MRP:          p.MRP,
		SellingPrice: p.SellingPrice,
		Brand:        p.Brand,
		Eligibility:  p.Eligibility,
		Images:       p.Images,
		Published:    p.Published,
		OwnerID:      owner,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert product: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// List returns the owner's products newest first. search is matched as a
// literal, case-insensitive substring of the name.
func (r *ProductRepository) List(ctx context.Context, ownerID, search string) ([]*domain.Product, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"owner_id": owner}
	if search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProduct
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	out := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// FindByID retrieves one of the owner's products.
func (r *ProductRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	filter, err := scope(ownerID, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProduct
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toDomain(), nil
}

// Update sets the patched fields and returns the updated document.
func (r *ProductRepository) Update(ctx context.Context, ownerID, id string, patch ports.ProductPatch) (*domain.Product, error) {
	filter, err := scope(ownerID, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Type != nil {
		set["type"] = string(*patch.Type)
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.MRP != nil {
		set["mrp"] = *patch.MRP
	}
	if patch.SellingPrice != nil {
		set["selling_price"] = *patch.SellingPrice
	}
	if patch.Brand != nil {
		set["brand"] = *patch.Brand
	}
	if patch.Eligibility != nil {
		set["eligibility"] = *patch.Eligibility
	}
	if patch.Images != nil {
		set["images"] = patch.Images
	}
	if patch.Published != nil {
		set["published"] = *patch.Published
	}

	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set})
}

// TogglePublished flips the flag server-side so concurrent toggles never lose
// an update.
func (r *ProductRepository) TogglePublished(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	filter, err := scope(ownerID, id)
	if err != nil {
		return nil, err
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "published", Value: bson.D{{Key: "$not", Value: bson.A{"$published"}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update interface{}) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProduct
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the product permanently.
func (r *ProductRepository) Delete(ctx context.Context, ownerID, id string) error {
	filter, err := scope(ownerID, id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the products collection.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
