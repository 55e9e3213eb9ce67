package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/catalog-api/internal/core/domain"
)

func TestMongoUser_ToDomain(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))

	u := mongoUser{ID: oid, Email: "a@example.com", PasswordHash: "h", Role: "ADMIN", CreatedAt: created}.toDomain()
	if u.ID != oid.Hex() || u.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.CreatedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps")
	}

	if got := (mongoUser{Role: "root"}).toDomain().Role; got != domain.RoleUser {
		t.Fatalf("unknown role must degrade to user, got %s", got)
	}
}

func TestMongoProduct_OwnerEmbedding(t *testing.T) {
	doc := mongoProduct{
		ID:    primitive.NewObjectID(),
		Name:  "Keyboard",
		Price: 49.9,
		Owner: domain.Owner{ID: "u1", Email: "a@example.com"},
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var stored struct {
		Owner struct {
			ID    string `bson:"id"`
			Email string `bson:"email"`
		} `bson:"owner"`
	}
	if err := bson.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stored.Owner.ID != "u1" || stored.Owner.Email != "a@example.com" {
		t.Fatalf("unexpected owner document: %+v", stored.Owner)
	}

	p := doc.toDomain()
	if p.ID != doc.ID.Hex() || p.Owner.Email != "a@example.com" {
		t.Fatalf("unexpected product: %+v", p)
	}
}
