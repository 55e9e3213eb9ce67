package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/storefront/catalog-api/internal/core/domain"
)

func newMockT(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestUserRepository_Create(t *testing.T) {
	mt := newMockT(t)

	mt.Run("success", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com", PasswordHash: "h"})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if u.ID == "" || u.Role != domain.RoleUser {
			mt.Fatalf("unexpected user: %+v", u)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "insert" {
			mt.Fatalf("expected insert command, got %+v", evt)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: catalog.users index: email_1",
		}))

		if _, err := repo.Create(context.Background(), &domain.User{Email: "alice@example.com", PasswordHash: "h"}); !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestUserRepository_Find(t *testing.T) {
	mt := newMockT(t)
	oid := primitive.NewObjectID()

	mt.Run("by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "email", Value: "root@example.com"},
			{Key: "password_hash", Value: "h"},
			{Key: "role", Value: "ADMIN"},
		}))

		u, err := repo.FindByEmail(context.Background(), "root@example.com")
		if err != nil {
			mt.Fatalf("FindByEmail: %v", err)
		}
		if u.ID != oid.Hex() || u.Role != domain.RoleAdmin {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.users", mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "42"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Fatalf("no command expected, got %s", evt.CommandName)
		}
	})
}

func productDoc(oid primitive.ObjectID, name string, price float64) bson.D {
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "name", Value: name},
		{Key: "price", Value: price},
		{Key: "owner", Value: bson.D{{Key: "id", Value: "7"}, {Key: "email", Value: "alice@example.com"}}},
		{Key: "created_at", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Key: "updated_at", Value: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func TestProductRepository_List(t *testing.T) {
	mt := newMockT(t)

	mt.Run("pages with skip and limit", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "catalog.products", mtest.FirstBatch, bson.D{{Key: "n", Value: int64(12)}}),
			mtest.CreateCursorResponse(0, "catalog.products", mtest.FirstBatch,
				productDoc(primitive.NewObjectID(), "Lamp", 20),
				productDoc(primitive.NewObjectID(), "Mug", 5),
			),
		)

		items, total, err := repo.List(context.Background(), 3, 5)
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if total != 12 || len(items) != 2 {
			mt.Fatalf("unexpected page: total=%d items=%d", total, len(items))
		}
		if items[0].Name != "Lamp" || items[0].Owner.ID != "7" {
			mt.Fatalf("unexpected first item: %+v", items[0])
		}

		if evt := mt.GetStartedEvent(); evt == nil || evt.CommandName != "aggregate" {
			mt.Fatalf("expected count aggregate first, got %+v", evt)
		}
		find := mt.GetStartedEvent()
		if find == nil || find.CommandName != "find" {
			mt.Fatalf("expected find command, got %+v", find)
		}
		if skip := find.Command.Lookup("skip").AsInt64(); skip != 10 {
			mt.Fatalf("expected skip 10, got %d", skip)
		}
		if limit := find.Command.Lookup("limit").AsInt64(); limit != 5 {
			mt.Fatalf("expected limit 5, got %d", limit)
		}
	})
}

func TestProductRepository_FindByID(t *testing.T) {
	mt := newMockT(t)
	oid := primitive.NewObjectID()

	mt.Run("found", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.products", mtest.FirstBatch, productDoc(oid, "Keyboard", 49.9)))

		p, err := repo.FindByID(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("FindByID: %v", err)
		}
		if p.ID != oid.Hex() || p.Price != 49.9 || p.Owner.Email != "alice@example.com" {
			mt.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "catalog.products", mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), oid.Hex()); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "abc"); !errors.Is(err, domain.ErrValidation) {
			mt.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestProductRepository_Update(t *testing.T) {
	mt := newMockT(t)
	oid := primitive.NewObjectID()

	mt.Run("returns the stored document", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: productDoc(oid, "Mouse", 12.5)}))

		p, err := repo.Update(context.Background(), &domain.Product{ID: oid.Hex(), Name: "Mouse", Price: 12.5})
		if err != nil {
			mt.Fatalf("Update: %v", err)
		}
		if p.Name != "Mouse" || p.Price != 12.5 {
			mt.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		if _, err := repo.Update(context.Background(), &domain.Product{ID: oid.Hex(), Name: "Mouse"}); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})
}

func TestProductRepository_Delete(t *testing.T) {
	mt := newMockT(t)
	oid := primitive.NewObjectID()

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := repo.Delete(context.Background(), oid.Hex()); err != nil {
			mt.Fatalf("Delete: %v", err)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := repo.Delete(context.Background(), oid.Hex()); !errors.Is(err, domain.ErrProductNotFound) {
			mt.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)

		if err := repo.Delete(context.Background(), "not-hex"); !errors.Is(err, domain.ErrValidation) {
			mt.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}
