package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/productr/catalog-system/internal/core/domain"
)

// updateFilter returns the query of the single update statement mt last sent.
func updateFilter(mt *mtest.T) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	if evt == nil || evt.CommandName != "update" {
		mt.Fatalf("expected an update command, got %+v", evt)
	}
	updates, err := evt.Command.Lookup("updates").Array().Values()
	if err != nil || len(updates) != 1 {
		mt.Fatalf("expected one update statement, got %d (%v)", len(updates), err)
	}
	return updates[0].Document().Lookup("q").Document()
}

func updateResult(matched int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: matched},
	)
}

func TestAuthRepository_ConsumeOTP(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("matching code is cleared once", func(mt *mtest.T) {
		repo := &AuthRepository{coll: mt.Coll}
		mt.AddMockResponses(updateResult(1))

		if err := repo.ConsumeOTP(context.Background(), userID.Hex(), "12345", now); err != nil {
			mt.Fatalf("ConsumeOTP: %v", err)
		}

		q := updateFilter(mt)
		if got := q.Lookup("_id").ObjectID(); got != userID {
			mt.Fatalf("filter _id = %v, want %v", got, userID)
		}
		if got := q.Lookup("otp").StringValue(); got != "12345" {
			mt.Fatalf("filter must pin the code, got otp=%q", got)
		}
	})

	mt.Run("code already consumed or replaced", func(mt *mtest.T) {
		repo := &AuthRepository{coll: mt.Coll}
		mt.AddMockResponses(updateResult(0))

		err := repo.ConsumeOTP(context.Background(), userID.Hex(), "12345", now)
		if !errors.Is(err, domain.ErrInvalidOTP) {
			mt.Fatalf("expected ErrInvalidOTP, got %v", err)
		}
	})

	mt.Run("malformed id never reaches the store", func(mt *mtest.T) {
		repo := &AuthRepository{coll: mt.Coll}

		err := repo.ConsumeOTP(context.Background(), "not-hex", "12345", now)
		if !errors.Is(err, domain.ErrInvalidOTP) {
			mt.Fatalf("expected ErrInvalidOTP, got %v", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Fatalf("unexpected command %q", evt.CommandName)
		}
	})
}

func TestAuthRepository_ClearOTP(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	userID := primitive.NewObjectID()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	mt.Run("replaced code is left alone", func(mt *mtest.T) {
		repo := &AuthRepository{coll: mt.Coll}
		mt.AddMockResponses(updateResult(0))

		if err := repo.ClearOTP(context.Background(), userID.Hex(), "11111", now); err != nil {
			mt.Fatalf("ClearOTP: %v", err)
		}
		if got := updateFilter(mt).Lookup("otp").StringValue(); got != "11111" {
			mt.Fatalf("filter must pin the expired code, got otp=%q", got)
		}
	})

	mt.Run("store error is wrapped", func(mt *mtest.T) {
		repo := &AuthRepository{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		if err := repo.ClearOTP(context.Background(), userID.Hex(), "11111", now); err == nil {
			mt.Fatal("expected an error")
		}
	})
}

func TestAuthRepository_SetOTPUnknownUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no match", func(mt *mtest.T) {
		repo := &AuthRepository{coll: mt.Coll}
		mt.AddMockResponses(updateResult(0))

		err := repo.SetOTP(context.Background(), primitive.NewObjectID().Hex(), "12345",
			time.Now().Add(10*time.Minute), time.Now())
		if !errors.Is(err, domain.ErrAccountNotFound) {
			mt.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}
