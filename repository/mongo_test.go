package repository

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akinalp/mqvi-modbot/database"
	"github.com/akinalp/mqvi-modbot/pkg"
)

// openTestMongo, a throwaway database on the server at MODBOT_TEST_MONGO_URI.
func openTestMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MODBOT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MODBOT_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mdb, err := database.NewMongo(ctx, uri, "modbot_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("NewMongo: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mdb.DB.Drop(ctx)
		mdb.Close(ctx)
	})
	return mdb.DB
}

func TestMongoGuildConfig(t *testing.T) {
	repo := NewMongoGuildConfigRepo(openTestMongo(t))
	ctx := context.Background()

	cfg, err := repo.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cfg.StaffRoleID != nil || len(cfg.PromotableRoleIDs) != 0 {
		t.Fatalf("fresh config = %+v", cfg)
	}

	if err := repo.SetStaffRole(ctx, "s1", "r-staff"); err != nil {
		t.Fatalf("SetStaffRole: %v", err)
	}
	if err := repo.SetLogChannel(ctx, "s2", "c-log"); err != nil {
		t.Fatalf("SetLogChannel on new server: %v", err)
	}
	if err := repo.SetPromotableRoles(ctx, "s1", []string{"r2", "r1"}); err != nil {
		t.Fatalf("SetPromotableRoles: %v", err)
	}

	cfg, err = repo.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cfg.StaffRoleID == nil || *cfg.StaffRoleID != "r-staff" {
		t.Errorf("StaffRoleID = %v", cfg.StaffRoleID)
	}
	if !reflect.DeepEqual(cfg.PromotableRoleIDs, []string{"r2", "r1"}) {
		t.Errorf("roles = %v", cfg.PromotableRoleIDs)
	}

	other, err := repo.GetOrCreate(ctx, "s2")
	if err != nil {
		t.Fatalf("GetOrCreate s2: %v", err)
	}
	if other.LogChannelID == nil || *other.LogChannelID != "c-log" {
		t.Errorf("s2 LogChannelID = %v", other.LogChannelID)
	}
	if other.PromotableRoleIDs == nil {
		t.Error("s2 PromotableRoleIDs is nil")
	}
}

func TestMongoInfractionLifecycle(t *testing.T) {
	repo := NewMongoInfractionRepo(openTestMongo(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := repo.Create(ctx, newInfraction("i1", "aaaaaaaaaa", "s1", "u1", now)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newInfraction("i2", "aaaaaaaaaa", "s1", "u2", now)); !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Fatalf("duplicate err = %v, want ErrAlreadyExists", err)
	}

	revoked, err := repo.Revoke(ctx, "s1", "aaaaaaaaaa", "staff2", now)
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked.Active || revoked.RevokedBy == nil || *revoked.RevokedBy != "staff2" {
		t.Errorf("revoked = %+v", revoked)
	}
	if _, err := repo.Revoke(ctx, "s1", "aaaaaaaaaa", "staff3", now); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("second Revoke err = %v, want ErrNotFound", err)
	}

	got, err := repo.GetByCaseID(ctx, "s1", "aaaaaaaaaa")
	if err != nil {
		t.Fatalf("GetByCaseID: %v", err)
	}
	if got.ID != "i1" || got.SubjectUserID != "u1" {
		t.Errorf("record = %+v", got)
	}

	if err := repo.Create(ctx, newInfraction("i3", "abcdefabcd", "s1", "u3", now)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	const n = 20
	succeeded, notFound := revokeConcurrently(t, repo, "s1", "abcdefabcd", n)
	if succeeded != 1 || notFound != n-1 {
		t.Errorf("concurrent revoke: succeeded = %d, notFound = %d; want 1 and %d", succeeded, notFound, n-1)
	}

	list, err := repo.ListBySubject(ctx, "s1", "u1", 10)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}
