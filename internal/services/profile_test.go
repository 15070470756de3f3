package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-users/internal/apperr"
	appdb "github.com/diewo77/go-users/internal/db"
	"github.com/diewo77/go-users/internal/services"
)

func setupProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	dbi, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := appdb.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

func TestCreateProfileAndList(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	created, err := svc.Create(context.Background(), services.ProfileInput{
		Name: "gestor", Description: "Gestor de equipe",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Name != "gestor" || created.Description != "Gestor de equipe" {
		t.Errorf("unexpected profile: %+v", created)
	}

	all, err := svc.GetAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, p := range all {
		if p.ID == created.ID && p.Name == "gestor" {
			found = true
		}
	}
	if !found {
		t.Errorf("getAllProfiles should include the new profile, got %+v", all)
	}
}

func TestCreateProfileMissingName(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	if _, err := svc.Create(context.Background(), services.ProfileInput{Description: "x"}); !apperr.HasCode(err, apperr.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestGetProfileByParams(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	created, err := svc.Create(context.Background(), services.ProfileInput{Name: "gestor", Description: "Gestor"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := svc.GetByParams(context.Background(), services.ProfileFilter{ID: created.ID})
	if err != nil || byID.Name != "gestor" {
		t.Errorf("by id: got %+v, %v", byID, err)
	}
	byName, err := svc.GetByParams(context.Background(), services.ProfileFilter{Name: "gestor"})
	if err != nil || byName.ID != created.ID {
		t.Errorf("by name: got %+v, %v", byName, err)
	}

	if _, err := svc.GetByParams(context.Background(), services.ProfileFilter{}); !apperr.HasCode(err, apperr.CodeInvalidInput) {
		t.Errorf("empty filter: expected INVALID_INPUT, got %v", err)
	}
	if _, err := svc.GetByParams(context.Background(), services.ProfileFilter{Name: "nada"}); !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Errorf("miss: expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	created, err := svc.Create(context.Background(), services.ProfileInput{Name: "gestor"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "Gestor de equipe"
	updated, err := svc.Update(context.Background(), created.ID, services.ProfileUpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != desc || updated.Name != "gestor" {
		t.Errorf("unexpected profile after update: %+v", updated)
	}

	if _, err := svc.Update(context.Background(), 0, services.ProfileUpdateInput{Description: &desc}); !apperr.HasCode(err, apperr.CodeInvalidInput) {
		t.Errorf("zero id: expected INVALID_INPUT, got %v", err)
	}
	if _, err := svc.Update(context.Background(), created.ID, services.ProfileUpdateInput{}); !apperr.HasCode(err, apperr.CodeInvalidInput) {
		t.Errorf("no fields: expected INVALID_INPUT, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 999, services.ProfileUpdateInput{Description: &desc}); !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Errorf("missing: expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	created, err := svc.Create(context.Background(), services.ProfileInput{Name: "gestor"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	msg, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(msg, fmt.Sprint(created.ID)) {
		t.Errorf("confirmation should name the id, got %q", msg)
	}

	if _, err := svc.Delete(context.Background(), created.ID); !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Errorf("second delete: expected NOT_FOUND, got %v", err)
	}
}

func TestGetAllProfilesEmpty(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	if _, err := svc.GetAll(context.Background()); !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestResolveRefs(t *testing.T) {
	dbi := setupProfileTestDB(t)
	svc := services.NewProfileService(dbi)

	a, _ := svc.Create(context.Background(), services.ProfileInput{Name: "a"})
	b, _ := svc.Create(context.Background(), services.ProfileInput{Name: "b"})

	ids, err := svc.ResolveRefs(context.Background(), []services.ProfileFilter{{Name: "b"}, {ID: a.ID}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 2 || ids[0] != b.ID || ids[1] != a.ID {
		t.Errorf("unexpected ids: %v", ids)
	}

	if _, err := svc.ResolveRefs(context.Background(), []services.ProfileFilter{{Name: "nada"}}); !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
