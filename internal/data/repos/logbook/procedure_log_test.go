package logbook

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/data/repos/testutil"
	"github.com/aneslog/aneslog-backend/internal/domain"
)

func TestProcedureLogRepo_ChronologicalOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProcedureLogRepo(db, testutil.Logger(t))
	ctx := context.Background()

	team := testutil.SeedTeam(t, tx, "logrepo-order-team")
	resident := testutil.SeedUser(t, tx, "logrepo-order@example.com", domain.RoleResident, &team.ID)
	cat := testutil.SeedCategory(t, tx, "logrepo-order-cat", nil)
	proc := testutil.SeedProcedure(t, tx, "logrepo-order-proc", cat.ID, nil, domain.ComplexitySimple)

	// Insert out of chronological order; listing must sort by performed_at.
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	testutil.SeedLog(t, tx, resident.ID, proc.ID, base.Add(48*time.Hour), domain.AutonomyCapable)
	testutil.SeedLog(t, tx, resident.ID, proc.ID, base, domain.AutonomyObserved)
	testutil.SeedLog(t, tx, resident.ID, proc.ID, base.Add(24*time.Hour), domain.AutonomyAssisted)

	logs, err := repo.ListForUserProcedure(ctx, tx, resident.ID, proc.ID)
	if err != nil {
		t.Fatalf("ListForUserProcedure: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	wantLevels := []domain.AutonomyLevel{domain.AutonomyObserved, domain.AutonomyAssisted, domain.AutonomyCapable}
	for i, l := range logs {
		if l.Autonomy != wantLevels[i] {
			t.Fatalf("position %d: got %s want %s", i, l.Autonomy, wantLevels[i])
		}
	}

	count, err := repo.CountForUserProcedure(ctx, tx, resident.ID, proc.ID)
	if err != nil {
		t.Fatalf("CountForUserProcedure: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestProcedureLogRepo_SoftDeleteHidesRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProcedureLogRepo(db, testutil.Logger(t))
	ctx := context.Background()

	team := testutil.SeedTeam(t, tx, "logrepo-del-team")
	resident := testutil.SeedUser(t, tx, "logrepo-del@example.com", domain.RoleResident, &team.ID)
	cat := testutil.SeedCategory(t, tx, "logrepo-del-cat", nil)
	proc := testutil.SeedProcedure(t, tx, "logrepo-del-proc", cat.ID, nil, domain.ComplexitySimple)

	row := testutil.SeedLog(t, tx, resident.ID, proc.ID, time.Now().UTC(), domain.AutonomyAssisted)

	if err := repo.SoftDeleteByID(ctx, tx, row.ID); err != nil {
		t.Fatalf("SoftDeleteByID: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("soft-deleted row must not be returned, got %+v", got)
	}

	logs, err := repo.ListForUserProcedure(ctx, tx, resident.ID, proc.ID)
	if err != nil {
		t.Fatalf("ListForUserProcedure: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("soft-deleted row must not be listed, got %d rows", len(logs))
	}
}

func TestProcedureLogRepo_UpdateFieldsValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewProcedureLogRepo(db, testutil.Logger(t))
	ctx := context.Background()

	team := testutil.SeedTeam(t, tx, "logrepo-upd-team")
	resident := testutil.SeedUser(t, tx, "logrepo-upd@example.com", domain.RoleResident, &team.ID)
	senior := testutil.SeedUser(t, tx, "logrepo-upd-senior@example.com", domain.RoleSenior, &team.ID)
	cat := testutil.SeedCategory(t, tx, "logrepo-upd-cat", nil)
	proc := testutil.SeedProcedure(t, tx, "logrepo-upd-proc", cat.ID, nil, domain.ComplexitySimple)

	row := testutil.SeedLog(t, tx, resident.ID, proc.ID, time.Now().UTC(), domain.AutonomyAutonomous)

	err := repo.UpdateFields(ctx, tx, row.ID, map[string]interface{}{
		"success":      true,
		"validated_by": senior.ID,
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Success == nil || !*got.Success {
		t.Fatalf("expected validated success, got %+v", got)
	}
	if got.ValidatedBy == nil || *got.ValidatedBy != senior.ID {
		t.Fatalf("expected validated_by=%s, got %v", senior.ID, got.ValidatedBy)
	}
}

func TestProcedureLogRepo_NilGuards(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProcedureLogRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if got, err := repo.GetByID(ctx, nil, uuid.Nil); err != nil || got != nil {
		t.Fatalf("GetByID nil id: got %v, %v", got, err)
	}
	if logs, err := repo.ListForUserProcedure(ctx, nil, uuid.Nil, uuid.Nil); err != nil || len(logs) != 0 {
		t.Fatalf("ListForUserProcedure nil ids: got %v, %v", logs, err)
	}
}
