package service

import (
	"context"
	"errors"
	"testing"

	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/repository"

	"gorm.io/gorm"
)

func newEngagementTestService(t *testing.T) (LeadEngagementService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	svc := NewLeadEngagementService(
		repository.NewLeadEngagementRepo(db),
		repository.NewLeadRepo(db),
	)
	return svc, db
}

func seedLead(t *testing.T, db *gorm.DB, leadID uint64, status int8) {
	t.Helper()
	err := db.Create(&model.Lead{
		ID:           leadID,
		CustomerID:   1,
		Title:        "Need help with ITR filing",
		Description:  "Salaried, two house properties.",
		ServiceAreas: []string{"ITR", "TAX_PLANNING"},
		City:         "Pune",
		ContactName:  "Rohit",
		ContactPhone: "+91-9800000000",
		Status:       status,
	}).Error
	if err != nil {
		t.Fatalf("failed to seed lead: %v", err)
	}
}

func TestRecordLeadViewRevealsContact(t *testing.T) {
	svc, db := newEngagementTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)

	lead, err := svc.RecordLeadView(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("RecordLeadView failed: %v", err)
	}
	if !lead.Viewed {
		t.Fatalf("expected viewed flag set")
	}
	if lead.ContactName != "Rohit" || lead.ContactPhone != "+91-9800000000" {
		t.Fatalf("expected contact details revealed, got %+v", lead)
	}
	if lead.ViewerCount != 1 {
		t.Fatalf("expected viewer count 1, got %d", lead.ViewerCount)
	}
}

func TestRecordLeadViewIdempotent(t *testing.T) {
	svc, db := newEngagementTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)
	ctx := context.Background()

	if _, err := svc.RecordLeadView(ctx, 100, 1); err != nil {
		t.Fatalf("first view failed: %v", err)
	}
	lead, err := svc.RecordLeadView(ctx, 100, 1)
	if err != nil {
		t.Fatalf("repeat view must succeed: %v", err)
	}
	if lead.ViewerCount != 1 {
		t.Fatalf("repeat view must not multiply the count: got %d", lead.ViewerCount)
	}

	// A second accountant does raise the count.
	lead, err = svc.RecordLeadView(ctx, 101, 1)
	if err != nil {
		t.Fatalf("second viewer failed: %v", err)
	}
	if lead.ViewerCount != 2 {
		t.Fatalf("expected viewer count 2, got %d", lead.ViewerCount)
	}
}

func TestRecordLeadViewSurvivesRecordFailure(t *testing.T) {
	svc, db := newEngagementTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)

	// With the engagement table gone the write fails, but the view is
	// telemetry and the accountant still gets the contact details.
	if err := db.Migrator().DropTable(&model.LeadEngagement{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	lead, err := svc.RecordLeadView(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("RecordLeadView must not fail on a record error: %v", err)
	}
	if lead == nil || !lead.Viewed {
		t.Fatalf("expected revealed lead, got %+v", lead)
	}
	if lead.ContactName != "Rohit" || lead.ContactPhone != "+91-9800000000" {
		t.Fatalf("expected contact details revealed, got %+v", lead)
	}
}

func TestRecordLeadViewRejectsClosedLead(t *testing.T) {
	svc, db := newEngagementTestService(t)
	seedLead(t, db, 1, consts.LeadStatusClosed)

	_, err := svc.RecordLeadView(context.Background(), 100, 1)
	if !errors.Is(err, ErrLeadClosed) {
		t.Fatalf("expected ErrLeadClosed, got %v", err)
	}

	_, err = svc.RecordLeadView(context.Background(), 100, 999)
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestHideAndNotesRequirePriorView(t *testing.T) {
	svc, db := newEngagementTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)
	ctx := context.Background()

	if err := svc.SetLeadHidden(ctx, 100, 1, true); !errors.Is(err, ErrLeadNotViewed) {
		t.Fatalf("expected ErrLeadNotViewed, got %v", err)
	}
	if err := svc.UpdateLeadNotes(ctx, 100, 1, "follow up"); !errors.Is(err, ErrLeadNotViewed) {
		t.Fatalf("expected ErrLeadNotViewed, got %v", err)
	}

	if _, err := svc.RecordLeadView(ctx, 100, 1); err != nil {
		t.Fatalf("RecordLeadView failed: %v", err)
	}
	if err := svc.SetLeadHidden(ctx, 100, 1, true); err != nil {
		t.Fatalf("SetLeadHidden failed: %v", err)
	}
	if err := svc.UpdateLeadNotes(ctx, 100, 1, "quoted 5k, waiting"); err != nil {
		t.Fatalf("UpdateLeadNotes failed: %v", err)
	}
}

func TestGetEngagedLeads(t *testing.T) {
	svc, db := newEngagementTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)
	seedLead(t, db, 2, consts.LeadStatusOpen)
	ctx := context.Background()

	if _, err := svc.RecordLeadView(ctx, 100, 1); err != nil {
		t.Fatalf("RecordLeadView failed: %v", err)
	}
	if _, err := svc.RecordLeadView(ctx, 100, 2); err != nil {
		t.Fatalf("RecordLeadView failed: %v", err)
	}
	if err := svc.UpdateLeadNotes(ctx, 100, 1, "sent quote"); err != nil {
		t.Fatalf("UpdateLeadNotes failed: %v", err)
	}
	if err := svc.SetLeadHidden(ctx, 100, 2, true); err != nil {
		t.Fatalf("SetLeadHidden failed: %v", err)
	}

	visible, err := svc.GetEngagedLeads(ctx, 100, false, 1, 20)
	if err != nil {
		t.Fatalf("GetEngagedLeads failed: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible lead, got %d", len(visible))
	}
	if visible[0].Lead.ID != 1 || visible[0].Notes != "sent quote" {
		t.Fatalf("unexpected engaged lead: %+v", visible[0])
	}
	if visible[0].Lead.ContactName == "" {
		t.Fatalf("engaged list must carry contact details")
	}

	all, err := svc.GetEngagedLeads(ctx, 100, true, 1, 20)
	if err != nil {
		t.Fatalf("GetEngagedLeads failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 leads with hidden included, got %d", len(all))
	}
}
