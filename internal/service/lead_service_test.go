package service

import (
	"context"
	"errors"
	"testing"

	"CAConnect/internal/api/dto"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/repository"

	"gorm.io/gorm"
)

func newLeadTestService(t *testing.T) (LeadService, LeadEngagementService, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	leadRepo := repository.NewLeadRepo(db)
	engagementRepo := repository.NewLeadEngagementRepo(db)
	return NewLeadService(leadRepo, engagementRepo),
		NewLeadEngagementService(engagementRepo, leadRepo),
		db
}

func TestOpenLeadsMaskContactUntilViewed(t *testing.T) {
	leadSvc, engagementSvc, db := newLeadTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)
	seedLead(t, db, 2, consts.LeadStatusOpen)
	ctx := context.Background()

	if _, err := engagementSvc.RecordLeadView(ctx, 100, 1); err != nil {
		t.Fatalf("RecordLeadView failed: %v", err)
	}

	leads, err := leadSvc.GetOpenLeads(ctx, 100, &dto.LeadQueryDTO{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("GetOpenLeads failed: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 open leads, got %d", len(leads))
	}

	byID := make(map[uint64]*dto.LeadDTO, len(leads))
	for _, l := range leads {
		byID[l.ID] = l
	}

	if !byID[1].Viewed || byID[1].ContactPhone == "" {
		t.Fatalf("viewed lead must show contact details: %+v", byID[1])
	}
	if byID[2].Viewed || byID[2].ContactName != "" || byID[2].ContactPhone != "" {
		t.Fatalf("unviewed lead must stay masked: %+v", byID[2])
	}
	if byID[1].ViewerCount != 1 || byID[2].ViewerCount != 0 {
		t.Fatalf("unexpected viewer counts: %d, %d", byID[1].ViewerCount, byID[2].ViewerCount)
	}
}

func TestAnonymousBoardIsFullyMasked(t *testing.T) {
	leadSvc, engagementSvc, db := newLeadTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)
	ctx := context.Background()

	if _, err := engagementSvc.RecordLeadView(ctx, 100, 1); err != nil {
		t.Fatalf("RecordLeadView failed: %v", err)
	}

	leads, err := leadSvc.GetOpenLeads(ctx, 0, &dto.LeadQueryDTO{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("GetOpenLeads failed: %v", err)
	}
	if leads[0].Viewed || leads[0].ContactPhone != "" {
		t.Fatalf("anonymous viewer must never see contact details: %+v", leads[0])
	}
	if leads[0].ViewerCount != 1 {
		t.Fatalf("viewer count is public display, got %d", leads[0].ViewerCount)
	}
}

func TestCloseLeadOwnership(t *testing.T) {
	leadSvc, _, db := newLeadTestService(t)
	seedLead(t, db, 1, consts.LeadStatusOpen)
	ctx := context.Background()

	if err := leadSvc.CloseLead(ctx, 2, 1); !errors.Is(err, ErrNotLeadOwner) {
		t.Fatalf("expected ErrNotLeadOwner, got %v", err)
	}
	if err := leadSvc.CloseLead(ctx, 1, 1); err != nil {
		t.Fatalf("CloseLead failed: %v", err)
	}

	leads, err := leadSvc.GetOpenLeads(ctx, 0, &dto.LeadQueryDTO{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("GetOpenLeads failed: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("closed lead must leave the board, got %d", len(leads))
	}
}

func TestCreateLeadAndListMine(t *testing.T) {
	leadSvc, _, _ := newLeadTestService(t)
	ctx := context.Background()

	email := "meera@example.com"
	leadID, err := leadSvc.CreateLead(ctx, 5, &dto.LeadCreateDTO{
		Title:        "Company incorporation",
		Description:  "Two founders, Pvt Ltd.",
		ServiceAreas: []string{"INCORPORATION"},
		City:         "Bengaluru",
		BudgetBand:   2,
		ContactName:  "Meera",
		ContactPhone: "+91-9811111111",
		ContactEmail: &email,
	})
	if err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
	if leadID == 0 {
		t.Fatalf("expected generated lead id")
	}

	mine, err := leadSvc.GetMyLeads(ctx, 5, 1, 20)
	if err != nil {
		t.Fatalf("GetMyLeads failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(mine))
	}
	if mine[0].ContactPhone == "" {
		t.Fatalf("owner always sees their own contact details")
	}
	if mine[0].Status != consts.LeadStatusOpen {
		t.Fatalf("new lead must be open, got %d", mine[0].Status)
	}
}
