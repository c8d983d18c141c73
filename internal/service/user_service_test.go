package service

import (
	"context"
	"testing"

	"CAConnect/internal/api/dto"
	"CAConnect/internal/model"
	"CAConnect/internal/pkg/es"
	"CAConnect/internal/pkg/util"
	"CAConnect/internal/repository"

	"gorm.io/gorm"
)

// recordingCAIndex captures the denormalized display writes the user service
// pushes into the accountant search index.
type recordingCAIndex struct {
	es.CARepo
	displayUserID uint64
	displayName   string
	avatarURL     string
	deletedUserID uint64
}

func (r *recordingCAIndex) UpdateCADisplay(_ context.Context, userID uint64, newDisplayName string, newAvatar string) error {
	r.displayUserID = userID
	r.displayName = newDisplayName
	r.avatarURL = newAvatar
	return nil
}

func (r *recordingCAIndex) DeleteCA(_ context.Context, userID uint64) error {
	r.deletedUserID = userID
	return nil
}

func newUserTestService(t *testing.T) (UserService, *recordingCAIndex, *gorm.DB) {
	t.Helper()
	db := newServiceTestDB(t)
	index := &recordingCAIndex{}
	svc := NewUserService(
		repository.NewUserRepo(db),
		repository.NewRoleRepo(db),
		NewSmsService(),
		index,
	)
	return svc, index, db
}

func seedUser(t *testing.T, db *gorm.DB, userID uint64, displayName string) {
	t.Helper()
	if err := db.Create(&model.User{ID: userID}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	err := db.Create(&model.UserDetail{
		UserID:      userID,
		DisplayName: displayName,
		AvatarURL:   "avatars/old.png",
	}).Error
	if err != nil {
		t.Fatalf("failed to seed user detail: %v", err)
	}
}

func TestUpdateDetailSyncsSearchDisplay(t *testing.T) {
	svc, index, db := newUserTestService(t)
	seedUser(t, db, 1, "Asha")

	err := svc.UpdateDetail(context.Background(), 1, &dto.UserDetailUpdateDTO{
		DisplayName: util.PtrStr("Asha Mehta"),
	})
	if err != nil {
		t.Fatalf("UpdateDetail failed: %v", err)
	}

	if index.displayUserID != 1 {
		t.Fatalf("expected display sync for user 1, got %d", index.displayUserID)
	}
	if index.displayName != "Asha Mehta" {
		t.Fatalf("expected fresh display name in sync, got %q", index.displayName)
	}
}

func TestUpdateAvatarSyncsSearchDisplay(t *testing.T) {
	svc, index, db := newUserTestService(t)
	seedUser(t, db, 1, "Asha")

	if err := svc.UpdateAvatar(context.Background(), 1, "avatars/new.png"); err != nil {
		t.Fatalf("UpdateAvatar failed: %v", err)
	}

	if index.displayUserID != 1 || index.avatarURL != "avatars/new.png" {
		t.Fatalf("expected avatar sync, got user %d avatar %q", index.displayUserID, index.avatarURL)
	}
}

func TestBanUserRemovesFromSearchIndex(t *testing.T) {
	svc, index, db := newUserTestService(t)
	seedUser(t, db, 1, "Asha")

	if err := svc.BanUser(context.Background(), 1); err != nil {
		t.Fatalf("BanUser failed: %v", err)
	}
	if index.deletedUserID != 1 {
		t.Fatalf("expected index removal for user 1, got %d", index.deletedUserID)
	}

	var user model.User
	if err := db.First(&user, 1).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !user.IsBan {
		t.Fatalf("expected user banned")
	}
}
