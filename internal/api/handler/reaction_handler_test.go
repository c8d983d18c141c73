package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CAConnect/internal/model"
	"CAConnect/internal/pkg/consts"
	"CAConnect/internal/repository"
	"CAConnect/internal/service"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newReactionRouter(t *testing.T, userID uint64) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:caconnect_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.UserDetail{},
		&model.Post{},
		&model.PostComment{},
		&model.Reaction{},
		&model.ReactionCounter{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	reactionSvc := service.NewReactionService(repository.NewReactionRepo(db), repository.NewPostRepo(db))
	h := NewReactionHandler(reactionSvc)

	r := gin.New()
	identify := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
	r.POST("/api/reactions/toggle", identify, h.Toggle)
	r.GET("/api/reactions/:target_type/:target_id", identify, h.GetSummary)
	r.POST("/api/reactions/batch", identify, h.GetSummaries)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected http status %d: %s", w.Code, w.Body.String())
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	return env
}

func TestToggleEndpoint(t *testing.T) {
	r, db := newReactionRouter(t, 10)
	if err := db.Create(&model.Post{ID: 1, UserID: 10, Content: "hello"}).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	body := map[string]any{
		"targetType":   consts.TargetTypePost,
		"targetId":     1,
		"reactionType": consts.ReactionLike,
	}

	env := doJSON(t, r, http.MethodPost, "/api/reactions/toggle", body)
	if env.Code != 200 {
		t.Fatalf("expected business code 200, got %d (%s)", env.Code, env.Message)
	}
	var result struct {
		ReactionType string `json:"reactionType"`
		Total        int64  `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if result.ReactionType != consts.ReactionLike || result.Total != 1 {
		t.Fatalf("unexpected toggle result: %+v", result)
	}

	// Same type again toggles off.
	env = doJSON(t, r, http.MethodPost, "/api/reactions/toggle", body)
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if result.ReactionType != "" || result.Total != 0 {
		t.Fatalf("expected toggle-off, got %+v", result)
	}
}

func TestToggleEndpointUnknownTarget(t *testing.T) {
	r, _ := newReactionRouter(t, 10)

	env := doJSON(t, r, http.MethodPost, "/api/reactions/toggle", map[string]any{
		"targetType":   consts.TargetTypePost,
		"targetId":     999,
		"reactionType": consts.ReactionLike,
	})
	if env.Code != 404 {
		t.Fatalf("expected business code 404, got %d (%s)", env.Code, env.Message)
	}
}

func TestSummaryEndpoints(t *testing.T) {
	r, db := newReactionRouter(t, 10)
	if err := db.Create(&model.Post{ID: 1, UserID: 10, Content: "a"}).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	if err := db.Create(&model.Post{ID: 2, UserID: 10, Content: "b"}).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	doJSON(t, r, http.MethodPost, "/api/reactions/toggle", map[string]any{
		"targetType":   consts.TargetTypePost,
		"targetId":     1,
		"reactionType": consts.ReactionLove,
	})

	env := doJSON(t, r, http.MethodGet, "/api/reactions/POST/1", nil)
	var summary struct {
		Total          int64  `json:"total"`
		ViewerReaction string `json:"viewerReaction"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if summary.Total != 1 || summary.ViewerReaction != consts.ReactionLove {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	env = doJSON(t, r, http.MethodPost, "/api/reactions/batch", map[string]any{
		"targetType": consts.TargetTypePost,
		"targetIds":  []uint64{1, 2},
	})
	var batch map[string]struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &batch); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if batch["1"].Total != 1 || batch["2"].Total != 0 {
		t.Fatalf("unexpected batch summaries: %+v", batch)
	}
}
