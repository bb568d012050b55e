package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dormops-backend/config"
	"dormops-backend/internal/auth"
	"dormops-backend/internal/db"
	"dormops-backend/internal/email"
	"dormops-backend/internal/model"
	"dormops-backend/internal/store"
)

// testAPI bundles everything a handler test needs.
type testAPI struct {
	router *gin.Engine
	store  store.Store
	db     *gorm.DB
	jwt    *auth.JWTManager
	cfg    *config.Config
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(db.Models...))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Organizer.CallsPerDay = 2
	cfg.Push.PublicKey = "test-public-key"

	appStore := store.NewGormStore(gormDB)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	sender := email.NewSender(&cfg.Email)

	handler := NewHandler(appStore, jwtManager, nil, &cfg.Organizer, &cfg.Push, sender, nil)
	return &testAPI{
		router: NewRouter(cfg, handler),
		store:  appStore,
		db:     gormDB,
		jwt:    jwtManager,
		cfg:    cfg,
	}
}

// seedMember creates a user with the given role in the dorm and returns the
// user and a valid session token.
func (a *testAPI) seedMember(t *testing.T, dormID int64, address string, role model.Role) (model.User, string) {
	t.Helper()
	user := model.User{Email: address, DisplayName: address, PasswordHash: "x"}
	require.NoError(t, a.db.Create(&user).Error)
	require.NoError(t, a.db.Create(&model.DormMembership{
		DormID: dormID, UserID: user.ID, Role: role,
	}).Error)
	token, err := a.jwt.Generate(&user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) seedDorm(t *testing.T) model.Dorm {
	t.Helper()
	dorm := model.Dorm{Slug: "north", Name: "North Hall", Capacity: 120}
	require.NoError(t, a.db.Create(&dorm).Error)
	return dorm
}

func (a *testAPI) seedOccupant(t *testing.T, dormID int64, roster, name string, userID *int64) model.Occupant {
	t.Helper()
	occupant := model.Occupant{
		DormID: dormID, UserID: userID, RosterNumber: roster,
		FullName: name, Status: model.OccupantActive,
	}
	require.NoError(t, a.db.Create(&occupant).Error)
	return occupant
}

// do performs a JSON request against the router. An empty token leaves the
// Authorization header unset.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(blob)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "POST", "/api/auth/register", "", gin.H{
		"email": "asha@example.com", "displayName": "Asha", "password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, "POST", "/api/auth/login", "", gin.H{
		"email": "asha@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	w = a.do(t, "POST", "/api/auth/login", "", gin.H{
		"email": "asha@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, "POST", "/api/auth/register", "", gin.H{
		"email": "asha@example.com", "displayName": "Asha again", "password": "long-enough",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, "POST", "/api/auth/register", "", gin.H{
		"email": "asha@example.com", "displayName": "Asha", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDormRoutesRequireMembership(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)

	// A valid account with no membership in this dorm.
	outsider := model.User{Email: "out@example.com", DisplayName: "Out", PasswordHash: "x"}
	require.NoError(t, a.db.Create(&outsider).Error)
	token, err := a.jwt.Generate(&outsider)
	require.NoError(t, err)

	w := a.do(t, "GET", fmt.Sprintf("/api/dorms/%d/occupants", dorm.ID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, "GET", fmt.Sprintf("/api/dorms/%d/occupants", dorm.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOccupantRoleCannotIssueFine(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, token := a.seedMember(t, dorm.ID, "resident@example.com", model.RoleOccupant)
	occupant := a.seedOccupant(t, dorm.ID, "N-001", "Asha Okello", nil)

	w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines", dorm.ID), token, gin.H{
		"occupantId": occupant.ID, "amount": 500, "reason": "noise",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Denied requests must not write anything.
	var count int64
	require.NoError(t, a.db.Model(&model.Fine{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIssueAndVoidFineFlow(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, treasurer := a.seedMember(t, dorm.ID, "treasurer@example.com", model.RoleTreasurer)
	occupant := a.seedOccupant(t, dorm.ID, "N-001", "Asha Okello", nil)

	w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines", dorm.ID), treasurer, gin.H{
		"occupantId": occupant.ID, "amount": 1500, "reason": "noise after curfew",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var fine model.Fine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fine))
	require.NotNil(t, fine.LedgerEntryID)

	w = a.do(t, "GET", fmt.Sprintf("/api/dorms/%d/occupants/%d/balance", dorm.ID, occupant.ID), treasurer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance struct {
		Balance int64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, int64(-1500), balance.Balance)

	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines/%d/void", dorm.ID, fine.ID), treasurer, gin.H{
		"reason": "issued in error",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines/%d/void", dorm.ID, fine.ID), treasurer, gin.H{
		"reason": "again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Mutations leave an audit trail.
	var audits int64
	require.NoError(t, a.db.Model(&model.AuditLog{}).
		Where("action IN ?", []string{"fine.issue", "fine.void"}).Count(&audits).Error)
	assert.Equal(t, int64(2), audits)
}

func TestVoidFineScopedToDorm(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	other := model.Dorm{Slug: "south", Name: "South Hall", Capacity: 80}
	require.NoError(t, a.db.Create(&other).Error)

	_, otherTreasurer := a.seedMember(t, other.ID, "south-treasurer@example.com", model.RoleTreasurer)
	_, homeTreasurer := a.seedMember(t, dorm.ID, "north-treasurer@example.com", model.RoleTreasurer)
	occupant := a.seedOccupant(t, dorm.ID, "N-001", "Asha Okello", nil)

	w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines", dorm.ID), homeTreasurer, gin.H{
		"occupantId": occupant.ID, "amount": 1500, "reason": "noise after curfew",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var fine model.Fine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fine))

	// Voiding through another dorm's URL must not find the fine.
	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines/%d/void", other.ID, fine.ID), otherTreasurer, gin.H{
		"reason": "not ours",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var current model.Fine
	require.NoError(t, a.db.First(&current, fine.ID).Error)
	assert.False(t, current.Voided)
}

func TestAssignRoomScopedToDorm(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	other := model.Dorm{Slug: "south", Name: "South Hall", Capacity: 80}
	require.NoError(t, a.db.Create(&other).Error)

	_, otherAdmin := a.seedMember(t, other.ID, "south-admin@example.com", model.RoleAdmin)
	occupant := a.seedOccupant(t, dorm.ID, "N-001", "Asha Okello", nil)
	room := model.Room{DormID: dorm.ID, Number: "101", Floor: 1, Capacity: 2}
	require.NoError(t, a.db.Create(&room).Error)

	// An admin of another dorm cannot place this occupant through their own
	// dorm's URL.
	w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/assignments", other.ID), otherAdmin, gin.H{
		"occupantId": occupant.ID, "roomId": room.ID, "startDate": "2026-02-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&model.RoomAssignment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOccupantSeesOnlyOwnFines(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, treasurer := a.seedMember(t, dorm.ID, "treasurer@example.com", model.RoleTreasurer)
	resident, residentToken := a.seedMember(t, dorm.ID, "resident@example.com", model.RoleOccupant)

	mine := a.seedOccupant(t, dorm.ID, "N-001", "Asha Okello", &resident.ID)
	other := a.seedOccupant(t, dorm.ID, "N-002", "Brian Mutua", nil)

	for _, target := range []model.Occupant{mine, other} {
		w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/fines", dorm.ID), treasurer, gin.H{
			"occupantId": target.ID, "amount": 500, "reason": "late trash duty",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := a.do(t, "GET", fmt.Sprintf("/api/dorms/%d/fines", dorm.ID), residentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fines []model.Fine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fines))
	require.Len(t, fines, 1)
	assert.Equal(t, mine.ID, fines[0].OccupantID)

	// The treasurer sees both.
	w = a.do(t, "GET", fmt.Sprintf("/api/dorms/%d/fines", dorm.ID), treasurer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fines))
	assert.Len(t, fines, 2)
}

func TestAddAndVoidLedgerEntry(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, treasurer := a.seedMember(t, dorm.ID, "treasurer@example.com", model.RoleTreasurer)

	w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/ledger", dorm.ID), treasurer, gin.H{
		"category": "maintenance", "amount": -2500,
		"memo": "broken window", "entryDate": "2026-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var entry model.LedgerEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))

	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/ledger", dorm.ID), treasurer, gin.H{
		"category": "snacks", "amount": -100, "entryDate": "2026-03-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/ledger/%d/void", dorm.ID, entry.ID), treasurer, gin.H{
		"reason": "double entry",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/ledger/%d/void", dorm.ID, entry.ID), treasurer, gin.H{
		"reason": "again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCommitteeExpenseMirrorsLedger(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, admin := a.seedMember(t, dorm.ID, "admin@example.com", model.RoleAdmin)

	w := a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/committees", dorm.ID), admin, gin.H{
		"name": "Events Committee",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var committee model.Committee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &committee))

	w = a.do(t, "POST", fmt.Sprintf("/api/dorms/%d/committees/%d/expenses", dorm.ID, committee.ID), admin, gin.H{
		"amount": 3000, "memo": "decorations", "spentAt": "2026-04-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var expense model.CommitteeExpense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))
	require.NotNil(t, expense.LedgerEntryID)

	var entry model.LedgerEntry
	require.NoError(t, a.db.First(&entry, *expense.LedgerEntryID).Error)
	assert.Equal(t, int64(-3000), entry.Amount)
	assert.Equal(t, model.LedgerMaintenance, entry.Category)
}

func TestArchiveSemesterEndpoint(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, admin := a.seedMember(t, dorm.ID, "admin@example.com", model.RoleAdmin)

	semester := model.DormSemester{
		DormID: dorm.ID, Name: "Spring 2026",
		StartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
	require.NoError(t, a.db.Create(&semester).Error)

	path := fmt.Sprintf("/api/dorms/%d/semesters/%d/archive", dorm.ID, semester.ID)
	w := a.do(t, "POST", path, admin, gin.H{"turnover": false})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, "POST", path, admin, gin.H{"turnover": false})
	assert.Equal(t, http.StatusConflict, w.Code)

	var archived model.DormSemester
	require.NoError(t, a.db.First(&archived, semester.ID).Error)
	assert.True(t, archived.Archived)
	assert.False(t, archived.Active)
}

func TestCleaningTaskValidation(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, secretary := a.seedMember(t, dorm.ID, "secretary@example.com", model.RoleSecretary)
	occupant := a.seedOccupant(t, dorm.ID, "N-001", "Asha Okello", nil)

	room := model.Room{DormID: dorm.ID, Number: "101", Floor: 1, Capacity: 4}
	require.NoError(t, a.db.Create(&room).Error)

	path := fmt.Sprintf("/api/dorms/%d/cleaning", dorm.ID)
	w := a.do(t, "POST", path, secretary, gin.H{
		"area": "Kitchen", "weekday": 1, "roomId": room.ID, "occupantId": occupant.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, "POST", path, secretary, gin.H{
		"area": "Kitchen", "weekday": 1, "roomId": room.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var task model.CleaningTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = a.do(t, "DELETE", fmt.Sprintf("%s/%d", path, task.ID), secretary, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	a := newTestAPI(t)
	dorm := a.seedDorm(t)
	_, token := a.seedMember(t, dorm.ID, "resident@example.com", model.RoleOccupant)

	w := a.do(t, "GET", "/api/vapid_public_key", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test-public-key")

	w = a.do(t, "PUT", "/api/subscriptions", token, gin.H{
		"endpoint": "https://push.example.com/sub/1",
		"keys":     gin.H{"p256dh": "key", "auth": "secret"},
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&model.PushSubscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = a.do(t, "DELETE", "/api/subscriptions", token, gin.H{
		"endpoint": "https://push.example.com/sub/1",
	})
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, a.db.Model(&model.PushSubscription{}).Count(&count).Error)
	assert.Zero(t, count)
}
