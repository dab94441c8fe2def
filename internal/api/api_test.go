package api

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"skyhunt/internal/middleware"
	"skyhunt/internal/repository"
	"skyhunt/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var boardIDPattern = regexp.MustCompile(`data-board="([0-9a-f-]{36})"`)

type testApp struct {
	router  *gin.Engine
	store   *repository.MemoryStore
	coupons *service.CouponService
	profile uuid.UUID
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	sessions := service.NewSessionService(store)
	coupons, err := service.NewCouponService(store, rand.New(rand.NewSource(11)), service.CouponOptions{
		ValidityDays: 30,
		Location:     time.UTC,
	})
	require.NoError(t, err)
	minigame := service.NewMinigameService(coupons, rand.New(rand.NewSource(12)))

	router, err := NewRouter(Deps{
		Sessions: sessions,
		Coupons:  coupons,
		Minigame: minigame,
		Profile: middleware.ProfileConfig{
			CookieName: "profile_id",
			MaxAge:     time.Hour,
		},
		ValidityDays: 30,
	})
	require.NoError(t, err)

	return &testApp{
		router:  router,
		store:   store,
		coupons: coupons,
		profile: uuid.New(),
	}
}

func (a *testApp) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: "profile_id", Value: a.profile.String()})

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	w := a.do(http.MethodPost, "/login", url.Values{"username": {"guest"}, "password": {"pw"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func (a *testApp) openMain(t *testing.T) string {
	t.Helper()
	w := a.do(http.MethodGet, "/main", nil)
	require.Equal(t, http.StatusOK, w.Code)

	m := boardIDPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2)
	return m[1]
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoginPage(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)
	assert.Contains(t, w.Body.String(), "EASTAR JET")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		password       string
		expectedStatus int
		expectLoggedIn bool
	}{
		{name: "Any credentials", username: "someone", password: "anything", expectedStatus: http.StatusSeeOther, expectLoggedIn: true},
		{name: "Empty username", username: "", password: "anything", expectedStatus: http.StatusOK},
		{name: "Empty password", username: "someone", password: "", expectedStatus: http.StatusOK},
		{name: "Both empty", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)

			w := app.do(http.MethodPost, "/login", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectLoggedIn {
				assert.Equal(t, "/main", w.Header().Get("Location"))
			}

			_, err := app.store.Get(context.Background(), service.ProfileKey(app.profile, service.KeyLoggedIn))
			if tt.expectLoggedIn {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, repository.ErrNotFound)
			}
		})
	}
}

func TestGuardedPagesRedirect(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/main", "/coupons"} {
		w := app.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/", w.Header().Get("Location"), path)
	}

	w := app.do(http.MethodGet, "/api/v1/coupons", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMainPageRendersTwoStars(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	w := app.do(http.MethodGet, "/main", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, `class="star"`))
	assert.Contains(t, body, "항공편 검색")
	assert.Contains(t, body, "별을 찾아서 특별한 이벤트에 참여하세요!")
	assert.Contains(t, body, "화면에 숨겨진 별 2개를 찾으면 놀라운 선물이 기다려요 ⭐")
	assert.Regexp(t, boardIDPattern, body)
}

func TestMinigameFlow(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	boardID := app.openMain(t)

	w := app.do(http.MethodPost, "/api/v1/minigame/"+boardID+"/claim", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodPost, "/api/v1/minigame/"+boardID+"/stars/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[FindStarResponse](t, w)
	assert.True(t, first.Changed)
	assert.Equal(t, "one_found", first.State)
	assert.Equal(t, "1/2 찾음", first.Notice)
	assert.False(t, first.CanClaim)

	w = app.do(http.MethodPost, "/api/v1/minigame/"+boardID+"/stars/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[FindStarResponse](t, w)
	assert.False(t, again.Changed)
	assert.Equal(t, "one_found", again.State)

	w = app.do(http.MethodPost, "/api/v1/minigame/"+boardID+"/stars/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[FindStarResponse](t, w)
	assert.Equal(t, "both_found", second.State)
	assert.Equal(t, "다 찾음", second.Notice)
	assert.True(t, second.CanClaim)

	before := time.Now()
	w = app.do(http.MethodPost, "/api/v1/minigame/"+boardID+"/claim", nil)
	require.Equal(t, http.StatusOK, w.Code)
	claimed := decode[BoardResponse](t, w)
	assert.Equal(t, "claimed", claimed.State)
	require.NotNil(t, claimed.Reward)
	assert.WithinDuration(t, before, claimed.Reward.ObtainedAt, 5*time.Second)

	w = app.do(http.MethodPost, "/api/v1/minigame/"+boardID+"/claim", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodGet, "/api/v1/coupons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallet := decode[WalletResponse](t, w)
	require.Len(t, wallet.Available, 1)
	assert.Empty(t, wallet.Used)
	assert.Empty(t, wallet.Expired)
	assert.Equal(t, claimed.Reward.ID, wallet.Available[0].ID)
}

func TestMinigameErrors(t *testing.T) {
	app := newTestApp(t)
	app.login(t)
	boardID := app.openMain(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{name: "Invalid board id", path: "/api/v1/minigame/nope/stars/1", expectedStatus: http.StatusBadRequest},
		{name: "Unknown board", path: "/api/v1/minigame/" + uuid.NewString() + "/stars/1", expectedStatus: http.StatusNotFound},
		{name: "Invalid star id", path: "/api/v1/minigame/" + boardID + "/stars/x", expectedStatus: http.StatusBadRequest},
		{name: "Unknown star", path: "/api/v1/minigame/" + boardID + "/stars/7", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestReloadDiscardsBoard(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	first := app.openMain(t)
	second := app.openMain(t)
	assert.NotEqual(t, first, second)

	w := app.do(http.MethodGet, "/api/v1/minigame/"+first, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/api/v1/minigame/"+second, nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[BoardResponse](t, w)
	assert.Equal(t, "idle", board.State)
	assert.Len(t, board.Stars, 2)
}

func TestCouponsPage(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	w := app.do(http.MethodGet, "/coupons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "아직 쿠폰이 없어요")
	assert.Equal(t, 0, strings.Count(w.Body.String(), `class="coupon"`))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := app.coupons.Award(ctx, app.profile, time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	w = app.do(http.MethodGet, "/coupons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="coupon"`))
	assert.Contains(t, body, "사용 완료 쿠폰 (0)")
	assert.Contains(t, body, "만료된 쿠폰 (0)")
	assert.Contains(t, body, "2024년 1월 1일")
	assert.Contains(t, body, "2024년 1월 31일")
	assert.Contains(t, body, "disabled>쿠폰 사용하기")
}

func TestLogoutKeepsCoupons(t *testing.T) {
	app := newTestApp(t)
	app.login(t)

	_, err := app.coupons.Award(context.Background(), app.profile, time.Now())
	require.NoError(t, err)

	w := app.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/coupons", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	w = app.do(http.MethodGet, "/main", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	app.login(t)
	w = app.do(http.MethodGet, "/api/v1/coupons", nil)
	require.Equal(t, http.StatusOK, w.Code)
	wallet := decode[WalletResponse](t, w)
	assert.Len(t, wallet.Available, 1)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
