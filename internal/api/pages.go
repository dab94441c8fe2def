package api

import (
	"net/http"

	"skyhunt/internal/middleware"
	"skyhunt/internal/model"
	"skyhunt/internal/service"
	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

var searchTabs = []string{"항공", "렌트", "다구간"}

type pageRoutes struct {
	ss service.SessionServiceI
	cs service.CouponServiceI
	ms service.MinigameServiceI

	validityDays int
}

func NewPageRoutes(router *gin.Engine, auth *middleware.Authorization, ss service.SessionServiceI, cs service.CouponServiceI, ms service.MinigameServiceI, validityDays int) {
	r := &pageRoutes{
		ss:           ss,
		cs:           cs,
		ms:           ms,
		validityDays: validityDays,
	}

	router.GET("/", r.LoginPage)
	router.POST("/login", r.Login)
	router.POST("/logout", r.Logout)

	guarded := router.Group("/")
	guarded.Use(auth.RequirePage())
	{
		guarded.GET("/main", r.MainPage)
		guarded.GET("/coupons", r.CouponsPage)
	}
}

func (r *pageRoutes) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"Username": ""})
}

// Login accepts any non-empty username and password. Empty fields simply
// re-render the form.
func (r *pageRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	profileID, ok := middleware.ProfileID(c)
	if !ok {
		log.Error("profile id not found in context")
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}

	username := c.PostForm("username")

	loggedIn, err := r.ss.Login(c.Request.Context(), profileID, username, c.PostForm("password"))
	if err != nil {
		log.Error("failed to log in",
			zap.String("profile_id", profileID.String()),
			zap.Error(err))
	}

	if !loggedIn {
		c.HTML(http.StatusOK, "login.tmpl", gin.H{"Username": username})
		return
	}

	c.Redirect(http.StatusSeeOther, "/main")
}

func (r *pageRoutes) Logout(c *gin.Context) {
	log := logger.Logger()

	if profileID, ok := middleware.ProfileID(c); ok {
		if err := r.ss.Logout(c.Request.Context(), profileID); err != nil {
			log.Error("failed to log out",
				zap.String("profile_id", profileID.String()),
				zap.Error(err))
		}
	}

	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (r *pageRoutes) MainPage(c *gin.Context) {
	profileID, ok := middleware.ProfileID(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	board := r.ms.NewBoard(profileID)

	c.HTML(http.StatusOK, "main.tmpl", gin.H{
		"LoggedIn": true,
		"Board":    newBoardResponse(board),
		"Tabs":     searchTabs,
	})
}

func (r *pageRoutes) CouponsPage(c *gin.Context) {
	log := logger.Logger()

	profileID, ok := middleware.ProfileID(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	wallet, err := r.cs.Wallet(c.Request.Context(), profileID)
	if err != nil {
		log.Error("failed to load wallet",
			zap.String("profile_id", profileID.String()),
			zap.Error(err))
		wallet = &model.Wallet{}
	}

	c.HTML(http.StatusOK, "coupons.tmpl", gin.H{
		"LoggedIn":     true,
		"OnCoupons":    true,
		"Wallet":       wallet,
		"ValidityDays": r.validityDays,
	})
}
