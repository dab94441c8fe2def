package api

import (
	"embed"
	"html/template"
	"net/http"

	"skyhunt/internal/middleware"
	"skyhunt/internal/model"
	"skyhunt/internal/service"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type Deps struct {
	Sessions service.SessionServiceI
	Coupons  service.CouponServiceI
	Minigame service.MinigameServiceI

	Profile      middleware.ProfileConfig
	ValidityDays int
}

func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"couponIcon": couponIcon,
	}).ParseFS(templatesFS, "templates/*.tmpl")
}

func couponIcon(t model.CouponType) string {
	switch t {
	case model.CouponTypeUpgrade:
		return "💺"
	case model.CouponTypeTicket:
		return "✈️"
	default:
		return "🎁"
	}
}

// NewRouter registers pages and the /api/v1 group. Extra middleware runs
// before the profile middleware.
func NewRouter(deps Deps, extra ...gin.HandlerFunc) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.Use(extra...)
	router.Use(middleware.Profile(deps.Profile))
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.NewAuthorization(deps.Sessions)
	NewPageRoutes(router, auth, deps.Sessions, deps.Coupons, deps.Minigame, deps.ValidityDays)

	a := router.Group("/api/v1")
	a.Use(auth.RequireAPI())
	NewCouponRoutes(a, deps.Coupons)
	NewMinigameRoutes(a, deps.Minigame)
	NewWSRoutes(a, deps.Sessions, deps.Minigame)

	return router, nil
}
