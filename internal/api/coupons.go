package api

import (
	"net/http"
	"time"

	"skyhunt/internal/middleware"
	"skyhunt/internal/model"
	"skyhunt/internal/service"
	"skyhunt/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type couponRoutes struct {
	cs service.CouponServiceI
}

func NewCouponRoutes(handler *gin.RouterGroup, cs service.CouponServiceI) {
	r := &couponRoutes{cs: cs}
	handler.GET("/coupons", r.GetWallet)
}

type CouponViewResponse struct {
	CouponResponse
	ExpiresAt  time.Time `json:"expiresAt"`
	ObtainedOn string    `json:"obtainedOn"`
	ExpiresOn  string    `json:"expiresOn"`
}

type WalletResponse struct {
	Available []CouponViewResponse `json:"available"`
	Used      []CouponViewResponse `json:"used"`
	Expired   []CouponViewResponse `json:"expired"`
}

func newCouponViews(views []model.CouponView) []CouponViewResponse {
	out := make([]CouponViewResponse, len(views))
	for i, v := range views {
		out[i] = CouponViewResponse{
			CouponResponse: newCouponResponse(v.OwnedCoupon),
			ExpiresAt:      v.ExpiresAt,
			ObtainedOn:     v.ObtainedOn,
			ExpiresOn:      v.ExpiresOn,
		}
	}
	return out
}

func (r *couponRoutes) GetWallet(c *gin.Context) {
	log := logger.Logger()

	profileID, ok := middleware.ProfileID(c)
	if !ok {
		log.Error("profile id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	wallet, err := r.cs.Wallet(c.Request.Context(), profileID)
	if err != nil {
		log.Error("failed to load wallet",
			zap.String("profile_id", profileID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load coupons"})
		return
	}

	c.JSON(http.StatusOK, WalletResponse{
		Available: newCouponViews(wallet.Available),
		Used:      newCouponViews(wallet.Used),
		Expired:   newCouponViews(wallet.Expired),
	})
}
