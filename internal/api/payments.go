package api

import (
	"context"
	"net/http"
	"securepay/internal/domain"
	"securepay/internal/middleware"
	"securepay/internal/utils"
	"securepay/internal/validation"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListLimit caps how many payments a list returns
const ListLimit = 200

// PaymentRepository is the part of the store the payment handlers need
type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *domain.Payment) error
	ListPaymentsByUser(ctx context.Context, userID uint, limit int) ([]domain.Payment, error)
}

// PaymentResponse is the public view of a payment
type PaymentResponse struct {
	ID              string    `json:"id"`
	BeneficiaryName string    `json:"beneficiaryName"`
	Swift           string    `json:"swift"`
	IBAN            string    `json:"iban"`
	Amount          string    `json:"amount"` // Always two decimals, e.g. "100.50"
	Currency        string    `json:"currency"`
	Reference       *string   `json:"reference"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newPaymentResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		BeneficiaryName: p.BeneficiaryName,
		Swift:           p.Swift,
		IBAN:            p.IBAN,
		Amount:          p.Amount.StringFixed(2),
		Currency:        p.Currency,
		Reference:       p.Reference,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
	}
}

type paymentList struct {
	Items []PaymentResponse `json:"items"`
}

// CreatePaymentHandler records a payment for the authenticated user
func CreatePaymentHandler(payments PaymentRepository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		var req validation.PaymentInput
		if !bindAndCheck(c, &req) {
			return
		}

		amount, err := req.Amount.Decimal()
		if err != nil {
			internalError(c, "Failed to create payment", err)
			return
		}
		id, err := utils.NewPaymentID()
		if err != nil {
			internalError(c, "Failed to create payment", err)
			return
		}
		payment := domain.Payment{
			ID:              id,
			UserID:          userID,
			BeneficiaryName: req.BeneficiaryName,
			Swift:           req.Swift,
			IBAN:            req.IBAN,
			Amount:          amount,
			Currency:        req.Currency,
			Status:          domain.PaymentStatusQueued,
		}
		if req.Reference != "" {
			payment.Reference = &req.Reference
		}

		ctx := c.Request.Context()
		if err := payments.CreatePayment(ctx, &payment); err != nil {
			internalError(c, "Failed to create payment", err)
			return
		}
		cache.Delete(ctx, utils.PaymentsCacheKey(userID)) // Invalidate the list cache

		logSecurityEvent(c, "PAYMENT_CREATED", logrus.Fields{
			"payment_id": payment.ID,
			"user_id":    userID,
			"amount":     payment.Amount.StringFixed(2),
			"currency":   payment.Currency,
		})
		c.JSON(http.StatusCreated, gin.H{"paymentId": payment.ID, "status": payment.Status})
	}
}

// ListPaymentsHandler returns the authenticated user's most recent payments, newest first
func ListPaymentsHandler(payments PaymentRepository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := utils.PaymentsCacheKey(userID)

		var cached paymentList
		if cache.Get(ctx, cacheKey, &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}

		rows, err := payments.ListPaymentsByUser(ctx, userID, ListLimit)
		if err != nil {
			internalError(c, "Failed to fetch payments", err)
			return
		}
		resp := paymentList{Items: make([]PaymentResponse, 0, len(rows))}
		for _, p := range rows {
			resp.Items = append(resp.Items, newPaymentResponse(p))
		}
		cache.Set(ctx, cacheKey, resp)
		c.JSON(http.StatusOK, resp)
	}
}
