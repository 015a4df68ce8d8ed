// Package controllers file: controllers/payment_controller.go
package controllers

import (
	"net/http"

	"badminton-club/club"
	"badminton-club/fees"
	"badminton-club/logger"
	"badminton-club/models"
	"badminton-club/services"

	"github.com/gin-gonic/gin"
)

// PaymentController serves session fees and the club ledger.
type PaymentController struct {
	ClubService services.ClubServiceInterface
}

// NewPaymentController creates a PaymentController.
func NewPaymentController(service services.ClubServiceInterface) *PaymentController {
	return &PaymentController{ClubService: service}
}

type paymentRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

type transactionRequest struct {
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ---------------- payments ----------------

// List returns the payments the user may see. Totals cover the whole club
// for admins and the user's own payments otherwise.
func (pc *PaymentController) List(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	payments := club.VisiblePayments(pc.ClubService.State().Payments, user)
	scope := user.ID
	if user.IsAdmin() {
		scope = ""
	}
	unpaid := club.UnpaidTotal(payments, scope)
	paid := club.PaidTotal(payments, scope)

	c.JSON(http.StatusOK, gin.H{
		"payments":        payments,
		"unpaidTotal":     unpaid,
		"unpaidTotalText": fees.FormatVND(unpaid),
		"paidTotal":       paid,
		"paidTotalText":   fees.FormatVND(paid),
	})
}

// Update sets the paid flag of a payment.
func (pc *PaymentController) Update(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := pc.ClubService.TogglePayment(c.Request.Context(), user.ID, c.Param("id"), *req.Paid)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info.Printf("[UpdatePayment] %s marked payment %s paid=%t", user.ID, p.ID, p.Paid)
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// ---------------- ledger ----------------

// Transactions returns the ledger with income, expense and balance.
func (pc *PaymentController) Transactions(c *gin.Context) {
	txs := pc.ClubService.State().Transactions
	if txs == nil {
		txs = []models.Transaction{}
	}
	summary := club.LedgerSummary(txs)
	c.JSON(http.StatusOK, gin.H{
		"transactions": txs,
		"summary":      summary,
		"balanceText":  fees.FormatVND(summary.Balance),
	})
}

// AddTransaction records a manual income or expense.
func (pc *PaymentController) AddTransaction(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := pc.ClubService.AddTransaction(c.Request.Context(), user.ID, club.TransactionInput{
		Type:        models.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info.Printf("[AddTransaction] %s recorded %s of %s", user.ID, tx.Type, fees.FormatVND(tx.Amount))
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}
