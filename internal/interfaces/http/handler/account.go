package handler

import (
	"github.com/finledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler serves balances and the account setup endpoints
type AccountHandler struct {
	BaseHandler
	svc LedgerService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(svc LedgerService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// BalanceResponse is the balance of one account
type BalanceResponse struct {
	Mode    string          `json:"mode"`
	Balance decimal.Decimal `json:"balance"`
}

// Balances godoc
// @Summary      List account balances
// @Tags         accounts
// @Produce      json
// @Router       /accounts/balances [get]
func (h *AccountHandler) Balances(c *gin.Context) {
	balances, err := h.svc.Balances(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// Balance godoc
// @Summary      Get one account's balance
// @Tags         accounts
// @Produce      json
// @Param        mode path string true "CASH or BANK_<id>"
// @Router       /accounts/{mode}/balance [get]
func (h *AccountHandler) Balance(c *gin.Context) {
	mode := c.Param("mode")
	balance, err := h.svc.Balance(c.Request.Context(), mode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BalanceResponse{Mode: mode, Balance: balance})
}

// CreateBankAccount registers a bank account
func (h *AccountHandler) CreateBankAccount(c *gin.Context) {
	var req dto.BankAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreateBankAccount(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewPlanResponse(plan))
}

// ArchiveBankAccount closes a bank account to new payments
func (h *AccountHandler) ArchiveBankAccount(c *gin.Context) {
	plan, err := h.svc.ArchiveBankAccount(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}

// SetOpeningBalance changes the opening balance of an account
func (h *AccountHandler) SetOpeningBalance(c *gin.Context) {
	var req dto.OpeningBalanceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	plan, err := h.svc.SetOpeningBalance(c.Request.Context(), c.Param("mode"), req.Amount, actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewPlanResponse(plan))
}
