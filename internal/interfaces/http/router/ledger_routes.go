package router

import (
	"github.com/finledger/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers of the ledger API
type Handlers struct {
	System      *handler.SystemHandler
	Accounts    *handler.AccountHandler
	Payments    *handler.PaymentHandler
	Invoices    *handler.InvoiceHandler
	Chits       *handler.ChitHandler
	Investments *handler.InvestmentHandler
	Partners    *handler.PartnerHandler
	Reports     *handler.ReportHandler
}

// NewHandlers builds every ledger handler over svc
func NewHandlers(svc handler.LedgerService, limits handler.Limits, system *handler.SystemHandler) Handlers {
	return Handlers{
		System:      system,
		Accounts:    handler.NewAccountHandler(svc),
		Payments:    handler.NewPaymentHandler(svc, limits),
		Invoices:    handler.NewInvoiceHandler(svc, limits),
		Chits:       handler.NewChitHandler(svc),
		Investments: handler.NewInvestmentHandler(svc),
		Partners:    handler.NewPartnerHandler(svc),
		Reports:     handler.NewReportHandler(svc, limits),
	}
}

// Groups returns the versioned route groups of the ledger API
func (h Handlers) Groups() []RouteRegistrar {
	accounts := NewDomainGroup("accounts", "/accounts").
		GET("/balances", h.Accounts.Balances).
		GET("/:mode/balance", h.Accounts.Balance)

	bankAccounts := NewDomainGroup("bank-accounts", "/bank-accounts").
		POST("", h.Accounts.CreateBankAccount).
		POST("/:id/archive", h.Accounts.ArchiveBankAccount)

	openingBalances := NewDomainGroup("opening-balances", "/opening-balances").
		PUT("/:mode", h.Accounts.SetOpeningBalance)

	payments := NewDomainGroup("payments", "/payments").
		POST("", h.Payments.Apply).
		POST("/bulk-delete", h.Payments.BulkDelete).
		PUT("/:id", h.Payments.Edit).
		DELETE("/:id", h.Payments.Reverse)

	invoices := NewDomainGroup("invoices", "/invoices").
		POST("", h.Invoices.Create).
		POST("/bulk", h.Invoices.BulkCreate).
		POST("/bulk-delete", h.Invoices.BulkDelete).
		GET("/:id", h.Invoices.Get).
		POST("/:id/void", h.Invoices.Void).
		DELETE("/:id", h.Invoices.Delete)

	chits := NewDomainGroup("chit-groups", "/chit-groups").
		POST("", h.Chits.CreateGroup).
		GET("/:id/state", h.Chits.State)
	chits.Group("auctions", "/:id/auctions").
		POST("", h.Chits.RecordAuction).
		DELETE("/:auctionId", h.Chits.DeleteAuction)

	investments := NewDomainGroup("investments", "/investments").
		POST("", h.Investments.Create).
		POST("/:id/contributions", h.Investments.RecordContribution).
		GET("/:id/total", h.Investments.Total)

	partners := NewDomainGroup("partners", "").
		POST("/customers", h.Partners.CreateCustomer).
		POST("/liabilities", h.Partners.CreateLiability)

	reports := NewDomainGroup("reports", "").
		GET("/dashboard", h.Reports.Dashboard).
		GET("/audit-logs", h.Reports.AuditLogs).
		POST("/sessions/login", h.Reports.Login).
		POST("/sessions/logout", h.Reports.Logout)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.Info)

	return []RouteRegistrar{
		accounts, bankAccounts, openingBalances, payments, invoices,
		chits, investments, partners, reports, system,
	}
}

// Mount registers /health on the engine root and the ledger API under /api/v1
func Mount(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)
	r := NewRouter(engine, opts...)
	r.Register(h.Groups()...)
	r.Setup()
	return r
}
