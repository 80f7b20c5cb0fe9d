package api

import (
	"net/http"

	"github.com/charles-oliveira/web-2/db"
	"github.com/charles-oliveira/web-2/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// GetTransactions godoc
// @Summary List transactions
// @Description Live transactions of the caller, newest first by default.
// @Tags transactions
// @Produce json
// @Param kind query string false "income or expense"
// @Param category_id query int false "Category ID"
// @Param start_date query string false "Inclusive lower date bound (YYYY-MM-DD)"
// @Param end_date query string false "Inclusive upper date bound (YYYY-MM-DD)"
// @Param payment_method query string false "cash, credit_card, debit_card, bank_transfer or other"
// @Param search query string false "Case-insensitive search in description and source"
// @Param ordering query string false "-date, date, amount, -amount, created_at or -created_at"
// @Param limit query int false "Page size (default 100, max 500)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} models.GetTransactionsResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /transactions [get]
func (h *Handler) GetTransactions(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	f, err := transactionFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var (
		transactions []models.Transaction
		total        int64
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		transactions, err = db.Collect(scope.ListTransactions(ctx, f))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = scope.CountTransactions(ctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GetTransactionsResponse{
		Transactions: models.NewTransactionResponses(transactions),
		Total:        total,
	})
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.CreateTransaction true "Transaction"
// @Success 201 {object} models.TransactionResponse
// @Failure 400 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /transactions [post]
func (h *Handler) CreateTransaction(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req models.CreateTransaction
	if !h.bindJSON(c, &req) {
		return
	}
	transaction, err := scope.CreateTransaction(c.Request.Context(), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewTransactionResponse(transaction))
}

// GetTransaction godoc
// @Summary Get a transaction
// @Description Deleted transactions are returned too, with deleted_at set.
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /transactions/{id} [get]
func (h *Handler) GetTransaction(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	transaction, err := scope.GetTransaction(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewTransactionResponse(transaction))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Fields left out are unchanged.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param transaction body models.UpdateTransaction true "Fields to change"
// @Success 200 {object} models.TransactionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /transactions/{id} [put]
func (h *Handler) UpdateTransaction(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req models.UpdateTransaction
	if !h.bindJSON(c, &req) {
		return
	}
	transaction, err := scope.UpdateTransaction(c.Request.Context(), id, req.Patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewTransactionResponse(transaction))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /transactions/{id} [delete]
func (h *Handler) DeleteTransaction(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := scope.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
