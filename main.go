package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charles-oliveira/web-2/cmd"
	_ "github.com/charles-oliveira/web-2/docs"
)

// @title Personal Finance Ledger API
// @version 1.0
// @description Categories, income and expense transactions, and period summaries per user.
// @BasePath /api/v1

// @SecurityDefinitions.apikey ApiKeyAuth
// @In header
// @Name Authorization
func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
