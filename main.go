// @title Business Diagnostic API
// @version 1.0
// @description Scores business self-assessments and turns the results into a prioritized improvement plan.

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"bizdiag_backend/cmd"
	"os"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
