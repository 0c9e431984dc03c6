package services

import (
	"fmt"

	"github.com/lithofield/geodescribe/internal/config"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Describe     string            `json:"describe"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck reports database reachability and whether the AI description
// client is configured. A missing OpenAI key degrades the describe feature
// but does not make the service unhealthy; everything else still works.
func HealthCheck(cfg *config.Config, db *gorm.DB, describeReady bool) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
	}

	if describeReady {
		result.Describe = "configured"
	} else {
		result.Describe = "missing OPENAI_API_KEY"
	}

	return result
}
