// internal/app/features/companies/handler.go
package companies

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
)

// Handler owns company administration.
type Handler struct {
	Store  *companystore.Store
	Log    *zap.Logger
	ErrLog *httpjson.ErrorLogger
}

// NewHandler constructs a companies Handler.
func NewHandler(db *mongo.Database, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  companystore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
