// internal/app/features/members/handler.go
package members

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	userstore "github.com/leadrelay/leadrelay/internal/app/store/users"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
)

// Handler owns user membership administration and the /me endpoint.
type Handler struct {
	Users     *userstore.Store
	Companies *companystore.Store
	Log       *zap.Logger
	ErrLog    *httpjson.ErrorLogger
}

// NewHandler constructs a members Handler.
func NewHandler(db *mongo.Database, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     userstore.New(db),
		Companies: companystore.New(db),
		Log:       logger,
		ErrLog:    errLog,
	}
}
