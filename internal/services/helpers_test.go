package services

import (
	"testing"

	"github.com/01moynul/storefront-api/internal/store"
	"github.com/01moynul/storefront-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return New(store.New(db), zap.NewNop()), db
}
