package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

// Revoke records token in the ledger. Revoking the same string twice keeps the
// first entry and succeeds.
func (r *GormRepo) Revoke(ctx context.Context, token string) error {
	row := models.RevokedToken{
		TokenHash: tokens.Sha256Hex(token),
		RevokedAt: time.Now().UTC(),
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *GormRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_hash = ?", tokens.Sha256Hex(token)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
