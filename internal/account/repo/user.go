package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/topup_shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

type UserFilter struct {
	Search string
	Offset int
	Limit  int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) ByUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) ByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Taken reports whether email or username belongs to any profile.
func (r *GormRepo) Taken(ctx context.Context, email, username string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) = LOWER(?) OR LOWER(username) = LOWER(?)", email, username).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) Create(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// Upsert inserts u unless a profile with the same uid exists, then returns
// the stored profile either way.
func (r *GormRepo) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	var stored models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoNothing: true,
		}).Create(u).Error; err != nil {
			return err
		}
		return tx.Where("uid = ?", u.UID).First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GormRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) List(ctx context.Context, f UserFilter) (int64, []models.User, error) {
	apply := func(q *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
			q = q.Where(`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(username) LIKE ? ESCAPE '\')`, like, like)
		}
		return q
	}

	var total int64
	if err := apply(r.DB.WithContext(ctx).Model(&models.User{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	users := []models.User{}
	err := apply(r.DB.WithContext(ctx).Model(&models.User{})).
		Order("created_at DESC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&users).Error
	return total, users, err
}
