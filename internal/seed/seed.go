package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	clinicdomain "github.com/SarangTandel5112/care-connects/internal/clinic/domain"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultClinicName = "Main Clinic"
	defaultClinicSlug = "main"
)

// EnsureMainClinic seeds the default clinic for startup bootstrap.
func EnsureMainClinic(db *gorm.DB) error {
	return ensure(db, 0)
}

// EnsureMainClinicWithID seeds the default clinic under a fixed ID, so
// self-hosted deployments can pin the tenant the header middleware falls
// back to.
func EnsureMainClinicWithID(db *gorm.DB, id int64) error {
	return ensure(db, snowflake.ID(id))
}

func ensure(db *gorm.DB, id snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing clinicdomain.Clinic
		err := tx.Where("slug = ?", defaultClinicSlug).Limit(1).Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		if id == 0 {
			node, err := snowflake.NewNode(1)
			if err != nil {
				return err
			}
			id = node.Generate()
		}

		now := time.Now().UTC()
		clinic := clinicdomain.Clinic{
			ID:        id,
			Name:      defaultClinicName,
			Slug:      slug.Make(defaultClinicSlug),
			Metadata:  datatypes.JSONMap{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(&clinic).Error
	})
}
