package relational

import (
	"strconv"

	"gorm.io/gorm"

	apperrors "directory-service/pkg/errors"
)

// DistrictSchema represents the database schema for the tbl_district table.
type DistrictSchema struct {
	DistrictID   int64  `gorm:"column:district_id;primaryKey;autoIncrement"`
	DistrictName string `gorm:"column:district_name;size:100"`
}

// TableName specifies the table name for the DistrictSchema model.
func (DistrictSchema) TableName() string {
	return "tbl_district"
}

// PlaceSchema represents the database schema for the tbl_place table.
type PlaceSchema struct {
	PlaceID    int64          `gorm:"column:place_id;primaryKey;autoIncrement"`
	PlaceName  string         `gorm:"column:place_name;size:100"`
	DistrictID int64          `gorm:"column:district_id;index"`
	District   DistrictSchema `gorm:"foreignKey:DistrictID;references:DistrictID"`
}

// TableName specifies the table name for the PlaceSchema model.
func (PlaceSchema) TableName() string {
	return "tbl_place"
}

// UserSchema represents the database schema for the tbl_user table.
type UserSchema struct {
	UserID       int64       `gorm:"column:user_id;primaryKey;autoIncrement"`
	UserName     string      `gorm:"column:user_name;size:100"`
	UserEmail    string      `gorm:"column:user_email;size:255;uniqueIndex"`
	UserPassword string      `gorm:"column:user_password;size:255"`
	UserPhoto    string      `gorm:"column:user_photo;size:255"`
	UserStatus   string      `gorm:"column:user_status;size:20"`
	PlaceID      int64       `gorm:"column:place_id;index"`
	Place        PlaceSchema `gorm:"foreignKey:PlaceID;references:PlaceID"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "tbl_user"
}

// Models lists every schema managed by this package, in creation order.
func Models() []any {
	return []any{&DistrictSchema{}, &PlaceSchema{}, &UserSchema{}}
}

// AutoMigrate creates or updates the directory tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// parseID converts a string id into a row id. Anything but a positive
// integer is reported as apperrors.ErrInvalidID.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, apperrors.ErrInvalidID
	}
	return n, nil
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
