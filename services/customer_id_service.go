package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yeremiapane/opsportal/models"
	"github.com/yeremiapane/opsportal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultCustomerPrefix = "CUS"

var prefixPattern = regexp.MustCompile(`^[A-Z]{2,5}$`)

// ValidPrefix reports whether p is 2 to 5 uppercase ASCII letters.
func ValidPrefix(p string) bool {
	return prefixPattern.MatchString(p)
}

// FormatSequenceID renders prefix and sequence as e.g. CUS0042. Sequences past
// 9999 simply grow wider.
func FormatSequenceID(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// CustomerIDService hands out sequential identifiers per prefix.
type CustomerIDService struct {
	db            *gorm.DB
	defaultPrefix string
}

func NewCustomerIDService(db *gorm.DB, defaultPrefix string) *CustomerIDService {
	if !ValidPrefix(defaultPrefix) {
		defaultPrefix = DefaultCustomerPrefix
	}
	return &CustomerIDService{db: db, defaultPrefix: defaultPrefix}
}

// GenerateCustomerID returns the next identifier for prefix (the default when empty).
func (s *CustomerIDService) GenerateCustomerID(prefix string) (string, error) {
	var id string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = s.NextInTx(tx, prefix)
		return err
	})
	if err != nil {
		return "", txFailure("failed to generate id", err)
	}
	return id, nil
}

// NextInTx allocates the next identifier inside the caller's transaction, so
// the allocation rolls back together with whatever uses it.
func (s *CustomerIDService) NextInTx(tx *gorm.DB, prefix string) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = s.defaultPrefix
	}
	if !ValidPrefix(prefix) {
		return "", invalidArgument("prefix %q must be 2-5 uppercase letters", prefix)
	}

	seed := models.CustomerIDConfig{Prefix: prefix, NextSequence: 1, Active: true}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return "", err
	}

	// the increment takes the row lock; the read below sees our own write
	res := tx.Model(&models.CustomerIDConfig{}).
		Where("prefix = ? AND active = ?", prefix, true).
		Update("next_sequence", gorm.Expr("next_sequence + ?", 1))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", invalidArgument("prefix %s is inactive", prefix)
	}

	var cfg models.CustomerIDConfig
	if err := tx.Where("prefix = ?", prefix).First(&cfg).Error; err != nil {
		return "", err
	}
	return FormatSequenceID(prefix, cfg.NextSequence-1), nil
}

// AddCustomPrefix registers a new prefix starting at sequence 1.
func (s *CustomerIDService) AddCustomPrefix(prefix string) (*models.CustomerIDConfig, error) {
	if !ValidPrefix(prefix) {
		return nil, invalidArgument("prefix %q must be 2-5 uppercase letters", prefix)
	}

	var existing int64
	if err := s.db.Model(&models.CustomerIDConfig{}).Where("prefix = ?", prefix).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, conflict("prefix %s already exists", prefix)
	}

	cfg := models.CustomerIDConfig{Prefix: prefix, NextSequence: 1, Active: true}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoNothing: true,
	}).Create(&cfg)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create prefix: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, conflict("prefix %s already exists", prefix)
	}

	utils.InfoLogger.Printf("Customer ID prefix %s created", prefix)
	return &cfg, nil
}

// ListActivePrefixes returns active prefixes, oldest first.
func (s *CustomerIDService) ListActivePrefixes() ([]models.CustomerIDConfig, error) {
	var out []models.CustomerIDConfig
	err := s.db.Where("active = ?", true).Order("created_at ASC").Order("id ASC").Find(&out).Error
	return out, err
}

// DeactivatePrefix stops a prefix from issuing new identifiers.
func (s *CustomerIDService) DeactivatePrefix(prefix string) error {
	var cfg models.CustomerIDConfig
	err := s.db.Where("prefix = ?", prefix).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("prefix %s not found", prefix)
	}
	if err != nil {
		return err
	}
	if err := s.db.Model(&cfg).Update("active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate prefix: %w", err)
	}
	utils.InfoLogger.Printf("Customer ID prefix %s deactivated", prefix)
	return nil
}
