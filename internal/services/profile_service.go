package services

import (
	"fmt"
	"log"
	"strings"

	"investment-service/internal/models"
	"investment-service/pkg/common"

	"gorm.io/gorm"
)

type ProfileService struct {
	DB     *gorm.DB
	Wallet *WalletService
}

func NewProfileService(db *gorm.DB, wallet *WalletService) *ProfileService {
	return &ProfileService{DB: db, Wallet: wallet}
}

type CreateProfileDTO struct {
	UserId       int
	FullName     string
	Email        string
	PhoneNumber  string
	ReferralCode string // sponsor's code, optional
}

// CreateProfile registers a user's profile and wallet. A valid sponsor code
// links the new user into the sponsor chain; an unknown code is ignored
// rather than failing registration.
func (s *ProfileService) CreateProfile(data CreateProfileDTO) (models.Profile, error) {
	var referredBy *int
	if data.ReferralCode != "" {
		var sponsor models.Profile
		err := s.DB.Where("referral_code = ?", strings.ToUpper(data.ReferralCode)).First(&sponsor).Error
		if err == nil {
			referredBy = &sponsor.UserId
		} else if err != gorm.ErrRecordNotFound {
			return models.Profile{}, err
		} else {
			log.Printf("Profile: unknown referral code %q for user %d", data.ReferralCode, data.UserId)
		}
	}

	profile := models.Profile{
		UserId:       data.UserId,
		FullName:     data.FullName,
		Email:        data.Email,
		PhoneNumber:  data.PhoneNumber,
		ReferralCode: common.GenerateReferralCode(),
		ReferredBy:   referredBy,
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return models.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	if _, err := s.Wallet.CreateWallet(data.UserId); err != nil {
		// Registration is profile+wallet or nothing; a profile without a
		// wallet would break every later money movement.
		if compErr := s.DB.Delete(&profile).Error; compErr != nil {
			log.Printf("COMPENSATION FAILED user=%d profile %d left without wallet: %v", data.UserId, profile.ID, compErr)
		}
		return models.Profile{}, fmt.Errorf("create wallet: %w", err)
	}

	return profile, nil
}

func (s *ProfileService) GetProfile(userId int) (models.Profile, error) {
	var profile models.Profile
	if err := s.DB.Where("user_id = ?", userId).First(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// GetReferrals lists the users directly sponsored by userId.
func (s *ProfileService) GetReferrals(userId int) ([]models.Profile, error) {
	var referrals []models.Profile
	if err := s.DB.Where("referred_by = ?", userId).Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}
