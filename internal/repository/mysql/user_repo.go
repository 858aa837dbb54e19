package mysql

import (
	"bizhood/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByDeviceID(deviceID string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("device_id = ?", deviceID).First(&user).Error
	return &user, err
}

func (r *UserRepository) CredentialByDeviceID(deviceID string) (*model.Credential, error) {
	var cred model.Credential
	err := r.DB.Where("device_id = ?", deviceID).First(&cred).Error
	return &cred, err
}

// FindCredential 按设备号加用户名/邮箱/手机号查凭证，空字段不参与匹配
func (r *UserRepository) FindCredential(deviceID, username, email, phone string) (*model.Credential, error) {
	q := r.DB.Where("device_id = ?", deviceID)
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if email != "" {
		q = q.Where("email = ?", email)
	}
	if phone != "" {
		q = q.Where("phone = ?", phone)
	}
	var cred model.Credential
	err := q.First(&cred).Error
	return &cred, err
}

// Register 补全用户资料并创建凭证，同一事务内完成
func (r *UserRepository) Register(user *model.User, cred *model.Credential) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if user.ID == 0 {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Save(user).Error; err != nil {
				return err
			}
		}
		cred.UserID = user.ID
		cred.DeviceID = user.DeviceID
		return tx.Create(cred).Error
	})
}

// DeleteCascade 删除用户及其全部下游记录：
// 投票、认证、商家（含 affiliation/verification）、版主、成员关系、凭证，最后删除用户本身
func (r *UserRepository) DeleteCascade(userID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voter_id = ?", userID).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Verification{}).Error; err != nil {
			return err
		}
		// 本人发出的认证删了，对应的未投递事件也不该再发
		if err := tx.Where("user_id = ? AND status = 0", userID).Delete(&model.VerifyOutbox{}).Error; err != nil {
			return err
		}

		var businessIDs []uint64
		if err := tx.Model(&model.Business{}).
			Where("user_id = ?", userID).
			Pluck("id", &businessIDs).Error; err != nil {
			return err
		}
		if len(businessIDs) > 0 {
			if err := tx.Where("business_id IN ?", businessIDs).Delete(&model.Verification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("business_id IN ?", businessIDs).Delete(&model.Affiliation{}).Error; err != nil {
				return err
			}
			if err := tx.Where("business_id IN ? AND status = 0", businessIDs).Delete(&model.VerifyOutbox{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&model.Business{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.Moderator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Credential{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, userID).Error
	})
}
