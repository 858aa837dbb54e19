package mysql

import (
	"encoding/json"
	"time"

	"bizhood/internal/model"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	DB *gorm.DB
}

func (r *BusinessRepository) CountByOwner(ownerID uint64) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Business{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// CreateWithAffiliations 建商家并挂社区关联，同一事务
func (r *BusinessRepository) CreateWithAffiliations(b *model.Business, communityIDs []uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		for _, cid := range communityIDs {
			if err := tx.Create(&model.Affiliation{
				CommunityID: cid,
				BusinessID:  b.ID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BusinessRepository) FindByID(id uint64) (*model.Business, error) {
	var business model.Business
	err := r.DB.First(&business, id).Error
	return &business, err
}

// FindOwned 按 (id, owner) 查询；非本人的商家等同于不存在
func (r *BusinessRepository) FindOwned(id, ownerID uint64) (*model.Business, error) {
	var business model.Business
	err := r.DB.Where("id = ? AND user_id = ?", id, ownerID).First(&business).Error
	return &business, err
}

// Update 部分更新：bio 可选；communityIDs 非 nil 时整体替换关联（空切片清空）
func (r *BusinessRepository) Update(id uint64, bio *string, communityIDs []uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if bio != nil {
			if err := tx.Model(&model.Business{}).
				Where("id = ?", id).
				Update("bio", *bio).Error; err != nil {
				return err
			}
		}
		if communityIDs == nil {
			return nil
		}
		if err := tx.Where("business_id = ?", id).Delete(&model.Affiliation{}).Error; err != nil {
			return err
		}
		for _, cid := range communityIDs {
			if err := tx.Create(&model.Affiliation{
				CommunityID: cid,
				BusinessID:  id,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCascade 删商家：先清关联、认证和未投递的 outbox 事件，再删商家。
// 已投递的事件保留作为历史记录
func (r *BusinessRepository) DeleteCascade(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ?", id).Delete(&model.Affiliation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ?", id).Delete(&model.Verification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ? AND status = 0", id).Delete(&model.VerifyOutbox{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Business{}, id).Error
	})
}

func (r *BusinessRepository) AffiliatedCommunityIDs(businessID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.Model(&model.Affiliation{}).
		Where("business_id = ?", businessID).
		Pluck("community_id", &ids).Error
	return ids, err
}

// VerificationCounts 按 type 分组统计认证数
func (r *BusinessRepository) VerificationCounts(businessID uint64) (map[string]int64, error) {
	type row struct {
		Type  string
		Count int64
	}
	var rows []row
	err := r.DB.Model(&model.Verification{}).
		Select("type, COUNT(*) as count").
		Where("business_id = ?", businessID).
		Group("type").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, re := range rows {
		counts[re.Type] = re.Count
	}
	return counts, nil
}

// CreateVerification 插入认证记录并在同一事务写 outbox 事件
func (r *BusinessRepository) CreateVerification(v *model.Verification) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]any{
			"event_time":  time.Now().UTC().Format(time.RFC3339Nano),
			"business_id": v.BusinessID,
			"user_id":     v.UserID,
			"type":        v.Type,
		})
		return tx.Create(&model.VerifyOutbox{
			EventType:  "verify",
			BusinessID: v.BusinessID,
			UserID:     v.UserID,
			Payload:    string(payload),
			Status:     0,
		}).Error
	})
}

// Newcomers 全局最新商家，按创建时间倒序
func (r *BusinessRepository) Newcomers(n int) ([]model.Business, error) {
	var list []model.Business
	err := r.DB.Order("created_at DESC, id DESC").Limit(n).Find(&list).Error
	return list, err
}

// NewcomersIn 社区范围最新商家。两步查询：先从 affiliation 表取商家 id，
// 再按 id 查商家，避免 join 打乱索引
func (r *BusinessRepository) NewcomersIn(n int, communityIDs []uint64) ([]model.Business, error) {
	if len(communityIDs) == 0 {
		return nil, nil
	}
	var businessIDs []uint64
	if err := r.DB.Model(&model.Affiliation{}).
		Distinct("business_id").
		Where("community_id IN ?", communityIDs).
		Pluck("business_id", &businessIDs).Error; err != nil {
		return nil, err
	}
	if len(businessIDs) == 0 {
		return nil, nil
	}
	var list []model.Business
	err := r.DB.Where("id IN ?", businessIDs).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&list).Error
	return list, err
}
