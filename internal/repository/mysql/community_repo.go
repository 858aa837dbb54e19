package mysql

import (
	"bizhood/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 建社区，同一事务内创建者成为版主和参与者
func (r *CommunityRepository) Create(c *model.Community) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.Moderator{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&model.Membership{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
		}).Error
	})
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	return &community, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	return &community, err
}

func (r *CommunityRepository) List(offset, limit int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// ExistingIDs 过滤出真实存在的社区 id，保持入参顺序
func (r *CommunityRepository) ExistingIDs(ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint64
	if err := r.DB.Model(&model.Community{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, len(found))
	for _, id := range found {
		set[id] = struct{}{}
	}
	resolved := make([]uint64, 0, len(found))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := set[id]; ok {
			resolved = append(resolved, id)
		}
	}
	return resolved, nil
}

// DeleteCascade 删社区：先清版主、成员、商家关联，再删社区本身；商家记录保留
func (r *CommunityRepository) DeleteCascade(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ?", id).Delete(&model.Moderator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Affiliation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Community{}, id).Error
	})
}

// Join 幂等插入：若已存在 (community_id, user_id) 则不报错
func (r *CommunityRepository) Join(m *model.Membership) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "community_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(m).Error
}

func (r *CommunityRepository) Leave(communityID, userID uint64) error {
	return r.DB.Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&model.Membership{}).Error
}

func (r *CommunityRepository) IsMember(communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Membership{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberCommunityIDs 用户参与的社区 id 集合；空集合是正常结果
func (r *CommunityRepository) MemberCommunityIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.Model(&model.Membership{}).
		Where("user_id = ?", userID).
		Pluck("community_id", &ids).Error
	return ids, err
}

func (r *CommunityRepository) IsModerator(communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Moderator{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}
