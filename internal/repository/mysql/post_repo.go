package mysql

import (
	"bizhood/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

// UpdateContents 只改正文，标题创建后不可变
func (r *PostRepository) UpdateContents(id uint64, contents string) (int64, error) {
	tx := r.DB.Model(&model.Post{}).
		Where("id = ?", id).
		Update("contents", contents)
	return tx.RowsAffected, tx.Error
}

// DeleteCascade 删帖子：先清投票再删帖子
func (r *PostRepository) DeleteCascade(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}

func (r *PostRepository) CreateVote(vote *model.Vote) error {
	return r.DB.Create(vote).Error
}

// VoteAmounts 帖子全部投票的 would_pay 值
func (r *PostRepository) VoteAmounts(postID uint64) ([]float64, error) {
	var amounts []float64
	err := r.DB.Model(&model.Vote{}).
		Where("post_id = ?", postID).
		Pluck("would_pay", &amounts).Error
	return amounts, err
}

func (r *PostRepository) ListByCommunity(communityID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.Where("community_id = ?", communityID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
