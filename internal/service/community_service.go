package service

import (
	"errors"

	"bizhood/internal/model"
	"bizhood/internal/pkg"
	"bizhood/internal/repository/mysql"

	"gorm.io/gorm"
)

// CommunityService 社区与成员关系引擎
type CommunityService struct {
	repo  *mysql.CommunityRepository
	users *mysql.UserRepository
}

func NewCommunityService(repo *mysql.CommunityRepository, users *mysql.UserRepository) *CommunityService {
	return &CommunityService{repo: repo, users: users}
}

// CreateCommunity 建社区；创建者自动成为版主和参与者
func (s *CommunityService) CreateCommunity(creatorID uint64, name, desc, redditLink, slug string) (*model.Community, error) {
	if name == "" {
		return nil, pkg.ErrConflict
	}
	if _, err := s.repo.FindByName(name); err == nil {
		return nil, pkg.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	community := &model.Community{
		Name:        name,
		Description: desc,
		RedditLink:  redditLink,
		Slug:        slug,
		CreatorID:   creatorID,
	}
	if err := s.repo.Create(community); err != nil {
		// 并发创建同名社区，由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkg.ErrConflict
		}
		return nil, err
	}
	return community, nil
}

// DeleteCommunity 只有全局 admin 可删；本社区版主也不行。
// 级联清掉版主、成员、商家关联；商家本身保留
func (s *CommunityService) DeleteCommunity(communityID, requesterID uint64) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	requester, err := s.users.FindByID(requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrForbidden
		}
		return err
	}
	if !requester.Admin {
		return pkg.ErrForbidden
	}
	return s.repo.DeleteCascade(communityID)
}

// JoinCommunity 幂等加入
func (s *CommunityService) JoinCommunity(userID, communityID uint64) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	return s.repo.Join(&model.Membership{
		CommunityID: communityID,
		UserID:      userID,
	})
}

func (s *CommunityService) LeaveCommunity(userID, communityID uint64) error {
	return s.repo.Leave(communityID, userID)
}

// MemberCommunityIDs 用户参与的社区 id；空集合正常（匿名/新用户）
func (s *CommunityService) MemberCommunityIDs(userID uint64) ([]uint64, error) {
	return s.repo.MemberCommunityIDs(userID)
}

func (s *CommunityService) ListCommunities(page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(offset, size)
}
