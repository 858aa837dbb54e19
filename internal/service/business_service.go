package service

import (
	"errors"

	"bizhood/internal/model"
	"bizhood/internal/pkg"
	"bizhood/internal/repository/mysql"

	"gorm.io/gorm"
)

// MaxBusinessesPerOwner 单个用户最多拥有的商家数
const MaxBusinessesPerOwner = 5

// ResolvePolicy 社区 id 列表的解析策略
type ResolvePolicy int

const (
	// ResolveLenient 不存在的 id 静默跳过
	ResolveLenient ResolvePolicy = iota
	// ResolveStrict 任一 id 不存在即失败
	ResolveStrict
)

// BusinessService 商家引擎：生命周期、社区关联、认证
type BusinessService struct {
	repo        *mysql.BusinessRepository
	communities *mysql.CommunityRepository
	users       *mysql.UserRepository
	policy      ResolvePolicy
}

func NewBusinessService(repo *mysql.BusinessRepository, communities *mysql.CommunityRepository, users *mysql.UserRepository) *BusinessService {
	return &BusinessService{
		repo:        repo,
		communities: communities,
		users:       users,
		policy:      ResolveLenient,
	}
}

// WithResolvePolicy 切换解析策略，主要供测试和严格部署使用
func (s *BusinessService) WithResolvePolicy(p ResolvePolicy) *BusinessService {
	s.policy = p
	return s
}

// BusinessView 商家聚合视图：实体 + 关联社区 id + 分类型认证计数
type BusinessView struct {
	Business      *model.Business  `json:"business"`
	CommunityIDs  []uint64         `json:"community_ids"`
	Verifications map[string]int64 `json:"verifications"`
}

func (s *BusinessService) resolveCommunityIDs(ids []uint64) ([]uint64, error) {
	resolved, err := s.communities.ExistingIDs(ids)
	if err != nil {
		return nil, err
	}
	if s.policy == ResolveStrict {
		uniq := make(map[uint64]struct{}, len(ids))
		for _, id := range ids {
			uniq[id] = struct{}{}
		}
		if len(resolved) != len(uniq) {
			return nil, pkg.ErrNotFound
		}
	}
	return resolved, nil
}

// CreateBusiness 需要 enterp 权限；数量封顶；(owner, name) 唯一
func (s *BusinessService) CreateBusiness(ownerID uint64, name, bio string, communityIDs []uint64) (*model.Business, error) {
	owner, err := s.users.FindByID(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrForbidden
		}
		return nil, err
	}
	if !owner.Enterp {
		return nil, pkg.ErrForbidden
	}

	count, err := s.repo.CountByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if count >= MaxBusinessesPerOwner {
		return nil, pkg.ErrTooManyBusinesses
	}

	resolved, err := s.resolveCommunityIDs(communityIDs)
	if err != nil {
		return nil, err
	}

	business := &model.Business{
		UserID: ownerID,
		Name:   name,
		Bio:    bio,
	}
	if err := s.repo.CreateWithAffiliations(business, resolved); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkg.ErrConflict
		}
		return nil, err
	}
	return business, nil
}

// EditBusiness 部分更新。bio 为 nil 不动；communityIDs 为 nil 不动，
// 非 nil（含空切片）整体替换关联集合
func (s *BusinessService) EditBusiness(businessID, requesterID uint64, bio *string, communityIDs []uint64) error {
	if _, err := s.repo.FindOwned(businessID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}

	var resolved []uint64
	if communityIDs != nil {
		r, err := s.resolveCommunityIDs(communityIDs)
		if err != nil {
			return err
		}
		// 空替换也要保留非 nil 语义
		resolved = r
		if resolved == nil {
			resolved = []uint64{}
		}
	}
	return s.repo.Update(businessID, bio, resolved)
}

// DeleteBusiness 仅限所有者；级联清关联与认证
func (s *BusinessService) DeleteBusiness(businessID, requesterID uint64) error {
	if _, err := s.repo.FindOwned(businessID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	return s.repo.DeleteCascade(businessID)
}

// GetBusiness 所有者视角的聚合读取；非所有者一律 NotFound，不泄露存在性
func (s *BusinessService) GetBusiness(businessID, requesterID uint64) (*BusinessView, error) {
	business, err := s.repo.FindOwned(businessID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	communityIDs, err := s.repo.AffiliatedCommunityIDs(businessID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.VerificationCounts(businessID)
	if err != nil {
		return nil, err
	}
	return &BusinessView{
		Business:      business,
		CommunityIDs:  communityIDs,
		Verifications: counts,
	}, nil
}

// VerifyBusiness 任意登录用户可认证；不去重，也不挡自认证
func (s *BusinessService) VerifyBusiness(businessID, authorID uint64, vtype string) error {
	if _, err := s.repo.FindByID(businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	return s.repo.CreateVerification(&model.Verification{
		UserID:     authorID,
		BusinessID: businessID,
		Type:       vtype,
	})
}
