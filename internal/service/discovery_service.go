package service

import (
	"time"

	"bizhood/internal/model"
	"bizhood/internal/repository/mysql"
)

// DiscoveryService 新商家发现：按用户社区范围查，没有社区则走全局
type DiscoveryService struct {
	businesses  *mysql.BusinessRepository
	communities *mysql.CommunityRepository
}

func NewDiscoveryService(businesses *mysql.BusinessRepository, communities *mysql.CommunityRepository) *DiscoveryService {
	return &DiscoveryService{businesses: businesses, communities: communities}
}

// BusinessListing 列表条目：商家 + 关联社区 id
type BusinessListing struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio"`
	UserID       uint64    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	CommunityIDs []uint64  `json:"community_ids"`
}

func (s *DiscoveryService) listing(businesses []model.Business) ([]BusinessListing, error) {
	out := make([]BusinessListing, 0, len(businesses))
	for i := range businesses {
		b := &businesses[i]
		ids, err := s.businesses.AffiliatedCommunityIDs(b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BusinessListing{
			ID:           b.ID,
			Name:         b.Name,
			Bio:          b.Bio,
			UserID:       b.UserID,
			CreatedAt:    b.CreatedAt,
			CommunityIDs: ids,
		})
	}
	return out, nil
}

// NewcomersForUser 路由决策在这里：有社区走范围查询，没有走全局
func (s *DiscoveryService) NewcomersForUser(userID uint64, n int) ([]BusinessListing, error) {
	communityIDs, err := s.communities.MemberCommunityIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(communityIDs) == 0 {
		return s.ListNewcomersOverall(n)
	}
	return s.ListNewcomers(n, communityIDs)
}

// ListNewcomers 限定社区范围的最新商家
func (s *DiscoveryService) ListNewcomers(n int, communityIDs []uint64) ([]BusinessListing, error) {
	if n <= 0 {
		return []BusinessListing{}, nil
	}
	businesses, err := s.businesses.NewcomersIn(n, communityIDs)
	if err != nil {
		return nil, err
	}
	return s.listing(businesses)
}

// ListNewcomersOverall 全局最新商家
func (s *DiscoveryService) ListNewcomersOverall(n int) ([]BusinessListing, error) {
	if n <= 0 {
		return []BusinessListing{}, nil
	}
	businesses, err := s.businesses.Newcomers(n)
	if err != nil {
		return nil, err
	}
	return s.listing(businesses)
}
