package service

import (
	"errors"
	"math"
	"sort"

	"bizhood/internal/model"
	"bizhood/internal/pkg"
	"bizhood/internal/repository/mysql"

	"gorm.io/gorm"
)

// PostService 帖子引擎：生命周期 + 投票聚合
type PostService struct {
	repo        *mysql.PostRepository
	communities *mysql.CommunityRepository
}

func NewPostService(repo *mysql.PostRepository, communities *mysql.CommunityRepository) *PostService {
	return &PostService{repo: repo, communities: communities}
}

// VoteStats 投票统计；至少有一票才计算
type VoteStats struct {
	Amount int     `json:"amount"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// PostView 帖子聚合视图；没有投票时 Stats 为 nil
type PostView struct {
	Post  *model.Post `json:"post"`
	Stats *VoteStats  `json:"stats,omitempty"`
}

func (s *PostService) CreatePost(authorID, communityID uint64, name, contents string) (*model.Post, error) {
	if _, err := s.communities.FindByID(communityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	post := &model.Post{
		CommunityID: communityID,
		UserID:      authorID,
		Name:        name,
		Contents:    contents,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(postID uint64) (*PostView, error) {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	amounts, err := s.repo.VoteAmounts(postID)
	if err != nil {
		return nil, err
	}
	view := &PostView{Post: post}
	if len(amounts) > 0 {
		view.Stats = computeStats(amounts)
	}
	return view, nil
}

// EditPost 只改正文
func (s *PostService) EditPost(postID uint64, contents string) error {
	affected, err := s.repo.UpdateContents(postID, contents)
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := s.repo.FindByID(postID); errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
	}
	return nil
}

func (s *PostService) DeletePost(postID uint64) error {
	if _, err := s.repo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	return s.repo.DeleteCascade(postID)
}

// VoteOnPost 无条件插入，允许重复投票
func (s *PostService) VoteOnPost(postID, voterID uint64, wouldPay float64) error {
	if _, err := s.repo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	return s.repo.CreateVote(&model.Vote{
		PostID:   postID,
		VoterID:  voterID,
		WouldPay: wouldPay,
	})
}

func (s *PostService) ListByCommunity(communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, offset, size)
}

func computeStats(amounts []float64) *VoteStats {
	sorted := make([]float64, len(amounts))
	copy(sorted, amounts)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	n := len(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &VoteStats{
		Amount: n,
		Mean:   round2(sum / float64(n)),
		Median: round2(median),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
