package service

import (
	"context"
	"errors"

	"bizhood/internal/model"
	"bizhood/internal/pkg"
	"bizhood/internal/repository/mysql"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionStore 登录会话写入能力；redis 实现，测试可注入假的
type SessionStore interface {
	Save(ctx context.Context, userID uint64, token string) error
	Delete(ctx context.Context, userID uint64) error
}

// UserService 用户注册、登录、资料
type UserService struct {
	repo        *mysql.UserRepository
	communities *mysql.CommunityRepository
	issuer      *pkg.Issuer
	sessions    SessionStore
}

func NewUserService(repo *mysql.UserRepository, communities *mysql.CommunityRepository, issuer *pkg.Issuer, sessions SessionStore) *UserService {
	return &UserService{repo: repo, communities: communities, issuer: issuer, sessions: sessions}
}

// RegisterInput 注册参数
type RegisterInput struct {
	DeviceID    string
	Username    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Password    string
	Enterp      bool
	Admin       bool
}

// Profile 用户资料 + 参与的社区 id
type Profile struct {
	User         *model.User `json:"user"`
	CommunityIDs []uint64    `json:"community_ids"`
}

// DeviceLogin 按设备号登录；首次接触自动建匿名用户
func (s *UserService) DeviceLogin(ctx context.Context, deviceID string) (*pkg.Pair, error) {
	user, err := s.repo.FindByDeviceID(deviceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &model.User{DeviceID: deviceID}
		if err := s.repo.Create(user); err != nil {
			return nil, err
		}
	}
	if user.Suspended {
		return nil, pkg.ErrForbidden
	}
	return s.issueSession(ctx, user.ID)
}

// Register 完成注册：补全资料并创建凭证；同一设备重复注册报冲突
func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	if _, err := s.repo.CredentialByDeviceID(in.DeviceID); err == nil {
		return pkg.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// 设备用户可能已存在（匿名流程），注册视为补全
	user, err := s.repo.FindByDeviceID(in.DeviceID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		user = &model.User{DeviceID: in.DeviceID}
	}
	user.Username = in.Username
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PhoneNumber = in.PhoneNumber
	user.Email = in.Email
	user.Enterp = in.Enterp
	user.Admin = in.Admin

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	cred := &model.Credential{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Phone:        in.PhoneNumber,
	}
	if err := s.repo.Register(user, cred); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pkg.ErrConflict
		}
		return err
	}
	return nil
}

// Login 凭证登录：设备号 + 用户名/邮箱/手机号任一非空字段匹配
func (s *UserService) Login(ctx context.Context, deviceID, username, email, phone, password string) (*pkg.Pair, error) {
	cred, err := s.repo.FindCredential(deviceID, username, email, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrUnauthenticated
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, pkg.ErrUnauthenticated
	}
	user, err := s.repo.FindByID(cred.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	if user.Suspended {
		return nil, pkg.ErrForbidden
	}
	return s.issueSession(ctx, user.ID)
}

// Refresh 换新令牌对并覆盖会话
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	pair, err := s.issuer.Refresh(refreshToken)
	if err != nil {
		return nil, pkg.ErrUnauthenticated
	}
	claims, err := s.issuer.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, pkg.ErrUnauthenticated
	}
	// 刷新和登录一样要过用户状态检查，封禁或已删号的用户不能续命
	user, err := s.repo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrUnauthenticated
		}
		return nil, err
	}
	if user.Suspended {
		return nil, pkg.ErrForbidden
	}
	if err := s.sessions.Save(ctx, claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

// GetProfile 设备号查资料，带参与社区 id
func (s *UserService) GetProfile(deviceID string) (*Profile, error) {
	user, err := s.repo.FindByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.ErrNotFound
		}
		return nil, err
	}
	ids, err := s.communities.MemberCommunityIDs(user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, CommunityIDs: ids}, nil
}

// DeleteUser 删号：级联清掉全部下游记录并吊销会话
func (s *UserService) DeleteUser(ctx context.Context, userID uint64) error {
	if _, err := s.repo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.ErrNotFound
		}
		return err
	}
	if err := s.repo.DeleteCascade(userID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, userID)
}

func (s *UserService) issueSession(ctx context.Context, userID uint64) (*pkg.Pair, error) {
	pair, err := s.issuer.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, userID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}
